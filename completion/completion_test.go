package completion

import (
	"testing"

	"github.com/chriso345/gore/assert"
	"github.com/chriso345/gore/vital"

	"github.com/cmoxiv/wArgs/core"
)

func sampleSpec() *core.ParserSpec {
	return &core.ParserSpec{
		Prog:        "greet",
		Description: "Greet people.",
		Arguments: []core.ArgumentSpec{
			{Name: "count", Flags: []string{"-c", "--count"}, Help: "How many times"},
			{Name: "loud", Flags: []string{"--loud"}, Action: core.ActionStoreTrue},
			{Name: "mode", Flags: []string{"--mode"}, Choices: []any{"fast", "slow"}},
			{Name: "secret", Flags: []string{"--secret"}, Hidden: true},
		},
		Subcommands: []core.Subcommand{
			{Name: "serve", Spec: &core.ParserSpec{Prog: "serve", Description: "Start the server."}},
		},
	}
}

func TestExtract(t *testing.T) {
	spec := Extract(sampleSpec())

	assert.Equal(t, "greet", spec.Prog)
	// Three visible options plus the implicit help entry.
	assert.Equal(t, 4, len(spec.GlobalOptions))
	assert.Equal(t, 1, len(spec.Subcommands))
	assert.Equal(t, "serve", spec.Subcommands[0].Name)

	count := spec.GlobalOptions[0]
	assert.True(t, count.TakesValue)

	loud := spec.GlobalOptions[1]
	assert.True(t, !loud.TakesValue)

	mode := spec.GlobalOptions[2]
	assert.Equal(t, 2, len(mode.Choices))
}

func TestGenerate_Bash(t *testing.T) {
	script, err := Generate(sampleSpec(), "bash")
	vital.Nil(t, err)

	assert.StringContains(t, script, "_greet_completion")
	assert.StringContains(t, script, "--count")
	assert.StringContains(t, script, "serve")
	assert.StringContains(t, script, "complete -o default -F")
	assert.NotStringContains(t, script, "--secret")
}

func TestGenerate_Zsh(t *testing.T) {
	script, err := Generate(sampleSpec(), "zsh")
	vital.Nil(t, err)

	assert.StringContains(t, script, "#compdef greet")
	assert.StringContains(t, script, "serve:Start the server.")
	assert.StringContains(t, script, "--count")
}

func TestGenerate_Fish(t *testing.T) {
	script, err := Generate(sampleSpec(), "fish")
	vital.Nil(t, err)

	assert.StringContains(t, script, "complete -c greet")
	assert.StringContains(t, script, "-l count")
	assert.StringContains(t, script, "-a 'serve'")
	assert.StringContains(t, script, "fast slow")
}

func TestGenerate_UnknownShell(t *testing.T) {
	_, err := Generate(sampleSpec(), "powershell")
	assert.NotNil(t, err)
}

func TestDetectShell(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/zsh")
	assert.Equal(t, "zsh", DetectShell())

	t.Setenv("SHELL", "/usr/bin/fish")
	assert.Equal(t, "fish", DetectShell())

	t.Setenv("SHELL", "/bin/bash")
	assert.Equal(t, "bash", DetectShell())

	t.Setenv("SHELL", "")
	assert.Equal(t, "bash", DetectShell())
}

func TestInstallInstructions(t *testing.T) {
	assert.StringContains(t, InstallInstructions("greet", "bash"), ".bashrc")
	assert.StringContains(t, InstallInstructions("greet", "zsh"), ".zshrc")
	assert.StringContains(t, InstallInstructions("greet", "fish"), "completions/greet.fish")
}
