// Package completion generates shell completion scripts for bash, zsh
// and fish from parser configuration.
package completion

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/cmoxiv/wArgs/core"
)

// Option is one completable flag or positional.
type Option struct {
	Flags          []string
	Description    string
	TakesValue     bool
	Choices        []string
	FileCompletion bool
}

// Subcommand groups a subcommand name with its options.
type Subcommand struct {
	Name        string
	Description string
	Options     []Option
}

// Spec is the shell-independent completion model.
type Spec struct {
	Prog          string
	Description   string
	GlobalOptions []Option
	Subcommands   []Subcommand
}

// helpOption is appended to every level.
var helpOption = Option{
	Flags:       []string{"-h", "--help"},
	Description: "Show help message and exit",
}

// Extract builds the completion model from parser configuration.
func Extract(spec *core.ParserSpec) Spec {
	out := Spec{Prog: spec.Prog, Description: spec.Description}
	out.GlobalOptions = extractOptions(spec)
	for _, sc := range spec.Subcommands {
		out.Subcommands = append(out.Subcommands, Subcommand{
			Name:        sc.Name,
			Description: sc.Spec.Description,
			Options:     extractOptions(sc.Spec),
		})
	}
	return out
}

func extractOptions(spec *core.ParserSpec) []Option {
	var out []Option
	for i := range spec.Arguments {
		arg := &spec.Arguments[i]
		if arg.Skip || arg.Hidden {
			continue
		}
		opt := Option{Description: arg.Help}
		if arg.Positional {
			opt.Flags = []string{arg.Name}
		} else {
			opt.Flags = arg.Flags
		}
		switch arg.Action {
		case core.ActionStoreTrue, core.ActionStoreConst, core.ActionCount:
			opt.TakesValue = false
		default:
			opt.TakesValue = true
		}
		for _, c := range arg.Choices {
			opt.Choices = append(opt.Choices, fmt.Sprint(c))
		}
		opt.FileCompletion = isPathHint(arg)
		out = append(out, opt)
	}
	return append(out, helpOption)
}

func isPathHint(arg *core.ArgumentSpec) bool {
	return strings.Contains(strings.ToLower(arg.Name), "path") ||
		strings.Contains(strings.ToLower(arg.Name), "file")
}

// DetectShell names the current shell from $SHELL, defaulting to bash.
func DetectShell() string {
	shell := os.Getenv("SHELL")
	switch {
	case strings.Contains(shell, "zsh"):
		return "zsh"
	case strings.Contains(shell, "fish"):
		return "fish"
	default:
		return "bash"
	}
}

// Generate renders a completion script for the given shell. Empty shell
// means auto-detect.
func Generate(spec *core.ParserSpec, shell string) (string, error) {
	if shell == "" {
		shell = DetectShell()
	}
	model := Extract(spec)
	var tmpl *template.Template
	switch shell {
	case "bash":
		tmpl = bashTemplate
	case "zsh":
		tmpl = zshTemplate
	case "fish":
		tmpl = fishTemplate
	default:
		return "", fmt.Errorf("unknown shell: %s", shell)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, model); err != nil {
		return "", err
	}
	return b.String(), nil
}

// InstallInstructions returns how to enable the generated script.
func InstallInstructions(prog, shell string) string {
	switch shell {
	case "zsh":
		return fmt.Sprintf("Add to ~/.zshrc:\n  eval \"$(%s --completion zsh)\"", prog)
	case "fish":
		return fmt.Sprintf("Save to ~/.config/fish/completions/%s.fish:\n  %s --completion fish > ~/.config/fish/completions/%s.fish", prog, prog, prog)
	default:
		return fmt.Sprintf("Add to ~/.bashrc:\n  eval \"$(%s --completion bash)\"", prog)
	}
}

func flagWords(opts []Option) []string {
	var words []string
	for _, o := range opts {
		for _, f := range o.Flags {
			if strings.HasPrefix(f, "-") {
				words = append(words, f)
			}
		}
	}
	return words
}

var funcs = template.FuncMap{
	"flags": func(opts []Option) string { return strings.Join(flagWords(opts), " ") },
	"subnames": func(subs []Subcommand) string {
		names := make([]string, 0, len(subs))
		for _, s := range subs {
			names = append(names, s.Name)
		}
		return strings.Join(names, " ")
	},
	"join": strings.Join,
	"id": func(s string) string {
		return strings.NewReplacer("-", "_", ".", "_").Replace(s)
	},
	"long": func(o Option) string {
		for _, f := range o.Flags {
			if strings.HasPrefix(f, "--") {
				return strings.TrimPrefix(f, "--")
			}
		}
		return ""
	},
	"short": func(o Option) string {
		for _, f := range o.Flags {
			if strings.HasPrefix(f, "-") && !strings.HasPrefix(f, "--") {
				return strings.TrimPrefix(f, "-")
			}
		}
		return ""
	},
}

var bashTemplate = template.Must(template.New("bash").Funcs(funcs).Parse(`# bash completion for {{.Prog}}
_{{id .Prog}}_completion() {
    local cur prev words cword
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    local global_flags="{{flags .GlobalOptions}}"
    local subcommands="{{subnames .Subcommands}}"

    case "$prev" in
{{- range .GlobalOptions}}{{if .Choices}}
        {{join .Flags "|"}})
            COMPREPLY=( $(compgen -W "{{join .Choices " "}}" -- "$cur") )
            return 0
            ;;
{{- end}}{{end}}
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$global_flags" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$subcommands" -- "$cur") )
}
complete -o default -F _{{id .Prog}}_completion {{.Prog}}
`))

var zshTemplate = template.Must(template.New("zsh").Funcs(funcs).Parse(`#compdef {{.Prog}}
# zsh completion for {{.Prog}}
_{{id .Prog}}() {
    local -a subcommands
    subcommands=(
{{- range .Subcommands}}
        '{{.Name}}:{{.Description}}'
{{- end}}
    )

    _arguments -C \
{{- range .GlobalOptions}}{{if long .}}
        '--{{long .}}{{if .TakesValue}}=:value:{{if .Choices}}({{join .Choices " "}}){{else}}{{if .FileCompletion}}_files{{end}}{{end}}{{end}}[{{.Description}}]' \
{{- end}}{{end}}
        '1:subcommand:->subcommand' \
        '*::args:->args'

    case "$state" in
        subcommand)
            _describe 'subcommand' subcommands
            ;;
    esac
}
_{{id .Prog}} "$@"
`))

var fishTemplate = template.Must(template.New("fish").Funcs(funcs).Parse(`# fish completion for {{.Prog}}
{{- $prog := .Prog}}
{{- range .Subcommands}}
complete -c {{$prog}} -n '__fish_use_subcommand' -a '{{.Name}}' -d '{{.Description}}'
{{- end}}
{{- range .GlobalOptions}}
complete -c {{$prog}}{{with short .}} -s {{.}}{{end}}{{with long .}} -l {{.}}{{end}}{{if .TakesValue}} -r{{end}}{{if .Choices}} -a '{{join .Choices " "}}'{{end}} -d '{{.Description}}'
{{- end}}
`))
