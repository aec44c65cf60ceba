package wargs_test

import (
	"bytes"
	stderrs "errors"
	"strings"
	"testing"

	"github.com/chriso345/gore/assert"
	"github.com/chriso345/gore/vital"

	wargs "github.com/cmoxiv/wArgs"
	clierr "github.com/cmoxiv/wArgs/errors"
)

func TestParse_FlagsAndPositional(t *testing.T) {
	cli := struct {
		wargs.App `name:"greet"`

		Name    string `positional:"true"`
		Count   int
		Verbose bool
	}{Count: 1}

	err := wargs.New(&cli).Parse([]string{"Alice", "--count", "5", "--verbose"})
	vital.Nil(t, err)

	assert.Equal(t, "Alice", cli.Name)
	assert.Equal(t, 5, cli.Count)
	assert.True(t, cli.Verbose)
}

func TestParse_DefaultsSurvive(t *testing.T) {
	cli := struct {
		wargs.App `name:"greet"`

		Name  string `positional:"true"`
		Count int
	}{Count: 3}

	err := wargs.New(&cli).Parse([]string{"Bob"})
	vital.Nil(t, err)

	assert.Equal(t, "Bob", cli.Name)
	assert.Equal(t, 3, cli.Count)
}

func TestParse_ShortFlags(t *testing.T) {
	cli := struct {
		wargs.App `name:"greet"`

		Count int `short:"c"`
	}{Count: 1}

	err := wargs.New(&cli).Parse([]string{"-c", "9"})
	vital.Nil(t, err)
	assert.Equal(t, 9, cli.Count)
}

func TestParse_OptionalPointer(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Limit *int
	}{}

	err := wargs.New(&cli).Parse([]string{"--limit", "10"})
	vital.Nil(t, err)
	assert.NotNil(t, cli.Limit)
	assert.Equal(t, 10, *cli.Limit)

	cli.Limit = nil
	err = wargs.New(&cli).Parse([]string{})
	vital.Nil(t, err)
	assert.True(t, cli.Limit == nil)
}

func TestParse_MissingRequiredFlag(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Token string
	}{}

	err := wargs.New(&cli).Parse([]string{})
	assert.NotNil(t, err)
	assert.True(t, stderrs.Is(err, clierr.ErrMissingArg))
}

type mode string

func (mode) Choices() []any {
	return []any{mode("fast"), mode("slow"), mode("auto")}
}

func TestParse_Choicer(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Mode mode
	}{Mode: "auto"}

	err := wargs.New(&cli).Parse([]string{"--mode", "fast"})
	vital.Nil(t, err)
	assert.Equal(t, mode("fast"), cli.Mode)

	err = wargs.New(&cli).Parse([]string{"--mode", "medium"})
	assert.NotNil(t, err)
	assert.StringContains(t, err.Error(), "cannot convert")
}

type level int

const (
	levelLow level = iota
	levelHigh
)

func (level) EnumMembers() []string { return []string{"LOW", "HIGH"} }

func (level) EnumMember(name string) (any, bool) {
	switch name {
	case "LOW":
		return levelLow, true
	case "HIGH":
		return levelHigh, true
	}
	return nil, false
}

func TestParse_Enum(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Level level
	}{Level: levelLow}

	err := wargs.New(&cli).Parse([]string{"--level", "HIGH"})
	vital.Nil(t, err)
	assert.Equal(t, levelHigh, cli.Level)

	err = wargs.New(&cli).Parse([]string{"--level", "HGIH"})
	assert.NotNil(t, err)
	assert.StringContains(t, err.Error(), "did you mean")
}

func TestParse_ChoicesTagOnIntField(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Level int `choices:"1,2,3"`
	}{Level: 1}

	err := wargs.New(&cli).Parse([]string{"--level", "2"})
	vital.Nil(t, err)
	assert.Equal(t, 2, cli.Level)

	err = wargs.New(&cli).Parse([]string{"--level", "5"})
	assert.NotNil(t, err)
	assert.StringContains(t, err.Error(), "cannot convert")
}

func TestParse_SliceAndSet(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Files []string
		Tags  map[string]struct{}
	}{Files: []string{}, Tags: map[string]struct{}{}}

	err := wargs.New(&cli).Parse([]string{"--files", "a.txt", "--files", "b.txt", "--tags", "x", "--tags", "y"})
	vital.Nil(t, err)

	assert.Equal(t, 2, len(cli.Files))
	assert.Equal(t, "a.txt", cli.Files[0])

	assert.Equal(t, 2, len(cli.Tags))
	_, ok := cli.Tags["x"]
	assert.True(t, ok)
}

func TestParse_FixedTuple(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Point [2]float64
	}{Point: [2]float64{0, 0}}

	err := wargs.New(&cli).Parse([]string{"--point", "1.5", "--point", "2.5"})
	vital.Nil(t, err)
	assert.Equal(t, 1.5, cli.Point[0])
	assert.Equal(t, 2.5, cli.Point[1])
}

func TestParse_PathCleaned(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Config wargs.Path
	}{Config: "default.yml"}

	err := wargs.New(&cli).Parse([]string{"--config", "./conf/../app.yml"})
	vital.Nil(t, err)
	assert.Equal(t, wargs.Path("app.yml"), cli.Config)
}

func TestParse_CountAction(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Verbosity int `short:"v" action:"count"`
	}{}

	err := wargs.New(&cli).Parse([]string{"-v", "-v", "-v"})
	vital.Nil(t, err)
	assert.Equal(t, 3, cli.Verbosity)
}

func TestParse_MapExpansion(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Limits map[string]int
	}{Limits: map[string]int{"cpu": 4, "mem": 512}}

	err := wargs.New(&cli).Parse([]string{"--limits-cpu", "8"})
	vital.Nil(t, err)

	assert.Equal(t, 8, cli.Limits["cpu"])
	assert.Equal(t, 512, cli.Limits["mem"])
}

func TestParse_StructExpansion(t *testing.T) {
	type dbConfig struct {
		Host string
		Port int
	}
	cli := struct {
		wargs.App `name:"tool"`

		Db dbConfig `expand:"true"`
	}{Db: dbConfig{Host: "localhost", Port: 5432}}

	err := wargs.New(&cli).Parse([]string{"--db-host", "db.internal"})
	vital.Nil(t, err)

	assert.Equal(t, "db.internal", cli.Db.Host)
	assert.Equal(t, 5432, cli.Db.Port)
}

func TestParse_WithPrefix(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Count int
	}{Count: 1}

	err := wargs.New(&cli, wargs.WithPrefix("fetch")).Parse([]string{"--fetch-count", "4"})
	vital.Nil(t, err)
	assert.Equal(t, 4, cli.Count)
}

type serveCmd struct {
	wargs.Cmd `doc:"Start the server."`

	Port int
	ran  bool
}

func (s *serveCmd) Run() error {
	s.ran = true
	return nil
}

func TestRun_SubcommandDispatch(t *testing.T) {
	cli := struct {
		wargs.App `name:"app"`

		Serve serveCmd
	}{}
	cli.Serve.Port = 8080

	err := wargs.New(&cli).Run([]string{"serve", "--port", "9000"})
	vital.Nil(t, err)

	assert.True(t, cli.Serve.ran)
	assert.Equal(t, 9000, cli.Serve.Port)
}

func TestParse_PositionalAlongsideSubcommands(t *testing.T) {
	cli := struct {
		wargs.App `name:"greet"`

		Name  string `positional:"true"`
		Count int

		Serve serveCmd
	}{Count: 1}
	cli.Serve.Port = 8080

	err := wargs.New(&cli).Parse([]string{"Alice", "--count", "2"})
	vital.Nil(t, err)
	assert.Equal(t, "Alice", cli.Name)
	assert.Equal(t, 2, cli.Count)

	// A token naming a subcommand still routes to it.
	err = wargs.New(&cli).Run([]string{"serve", "--port", "9000"})
	vital.Nil(t, err)
	assert.True(t, cli.Serve.ran)
	assert.Equal(t, 9000, cli.Serve.Port)
}

func TestRun_UnknownSubcommandSuggests(t *testing.T) {
	cli := struct {
		wargs.App `name:"app"`

		Serve serveCmd
	}{}
	cli.Serve.Port = 8080

	err := wargs.New(&cli).Run([]string{"sevre"})
	assert.NotNil(t, err)
	assert.True(t, stderrs.Is(err, clierr.ErrUnknownSubcommand))
	assert.StringContains(t, err.Error(), "serve")
}

func TestRun_NoSubcommandShowsHelp(t *testing.T) {
	cli := struct {
		wargs.App `name:"app"`

		Serve serveCmd
	}{}
	cli.Serve.Port = 8080

	var buf bytes.Buffer
	err := wargs.New(&cli, wargs.WithOutput(&buf)).Run([]string{})
	vital.Nil(t, err)
	assert.StringContains(t, buf.String(), "Usage:")
	assert.StringContains(t, buf.String(), "serve")
}

type migrateCmd struct {
	wargs.Cmd

	Steps int
	ran   bool
}

func (m *migrateCmd) Run() error {
	m.ran = true
	return nil
}

func TestAddCommand(t *testing.T) {
	cli := struct {
		wargs.App `name:"app"`

		Serve serveCmd
	}{}
	cli.Serve.Port = 8080

	extra := &migrateCmd{Steps: 1}
	cmd := wargs.New(&cli)
	cmd.AddCommand("migrate", extra)

	spec, err := cmd.Spec()
	vital.Nil(t, err)
	assert.NotNil(t, spec.Sub("migrate"))

	err = cmd.Run([]string{"migrate", "--steps", "3"})
	vital.Nil(t, err)
	assert.True(t, extra.ran)
	assert.Equal(t, 3, extra.Steps)
}

func TestInvalidate_RebuildsSpec(t *testing.T) {
	cli := struct {
		wargs.App `name:"app"`

		Count int
	}{Count: 1}

	cmd := wargs.New(&cli)
	first, err := cmd.Spec()
	vital.Nil(t, err)

	again, err := cmd.Spec()
	vital.Nil(t, err)
	assert.True(t, first == again)

	cmd.Invalidate()
	rebuilt, err := cmd.Spec()
	vital.Nil(t, err)
	assert.True(t, first != rebuilt)
}

func TestCompletionFlag(t *testing.T) {
	cli := struct {
		wargs.App `name:"app"`

		Count int
	}{Count: 1}

	var buf bytes.Buffer
	err := wargs.New(&cli, wargs.WithOutput(&buf)).Parse([]string{"--completion", "bash"})
	vital.Nil(t, err)
	assert.StringContains(t, buf.String(), "_app_completion")
	assert.StringContains(t, buf.String(), "--count")
}

func TestExplain(t *testing.T) {
	cli := struct {
		wargs.App `name:"app" version:"1.0.0"`

		Name  string `positional:"true"`
		Count int
	}{Count: 1}

	var buf bytes.Buffer
	err := wargs.New(&cli).Explain(&buf)
	vital.Nil(t, err)

	out := buf.String()
	assert.StringContains(t, out, "command app")
	assert.StringContains(t, out, "positional name")
	assert.StringContains(t, out, "flag count")
	assert.StringContains(t, out, "default=1")
}

func TestParse_SkipTag(t *testing.T) {
	cli := struct {
		wargs.App `name:"tool"`

		Name     string `positional:"true"`
		Internal string `skip:"true"`
	}{Internal: "kept"}

	err := wargs.New(&cli).Parse([]string{"Alice"})
	vital.Nil(t, err)
	assert.Equal(t, "kept", cli.Internal)
}

func TestParse_ParseIsIdempotent(t *testing.T) {
	type schema struct {
		wargs.App `name:"greet"`

		Name  string `positional:"true"`
		Count int
	}
	first := schema{Count: 1}
	second := schema{Count: 1}

	args := []string{"Alice", "--count", "5"}
	vital.Nil(t, wargs.New(&first).Parse(args))
	vital.Nil(t, wargs.New(&second).Parse(args))

	assert.Equal(t, first, second)
}

func TestParse_HelpDoesNotRun(t *testing.T) {
	cli := struct {
		wargs.App `name:"greet" doc:"Greet someone."`

		Name string `positional:"true"`
	}{}

	var buf bytes.Buffer
	err := wargs.New(&cli, wargs.WithOutput(&buf)).Parse([]string{"--help"})
	vital.Nil(t, err)
	assert.StringContains(t, buf.String(), "Usage:")
	assert.True(t, strings.Contains(buf.String(), "greet"))
}
