package wargs

import "github.com/cmoxiv/wArgs/core"

// App is the primary metadata marker for CLI definitions.
//
// Embed it in the root schema struct to define the tool's name, version
// and doc text via struct tags:
//
//	cli := struct {
//	    wargs.App `name:"mytool" version:"1.0.0" doc:"Do the thing."`
//	    ...
//	}{}
type App = core.App

// Cmd marks a nested struct as a subcommand.
//
// Usage:
//
//	cli := struct {
//	    wargs.App `name:"mytool"`
//
//	    Serve struct {
//	        wargs.Cmd `doc:"Start the server."`
//	        Port int
//	    }
//	}{}
//
// The subcommand name defaults to the kebab-cased field name; set a
// `name` tag on the field to override it.
type Cmd = core.Cmd

// Path is a filesystem path parameter. It parses like a string but the
// value is cleaned with filepath rules, and shell completion offers
// files for it.
type Path = core.Path

// Arg is the per-argument override record, normally expressed through
// struct tags rather than constructed directly.
type Arg = core.Arg

// Choicer restricts a parameter to a closed set of values.
//
//	type Mode string
//
//	func (Mode) Choices() []any { return []any{Mode("fast"), Mode("slow")} }
type Choicer = core.Choicer

// Enum selects named constants by member name on the command line.
//
//	type Color int
//
//	func (Color) EnumMembers() []string { return []string{"RED", "GREEN"} }
//	func (Color) EnumMember(name string) (any, bool) { ... }
type Enum = core.Enum

// Documented supplies free-text documentation for a schema struct. The
// text may be written in Google, NumPy or Sphinx docstring style;
// parameter descriptions found in it feed the generated help.
type Documented = core.Documented

// Runner is implemented by schemas and subcommands that execute after
// parsing. Run dispatches to the Runner of the selected command.
type Runner = core.Runner
