// Package wargs derives command-line interfaces from plain Go structs.
//
// A schema is an ordinary struct: each exported field becomes a flag or
// positional argument, its type decides how raw tokens convert, its
// initial value becomes the default, and struct tags refine the rest.
// Embedded structs merge their fields in, nested structs marked with
// Cmd become subcommands, and doc text written in Google, NumPy or
// Sphinx style feeds per-argument help.
//
//	cli := struct {
//	    wargs.App `name:"greet" version:"1.0.0" doc:"Greet someone."`
//
//	    Name  string `positional:"true" desc:"Who to greet"`
//	    Count int    `short:"c" desc:"How many times"`
//	    Loud  bool   `desc:"Shout the greeting"`
//	}{Count: 1}
//
//	if err := wargs.Parse(&cli); err != nil {
//	    log.Fatal(err)
//	}
//
// Types resolve in a fixed order: pointers mark optional arguments,
// Choicer implementations restrict values to a closed set, Enum
// implementations select named constants, slices and arrays consume
// several tokens, predeclared basic types parse directly, and anything
// else falls back to a registered converter or encoding.TextUnmarshaler.
// Unrecognized types pass the raw string through untouched.
package wargs
