package core

// These empty structs serve as declarative annotations embedded within
// user-defined schema structs. The introspection logic uses reflection to
// detect these markers and adjust behavior accordingly.
//
// They carry no data or methods themselves and are not meant to be tested
// directly, but rather through the functionality that consumes them.

// === META TAGS ===

// App is the root metadata marker. Embed it in the schema struct and set
// metadata via struct tags:
//
//	cli := struct {
//	    core.App `name:"mytool" version:"1.2.3" doc:"Do the thing."`
//	    ...
//	}{}
type App struct{}

// Cmd marks a nested struct field as a subcommand. An explicit subcommand
// name may be provided via the marker's `name` tag; otherwise the
// kebab-cased field name is used.
type Cmd struct{}

// === SCHEMA CONTRACTS ===

// Path is the filesystem-path basic type. It parses like a string but is
// cleaned with path/filepath rules.
type Path string

// Choicer is implemented by types that are a closed set of literal
// constants. Choices returns the allowed values in declaration order; the
// first value's type decides how raw tokens are converted.
type Choicer interface {
	Choices() []any
}

// Enum is implemented by named-constant types whose values are selected by
// member name on the command line. EnumMembers returns the member names in
// declaration order; EnumMember resolves a name (case-sensitive) to its
// value.
type Enum interface {
	EnumMembers() []string
	EnumMember(name string) (any, bool)
}

// Documented supplies free-text documentation for a schema struct. The
// text may use any of the recognized docstring dialects; per-parameter
// descriptions found in it fill fields that lack a desc tag.
type Documented interface {
	Doc() string
}

// Runner is implemented by schema or subcommand structs that can be
// executed after parsing.
type Runner interface {
	Run() error
}
