package core

import "reflect"

// ParameterKind classifies how a schema field participates in the CLI.
type ParameterKind int

const (
	// PositionalOrKeyword is the default: rendered as a flag.
	PositionalOrKeyword ParameterKind = iota
	// PositionalOnly fields (tagged `positional:"true"`) consume bare tokens.
	PositionalOnly
	// VarPositional fields (slice tagged `variadic:"true"`) would consume
	// the argument tail; they are dropped before configuration building.
	VarPositional
	// KeywordOnly behaves like PositionalOrKeyword; kept for model
	// completeness.
	KeywordOnly
	// VarKeyword fields (map tagged `collect:"true"`) are dropped before
	// configuration building.
	VarKeyword
)

func (k ParameterKind) String() string {
	switch k {
	case PositionalOnly:
		return "positional_only"
	case VarPositional:
		return "var_positional"
	case KeywordOnly:
		return "keyword_only"
	case VarKeyword:
		return "var_keyword"
	default:
		return "positional_or_keyword"
	}
}

// ConvertFunc turns a raw command-line token into a typed value.
type ConvertFunc func(string) (any, error)

// TypeInfo is the result of resolving one field type.
//
// Exactly one of plain/literal/enum/collection classification applies to
// Origin; IsOptional wraps any of them (a pointer field recursively
// resolves its element type and copies the inner classification).
type TypeInfo struct {
	Origin        reflect.Type
	TypeArgs      []reflect.Type
	IsOptional    bool
	IsLiteral     bool
	LiteralValues []any
	IsEnum        bool
	EnumType      reflect.Type
	Converter     ConvertFunc
}

type missing struct{}

func (missing) String() string { return "<MISSING>" }

// Missing is the sentinel default for parameters without one.
// ParameterRecord invariant: HasDefault == (Default != Missing).
var Missing any = missing{}

// ParameterRecord describes one schema field.
type ParameterRecord struct {
	// Name is the canonical snake_case identifier, used as the namespace key.
	Name string
	// FieldName is the original Go field name.
	FieldName string
	// Annotation is the declared field type; nil for untyped (any) fields.
	Annotation reflect.Type
	// Resolved is filled by the type resolver.
	Resolved *TypeInfo
	// Default is the field's initial value, or Missing.
	Default    any
	HasDefault bool
	Kind       ParameterKind
	// Description comes from the desc tag or the parsed doc text.
	Description string
	// Tags holds the raw struct tags for the configuration builder.
	Tags reflect.StructTag
	// Index is the reflect field index path for writing the value back.
	Index []int
	// Expand marks a struct-typed field to be flattened per sub-field.
	Expand bool
}
