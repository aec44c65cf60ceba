// Package errors defines the error taxonomy for wArgs.
//
// Structural problems (bad tag combinations, uninspectable targets) fail
// fast with ConfigError or IntrospectionError. Problems with user input
// surface at parse time as ConversionError or MissingArgError. All types
// support the standard errors.Is/errors.As machinery via the exported
// sentinels.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinels for errors.Is checks against error categories.
var (
	ErrConfig            = stderrors.New("configuration error")
	ErrIntrospection     = stderrors.New("introspection error")
	ErrConversion        = stderrors.New("conversion error")
	ErrMissingArg        = stderrors.New("missing required argument")
	ErrUnknownSubcommand = stderrors.New("unknown subcommand")
)

// ConfigError reports an invalid argument override combination, e.g. a
// hidden positional. Detected eagerly when tags are read, before any
// parser exists.
type ConfigError struct{ Field, Msg string }

func (e ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument configuration for %s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("invalid argument configuration: %s", e.Msg)
}

func (e ConfigError) Is(target error) bool { return target == ErrConfig }

// IntrospectionError indicates a target that cannot be inspected, e.g. a
// non-struct value passed where a schema struct pointer is required.
type IntrospectionError struct{ Target, Msg string }

func (e IntrospectionError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("cannot inspect %s: %s", e.Target, e.Msg)
	}
	return fmt.Sprintf("cannot inspect target: %s", e.Msg)
}

func (e IntrospectionError) Is(target error) bool { return target == ErrIntrospection }

// ConversionError indicates a command-line token that could not be turned
// into the target type. Suggestion, if present, is a close match the user
// may have intended (enum member lookups populate it).
type ConversionError struct {
	Value      string
	Target     string
	Suggestion string
	Err        error
}

func (e ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %q to %s", e.Value, e.Target)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ConversionError) Is(target error) bool { return target == ErrConversion }
func (e ConversionError) Unwrap() error        { return e.Err }

// MissingArgError indicates a required positional or flag was not provided.
type MissingArgError struct{ Field string }

func (e MissingArgError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.Field)
}

func (e MissingArgError) Is(target error) bool { return target == ErrMissingArg }

// UnknownSubcommandError indicates the user invoked a subcommand that does
// not exist. Suggestion, if present, is a close match.
type UnknownSubcommandError struct{ Name, Suggestion string }

func (e UnknownSubcommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown subcommand: %s (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown subcommand: %s", e.Name)
}

func (e UnknownSubcommandError) Is(target error) bool { return target == ErrUnknownSubcommand }

// UnsupportedFieldTypeError indicates a schema field whose parsed value
// could not be assigned back.
type UnsupportedFieldTypeError struct{ Field, Type string }

func (e UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("unsupported type for field %s: %s", e.Field, e.Type)
}

// Helper constructors
func NewConfig(field, msg string) error { return ConfigError{Field: field, Msg: msg} }
func NewIntrospection(target, msg string) error {
	return IntrospectionError{Target: target, Msg: msg}
}

func NewConversion(value, target string, err error) error {
	return ConversionError{Value: value, Target: target, Err: err}
}

func NewConversionSuggest(value, target, suggestion string) error {
	return ConversionError{Value: value, Target: target, Suggestion: suggestion}
}

func NewMissingArg(field string) error { return MissingArgError{Field: field} }
func NewUnknownSubcommand(name, suggestion string) error {
	return UnknownSubcommandError{Name: name, Suggestion: suggestion}
}
func NewUnsupportedField(field, typ string) error {
	return UnsupportedFieldTypeError{Field: field, Type: typ}
}
