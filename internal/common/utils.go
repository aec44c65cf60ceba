package common

import (
	"reflect"
	"strings"
	"unicode"
)

// IsStructPtr checks if the provided value is a pointer to a struct.
func IsStructPtr(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}

// StructType returns the reflect.Type of the underlying struct pointer.
func StructType(v any) reflect.Type {
	return reflect.TypeOf(v).Elem()
}

// KebabCase converts a Go identifier to its kebab-case CLI form.
// CamelCase words are split on upper-case boundaries and underscores
// become hyphens: "OutputFile" -> "output-file", "output_file" -> "output-file".
func KebabCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_':
			b.WriteRune('-')
		case unicode.IsUpper(r):
			// Boundary before an upper rune, unless it continues an
			// acronym run (HTTPPort -> http-port).
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SnakeCase is KebabCase with underscores, used for namespace keys of
// expanded parameters.
func SnakeCase(name string) string {
	return strings.ReplaceAll(KebabCase(name), "-", "_")
}

// ArgsIndexOf returns the index of the first occurrence of s in args, or -1 if not found.
func ArgsIndexOf(args []string, s string) int {
	for i, arg := range args {
		if arg == s {
			return i
		}
	}
	return -1
}
