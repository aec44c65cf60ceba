package resolve

import (
	"encoding"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/cmoxiv/wArgs/core"
	"github.com/cmoxiv/wArgs/errors"
	"github.com/cmoxiv/wArgs/internal/common"
)

var (
	choicerType     = reflect.TypeOf((*core.Choicer)(nil)).Elem()
	enumType        = reflect.TypeOf((*core.Enum)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	pathType        = reflect.TypeOf(core.Path(""))
)

// Resolve classifies t and attaches a converter. The checks run in a
// fixed order, each short-circuiting the rest:
//
//  1. nil (untyped field)
//  2. pointer (optional wrapper, resolved recursively)
//  3. literal (core.Choicer)
//  4. enum (core.Enum)
//  5. collection (slice, array, map)
//  6. predeclared basic type, plus core.Path
//  7. registry entry
//  8. fallback (encoding.TextUnmarshaler, then named basic kinds)
//
// Resolve never fails. An unrecognized type yields TypeInfo{Origin: t}
// with a nil Converter, and the raw string passes through unconverted.
func Resolve(t reflect.Type, reg *Registry) core.TypeInfo {
	if reg == nil {
		reg = Default()
	}
	return resolve(t, reg)
}

func resolve(t reflect.Type, reg *Registry) core.TypeInfo {
	if t == nil {
		return core.TypeInfo{}
	}

	if t.Kind() == reflect.Pointer {
		info := resolve(t.Elem(), reg)
		info.IsOptional = true
		return info
	}

	if iv, ok := instanceOf(t, choicerType); ok {
		return literalInfo(t, iv.Interface().(core.Choicer).Choices(), reg)
	}

	if iv, ok := instanceOf(t, enumType); ok {
		return enumInfo(t, iv.Interface().(core.Enum))
	}

	// Named collection types (net.IP, uuid.UUID) may carry their own
	// registered converter; only unclaimed ones parse element-wise.
	// core.Path keeps its builtin cleaning converter regardless of
	// registry contents.
	if t.PkgPath() != "" && t != pathType {
		if fn := reg.Lookup(t); fn != nil {
			return core.TypeInfo{Origin: t, Converter: fn}
		}
	}

	switch t.Kind() {
	case reflect.Slice:
		elem := resolve(t.Elem(), reg)
		return core.TypeInfo{Origin: t, TypeArgs: []reflect.Type{t.Elem()}, Converter: elem.Converter}
	case reflect.Array:
		elem := resolve(t.Elem(), reg)
		return core.TypeInfo{Origin: t, TypeArgs: []reflect.Type{t.Elem()}, Converter: elem.Converter}
	case reflect.Map:
		if isSet(t) {
			key := resolve(t.Key(), reg)
			return core.TypeInfo{Origin: t, TypeArgs: []reflect.Type{t.Key()}, Converter: key.Converter}
		}
		val := resolve(t.Elem(), reg)
		return core.TypeInfo{Origin: t, TypeArgs: []reflect.Type{t.Key(), t.Elem()}, Converter: val.Converter}
	}

	if fn := basicConverter(t); fn != nil {
		return core.TypeInfo{Origin: t, Converter: fn}
	}

	if fn := reg.Lookup(t); fn != nil {
		return core.TypeInfo{Origin: t, Converter: fn}
	}

	return fallback(t)
}

// instanceOf returns an addressable instance of t as iface, checking both
// the value and pointer method sets.
func instanceOf(t reflect.Type, iface reflect.Type) (reflect.Value, bool) {
	if t.Implements(iface) {
		return reflect.New(t).Elem(), true
	}
	if reflect.PointerTo(t).Implements(iface) {
		return reflect.New(t), true
	}
	return reflect.Value{}, false
}

// isSet reports whether t is the set idiom map[T]struct{}.
func isSet(t reflect.Type) bool {
	return t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

// literalInfo builds the classification for a closed value set. The raw
// token is converted with the first value's element converter, then
// checked for membership. Conversion happens before validation so that
// e.g. numeric literals compare as numbers, not strings.
func literalInfo(t reflect.Type, choices []any, reg *Registry) core.TypeInfo {
	var elem core.ConvertFunc
	if len(choices) > 0 {
		et := reflect.TypeOf(choices[0])
		if et == t {
			// The values are of the Choicer type itself; going through
			// resolve again would loop.
			if elem = basicConverter(et); elem == nil {
				elem = kindConverterForNamed(et)
			}
		} else {
			elem = resolve(et, reg).Converter
		}
	}
	fn := func(s string) (any, error) {
		v := any(s)
		if elem != nil {
			converted, err := elem(s)
			if err != nil {
				return nil, err
			}
			v = converted
		}
		for _, c := range choices {
			if c == v {
				return v, nil
			}
		}
		return nil, errors.NewConversionSuggest(s, t.String(), closestLiteral(s, choices))
	}
	return core.TypeInfo{Origin: t, IsLiteral: true, LiteralValues: choices, Converter: fn}
}

func closestLiteral(s string, choices []any) string {
	names := make([]string, 0, len(choices))
	for _, c := range choices {
		names = append(names, fmt.Sprint(c))
	}
	return common.ClosestMatch(s, names)
}

// enumInfo builds the classification for a named-constant type. Lookup
// failures carry a close-match suggestion over the member names.
func enumInfo(t reflect.Type, e core.Enum) core.TypeInfo {
	fn := func(s string) (any, error) {
		if v, ok := e.EnumMember(s); ok {
			return v, nil
		}
		return nil, errors.NewConversionSuggest(s, t.String(), common.ClosestMatch(s, e.EnumMembers()))
	}
	return core.TypeInfo{Origin: t, IsEnum: true, EnumType: t, Converter: fn}
}

// basicConverter covers the predeclared types only. Named types with a
// basic kind fall through to the registry so a custom converter can
// claim them; core.Path is the one named exception.
func basicConverter(t reflect.Type) core.ConvertFunc {
	if t == pathType {
		return func(s string) (any, error) {
			return core.Path(filepath.Clean(s)), nil
		}
	}
	if t.PkgPath() != "" {
		return nil
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindConverter(t)
	}
	return nil
}

// kindConverter parses a token according to t's kind and produces a value
// of type t, so that named types assign back without extra conversion.
func kindConverter(t reflect.Type) core.ConvertFunc {
	return func(s string) (any, error) {
		v := reflect.New(t).Elem()
		switch t.Kind() {
		case reflect.Bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errors.NewConversion(s, t.String(), err)
			}
			v.SetBool(b)
		case reflect.String:
			v.SetString(s)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, t.Bits())
			if err != nil {
				return nil, errors.NewConversion(s, t.String(), err)
			}
			v.SetInt(n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(s, 10, t.Bits())
			if err != nil {
				return nil, errors.NewConversion(s, t.String(), err)
			}
			v.SetUint(n)
		case reflect.Float32, reflect.Float64:
			f, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return nil, errors.NewConversion(s, t.String(), err)
			}
			v.SetFloat(f)
		default:
			return nil, errors.NewConversion(s, t.String(), nil)
		}
		return v.Interface(), nil
	}
}

// fallback is the last stop for unclaimed types. encoding.TextUnmarshaler
// wins; then named types with a basic underlying kind get the kind
// converter; everything else stays opaque.
func fallback(t reflect.Type) core.TypeInfo {
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		fn := func(s string) (any, error) {
			v := reflect.New(t)
			if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return nil, errors.NewConversion(s, t.String(), err)
			}
			return v.Elem().Interface(), nil
		}
		return core.TypeInfo{Origin: t, Converter: fn}
	}
	if fn := kindConverterForNamed(t); fn != nil {
		return core.TypeInfo{Origin: t, Converter: fn}
	}
	return core.TypeInfo{Origin: t}
}

func kindConverterForNamed(t reflect.Type) core.ConvertFunc {
	switch t.Kind() {
	case reflect.Bool,
		reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindConverter(t)
	}
	return nil
}
