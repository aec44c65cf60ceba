package resolve

import (
	stderrs "errors"
	"reflect"
	"strings"
	"testing"

	"github.com/chriso345/gore/assert"

	"github.com/cmoxiv/wArgs/core"
	clierr "github.com/cmoxiv/wArgs/errors"
)

type mode string

func (mode) Choices() []any {
	return []any{mode("fast"), mode("slow"), mode("auto")}
}

type level int

const (
	levelLow level = iota
	levelMid
	levelHigh
)

func (level) EnumMembers() []string { return []string{"LOW", "MID", "HIGH"} }

func (level) EnumMember(name string) (any, bool) {
	switch name {
	case "LOW":
		return levelLow, true
	case "MID":
		return levelMid, true
	case "HIGH":
		return levelHigh, true
	}
	return nil, false
}

type upperString string

func (u *upperString) UnmarshalText(b []byte) error {
	*u = upperString(strings.ToUpper(string(b)))
	return nil
}

type opaque struct{ a, b int }

func TestResolve_BasicTypes(t *testing.T) {
	info := Resolve(reflect.TypeOf(42), nil)
	assert.NotNil(t, info.Converter)

	v, err := info.Converter("17")
	assert.Nil(t, err)
	assert.Equal(t, 17, v)

	info = Resolve(reflect.TypeOf(""), nil)
	v, err = info.Converter("hello")
	assert.Nil(t, err)
	assert.Equal(t, "hello", v)

	info = Resolve(reflect.TypeOf(1.5), nil)
	v, err = info.Converter("2.5")
	assert.Nil(t, err)
	assert.Equal(t, 2.5, v)

	info = Resolve(reflect.TypeOf(true), nil)
	v, err = info.Converter("true")
	assert.Nil(t, err)
	assert.Equal(t, true, v)
}

func TestResolve_ConversionFailure(t *testing.T) {
	info := Resolve(reflect.TypeOf(42), nil)
	_, err := info.Converter("not-a-number")
	assert.NotNil(t, err)
	assert.True(t, stderrs.Is(err, clierr.ErrConversion))
}

func TestResolve_Path(t *testing.T) {
	info := Resolve(reflect.TypeOf(core.Path("")), nil)
	v, err := info.Converter("./a/../b/c")
	assert.Nil(t, err)
	assert.Equal(t, core.Path("b/c"), v.(core.Path))
}

func TestResolve_PathIgnoresRegistryEntries(t *testing.T) {
	reg := NewRegistry()
	reg.Register(reflect.TypeOf(core.Path("")), func(s string) (any, error) {
		return core.Path("hijacked"), nil
	})

	info := Resolve(reflect.TypeOf(core.Path("")), reg)
	v, err := info.Converter("./a/../b/c")
	assert.Nil(t, err)
	assert.Equal(t, core.Path("b/c"), v.(core.Path))
}

func TestResolve_NilType(t *testing.T) {
	info := Resolve(nil, nil)
	assert.True(t, info.Converter == nil)
}

func TestResolve_OptionalPointer(t *testing.T) {
	info := Resolve(reflect.TypeOf((*int)(nil)), nil)
	assert.True(t, info.IsOptional)
	assert.NotNil(t, info.Converter)

	v, err := info.Converter("9")
	assert.Nil(t, err)
	assert.Equal(t, 9, v)
}

func TestResolve_Choicer(t *testing.T) {
	info := Resolve(reflect.TypeOf(mode("")), nil)
	assert.True(t, info.IsLiteral)
	assert.Equal(t, 3, len(info.LiteralValues))

	v, err := info.Converter("fast")
	assert.Nil(t, err)
	assert.Equal(t, mode("fast"), v.(mode))

	_, err = info.Converter("medium")
	assert.NotNil(t, err)
	assert.True(t, stderrs.Is(err, clierr.ErrConversion))
}

func TestResolve_Enum(t *testing.T) {
	info := Resolve(reflect.TypeOf(levelLow), nil)
	assert.True(t, info.IsEnum)

	v, err := info.Converter("HIGH")
	assert.Nil(t, err)
	assert.Equal(t, levelHigh, v.(level))
}

func TestResolve_EnumSuggestion(t *testing.T) {
	info := Resolve(reflect.TypeOf(levelLow), nil)
	_, err := info.Converter("HGIH")
	assert.NotNil(t, err)

	var convErr clierr.ConversionError
	assert.True(t, stderrs.As(err, &convErr))
	assert.Equal(t, "HIGH", convErr.Suggestion)
	assert.StringContains(t, err.Error(), "did you mean")
}

func TestResolve_Slice(t *testing.T) {
	info := Resolve(reflect.TypeOf([]int{}), nil)
	assert.Equal(t, 1, len(info.TypeArgs))
	assert.Equal(t, reflect.TypeOf(0), info.TypeArgs[0])

	v, err := info.Converter("3")
	assert.Nil(t, err)
	assert.Equal(t, 3, v)
}

func TestResolve_Array(t *testing.T) {
	info := Resolve(reflect.TypeOf([2]float64{}), nil)
	assert.Equal(t, 1, len(info.TypeArgs))

	v, err := info.Converter("1.5")
	assert.Nil(t, err)
	assert.Equal(t, 1.5, v)
}

func TestResolve_Set(t *testing.T) {
	info := Resolve(reflect.TypeOf(map[string]struct{}{}), nil)
	assert.Equal(t, 1, len(info.TypeArgs))

	v, err := info.Converter("tag")
	assert.Nil(t, err)
	assert.Equal(t, "tag", v)
}

func TestResolve_Map(t *testing.T) {
	info := Resolve(reflect.TypeOf(map[string]int{}), nil)
	assert.Equal(t, 2, len(info.TypeArgs))

	// The converter targets the value type.
	v, err := info.Converter("7")
	assert.Nil(t, err)
	assert.Equal(t, 7, v)
}

func TestResolve_NamedBasicFallsThroughToRegistry(t *testing.T) {
	type port uint16
	reg := NewRegistry()
	reg.Register(reflect.TypeOf(port(0)), func(s string) (any, error) {
		return port(443), nil
	})

	info := Resolve(reflect.TypeOf(port(0)), reg)
	v, err := info.Converter("anything")
	assert.Nil(t, err)
	assert.Equal(t, port(443), v.(port))
}

func TestResolve_NamedBasicWithoutRegistryUsesKind(t *testing.T) {
	type port uint16
	info := Resolve(reflect.TypeOf(port(0)), NewRegistry())
	v, err := info.Converter("8080")
	assert.Nil(t, err)
	assert.Equal(t, port(8080), v.(port))
}

func TestResolve_TextUnmarshalerFallback(t *testing.T) {
	info := Resolve(reflect.TypeOf(upperString("")), NewRegistry())
	assert.NotNil(t, info.Converter)

	v, err := info.Converter("hello")
	assert.Nil(t, err)
	assert.Equal(t, upperString("HELLO"), v.(upperString))
}

func TestResolve_OpaqueTypeNeverErrors(t *testing.T) {
	info := Resolve(reflect.TypeOf(opaque{}), NewRegistry())
	assert.True(t, info.Converter == nil)
	assert.Equal(t, reflect.TypeOf(opaque{}), info.Origin)
}

func TestRegistry_Lifecycle(t *testing.T) {
	reg := NewRegistry()
	ty := reflect.TypeOf(opaque{})

	assert.True(t, !reg.Has(ty))
	reg.Register(ty, func(s string) (any, error) { return opaque{}, nil })
	assert.True(t, reg.Has(ty))
	assert.Equal(t, 1, reg.Len())

	assert.NotNil(t, reg.Lookup(ty))

	reg.Unregister(ty)
	assert.True(t, !reg.Has(ty))
	assert.Equal(t, 0, reg.Len())

	reg.Register(ty, func(s string) (any, error) { return opaque{}, nil })
	reg.Clear()
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_InterfaceLookup(t *testing.T) {
	reg := NewRegistry()
	stringerType := reflect.TypeOf((*interface{ String() string })(nil)).Elem()
	reg.Register(stringerType, func(s string) (any, error) { return s, nil })

	// core.Path has no String method; a type implementing the interface
	// resolves through the interface entry.
	assert.True(t, reg.Lookup(reflect.TypeOf(core.Path(""))) == nil)
	assert.NotNil(t, reg.Lookup(reflect.TypeOf(core.ArityStar())))
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	reg := Default()
	assert.True(t, reg.Len() > 0)
}
