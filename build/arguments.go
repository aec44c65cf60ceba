// Package build turns extracted schemas into parser configuration and,
// from that, into executable cobra commands.
package build

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/cmoxiv/wArgs/core"
	"github.com/cmoxiv/wArgs/errors"
)

// flagName renders the long flag for a parameter, kebab-cased and
// optionally prefixed.
func flagName(name, prefix string) string {
	kebab := strings.ReplaceAll(name, "_", "-")
	if prefix != "" {
		return "--" + strings.ReplaceAll(prefix, "_", "-") + "-" + kebab
	}
	return "--" + kebab
}

// defaultHelpSuffix formats the "(default: ...)" help addition. Nil and
// missing defaults render nothing.
func defaultHelpSuffix(def any, hasDefault bool) string {
	if !hasDefault || def == nil || def == core.Missing {
		return ""
	}
	if s, ok := def.(string); ok {
		return fmt.Sprintf(" (default: %q)", s)
	}
	return fmt.Sprintf(" (default: %v)", def)
}

// enumDisplayName renders the member list shown in place of a metavar,
// e.g. "{RED,GREEN,BLUE}".
func enumDisplayName(info *core.TypeInfo) string {
	if info == nil || !info.IsEnum || info.EnumType == nil {
		return ""
	}
	e, ok := enumInstance(info.EnumType)
	if !ok {
		return ""
	}
	return "{" + strings.Join(e.EnumMembers(), ",") + "}"
}

// BuildArgument produces the argument configuration for one parameter
// record, applying tag overrides. Validation of the override itself has
// already happened in ArgFromTags; this step only rejects defaults that
// fail their own converter.
func BuildArgument(rec core.ParameterRecord, override *core.Arg, prefix string) (core.ArgumentSpec, error) {
	if override == nil {
		override = &core.Arg{}
	}
	if override.Skip {
		return core.ArgumentSpec{Name: rec.Name, Skip: true}, nil
	}

	spec := core.ArgumentSpec{
		Name:           rec.Name,
		Group:          override.Group,
		ExclusiveGroup: override.Exclusive,
		Hidden:         override.Hidden,
		Positional:     override.Positional || rec.Kind == core.PositionalOnly,
	}

	if !spec.Positional {
		long := flagName(rec.Name, prefix)
		if override.Long != "" {
			long = "--" + override.Long
		}
		if override.Short != "" {
			spec.Flags = append(spec.Flags, "-"+override.Short)
		}
		spec.Flags = append(spec.Flags, long)
	}

	info := rec.Resolved
	if info != nil {
		spec.Parser = info.Converter
	}

	// Plain bool flags are presence toggles.
	if info != nil && info.Origin != nil && info.Origin.Kind() == reflect.Bool &&
		!info.IsOptional && !spec.Positional && override.Action == core.ActionNone {
		spec.Action = core.ActionStoreTrue
		spec.Parser = nil
	}

	if override.Action != core.ActionNone {
		spec.Action = override.Action
		switch spec.Action {
		case core.ActionStoreTrue, core.ActionStoreConst, core.ActionCount:
			spec.Parser = nil
		}
	}
	if spec.Action == core.ActionStoreConst {
		spec.Const = override.Const
	}

	spec.Arity = collectionArity(info, rec.Kind)
	if override.Arity != nil {
		spec.Arity = override.Arity
	}

	if info != nil && info.IsLiteral {
		spec.Choices = append(spec.Choices, info.LiteralValues...)
	}
	if override.Choices != nil {
		// Tag choices are raw tokens; membership is checked after
		// conversion, so they go through the argument's own parser.
		spec.Choices = spec.Choices[:0]
		for _, c := range override.Choices {
			v, err := convertRaw(c, spec.Parser)
			if err != nil {
				return spec, errors.NewConfig(rec.FieldName, fmt.Sprintf("invalid choice %q: %v", c, err))
			}
			spec.Choices = append(spec.Choices, v)
		}
	}

	spec.Required = !rec.HasDefault && !spec.Positional
	if override.Required != nil {
		spec.Required = *override.Required
	}
	switch spec.Action {
	case core.ActionStoreTrue, core.ActionStoreConst, core.ActionCount:
		spec.Required = false
	}

	if rec.HasDefault {
		spec.Default = rec.Default
	}
	if override.DefaultRaw != nil {
		def, err := convertRaw(*override.DefaultRaw, spec.Parser)
		if err != nil {
			return spec, errors.NewConfig(rec.FieldName, fmt.Sprintf("invalid default %q: %v", *override.DefaultRaw, err))
		}
		spec.Default = def
		spec.Required = false
	}
	if override.Env != "" {
		if raw, ok := os.LookupEnv(override.Env); ok {
			def, err := convertRaw(raw, spec.Parser)
			if err != nil {
				return spec, errors.NewConfig(rec.FieldName, fmt.Sprintf("invalid value in $%s: %v", override.Env, err))
			}
			spec.Default = def
			spec.Required = false
		}
	}

	help := rec.Description
	if override.Help != "" {
		help = override.Help
	}
	if help != "" && rec.HasDefault {
		if suffix := defaultHelpSuffix(rec.Default, rec.HasDefault); suffix != "" && !strings.Contains(help, suffix) {
			help += suffix
		}
	}
	spec.Help = help

	if override.Metavar != "" {
		spec.DisplayName = override.Metavar
	} else {
		spec.DisplayName = enumDisplayName(info)
	}

	if prefix != "" {
		// Prefixed flags still store under the plain parameter name.
		spec.Dest = rec.Name
	}
	if override.Dest != "" {
		spec.Dest = override.Dest
	}

	return spec, nil
}

func convertRaw(raw string, parser core.ConvertFunc) (any, error) {
	if parser == nil {
		return raw, nil
	}
	return parser(raw)
}

// collectionArity returns the token count for collection-shaped types:
// slices and sets take zero or more, arrays take exactly their length.
func collectionArity(info *core.TypeInfo, kind core.ParameterKind) *core.Arity {
	if kind == core.VarPositional {
		return core.ArityStar()
	}
	if info == nil || info.Origin == nil {
		return nil
	}
	switch info.Origin.Kind() {
	case reflect.Slice:
		return core.ArityStar()
	case reflect.Array:
		return core.ArityN(info.Origin.Len())
	case reflect.Map:
		if len(info.TypeArgs) == 1 {
			// Set idiom, parsed like a slice.
			return core.ArityStar()
		}
	}
	return nil
}

// enumInstance instantiates t's Enum implementation, trying both the
// value and pointer method sets.
func enumInstance(t reflect.Type) (core.Enum, bool) {
	if e, ok := reflect.New(t).Elem().Interface().(core.Enum); ok {
		return e, true
	}
	if e, ok := reflect.New(t).Interface().(core.Enum); ok {
		return e, true
	}
	return nil, false
}
