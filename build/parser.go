package build

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cmoxiv/wArgs/core"
	"github.com/cmoxiv/wArgs/internal/common"
	"github.com/cmoxiv/wArgs/introspect"
	"github.com/cmoxiv/wArgs/resolve"
)

// BuildParserSpec assembles the full parser configuration for an
// extracted schema, recursing into subcommands. prefix, when non-empty,
// is prepended to every generated long flag.
func BuildParserSpec(info *introspect.CommandInfo, reg *resolve.Registry, prefix string) (*core.ParserSpec, error) {
	if reg == nil {
		reg = resolve.Default()
	}

	spec := &core.ParserSpec{
		Prog:        info.Name,
		Version:     info.Version,
		Description: firstSentence(info.Description),
		AddHelp:     true,
	}

	for i := range info.Params {
		rec := &info.Params[i]
		if rec.Kind == core.VarPositional || rec.Kind == core.VarKeyword {
			continue
		}

		if rec.Resolved == nil && rec.Annotation != nil {
			resolved := resolve.Resolve(rec.Annotation, reg)
			rec.Resolved = &resolved
		}

		if exp, args, ok := expandMapParam(rec, reg, prefix); ok {
			spec.Arguments = append(spec.Arguments, args...)
			spec.Expansions = append(spec.Expansions, exp)
			continue
		}
		if rec.Expand {
			exp, args, err := expandStructParam(rec, reg, prefix)
			if err != nil {
				return nil, err
			}
			spec.Arguments = append(spec.Arguments, args...)
			spec.Expansions = append(spec.Expansions, exp)
			continue
		}

		override, err := core.ArgFromTags(rec.FieldName, rec.Tags)
		if err != nil {
			return nil, err
		}
		arg, err := BuildArgument(*rec, override, prefix)
		if err != nil {
			return nil, err
		}
		if arg.Skip {
			continue
		}
		spec.Arguments = append(spec.Arguments, arg)
	}

	for _, sc := range info.Subcommands {
		sub, err := BuildParserSpec(sc.Info, reg, prefix)
		if err != nil {
			return nil, err
		}
		spec.Subcommands = append(spec.Subcommands, core.Subcommand{Name: sc.Name, Spec: sub})
	}

	return spec, nil
}

// firstSentence trims a description to its leading sentence when that
// stays readable, otherwise to its first paragraph.
func firstSentence(desc string) string {
	if desc == "" {
		return ""
	}
	para := strings.SplitN(desc, "\n\n", 2)[0]
	if idx := strings.Index(para, ". "); idx >= 0 && idx < 200 {
		return para[:idx+1]
	}
	return strings.TrimSpace(para)
}

// expandMapParam flattens a map-typed parameter with a non-empty
// string-keyed default into one argument per key. The per-key converter
// comes from the default value's type.
func expandMapParam(rec *core.ParameterRecord, reg *resolve.Registry, prefix string) (core.Expansion, []core.ArgumentSpec, bool) {
	if !rec.HasDefault || rec.Annotation == nil {
		return core.Expansion{}, nil, false
	}
	t := rec.Annotation
	if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
		return core.Expansion{}, nil, false
	}
	if t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0 {
		// Sets stay collection arguments.
		return core.Expansion{}, nil, false
	}
	def := reflect.ValueOf(rec.Default)
	if !def.IsValid() || def.Kind() != reflect.Map || def.Len() == 0 {
		return core.Expansion{}, nil, false
	}

	exp := core.Expansion{Param: rec.Name, Kind: core.ExpandMap, Index: rec.Index, Type: t}
	var args []core.ArgumentSpec

	// Deterministic flag order regardless of map iteration.
	keys := make([]string, 0, def.Len())
	for _, kv := range def.MapKeys() {
		keys = append(keys, kv.String())
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := def.MapIndex(reflect.ValueOf(key).Convert(t.Key())).Interface()
		name := rec.Name + "_" + common.SnakeCase(key)
		flag := flagName(rec.Name, prefix) + "-" + strings.ReplaceAll(common.SnakeCase(key), "_", "-")

		help := fmt.Sprintf("%s[%q]", rec.Name, key)
		if rec.Description != "" {
			help = fmt.Sprintf("%s [%s]", rec.Description, key)
		}
		help += fmt.Sprintf(" (default: %v)", value)

		resolved := resolve.Resolve(reflect.TypeOf(value), reg)
		args = append(args, core.ArgumentSpec{
			Name:    name,
			Flags:   []string{flag},
			Parser:  resolved.Converter,
			Default: value,
			Help:    help,
			Dest:    name,
		})
		exp.Keys = append(exp.Keys, key)
		exp.Names = append(exp.Names, name)
	}
	return exp, args, true
}

// expandStructParam flattens a struct-typed parameter tagged expand into
// one argument per exported sub-field.
func expandStructParam(rec *core.ParameterRecord, reg *resolve.Registry, prefix string) (core.Expansion, []core.ArgumentSpec, error) {
	t := rec.Annotation
	exp := core.Expansion{Param: rec.Name, Kind: core.ExpandStruct, Index: rec.Index, Type: t}
	var args []core.ArgumentSpec

	var def reflect.Value
	if rec.HasDefault {
		def = reflect.ValueOf(rec.Default)
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		sub := core.ParameterRecord{
			Name:       rec.Name + "_" + common.SnakeCase(f.Name),
			FieldName:  rec.FieldName + "." + f.Name,
			Annotation: f.Type,
			Tags:       f.Tag,
			Default:    core.Missing,
		}
		resolved := resolve.Resolve(f.Type, reg)
		sub.Resolved = &resolved
		if def.IsValid() {
			fv := def.Field(i)
			if f.Type.Kind() == reflect.Bool || !fv.IsZero() {
				sub.HasDefault = true
				sub.Default = fv.Interface()
			}
		}
		if d := f.Tag.Get("desc"); d != "" {
			sub.Description = d
		}

		override, err := core.ArgFromTags(sub.FieldName, f.Tag)
		if err != nil {
			return exp, nil, err
		}
		arg, err := BuildArgument(sub, override, prefix)
		if err != nil {
			return exp, nil, err
		}
		if arg.Skip {
			continue
		}
		arg.Dest = sub.Name
		args = append(args, arg)
		exp.Keys = append(exp.Keys, f.Name)
		exp.Names = append(exp.Names, sub.Name)
	}
	return exp, args, nil
}
