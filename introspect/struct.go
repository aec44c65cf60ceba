// Package introspect extracts parameter schemas from declared structs.
//
// A schema is a plain struct: each exported field becomes one parameter
// record carrying its type, initial value and tags. Embedded structs act
// as mixin levels and merge nearest-first; nested structs marked with
// core.Cmd become subcommands.
package introspect

import (
	"log/slog"
	"reflect"

	"github.com/cmoxiv/wArgs/core"
	"github.com/cmoxiv/wArgs/errors"
	"github.com/cmoxiv/wArgs/internal/common"
)

// Options controls extraction.
type Options struct {
	// TraverseEmbedded merges fields of embedded mixin structs. On by
	// default through DefaultOptions.
	TraverseEmbedded bool
	// WarnOnConflict logs when merged levels disagree on a field's type.
	WarnOnConflict bool
	Logger         *slog.Logger
}

func DefaultOptions() Options {
	return Options{TraverseEmbedded: true, WarnOnConflict: true}
}

// SubcommandInfo pairs a subcommand's name with its extracted schema.
type SubcommandInfo struct {
	Name string
	Info *CommandInfo
}

// CommandInfo is the extracted schema of one command level.
type CommandInfo struct {
	Name        string
	Version     string
	Description string
	Doc         DocInfo
	Params      []core.ParameterRecord
	Subcommands []SubcommandInfo
	Type        reflect.Type
	Value       reflect.Value
}

// Sub returns the subcommand schema with the given name, or nil.
func (c *CommandInfo) Sub(name string) *CommandInfo {
	for _, sc := range c.Subcommands {
		if sc.Name == name {
			return sc.Info
		}
	}
	return nil
}

// Param returns the record with the given canonical name, or nil.
func (c *CommandInfo) Param(name string) *core.ParameterRecord {
	for i := range c.Params {
		if c.Params[i].Name == name {
			return &c.Params[i]
		}
	}
	return nil
}

// Extract inspects a schema struct pointer and produces its CommandInfo.
// It fails with an IntrospectionError when target is not a pointer to a
// struct.
func Extract(target any, opts Options) (*CommandInfo, error) {
	if target == nil {
		return nil, errors.NewIntrospection("", "target is nil")
	}
	if !common.IsStructPtr(target) {
		return nil, errors.NewIntrospection(reflect.TypeOf(target).String(), "schema must be a pointer to a struct")
	}
	v := reflect.ValueOf(target).Elem()
	return extract(v.Type(), v, common.KebabCase(v.Type().Name()), opts)
}

func extract(t reflect.Type, v reflect.Value, name string, opts Options) (*CommandInfo, error) {
	info := &CommandInfo{Name: name, Type: t, Value: v}

	if n, ver, doc, ok := appMeta(t); ok {
		if n != "" {
			info.Name = n
		}
		info.Version = ver
		if doc != "" {
			info.Doc = ParseDoc(doc)
		}
	}
	if doc := docText(t, v); doc != "" {
		info.Doc = ParseDoc(doc)
	}
	if info.Doc.Summary != "" {
		info.Description = info.Doc.Summary
	}

	for _, entry := range traverse(t, opts) {
		f := entry.Field

		if sub, ok := subcommandType(f.Type); ok {
			scName := f.Tag.Get("name")
			if scName == "" {
				scName = common.KebabCase(f.Name)
			}
			scValue := fieldValue(v, entry.Index)
			if f.Type.Kind() == reflect.Pointer {
				if scValue.IsNil() {
					scValue.Set(reflect.New(sub))
				}
				scValue = scValue.Elem()
			}
			scInfo, err := extract(sub, scValue, scName, opts)
			if err != nil {
				return nil, err
			}
			info.Subcommands = append(info.Subcommands, SubcommandInfo{Name: scName, Info: scInfo})
			continue
		}

		rec, err := record(entry, v, info.Doc)
		if err != nil {
			return nil, err
		}
		info.Params = append(info.Params, rec)
	}
	return info, nil
}

// record builds one ParameterRecord from a merged field entry.
func record(entry fieldEntry, root reflect.Value, doc DocInfo) (core.ParameterRecord, error) {
	f := entry.Field
	rec := core.ParameterRecord{
		Name:      common.SnakeCase(f.Name),
		FieldName: f.Name,
		Tags:      f.Tag,
		Index:     entry.Index,
		Kind:      fieldKind(f),
		Default:   core.Missing,
	}

	if f.Type != anyType {
		rec.Annotation = f.Type
	}

	fv := fieldValue(root, entry.Index)
	switch {
	case f.Type.Kind() == reflect.Pointer:
		// Optional parameters always have a default, nil included.
		rec.HasDefault = true
		if !fv.IsNil() {
			rec.Default = fv.Elem().Interface()
		} else {
			rec.Default = nil
		}
	case f.Type.Kind() == reflect.Bool:
		rec.HasDefault = true
		rec.Default = fv.Bool()
	case fv.IsValid() && !fv.IsZero():
		rec.HasDefault = true
		rec.Default = fv.Interface()
	}

	if d := f.Tag.Get("desc"); d != "" {
		rec.Description = d
	} else if d, ok := doc.Params[rec.Name]; ok {
		rec.Description = d
	} else if d, ok := doc.Params[f.Name]; ok {
		rec.Description = d
	}

	if v, ok := f.Tag.Lookup("expand"); ok && v != "false" {
		if f.Type.Kind() != reflect.Struct {
			return rec, errors.NewConfig(f.Name, "expand requires a struct field")
		}
		rec.Expand = true
	}
	return rec, nil
}

func fieldKind(f reflect.StructField) core.ParameterKind {
	switch {
	case tagTrue(f.Tag, "variadic"):
		return core.VarPositional
	case tagTrue(f.Tag, "collect"):
		return core.VarKeyword
	case tagTrue(f.Tag, "positional"):
		return core.PositionalOnly
	default:
		return core.PositionalOrKeyword
	}
}

func tagTrue(tag reflect.StructTag, key string) bool {
	v, ok := tag.Lookup(key)
	return ok && v != "false"
}

// fieldValue resolves an index path from the root value.
func fieldValue(root reflect.Value, index []int) reflect.Value {
	v := root
	for _, i := range index {
		v = v.Field(i)
	}
	return v
}

// appMeta reads the core.App marker tags, if the struct carries one.
func appMeta(t reflect.Type) (name, version, doc string, ok bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == appMarkerType {
			return f.Tag.Get("name"), f.Tag.Get("version"), f.Tag.Get("doc"), true
		}
	}
	return "", "", "", false
}

// docText returns the schema's doc text, preferring the Documented
// interface over a doc tag on the Cmd/App marker.
func docText(t reflect.Type, v reflect.Value) string {
	if v.CanAddr() {
		if d, ok := v.Addr().Interface().(core.Documented); ok {
			return d.Doc()
		}
	}
	if d, ok := v.Interface().(core.Documented); ok {
		return d.Doc()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == cmdMarkerType {
			return f.Tag.Get("doc")
		}
	}
	return ""
}

// subcommandType reports whether t (or its pointee) is a struct embedding
// the core.Cmd marker.
func subcommandType(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == cmdMarkerType {
			return t, true
		}
	}
	return nil, false
}
