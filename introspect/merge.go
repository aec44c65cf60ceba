package introspect

import (
	"log/slog"
	"reflect"

	"github.com/cmoxiv/wArgs/core"
)

var (
	appMarkerType = reflect.TypeOf(core.App{})
	cmdMarkerType = reflect.TypeOf(core.Cmd{})
	anyType       = reflect.TypeOf((*any)(nil)).Elem()
)

type fieldEntry struct {
	Field reflect.StructField
	Index []int
	// Owner is the struct type the field was declared on, kept for
	// conflict reporting.
	Owner reflect.Type
}

// traverse collects the schema fields of t in resolution order: the
// struct's own fields first, in declaration order, then the fields of
// each embedded mixin struct depth-first. When the same field name
// appears at several levels the nearest declaration wins and deeper ones
// are dropped.
func traverse(t reflect.Type, opts Options) []fieldEntry {
	seen := map[string]fieldEntry{}
	var order []string

	var walk func(st reflect.Type, prefix []int)
	walk = func(st reflect.Type, prefix []int) {
		var embedded []reflect.StructField
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if f.Type == appMarkerType || f.Type == cmdMarkerType {
				continue
			}
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				embedded = append(embedded, f)
				continue
			}
			if !f.IsExported() {
				continue
			}
			index := append(append([]int{}, prefix...), i)
			if prev, ok := seen[f.Name]; ok {
				warnConflict(prev, f, st, opts)
				continue
			}
			seen[f.Name] = fieldEntry{Field: f, Index: index, Owner: st}
			order = append(order, f.Name)
		}
		if !opts.TraverseEmbedded {
			return
		}
		for _, f := range embedded {
			index := append(append([]int{}, prefix...), f.Index[0])
			walk(f.Type, index)
		}
	}
	walk(t, nil)

	out := make([]fieldEntry, 0, len(order))
	for _, name := range order {
		out = append(out, seen[name])
	}
	return out
}

// warnConflict logs one warning when an overridden field disagrees on
// type with the winning declaration. A side typed any is compatible with
// anything and stays silent.
func warnConflict(winner fieldEntry, loser reflect.StructField, loserOwner reflect.Type, opts Options) {
	if !opts.WarnOnConflict {
		return
	}
	if winner.Field.Type == loser.Type {
		return
	}
	if winner.Field.Type == anyType || loser.Type == anyType {
		return
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("field type conflict across embedded structs",
		"field", loser.Name,
		"kept", winner.Field.Type.String(),
		"kept_from", winner.Owner.String(),
		"dropped", loser.Type.String(),
		"dropped_from", loserOwner.String(),
	)
}
