// Package resolve turns declared field types into conversion metadata.
//
// Resolution never fails: a type nothing recognizes yields an empty
// TypeInfo with a nil converter, and the value passes through as the raw
// string. Custom converters are looked up in a Registry, which never
// overrides the predeclared basic types.
package resolve

import (
	"reflect"
	"sync"

	"github.com/cmoxiv/wArgs/core"
)

// Registry maps types to custom converters. Lookup first tries the exact
// type, then any registered interface type the target implements, in
// registration order. The zero value is ready to use.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]core.ConvertFunc
	order   []reflect.Type
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[reflect.Type]core.ConvertFunc)}
}

// Register installs fn as the converter for t, replacing any previous
// entry for the same type.
func (r *Registry) Register(t reflect.Type, fn core.ConvertFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[reflect.Type]core.ConvertFunc)
	}
	if _, ok := r.entries[t]; !ok {
		r.order = append(r.order, t)
	}
	r.entries[t] = fn
}

// RegisterFor is Register with the type taken from a sample value.
func (r *Registry) RegisterFor(sample any, fn core.ConvertFunc) {
	r.Register(reflect.TypeOf(sample), fn)
}

// Lookup returns the converter for t, or nil. Exact entries win over
// interface entries.
func (r *Registry) Lookup(t reflect.Type) core.ConvertFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if fn, ok := r.entries[t]; ok {
		return fn
	}
	for _, key := range r.order {
		if key.Kind() == reflect.Interface && t.Implements(key) {
			return r.entries[key]
		}
	}
	return nil
}

// Has reports whether an exact entry for t exists.
func (r *Registry) Has(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[t]
	return ok
}

// Unregister removes the exact entry for t, if any.
func (r *Registry) Unregister(t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[t]; !ok {
		return
	}
	delete(r.entries, t)
	for i, key := range r.order {
		if key == t {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[reflect.Type]core.ConvertFunc)
	r.order = nil
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, pre-populated with the
// builtin converters.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterBuiltins(defaultRegistry)
	})
	return defaultRegistry
}
