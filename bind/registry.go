package bind

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Factory returns a new zero value of a registered type.
type Factory func() any

type entry struct {
	name    string
	typ     reflect.Type
	factory Factory
}

type enum struct {
	names  []string
	values []reflect.Value
}

// Registry maps type tag names to concrete Go types, and enum types to the
// names of their values. It replaces looking types up by name at runtime.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	byName  map[string]*entry
	enums   map[reflect.Type]*enum
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*entry),
		enums:  make(map[reflect.Type]*enum),
	}
}

// Register makes the type produced by f available under name.
func (r *Registry) Register(name string, f Factory) {
	v := f()
	if v == nil {
		panic("bind: factory for " + name + " returned nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(&entry{name: name, typ: reflect.TypeOf(v), factory: f})
}

// RegisterType registers the type of each sample under its qualified Go
// name (pkg.Type). The short name is indexed too unless another type
// already claimed it. A pointer sample registers the pointer type under
// the name of the type it points to.
func (r *Registry) RegisterType(samples ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		t := reflect.TypeOf(s)
		named := t
		if t.Kind() == reflect.Pointer {
			named = t.Elem()
		}
		e := &entry{name: named.String(), typ: t, factory: zeroFactory(t)}
		r.add(e)
		if short := shortName(e.name); short != e.name {
			if _, taken := r.byName[short]; !taken {
				r.byName[short] = e
			}
		}
	}
}

func (r *Registry) add(e *entry) {
	if old, ok := r.byName[e.name]; ok {
		for i, x := range r.entries {
			if x == old {
				r.entries = append(r.entries[:i], r.entries[i+1:]...)
				break
			}
		}
	}
	r.byName[e.name] = e
	i := sort.Search(len(r.entries), func(i int) bool { return r.entries[i].name >= e.name })
	r.entries = append(r.entries, nil)
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = e
}

func zeroFactory(t reflect.Type) Factory {
	if t.Kind() == reflect.Pointer {
		return func() any { return reflect.New(t.Elem()).Interface() }
	}
	return func() any { return reflect.New(t).Elem().Interface() }
}

func shortName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (reflect.Type, Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	if !ok {
		return nil, nil, false
	}
	return e.typ, e.factory, true
}

// Name returns the name t was registered under.
func (r *Registry) Name(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.typ == t {
			return e.name, true
		}
	}
	return "", false
}

// Implementations returns the registered types assignable to shape,
// ordered by registered name.
func (r *Registry) Implementations(shape reflect.Type) []reflect.Type {
	var out []reflect.Type
	for _, e := range r.candidates(shape) {
		out = append(out, e.typ)
	}
	return out
}

func (r *Registry) candidates(shape reflect.Type) []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entry
	for _, e := range r.entries {
		if e.typ.AssignableTo(shape) || (e.typ.Kind() == reflect.Pointer && e.typ.Elem() == shape) {
			out = append(out, e)
		}
	}
	return out
}

// RegisterEnum records the names of enum values. All values of one Go type
// form one enum; their String methods supply the names.
func (r *Registry) RegisterEnum(values ...fmt.Stringer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range values {
		rv := reflect.ValueOf(v)
		en, ok := r.enums[rv.Type()]
		if !ok {
			en = &enum{}
			r.enums[rv.Type()] = en
		}
		en.names = append(en.names, v.String())
		en.values = append(en.values, rv)
	}
}

func (r *Registry) enum(t reflect.Type) *enum {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enums[t]
}

// EnumName returns the registered name of an enum value.
func (r *Registry) EnumName(v reflect.Value) (string, bool) {
	en := r.enum(v.Type())
	if en == nil {
		return "", false
	}
	for i, x := range en.values {
		if x.Equal(v) {
			return en.names[i], true
		}
	}
	return "", false
}

// EnumNames returns the value names of an enum type in registration order.
func (r *Registry) EnumNames(t reflect.Type) []string {
	en := r.enum(t)
	if en == nil {
		return nil
	}
	return append([]string(nil), en.names...)
}
