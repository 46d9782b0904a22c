package format

import (
	"math"
	"reflect"
	"strings"

	"github.com/dhamidi/notation/bind"
)

// Plain converts v into maps, slices, strings, numbers and booleans, naming
// record members the way Stringify does. Cycles become nil. The JSON and
// YAML encoders use it so every output format agrees on member names.
func Plain(v any, opts ...Option) any {
	p := NewPrinter(opts...)
	return p.plain(reflect.ValueOf(v))
}

func (p *Printer) plain(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() != reflect.Interface && !(v.Kind() == reflect.Pointer && v.IsNil()) && v.CanInterface() {
		if m, ok := asMarshaler(v); ok {
			text, err := m.MarshalNotation()
			if err != nil {
				return nil
			}
			return string(text)
		}
		if p.enums != nil {
			if name, ok := p.enums.EnumName(v); ok {
				return name
			}
		}
		if m, ok := asTextMarshaler(v); ok {
			if text, err := m.MarshalText(); err == nil {
				return string(text)
			}
		}
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return p.plain(v.Elem())
	case reflect.Pointer:
		if v.IsNil() || !p.push(v.Pointer()) {
			return nil
		}
		defer p.leave()
		return p.plain(v.Elem())
	case reflect.Map:
		if v.IsNil() || !p.push(v.Pointer()) {
			return nil
		}
		defer p.leave()
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[p.plainKey(iter.Key())] = p.plain(iter.Value())
		}
		return out
	case reflect.Slice:
		if v.IsNil() || !p.push(v.Pointer()) {
			return nil
		}
		defer p.leave()
		return p.plainSequence(v)
	case reflect.Array:
		return p.plainSequence(v)
	case reflect.Struct:
		out := make(map[string]any)
		for _, m := range bind.MembersOf(v.Type()) {
			out[m.Name] = p.plain(v.FieldByIndex(m.Index))
		}
		return out
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return strings.Trim(formatFloat(f, 64), `"`)
		}
		return f
	}
	return nil
}

func (p *Printer) plainSequence(v reflect.Value) []any {
	out := make([]any, v.Len())
	for i := range out {
		out[i] = p.plain(v.Index(i))
	}
	return out
}

// push is enter without the recursion marker.
func (p *Printer) push(ptr uintptr) bool {
	for _, x := range p.stack {
		if x == ptr {
			return false
		}
	}
	p.stack = append(p.stack, ptr)
	return true
}

func (p *Printer) plainKey(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return p.key(k)
}
