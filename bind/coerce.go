package bind

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// textForm records how a piece of text was written.
type textForm int

const (
	formPlain textForm = iota
	formString
	formChar
)

func textUnmarshaler(v reflect.Value) (encoding.TextUnmarshaler, bool) {
	if v.Kind() == reflect.Interface || !v.CanAddr() {
		return nil, false
	}
	u, ok := v.Addr().Interface().(encoding.TextUnmarshaler)
	return u, ok
}

func (b *Binder) cannotConvert(at int, text string, t reflect.Type) {
	b.errorAt(at, fmt.Sprintf("cannot convert %q to %s", text, t))
}

// assignText converts text into v.
func (b *Binder) assignText(v reflect.Value, text string, form textForm, at int) {
	if form == formPlain && text == "null" {
		v.Set(reflect.Zero(v.Type()))
		return
	}
	if v.Kind() == reflect.Pointer {
		b.assignText(settleOne(v), text, form, at)
		return
	}
	if u, ok := textUnmarshaler(v); ok {
		if err := u.UnmarshalText([]byte(text)); err != nil {
			b.errorAt(at, fmt.Sprintf("cannot convert %q to %s: %v", text, v.Type(), err))
		}
		return
	}
	if en := b.registry.enum(v.Type()); en != nil {
		b.assignEnum(v, en, text, at)
		return
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.NumMethod() != 0 {
			b.errorAt(at, fmt.Sprintf("no type given for interface %s", v.Type()))
			return
		}
		v.Set(reflect.ValueOf(naturalText(text, form)))
	case reflect.String:
		v.SetString(text)
	case reflect.Bool:
		x, err := strconv.ParseBool(text)
		if err != nil {
			b.cannotConvert(at, text, v.Type())
			return
		}
		v.SetBool(x)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if r, ok := singleRune(text, form); ok {
			b.setInt(v, int64(r), text, at)
			return
		}
		x, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			b.cannotConvert(at, text, v.Type())
			return
		}
		b.setInt(v, x, text, at)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if r, ok := singleRune(text, form); ok {
			b.setUint(v, uint64(r), text, at)
			return
		}
		x, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			b.cannotConvert(at, text, v.Type())
			return
		}
		b.setUint(v, x, text, at)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(text, v.Type().Bits())
		if err != nil {
			b.cannotConvert(at, text, v.Type())
			return
		}
		v.SetFloat(x)
	default:
		b.cannotConvert(at, text, v.Type())
	}
}

// settleOne allocates a nil pointer and returns what it points to.
func settleOne(v reflect.Value) reflect.Value {
	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}
	return v.Elem()
}

func singleRune(text string, form textForm) (rune, bool) {
	if form != formChar || utf8.RuneCountInString(text) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return r, true
}

func naturalText(text string, form textForm) any {
	if form == formPlain {
		switch text {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return text
}

func (b *Binder) setInt(v reflect.Value, x int64, text string, at int) {
	if v.OverflowInt(x) {
		b.errorAt(at, fmt.Sprintf("%s overflows %s", text, v.Type()))
		return
	}
	v.SetInt(x)
}

func (b *Binder) setUint(v reflect.Value, x uint64, text string, at int) {
	if v.OverflowUint(x) {
		b.errorAt(at, fmt.Sprintf("%s overflows %s", text, v.Type()))
		return
	}
	v.SetUint(x)
}

// assignNumber stores a parsed number. raw is the number as written, used
// for strings and text unmarshalers.
func (b *Binder) assignNumber(v reflect.Value, val any, raw string, at int) {
	if v.Kind() == reflect.Pointer {
		b.assignNumber(settleOne(v), val, raw, at)
		return
	}
	if u, ok := textUnmarshaler(v); ok {
		if err := u.UnmarshalText([]byte(raw)); err != nil {
			b.errorAt(at, fmt.Sprintf("cannot convert %s to %s: %v", raw, v.Type(), err))
		}
		return
	}

	n := reflect.ValueOf(val)
	isFloat := n.CanFloat()
	switch v.Kind() {
	case reflect.Interface:
		if v.NumMethod() != 0 {
			b.errorAt(at, fmt.Sprintf("no type given for interface %s", v.Type()))
			return
		}
		v.Set(n)
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if isFloat {
			f := n.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				b.cannotConvert(at, raw, v.Type())
				return
			}
			b.setInt(v, int64(f), raw, at)
			return
		}
		if !n.CanInt() {
			b.cannotConvert(at, raw, v.Type())
			return
		}
		b.setInt(v, n.Int(), raw, at)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var x float64
		switch {
		case isFloat:
			x = n.Float()
		case n.CanInt():
			x = float64(n.Int())
		default:
			b.cannotConvert(at, raw, v.Type())
			return
		}
		if x < 0 || x != math.Trunc(x) || x >= math.MaxUint64 {
			b.cannotConvert(at, raw, v.Type())
			return
		}
		if n.CanInt() {
			b.setUint(v, uint64(n.Int()), raw, at)
		} else {
			b.setUint(v, uint64(x), raw, at)
		}
	case reflect.Float32, reflect.Float64:
		var x float64
		switch {
		case isFloat:
			x = n.Float()
		case n.CanInt():
			x = float64(n.Int())
		default:
			b.cannotConvert(at, raw, v.Type())
			return
		}
		if v.OverflowFloat(x) {
			b.errorAt(at, fmt.Sprintf("%s overflows %s", raw, v.Type()))
			return
		}
		v.SetFloat(x)
	default:
		b.cannotConvert(at, raw, v.Type())
	}
}

// assignEnum resolves text against the names of a registered enum: an
// exact name, a wildcard that matches exactly one name, or a number.
func (b *Binder) assignEnum(v reflect.Value, en *enum, text string, at int) {
	for i, name := range en.names {
		if name == text {
			v.Set(en.values[i])
			return
		}
	}
	if isWildcard(text) {
		switch m := findAllWildcard(en.names, text); len(m) {
		case 1:
			v.Set(en.values[m[0]])
			return
		case 0:
		default:
			names := make([]string, len(m))
			for i, idx := range m {
				names[i] = en.names[idx]
			}
			b.errorAt(at, fmt.Sprintf("%q is ambiguous for %s: %s", text, v.Type(), strings.Join(names, ", ")))
			return
		}
	}
	if v.CanInt() {
		if x, err := strconv.ParseInt(text, 0, 64); err == nil {
			b.setInt(v, x, text, at)
			return
		}
	}
	if v.CanUint() {
		if x, err := strconv.ParseUint(text, 0, 64); err == nil {
			b.setUint(v, x, text, at)
			return
		}
	}
	b.errorAt(at, fmt.Sprintf("unknown %s %q, expected one of: %s", v.Type(), text, strings.Join(en.names, ", ")))
}
