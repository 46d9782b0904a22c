package format

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/notation/bind"
)

// Marshaler is implemented by values that print themselves. The returned
// text is written verbatim.
type Marshaler interface {
	MarshalNotation() ([]byte, error)
}

// EnumNamer names enum values, see bind.Registry.
type EnumNamer interface {
	EnumName(v reflect.Value) (string, bool)
}

// TypeNamer names types for type tags, see bind.Registry.
type TypeNamer interface {
	Name(t reflect.Type) (string, bool)
}

// Option configures a Printer.
type Option func(*Printer)

// Pretty spreads records and nested sequences over multiple lines.
func Pretty() Option {
	return func(p *Printer) {
		p.pretty = true
	}
}

// TypeTags prefixes records with =Type where the type cannot be inferred:
// at the top level and in interface-typed slots.
func TypeTags() Option {
	return func(p *Printer) {
		p.typeTags = true
	}
}

// Indent sets the string used for one level of indentation.
func Indent(s string) Option {
	return func(p *Printer) {
		p.indentStr = s
	}
}

// Depth limits nesting. Deeper values print as null.
func Depth(n int) Option {
	return func(p *Printer) {
		p.maxDepth = n
	}
}

// WithEnums prints enum values by name.
func WithEnums(e EnumNamer) Option {
	return func(p *Printer) {
		p.enums = e
	}
}

// WithTypeNames takes type tag names from n.
func WithTypeNames(n TypeNamer) Option {
	return func(p *Printer) {
		p.types = n
	}
}

// Printer renders Go values as notation text.
type Printer struct {
	sb        strings.Builder
	pretty    bool
	typeTags  bool
	indentStr string
	maxDepth  int
	enums     EnumNamer
	types     TypeNamer

	level int
	// stack holds the pointers of the maps, slices and pointers being
	// printed, to detect cycles.
	stack []uintptr
}

// NewPrinter returns a Printer configured by opts.
func NewPrinter(opts ...Option) *Printer {
	p := &Printer{indentStr: "  "}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stringify renders v as notation text.
func Stringify(v any, opts ...Option) string {
	return NewPrinter(opts...).Print(v)
}

// Print renders v.
func (p *Printer) Print(v any) string {
	p.sb.Reset()
	p.level = 0
	p.stack = p.stack[:0]
	p.value(reflect.ValueOf(v), true)
	return p.sb.String()
}

func (p *Printer) newline() {
	if !p.pretty {
		return
	}
	p.sb.WriteByte('\n')
	for i := 0; i < p.level; i++ {
		p.sb.WriteString(p.indentStr)
	}
}

func (p *Printer) sep(s string) {
	p.sb.WriteString(s)
	if p.pretty {
		p.sb.WriteByte(' ')
	}
}

// value prints v. tagged is set when the slot v sits in does not reveal
// its type, so a record in it needs a type tag.
func (p *Printer) value(v reflect.Value, tagged bool) {
	if !v.IsValid() {
		p.sb.WriteString("null")
		return
	}
	if p.maxDepth > 0 && p.level > p.maxDepth {
		p.sb.WriteString("null")
		return
	}
	if p.marshal(v) {
		return
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			p.sb.WriteString("null")
			return
		}
		p.value(v.Elem(), true)
	case reflect.Pointer:
		if v.IsNil() {
			p.sb.WriteString("null")
			return
		}
		if p.enter(v.Pointer()) {
			p.value(v.Elem(), tagged)
			p.leave()
		}
	case reflect.Map:
		if v.IsNil() {
			p.sb.WriteString("null")
			return
		}
		if p.enter(v.Pointer()) {
			p.mapping(v)
			p.leave()
		}
	case reflect.Slice:
		if v.IsNil() {
			p.sb.WriteString("null")
			return
		}
		if v.Len() == 0 {
			p.sb.WriteString("[]")
			return
		}
		if p.enter(v.Pointer()) {
			p.sequence(v)
			p.leave()
		}
	case reflect.Array:
		p.sequence(v)
	case reflect.Struct:
		p.record(v, tagged && p.typeTags)
	case reflect.String:
		p.sb.WriteString(Quote(v.String()))
	case reflect.Bool:
		p.sb.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p.sb.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		p.sb.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		p.sb.WriteString(formatFloat(v.Float(), v.Type().Bits()))
	default:
		p.sb.WriteString("null")
	}
}

// marshal handles values that print themselves: Marshaler, enum values and
// encoding.TextMarshaler, in that order.
func (p *Printer) marshal(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer && v.IsNil() || v.Kind() == reflect.Interface {
		return false
	}
	if !v.CanInterface() {
		return false
	}
	if m, ok := asMarshaler(v); ok {
		text, err := m.MarshalNotation()
		if err != nil {
			fmt.Fprintf(&p.sb, "null /* %s */", strings.ReplaceAll(err.Error(), "*/", "* /"))
			return true
		}
		p.sb.Write(text)
		return true
	}
	if p.enums != nil {
		if name, ok := p.enums.EnumName(v); ok {
			if IsBare(name) {
				p.sb.WriteString(name)
			} else {
				p.sb.WriteString(Quote(name))
			}
			return true
		}
	}
	if m, ok := asTextMarshaler(v); ok {
		text, err := m.MarshalText()
		if err != nil {
			return false
		}
		p.sb.WriteString(Quote(string(text)))
		return true
	}
	return false
}

func asMarshaler(v reflect.Value) (Marshaler, bool) {
	if m, ok := v.Interface().(Marshaler); ok {
		return m, true
	}
	if v.CanAddr() {
		m, ok := v.Addr().Interface().(Marshaler)
		return m, ok
	}
	return nil, false
}

func asTextMarshaler(v reflect.Value) (encoding.TextMarshaler, bool) {
	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		return m, true
	}
	if v.CanAddr() {
		m, ok := v.Addr().Interface().(encoding.TextMarshaler)
		return m, ok
	}
	return nil, false
}

// enter pushes ptr onto the render stack. When ptr is already being
// printed it writes the recursion marker instead and returns false.
func (p *Printer) enter(ptr uintptr) bool {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i] == ptr {
			fmt.Fprintf(&p.sb, "null /* recursed %d */", len(p.stack)-i)
			return false
		}
	}
	p.stack = append(p.stack, ptr)
	return true
}

func (p *Printer) leave() {
	p.stack = p.stack[:len(p.stack)-1]
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return `"NaN"`
	case math.IsInf(f, 1):
		return `"+Inf"`
	case math.IsInf(f, -1):
		return `"-Inf"`
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type entry struct {
	key   string
	value reflect.Value
}

func (p *Printer) entries(tag string, items []entry) {
	p.sb.WriteByte('{')
	if len(items) == 0 && tag == "" {
		p.sb.WriteByte('}')
		return
	}
	p.level++
	n := 0
	if tag != "" {
		p.newline()
		p.sb.WriteString("=" + tag)
		n++
	}
	for _, it := range items {
		if n > 0 {
			p.sb.WriteByte(',')
		}
		p.newline()
		p.sb.WriteString(it.key)
		p.sep(":")
		p.value(it.value, false)
		n++
	}
	p.level--
	p.newline()
	p.sb.WriteByte('}')
}

func (p *Printer) record(v reflect.Value, tagged bool) {
	var tag string
	if tagged {
		tag = p.typeName(v.Type())
	}
	members := bind.MembersOf(v.Type())
	items := make([]entry, 0, len(members))
	for _, m := range members {
		key := m.Name
		if !IsBare(key) {
			key = Quote(key)
		}
		fv := v.FieldByIndex(m.Index)
		items = append(items, entry{key: key, value: fv})
	}
	p.entries(tag, items)
}

func (p *Printer) typeName(t reflect.Type) string {
	name := t.String()
	if p.types != nil {
		if n, ok := p.types.Name(t); ok {
			name = n
		} else if n, ok := p.types.Name(reflect.PointerTo(t)); ok {
			name = n
		}
	}
	if IsBare(name) {
		return name
	}
	return Quote(name)
}

func (p *Printer) mapping(v reflect.Value) {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return compareKeys(keys[i], keys[j]) < 0 })
	items := make([]entry, len(keys))
	for i, k := range keys {
		items[i] = entry{key: p.key(k), value: v.MapIndex(k)}
	}
	p.entries("", items)
}

func (p *Printer) key(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		if s := k.String(); IsBare(s) {
			return s
		}
		return Quote(k.String())
	}
	sub := &Printer{indentStr: p.indentStr, enums: p.enums, types: p.types}
	sub.value(k, false)
	return sub.sb.String()
}

// compareKeys orders map keys: numbers numerically, strings and everything
// else by their text.
func compareKeys(a, b reflect.Value) int {
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	if a.Kind() == b.Kind() {
		switch {
		case a.CanInt():
			return cmp(a.Int(), b.Int())
		case a.CanUint():
			return cmp(a.Uint(), b.Uint())
		case a.CanFloat():
			return cmp(a.Float(), b.Float())
		case a.Kind() == reflect.String:
			return strings.Compare(a.String(), b.String())
		case a.Kind() == reflect.Bool:
			return cmp(boolInt(a.Bool()), boolInt(b.Bool()))
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func cmp[T int64 | uint64 | float64 | int](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (p *Printer) sequence(v reflect.Value) {
	n := v.Len()
	if n == 0 {
		p.sb.WriteString("[]")
		return
	}
	flat := !p.pretty
	if !flat {
		flat = true
		for i := 0; i < n; i++ {
			if !isScalar(v.Index(i)) {
				flat = false
				break
			}
		}
	}
	p.sb.WriteByte('[')
	p.level++
	for i := 0; i < n; i++ {
		if i > 0 {
			p.sb.WriteByte(',')
			if flat && p.pretty {
				p.sb.WriteByte(' ')
			}
		}
		if !flat {
			p.newline()
		}
		p.value(v.Index(i), false)
	}
	p.level--
	if !flat {
		p.newline()
	}
	p.sb.WriteByte(']')
}

// isScalar reports whether v prints on a single line.
func isScalar(v reflect.Value) bool {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	if v.CanInterface() {
		if _, ok := asMarshaler(v); ok {
			return true
		}
	}
	switch v.Kind() {
	case reflect.Struct, reflect.Map:
		return false
	case reflect.Slice, reflect.Array:
		return v.Len() == 0
	}
	return true
}
