// Package bind fills Go values from notation text.
//
// Binding is driven by the Go type of the target: structs are records,
// maps and slices are what they look like, interfaces require a type tag
// (=Name or :Name) unless they are the empty interface, which receives
// maps, slices, strings, numbers and booleans.
package bind

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/notation/lex"
	"github.com/dhamidi/notation/rules"
)

var expressionType = reflect.TypeOf(Expression{})

// Binder binds token streams into Go values. A Binder is not safe for
// concurrent use; create one per goroutine.
type Binder struct {
	registry *Registry
	rules    *rules.Rules
	failFast bool
	maxDepth int
	log      commonlog.Logger

	s       *lex.Stream
	errs    lex.ErrorList
	depth   int
	stopped bool
}

// New returns a Binder configured by opts.
func New(opts ...Option) *Binder {
	b := &Binder{
		registry: NewRegistry(),
		rules:    rules.Standard(),
		maxDepth: DefaultMaxDepth,
		log:      commonlog.GetLogger("notation.bind"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind creates a value of type shape from the tokens of s.
func Bind(shape reflect.Type, s *lex.Stream, opts ...Option) (reflect.Value, lex.ErrorList) {
	return New(opts...).Bind(shape, s)
}

// Bind creates a value of type shape from the tokens of s. The value holds
// everything that could be bound even when errors are returned.
func (b *Binder) Bind(shape reflect.Type, s *lex.Stream) (reflect.Value, lex.ErrorList) {
	v := reflect.New(shape).Elem()
	return v, b.Into(v, s)
}

// Into binds the tokens of s into the settable value v.
func (b *Binder) Into(v reflect.Value, s *lex.Stream) lex.ErrorList {
	b.s = s
	b.errs = nil
	b.depth = 0
	b.stopped = false

	end := len(s.Tokens)
	first := b.skipComments(0, end)
	if first < end {
		tok := s.Tokens[first]
		if tok.Kind == lex.KindOpen && isGroup(tok.Region) && b.skipComments(tok.Region.End(), end) == end {
			b.value(v, first, end)
			return b.errs
		}
	}
	if b.isComposite(v.Type()) {
		b.composite(v, first, end, false, first)
		return b.errs
	}
	next, _ := b.value(v, first, end)
	if next = b.skipComments(next, end); next < end && !b.stopped {
		b.errorAt(next, fmt.Sprintf("unexpected %q after value", s.Raw(next)))
	}
	return b.errs
}

// Parse tokenizes text and binds it into the value v points to. The error
// is a lex.ErrorList holding lexical and binding errors, or the first
// *lex.ParseError when FailFast is set.
func Parse(text string, v any, opts ...Option) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("bind: Parse needs a non-nil pointer, got %T", v)
	}
	b := New(opts...)
	s, errs := lex.Tokenize(text, lex.WithRules(b.rules))
	if b.failFast && len(errs) > 0 {
		return errs[0]
	}
	errs = append(errs, b.Into(rv.Elem(), s)...)
	errs.Sort()
	if b.failFast && len(errs) > 0 {
		return errs[0]
	}
	return errs.Err()
}

// ParseAs is Parse for a value of type T.
func ParseAs[T any](text string, opts ...Option) (T, error) {
	var v T
	err := Parse(text, &v, opts...)
	return v, err
}

func (b *Binder) errorAt(i int, msg string) {
	b.errs.Add(b.s.Error(i, msg))
	if b.failFast {
		b.stopped = true
	}
}

func isGroup(r *lex.Region) bool {
	switch r.Context.Name {
	case rules.CodeBodyContext, rules.SquareBraceContext:
		return true
	}
	return false
}

func (b *Binder) isComposite(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == expressionType {
		return false
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Interface:
		return true
	}
	return false
}

func (b *Binder) skipComments(i, end int) int {
	for i < end {
		tok := b.s.Tokens[i]
		if tok.Kind != lex.KindOpen || !tok.Region.IsComment() {
			break
		}
		i = min(tok.Region.End(), end)
	}
	return i
}

func (b *Binder) isDelim(i, end int, texts ...string) bool {
	if i >= end || b.s.Tokens[i].Kind != lex.KindDelim {
		return false
	}
	for _, t := range texts {
		if b.s.Tokens[i].Delim.Text == t {
			return true
		}
	}
	return false
}

// skipSeparators skips comments and the punctuation allowed between items.
func (b *Binder) skipSeparators(i, end int) int {
	for {
		i = b.skipComments(i, end)
		if !b.isDelim(i, end, ",", ";", "=", ":") {
			return i
		}
		i++
	}
}

// skipAssign skips the ':' or '=' between a key and its value.
func (b *Binder) skipAssign(i, end int) int {
	i = b.skipComments(i, end)
	if b.isDelim(i, end, ":", "=") {
		i = b.skipComments(i+1, end)
	}
	return i
}

// skipValue steps over one value without binding it.
func (b *Binder) skipValue(i, end int) int {
	i = b.skipComments(i, end)
	if i >= end {
		return end
	}
	if tok := b.s.Tokens[i]; tok.Kind == lex.KindOpen {
		return min(tok.Region.End(), end)
	}
	return i + 1
}

// value binds the value starting at token i into v and returns the index
// after it. It returns false when the enclosing scope cannot continue.
func (b *Binder) value(v reflect.Value, i, end int) (int, bool) {
	i = b.skipComments(i, end)
	if i >= end {
		b.errorAt(i, "expected a value")
		return end, false
	}
	tok := b.s.Tokens[i]
	switch tok.Kind {
	case lex.KindOpen:
		r := tok.Region
		next := min(r.End(), end)
		switch {
		case r.IsText():
			form := formString
			if r.Context.Name == rules.CharContext {
				form = formChar
			}
			b.assignText(v, b.s.RegionText(r), form, i)
			return next, true
		case r.Context.Name == rules.ExpressionContext:
			return next, b.assignExpression(v, Expression{stream: b.s, region: r}, i)
		case r.IsEnclosure():
			if !b.isComposite(v.Type()) {
				b.errorAt(i, "unexpected beginning of "+r.Context.Name)
				return next, false
			}
			start, stop := r.Inner()
			b.composite(v, start, stop, r.Context.Name == rules.SquareBraceContext, i)
			return next, true
		}
		b.assignText(v, b.s.RegionText(r), formString, i)
		return next, true
	case lex.KindSubstitution:
		b.assignNumber(v, tok.Value, b.s.Raw(i), i)
		return i + 1, true
	case lex.KindText:
		b.assignText(v, b.s.Raw(i), formPlain, i)
		return i + 1, true
	}
	b.errorAt(i, fmt.Sprintf("unexpected %q", b.s.Raw(i)))
	return i + 1, false
}

// composite binds the tokens in [start, end) as the contents of a record,
// map or sequence. seq is set when they were enclosed in square brackets.
func (b *Binder) composite(v reflect.Value, start, end int, seq bool, at int) {
	if b.stopped {
		return
	}
	b.depth++
	defer func() { b.depth-- }()
	if b.depth > b.maxDepth {
		b.log.Debugf("depth limit %d reached at token %d", b.maxDepth, at)
		b.errorAt(at, fmt.Sprintf("values nested deeper than %d", b.maxDepth))
		return
	}

	v = settle(v)
	i := b.skipComments(start, end)
	switch v.Kind() {
	case reflect.Interface:
		if name, next, ok := b.typeTag(i, end); ok {
			t := b.resolveType(v.Type(), name, i+1)
			if t == nil {
				return
			}
			nv := reflect.New(t).Elem()
			b.body(settle(nv), next, end, seq, at)
			v.Set(nv)
			return
		}
		if v.NumMethod() != 0 {
			b.errorAt(at, fmt.Sprintf("no type given for interface %s", v.Type()))
			return
		}
		nv := reflect.New(naturalType(seq)).Elem()
		b.body(nv, i, end, seq, at)
		v.Set(nv)
	case reflect.Struct:
		// An unresolved tag is reported and the members still bind into
		// the original shape.
		if name, next, ok := b.typeTag(i, end); ok {
			b.resolveType(v.Type(), name, i+1)
			i = next
		}
		b.body(v, i, end, seq, at)
	default:
		b.body(v, i, end, seq, at)
	}
}

var (
	anyMapType   = reflect.TypeOf(map[string]any(nil))
	anySliceType = reflect.TypeOf([]any(nil))
)

func naturalType(seq bool) reflect.Type {
	if seq {
		return anySliceType
	}
	return anyMapType
}

// settle allocates nil pointers and returns the value at the end of the
// pointer chain.
func settle(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v
}

func (b *Binder) body(v reflect.Value, i, end int, seq bool, at int) {
	switch v.Kind() {
	case reflect.Struct:
		b.record(v, i, end)
	case reflect.Map:
		b.mapping(v, i, end)
	case reflect.Slice, reflect.Array:
		b.sequence(v, i, end)
	case reflect.Interface:
		b.composite(v, i, end, seq, at)
	default:
		b.errorAt(at, fmt.Sprintf("cannot bind a group into %s", v.Type()))
	}
}

// typeTag reads a leading =Name or :Name. Bare names may be dotted.
func (b *Binder) typeTag(i, end int) (name string, next int, ok bool) {
	if !b.isDelim(i, end, "=", ":") {
		return "", i, false
	}
	j := b.skipComments(i+1, end)
	if j >= end {
		return "", i, false
	}
	tok := b.s.Tokens[j]
	switch tok.Kind {
	case lex.KindOpen:
		if !tok.Region.IsText() {
			return "", i, false
		}
		return b.s.RegionText(tok.Region), min(tok.Region.End(), end), true
	case lex.KindText:
		var sb strings.Builder
		sb.WriteString(b.s.Raw(j))
		j++
		for b.isDelim(j, end, ".") && j+1 < end && b.s.Tokens[j+1].Kind == lex.KindText {
			sb.WriteByte('.')
			sb.WriteString(b.s.Raw(j + 1))
			j += 2
		}
		return sb.String(), j, true
	}
	return "", i, false
}

// resolveType finds the type a tag names. Exact registered names win;
// otherwise the tag is matched as a wildcard against the tail of the names
// of the registered types that fit shape.
func (b *Binder) resolveType(shape reflect.Type, name string, at int) reflect.Type {
	if t, _, ok := b.registry.Lookup(name); ok {
		if !fits(t, shape) {
			b.errorAt(at, fmt.Sprintf("type %s cannot be used as %s", t, shape))
			return nil
		}
		b.log.Debugf("type switch %s -> %s", shape, t)
		return t
	}
	cands := b.registry.candidates(shape)
	names := make([]string, len(cands))
	for i, e := range cands {
		names[i] = e.name
	}
	pattern := name
	if !strings.HasPrefix(pattern, "*") {
		pattern = "*" + name
	}
	if i := FindWildcard(names, pattern); i >= 0 {
		b.log.Debugf("type switch %s -> %s (matched %q)", shape, cands[i].typ, name)
		return cands[i].typ
	}
	b.errorAt(at, fmt.Sprintf("unknown type %q", name))
	return nil
}

func fits(t, shape reflect.Type) bool {
	return t.AssignableTo(shape) || (t.Kind() == reflect.Pointer && t.Elem() == shape)
}

// key reads a record member name or map key.
func (b *Binder) key(i, end int) (string, int, bool) {
	tok := b.s.Tokens[i]
	switch tok.Kind {
	case lex.KindText, lex.KindSubstitution:
		return b.s.Raw(i), i + 1, true
	case lex.KindOpen:
		if tok.Region.IsText() {
			return b.s.RegionText(tok.Region), min(tok.Region.End(), end), true
		}
		b.errorAt(i, "unexpected beginning of "+tok.Region.Context.Name)
		return "", i, false
	}
	b.errorAt(i, fmt.Sprintf("unexpected %q", b.s.Raw(i)))
	return "", i, false
}

func (b *Binder) record(v reflect.Value, i, end int) {
	members := MembersOf(v.Type())
	for !b.stopped {
		i = b.skipSeparators(i, end)
		if i >= end {
			return
		}
		at := i
		name, next, ok := b.key(i, end)
		if !ok {
			return
		}
		i = b.skipAssign(next, end)
		m, found := members.Find(name)
		if !found {
			b.errorAt(at, fmt.Sprintf("unknown member %q in %s, expected one of: %s",
				name, v.Type(), strings.Join(members.Names(), ", ")))
			i = b.skipValue(i, end)
			continue
		}
		if i, ok = b.value(v.FieldByIndex(m.Index), i, end); !ok {
			return
		}
	}
}

func (b *Binder) mapping(v reflect.Value, i, end int) {
	t := v.Type()
	if v.IsNil() {
		v.Set(reflect.MakeMap(t))
	}
	for !b.stopped {
		i = b.skipSeparators(i, end)
		if i >= end {
			return
		}
		kv := reflect.New(t.Key()).Elem()
		var ok bool
		if t.Key().Kind() == reflect.Interface {
			var name string
			if name, i, ok = b.key(i, end); ok {
				kv.Set(reflect.ValueOf(name))
			}
		} else {
			i, ok = b.value(kv, i, end)
		}
		if !ok {
			return
		}
		i = b.skipAssign(i, end)
		ev := reflect.New(t.Elem()).Elem()
		i, ok = b.value(ev, i, end)
		v.SetMapIndex(kv, ev)
		if !ok {
			return
		}
	}
}

func (b *Binder) sequence(v reflect.Value, i, end int) {
	t := v.Type()
	if t.Kind() == reflect.Slice {
		v.Set(reflect.MakeSlice(t, 0, 0))
	}
	for n := 0; !b.stopped; n++ {
		i = b.skipSeparators(i, end)
		if i >= end {
			return
		}
		if t.Kind() == reflect.Array && n >= v.Len() {
			b.errorAt(i, fmt.Sprintf("too many elements for %s", t))
			return
		}
		ev := reflect.New(t.Elem()).Elem()
		next, ok := b.value(ev, i, end)
		if t.Kind() == reflect.Slice {
			v.Set(reflect.Append(v, ev))
		} else {
			v.Index(n).Set(ev)
		}
		if !ok {
			return
		}
		i = next
	}
}

func (b *Binder) assignExpression(v reflect.Value, e Expression, at int) bool {
	v = settle(v)
	switch {
	case v.Type() == expressionType:
		v.Set(reflect.ValueOf(e))
	case v.Kind() == reflect.Interface && v.NumMethod() == 0:
		v.Set(reflect.ValueOf(e))
	case v.Kind() == reflect.String:
		v.SetString(e.String())
	default:
		b.errorAt(at, "unexpected beginning of "+rules.ExpressionContext)
		return false
	}
	return true
}
