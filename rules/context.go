package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Names of the standard contexts.
const (
	DefaultContext     = "default"
	StringContext      = "string"
	CharContext        = "char"
	NumberContext      = "number"
	HexContext         = "0x"
	ExpressionContext  = "()"
	SquareBraceContext = "[]"
	CodeBodyContext    = "{}"
	LineComment        = "//"
	DocComment         = "///"
	BlockComment       = "/**/"
)

// DefaultWhitespace is skipped between tokens in most contexts.
const DefaultWhitespace = " \t\n\r"

// Context is a named lexical mode: which bytes are whitespace and which
// delimiters are active.
type Context struct {
	Name       string
	Whitespace string
	Delimiters []*Delimiter
}

// IsWhitespace reports whether ch separates plain-text tokens in c.
func (c *Context) IsWhitespace(ch byte) bool {
	return strings.IndexByte(c.Whitespace, ch) >= 0
}

// DelimiterAt returns the longest active delimiter matching at offset, or nil.
// Delimiters are kept sorted, so the first match wins.
func (c *Context) DelimiterAt(text string, offset int) *Delimiter {
	for _, d := range c.Delimiters {
		if d.Matches(text, offset) {
			return d
		}
	}
	return nil
}

func (c *Context) String() string {
	return c.Name
}

// Rules is an immutable set of contexts that refer to each other by name.
// It is safe for concurrent use once built.
type Rules struct {
	def      *Context
	order    []*Context
	byName   map[string]*Context
	resolved map[*Delimiter]*Context
}

// New builds a rule set. Every context delimiter must name a context in the
// set; a dangling name is a configuration error.
func New(defaultName string, contexts ...*Context) (*Rules, error) {
	r := &Rules{
		byName:   make(map[string]*Context, len(contexts)),
		resolved: make(map[*Delimiter]*Context),
	}
	for _, c := range contexts {
		if _, dup := r.byName[c.Name]; dup {
			return nil, fmt.Errorf("context %q defined twice", c.Name)
		}
		delims := append([]*Delimiter(nil), c.Delimiters...)
		sort.SliceStable(delims, func(i, j int) bool { return less(delims[i], delims[j]) })
		c.Delimiters = delims
		r.byName[c.Name] = c
		r.order = append(r.order, c)
	}
	def, ok := r.byName[defaultName]
	if !ok {
		return nil, fmt.Errorf("default context %q does not exist", defaultName)
	}
	r.def = def
	for _, c := range r.order {
		for _, d := range c.Delimiters {
			if d.Context == "" {
				continue
			}
			target, ok := r.byName[d.Context]
			if !ok {
				return nil, fmt.Errorf("context %q referenced by delimiter %q does not exist", d.Context, d.Text)
			}
			r.resolved[d] = target
		}
	}
	return r, nil
}

// Default returns the context tokenization starts in.
func (r *Rules) Default() *Context {
	return r.def
}

// Context looks up a context by name.
func (r *Rules) Context(name string) (*Context, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Contexts returns all contexts in definition order.
func (r *Rules) Contexts() []*Context {
	return append([]*Context(nil), r.order...)
}

// Resolve returns the context a delimiter opens or closes, or nil.
func (r *Rules) Resolve(d *Delimiter) *Context {
	return r.resolved[d]
}

var (
	standardOnce  sync.Once
	standardRules *Rules
)

// Standard returns the shared standard rule set.
func Standard() *Rules {
	standardOnce.Do(func() {
		r, err := New(DefaultContext, standardContexts()...)
		if err != nil {
			panic("rules: standard rule set: " + err.Error())
		}
		standardRules = r
	})
	return standardRules
}
