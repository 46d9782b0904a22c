package lex

import (
	"fmt"

	"github.com/dhamidi/notation/rules"
)

// Option configures Tokenize.
type Option func(*tokenizer)

// WithRules tokenizes with r instead of the standard rule set.
func WithRules(r *rules.Rules) Option {
	return func(t *tokenizer) {
		t.rules = r
	}
}

// WithContext starts tokenizing in the named context instead of the default.
func WithContext(name string) Option {
	return func(t *tokenizer) {
		t.start = name
	}
}

type tokenizer struct {
	rules  *rules.Rules
	start  string
	text   string
	lines  Lines
	tokens []Token
	errs   ErrorList
	stack  []*Region
	ctx    *rules.Context
	// pending is the offset where unflushed plain text begins, or -1.
	pending int
}

// Tokenize splits text into tokens. It never stops early: lexical errors are
// collected and scanning continues, so the returned stream is always usable.
func Tokenize(text string, opts ...Option) (*Stream, ErrorList) {
	t := &tokenizer{
		rules:   rules.Standard(),
		text:    text,
		lines:   NewLines(text),
		pending: -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.ctx = t.rules.Default()
	if t.start != "" {
		c, ok := t.rules.Context(t.start)
		if !ok {
			t.errorf(0, "unknown context %q", t.start)
		} else {
			t.ctx = c
		}
	}
	t.run()
	t.errs.Sort()
	return &Stream{Source: text, Tokens: t.tokens, Lines: t.lines, Rules: t.rules}, t.errs
}

func (t *tokenizer) errorf(offset int, format string, args ...any) {
	t.errs.Add(t.lines.Error(offset, fmt.Sprintf(format, args...)))
}

func (t *tokenizer) run() {
	i := 0
	for i < len(t.text) {
		d := t.ctx.DelimiterAt(t.text, i)
		if d == nil {
			if t.ctx.IsWhitespace(t.text[i]) {
				t.flush(i)
			} else if t.pending < 0 {
				t.pending = i
			}
			i++
			continue
		}
		i = t.delimiter(d, i)
	}
	t.flush(len(t.text))
	t.finish()
}

// delimiter handles a matched delimiter at offset i and returns the offset
// where scanning resumes.
func (t *tokenizer) delimiter(d *rules.Delimiter, i int) int {
	length := len(d.Text)
	var res rules.ParseResult
	if d.Parse != nil {
		res = d.Parse(t.text, i)
		if res.Length > 0 {
			length = res.Length
		}
		if i+length > len(t.text) {
			length = len(t.text) - i
		}
	}

	contextual := d.IsContextual()
	if d.Parse != nil && !contextual && !res.HasValue && !res.IsError() {
		// The rule consumed ordinary text.
		if t.pending < 0 {
			t.pending = i
		}
		return i + length
	}

	t.flush(i)
	if res.IsError() {
		t.errorf(i+res.ErrOffset, "%s", res.Err)
	}

	target := t.rules.Resolve(d)
	switch {
	case contextual && d.End && t.closes(target):
		t.closeTo(target, i, length, d)
	case contextual && d.Start:
		t.open(target, i, length, d)
	case contextual && d.End:
		t.errorf(i, "unexpected closing token %q", d.Text)
		t.emit(Token{Offset: i, Length: length, Kind: KindDelim, Delim: d})
	case res.HasValue:
		t.emit(Token{Offset: i, Length: length, Kind: KindSubstitution, Delim: d, Value: res.Value})
	default:
		t.emit(Token{Offset: i, Length: length, Kind: KindDelim, Delim: d})
	}
	return i + length
}

func (t *tokenizer) emit(tok Token) {
	t.tokens = append(t.tokens, tok)
}

func (t *tokenizer) flush(end int) {
	if t.pending < 0 {
		return
	}
	t.emit(Token{Offset: t.pending, Length: end - t.pending, Kind: KindText})
	t.pending = -1
}

func (t *tokenizer) open(c *rules.Context, offset, length int, d *rules.Delimiter) {
	r := &Region{Context: c, Start: len(t.tokens), Count: -1}
	if n := len(t.stack); n > 0 {
		r.Parent = t.stack[n-1]
	}
	t.emit(Token{Offset: offset, Length: length, Kind: KindOpen, Delim: d, Region: r})
	t.stack = append(t.stack, r)
	t.ctx = c
}

// closes reports whether c is the context of an open region. The innermost
// region has priority, so a quote inside a string always ends it.
func (t *tokenizer) closes(c *rules.Context) bool {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].Context == c {
			return true
		}
	}
	return false
}

// closeTo closes the innermost open region of context c. Regions opened
// inside it that are still open end without a closing token.
func (t *tokenizer) closeTo(c *rules.Context, offset, length int, d *rules.Delimiter) {
	for {
		r := t.pop()
		if r.Context == c {
			t.emit(Token{Offset: offset, Length: length, Kind: KindClose, Delim: d, Region: r})
			r.Count = len(t.tokens) - r.Start
			r.Closed = true
			return
		}
		t.abandon(r)
	}
}

func (t *tokenizer) pop() *Region {
	n := len(t.stack)
	r := t.stack[n-1]
	t.stack = t.stack[:n-1]
	if n > 1 {
		t.ctx = t.stack[n-2].Context
	} else {
		t.ctx = t.rules.Default()
	}
	return r
}

// abandon ends a region that never saw its closing token.
func (t *tokenizer) abandon(r *Region) {
	r.Count = len(t.tokens) - r.Start
	switch r.Context.Name {
	case rules.LineComment, rules.DocComment:
		// These end at the end of input as well as at a newline.
	default:
		t.errorf(t.tokens[r.Start].Offset, "missing closing token for %q", t.tokens[r.Start].Delim.Text)
	}
}

func (t *tokenizer) finish() {
	for len(t.stack) > 0 {
		t.abandon(t.pop())
	}
}
