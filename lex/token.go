package lex

import (
	"fmt"

	"github.com/dhamidi/notation/rules"
)

// Kind says how a token's span should be interpreted.
type Kind int

const (
	// KindText is a run of plain text.
	KindText Kind = iota
	// KindDelim is a literal delimiter such as "," or "->".
	KindDelim
	// KindOpen starts a context region.
	KindOpen
	// KindClose ends a context region.
	KindClose
	// KindSubstitution carries a value computed by a parse rule, such as a
	// decoded escape or a number.
	KindSubstitution
)

var kindNames = [...]string{
	KindText:         "text",
	KindDelim:        "delim",
	KindOpen:         "open",
	KindClose:        "close",
	KindSubstitution: "value",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is an immutable span of the source plus its interpretation.
type Token struct {
	Offset int
	Length int
	Kind   Kind
	// Delim is the matched delimiter for every kind except KindText.
	Delim *rules.Delimiter
	// Region is set for KindOpen and KindClose.
	Region *Region
	// Value is the substitution of a KindSubstitution token.
	Value any
}

// End returns the offset just past the token.
func (t Token) End() int {
	return t.Offset + t.Length
}

// Region is a span of tokens belonging to one context, delimited by an
// opening token and, unless the input ended early, a closing token.
type Region struct {
	Context *rules.Context
	Parent  *Region
	// Start is the index of the opening token.
	Start int
	// Count is the number of tokens in the region including its delimiters,
	// or -1 while the region is still open.
	Count  int
	Closed bool
}

// End returns the index of the first token after the region.
func (r *Region) End() int {
	return r.Start + r.Count
}

// Inner returns the token index range between the region's delimiters.
func (r *Region) Inner() (start, end int) {
	end = r.End()
	if r.Closed {
		end--
	}
	return r.Start + 1, end
}

// Depth returns the number of enclosing regions.
func (r *Region) Depth() int {
	n := 0
	for p := r.Parent; p != nil; p = p.Parent {
		n++
	}
	return n
}

// IsText reports whether the region is a string or char literal.
func (r *Region) IsText() bool {
	switch r.Context.Name {
	case rules.StringContext, rules.CharContext:
		return true
	}
	return false
}

// IsComment reports whether the region is a comment of any kind.
func (r *Region) IsComment() bool {
	switch r.Context.Name {
	case rules.LineComment, rules.DocComment, rules.BlockComment:
		return true
	}
	return false
}

// IsEnclosure reports whether the region is a bracketed group.
func (r *Region) IsEnclosure() bool {
	switch r.Context.Name {
	case rules.ExpressionContext, rules.SquareBraceContext, rules.CodeBodyContext:
		return true
	}
	return false
}

func (r *Region) String() string {
	return fmt.Sprintf("%s[%d:%d]", r.Context.Name, r.Start, r.End())
}
