package rules

import "strings"

// ParseFunc is a custom parse rule attached to a delimiter. It is invoked
// with the full source text and the offset where the delimiter matched.
type ParseFunc func(text string, offset int) ParseResult

// ParseResult describes what a ParseFunc consumed.
type ParseResult struct {
	// Length is the number of bytes consumed starting at the delimiter.
	Length int
	// Value replaces the consumed text when HasValue is set.
	Value    any
	HasValue bool
	// Err is non-empty when the consumed text is malformed. ErrOffset is
	// relative to the delimiter's offset.
	Err       string
	ErrOffset int
}

// IsError reports whether the parse rule flagged the consumed text.
func (r ParseResult) IsError() bool {
	return r.Err != ""
}

func (r ParseResult) withError(msg string, offset int) ParseResult {
	r.Err = msg
	r.ErrOffset = offset
	return r
}

// Delimiter is a literal pattern that interrupts plain-text scanning.
//
// A delimiter with a non-empty Context is a context delimiter: Start and End
// say whether matching it opens or closes a region of that context.
type Delimiter struct {
	Text        string
	Name        string
	Description string
	Parse       ParseFunc
	Require     func(text string, offset int) bool
	Context     string
	Start       bool
	End         bool
}

// IsAt reports whether the delimiter text appears at offset.
func (d *Delimiter) IsAt(text string, offset int) bool {
	if offset+len(d.Text) > len(text) {
		return false
	}
	return text[offset:offset+len(d.Text)] == d.Text
}

// Matches is IsAt plus the delimiter's additional requirement, if any.
func (d *Delimiter) Matches(text string, offset int) bool {
	if !d.IsAt(text, offset) {
		return false
	}
	return d.Require == nil || d.Require(text, offset)
}

// IsContextual reports whether d opens or closes a context.
func (d *Delimiter) IsContextual() bool {
	return d.Context != "" && (d.Start || d.End)
}

func (d *Delimiter) String() string {
	return d.Text
}

// less orders delimiters longest first, then lexicographically, then
// delimiters with a requirement ahead of unconditional ones of equal text.
func less(a, b *Delimiter) bool {
	if len(a.Text) != len(b.Text) {
		return len(a.Text) > len(b.Text)
	}
	if c := strings.Compare(a.Text, b.Text); c != 0 {
		return c < 0
	}
	return a.Require != nil && b.Require == nil
}

// describe fills in missing descriptions for a delimiter group.
func describe(desc string, delims ...*Delimiter) []*Delimiter {
	for _, d := range delims {
		if d.Description == "" {
			d.Description = desc
		}
	}
	return delims
}

func plain(desc string, texts ...string) []*Delimiter {
	delims := make([]*Delimiter, len(texts))
	for i, t := range texts {
		delims[i] = &Delimiter{Text: t}
	}
	return describe(desc, delims...)
}
