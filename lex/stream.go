package lex

import (
	"fmt"
	"strings"

	"github.com/dhamidi/notation/rules"
)

// Stream is the result of tokenizing one source text.
type Stream struct {
	Source string
	Tokens []Token
	Lines  Lines
	Rules  *rules.Rules
}

// Raw returns the source text of token i.
func (s *Stream) Raw(i int) string {
	t := s.Tokens[i]
	return s.Source[t.Offset:t.End()]
}

// Resolve returns the interpretation of token i: plain text, the delimiter
// text, the substitution value, or for an opening token the text of the
// whole region.
func (s *Stream) Resolve(i int) any {
	t := s.Tokens[i]
	switch t.Kind {
	case KindSubstitution:
		return t.Value
	case KindOpen:
		return s.RegionText(t.Region)
	case KindDelim, KindClose:
		return t.Delim.Text
	}
	return s.Raw(i)
}

// RegionRaw returns the source covered by a region, delimiters included.
func (s *Stream) RegionRaw(r *Region) string {
	start := s.Tokens[r.Start].Offset
	end := len(s.Source)
	if r.Closed {
		end = s.Tokens[r.End()-1].End()
	}
	return s.Source[start:end]
}

// RegionText returns the decoded contents of a string or char region, and
// the raw source between the delimiters for any other region.
func (s *Stream) RegionText(r *Region) string {
	start, end := r.Inner()
	if !r.IsText() {
		from := s.Tokens[r.Start].End()
		to := len(s.Source)
		if r.Closed {
			to = s.Tokens[r.End()-1].Offset
		}
		return s.Source[from:to]
	}
	var sb strings.Builder
	for i := start; i < end; i++ {
		t := s.Tokens[i]
		switch t.Kind {
		case KindSubstitution:
			switch v := t.Value.(type) {
			case rune:
				sb.WriteRune(v)
			case string:
				sb.WriteString(v)
			default:
				fmt.Fprint(&sb, v)
			}
		default:
			sb.WriteString(s.Raw(i))
		}
	}
	return sb.String()
}

// Position returns the line and column of token i.
func (s *Stream) Position(i int) (line, col int) {
	if i >= len(s.Tokens) {
		return s.Lines.Position(len(s.Source))
	}
	return s.Lines.Position(s.Tokens[i].Offset)
}

// Error builds a positioned error at token i, or at the end of input when
// i is past the last token.
func (s *Stream) Error(i int, msg string) *ParseError {
	if i >= len(s.Tokens) {
		return s.Lines.Error(len(s.Source), msg)
	}
	return s.Lines.Error(s.Tokens[i].Offset, msg)
}

// String renders one token per line for debugging.
func (s *Stream) String() string {
	var sb strings.Builder
	for i, t := range s.Tokens {
		line, col := s.Lines.Position(t.Offset)
		indent := 0
		if t.Region != nil {
			indent = t.Region.Depth()
		}
		fmt.Fprintf(&sb, "%d:%d\t%s%s\t%q", line, col, strings.Repeat("  ", indent), t.Kind, s.Raw(i))
		if t.Kind == KindSubstitution {
			fmt.Fprintf(&sb, "\t%#v", t.Value)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
