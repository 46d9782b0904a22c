package lex

import (
	"strings"
	"testing"

	"github.com/dhamidi/notation/rules"
)

func kinds(s *Stream) []Kind {
	out := make([]Kind, len(s.Tokens))
	for i, t := range s.Tokens {
		out[i] = t.Kind
	}
	return out
}

func equalKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenizeString(t *testing.T) {
	s, errs := Tokenize(`x="hi\nthere"`)
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	want := []Kind{KindText, KindDelim, KindOpen, KindText, KindSubstitution, KindText, KindClose}
	if got := kinds(s); !equalKinds(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	r := s.Tokens[2].Region
	if !r.Closed {
		t.Errorf("region not closed")
	}
	if r.End() != 7 {
		t.Errorf("End() = %d, want 7", r.End())
	}
	if got := s.RegionText(r); got != "hi\nthere" {
		t.Errorf("RegionText = %q, want %q", got, "hi\nthere")
	}
	if got := s.RegionRaw(r); got != `"hi\nthere"` {
		t.Errorf("RegionRaw = %q", got)
	}
	if got := s.Resolve(0); got != "x" {
		t.Errorf("Resolve(0) = %v, want x", got)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	s, errs := Tokenize(`"abc`)
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1: %v", len(errs), errs)
	}
	if !strings.HasPrefix(errs[0].Message, "missing closing token") {
		t.Errorf("Message = %q", errs[0].Message)
	}
	if errs[0].Line != 1 || errs[0].Column != 1 {
		t.Errorf("position = %d:%d, want 1:1", errs[0].Line, errs[0].Column)
	}
	r := s.Tokens[0].Region
	if r.Closed {
		t.Errorf("region closed")
	}
	if r.Count != 2 {
		t.Errorf("Count = %d, want 2", r.Count)
	}
	if got := s.RegionText(r); got != "abc" {
		t.Errorf("RegionText = %q, want abc", got)
	}
}

func TestTokenizeNewlineInString(t *testing.T) {
	_, errs := Tokenize("\"ab\ncd\"")
	if len(errs) != 2 {
		t.Fatalf("len(errs) = %d, want 2: %v", len(errs), errs)
	}
	if errs[0].Message != "newline in string literal" {
		t.Errorf("Message = %q", errs[0].Message)
	}
	if errs[0].Line != 1 || errs[0].Column != 4 {
		t.Errorf("position = %d:%d, want 1:4", errs[0].Line, errs[0].Column)
	}
}

func TestTokenizeLineComment(t *testing.T) {
	s, errs := Tokenize("a:1, // note\nb:2")
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	var texts []string
	for i, tok := range s.Tokens {
		if tok.Kind == KindText {
			texts = append(texts, s.Raw(i))
		}
	}
	want := []string{"a", " note", "b"}
	if strings.Join(texts, "|") != strings.Join(want, "|") {
		t.Errorf("texts = %q, want %q", texts, want)
	}
	if line, _ := s.Position(len(s.Tokens) - 1); line != 2 {
		t.Errorf("line of last token = %d, want 2", line)
	}
}

func TestTokenizeCommentAtEOF(t *testing.T) {
	for _, input := range []string{"a // trailing", "a /// doc"} {
		_, errs := Tokenize(input)
		if len(errs) != 0 {
			t.Errorf("Tokenize(%q) errors: %v", input, errs)
		}
	}
	if _, errs := Tokenize("a /* open"); len(errs) != 1 {
		t.Errorf("unterminated block comment: len(errs) = %d, want 1", len(errs))
	}
}

func TestTokenizeNestedBlockComment(t *testing.T) {
	s, errs := Tokenize("/* a /* b */ c */x")
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	outer := s.Tokens[0].Region
	if outer.Count != 7 {
		t.Errorf("Count = %d, want 7", outer.Count)
	}
	inner := s.Tokens[2].Region
	if inner.Parent != outer {
		t.Errorf("inner.Parent = %v, want %v", inner.Parent, outer)
	}
	if inner.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", inner.Depth())
	}
	if !outer.IsComment() {
		t.Errorf("IsComment() = false")
	}
	if got := s.Raw(len(s.Tokens) - 1); got != "x" {
		t.Errorf("last token = %q, want x", got)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	s, errs := Tokenize("x: -12.5, y: 0x1F, item2, n:3")
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	var values []any
	var texts []string
	for i, tok := range s.Tokens {
		switch tok.Kind {
		case KindSubstitution:
			values = append(values, tok.Value)
		case KindText:
			texts = append(texts, s.Raw(i))
		}
	}
	wantValues := []any{-12.5, int64(31), int64(3)}
	if len(values) != len(wantValues) {
		t.Fatalf("values = %v, want %v", values, wantValues)
	}
	for i := range values {
		if values[i] != wantValues[i] {
			t.Errorf("values[%d] = %#v, want %#v", i, values[i], wantValues[i])
		}
	}
	if strings.Join(texts, ",") != "x,y,item2,n" {
		t.Errorf("texts = %q", texts)
	}
}

func TestTokenizeMismatchedClose(t *testing.T) {
	s, errs := Tokenize("{[1,2}")
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1: %v", len(errs), errs)
	}
	if errs[0].Column != 2 {
		t.Errorf("Column = %d, want 2", errs[0].Column)
	}
	brace := s.Tokens[0].Region
	if !brace.Closed || brace.End() != len(s.Tokens) {
		t.Errorf("brace region = %v closed=%v", brace, brace.Closed)
	}
	square := s.Tokens[1].Region
	if square.Closed {
		t.Errorf("square region closed")
	}
	if square.End() != 5 {
		t.Errorf("square End() = %d, want 5", square.End())
	}

	_, errs = Tokenize("a)")
	if len(errs) != 1 || !strings.HasPrefix(errs[0].Message, "unexpected closing token") {
		t.Errorf("errs = %v", errs)
	}
}

func TestTokenizeUnknownEscape(t *testing.T) {
	s, errs := Tokenize(`"a\qb"`)
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	if got := s.RegionText(s.Tokens[0].Region); got != "aqb" {
		t.Errorf("RegionText = %q, want aqb", got)
	}
}

func TestTokenizeWithContext(t *testing.T) {
	s, errs := Tokenize(`a b \n`, WithContext(rules.StringContext))
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	if len(s.Tokens) != 2 {
		t.Fatalf("len(Tokens) = %d, want 2", len(s.Tokens))
	}
	if s.Raw(0) != "a b " {
		t.Errorf("Raw(0) = %q", s.Raw(0))
	}

	_, errs = Tokenize("x", WithContext("nope"))
	if len(errs) != 1 {
		t.Errorf("len(errs) = %d, want 1", len(errs))
	}
}

// Tokens never overlap and the bytes between them are whitespace.
func TestTokenizeGaps(t *testing.T) {
	inputs := []string{
		"a:1,b:2",
		"{ name : \"x y\" , list: [1, 2.5, -3] }",
		"=Circle\n  radius: 5 // r\n/* c /* d */ */",
		"f(a->b, c::d) ?? e",
		"\"unterminated",
		"'c' '\\n' 0x10 .5",
		"/// doc\n\tvalue",
	}
	for _, input := range inputs {
		s, _ := Tokenize(input)
		prev := 0
		for i, tok := range s.Tokens {
			if tok.Offset < prev {
				t.Errorf("%q: token %d at %d overlaps previous end %d", input, i, tok.Offset, prev)
			}
			if tok.Length <= 0 {
				t.Errorf("%q: token %d has length %d", input, i, tok.Length)
			}
			if gap := input[min(prev, tok.Offset):tok.Offset]; strings.Trim(gap, rules.DefaultWhitespace) != "" {
				t.Errorf("%q: non-whitespace gap %q before token %d", input, gap, i)
			}
			prev = tok.End()
		}
		if rest := input[prev:]; strings.Trim(rest, rules.DefaultWhitespace) != "" {
			t.Errorf("%q: trailing text %q not tokenized", input, rest)
		}
	}
}

func TestPosition(t *testing.T) {
	lines := NewLines("ab\ncd\n\nef")
	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, tt := range tests {
		line, col := lines.Position(tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}

func TestErrorList(t *testing.T) {
	var errs ErrorList
	if errs.Err() != nil {
		t.Errorf("Err() on empty list = %v", errs.Err())
	}
	lines := NewLines("a\nbc")
	errs.Add(lines.Error(3, "second"))
	errs.Add(lines.Error(0, "first"))
	errs.Sort()
	if errs[0].Message != "first" {
		t.Errorf("errs[0] = %v", errs[0])
	}
	want := "1:1: first\n2:2: second"
	if got := errs.Err().Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
