package rules

import (
	"math"
	"strings"
	"testing"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		input  string
		length int
		value  any
		err    bool
	}{
		{"123", 3, int64(123), false},
		{"-42,", 3, int64(-42), false},
		{"12.5", 4, 12.5, false},
		{"-.5", 3, -0.5, false},
		{"0.1", 3, 0.1, false},
		{"7.", 2, 7.0, true},
		{"99999999999999999999", 20, int64(math.MaxInt64), true},
		{"9223372036854775807", 19, int64(math.MaxInt64), false},
		{"9223372036854775808", 19, int64(math.MaxInt64), true},
		{"-9223372036854775808", 20, int64(math.MinInt64), false},
		{"-9223372036854775809", 20, int64(math.MinInt64), true},
		{"-99999999999999999999", 21, int64(math.MinInt64), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := Numeric(tt.input, 0)
			if r.Length != tt.length {
				t.Errorf("Length = %d, want %d", r.Length, tt.length)
			}
			if r.IsError() != tt.err {
				t.Errorf("IsError() = %v, want %v (%q)", r.IsError(), tt.err, r.Err)
			}
			if tt.value != nil && r.Value != tt.value {
				t.Errorf("Value = %#v, want %#v", r.Value, tt.value)
			}
		})
	}
}

func TestNumericDecimalPointError(t *testing.T) {
	r := Numeric("x = 3.;", 4)
	if r.Err != "decimal point with no subsequent digits" {
		t.Fatalf("Err = %q", r.Err)
	}
	if r.ErrOffset != 1 {
		t.Errorf("ErrOffset = %d, want 1", r.ErrOffset)
	}
}

func TestHexadecimal(t *testing.T) {
	r := Hexadecimal("0xff ", 0)
	if r.Length != 4 {
		t.Errorf("Length = %d, want 4", r.Length)
	}
	if r.Value != int64(255) {
		t.Errorf("Value = %#v, want 255", r.Value)
	}

	r = Hexadecimal("0x;", 0)
	if !r.IsError() {
		t.Errorf("expected error for bare prefix")
	}
	if r.Length != 2 {
		t.Errorf("Length = %d, want 2", r.Length)
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		value  any
		err    bool
	}{
		{"newline", `\n`, 2, '\n', false},
		{"quote", `\"`, 2, '"', false},
		{"backslash", `\\`, 2, '\\', false},
		{"escape", `\e`, 2, rune(27), false},
		{"hex", `\x41`, 4, 'A', false},
		{"unicode", `\u00e9`, 6, '\u00e9', false},
		{"long unicode", `\U0001F600`, 10, '\U0001F600', false},
		{"octal", `\101`, 4, 'A', false},
		{"octal short", `\0"`, 2, rune(0), false},
		{"continuation", "\\\nx", 2, "", false},
		{"windows continuation", "\\\r\nx", 3, "", false},
		{"unknown", `\q`, 2, "q", true},
		{"short hex", `\x4`, 3, rune(4), true},
		{"invalid code point", `\UFFFFFFFF`, 10, nil, true},
		{"end of input", `\`, 1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Unescape(tt.input, 0)
			if r.Length != tt.length {
				t.Errorf("Length = %d, want %d", r.Length, tt.length)
			}
			if r.IsError() != tt.err {
				t.Errorf("IsError() = %v, want %v (%q)", r.IsError(), tt.err, r.Err)
			}
			if tt.value != nil && r.Value != tt.value {
				t.Errorf("Value = %#v, want %#v", r.Value, tt.value)
			}
		})
	}
}

func TestCommentEscape(t *testing.T) {
	if r := CommentEscape(`\d`, 0); r.Length != 1 || r.IsError() || r.HasValue {
		t.Errorf("CommentEscape(\\d) = %+v, want plain one byte", r)
	}
	if r := CommentEscape("\\\n", 0); r.Length != 2 || !r.HasValue {
		t.Errorf("CommentEscape(continuation) = %+v", r)
	}
}

func TestDelimiterAt(t *testing.T) {
	def := Standard().Default()
	tests := []struct {
		text   string
		offset int
		want   string
		parse  bool
	}{
		{">= 1", 0, ">=", false},
		{"> 1", 0, ">", false},
		{"<<= 1", 0, "<<=", false},
		{"/// doc", 0, "///", false},
		{"// line", 0, "//", false},
		{"-5", 0, "-", true},
		{"- 5", 0, "-", false},
		{"a-5", 1, "-", false},
		{".5", 0, ".", true},
		{"a.b", 1, ".", false},
		{"0x1f", 0, "0x", true},
		{"42", 0, "4", true},
		{"item2", 4, "", false},
		{"abc", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d := def.DelimiterAt(tt.text, tt.offset)
			if tt.want == "" {
				if d != nil {
					t.Errorf("DelimiterAt = %q, want none", d.Text)
				}
				return
			}
			if d == nil {
				t.Fatalf("DelimiterAt = nil, want %q", tt.want)
			}
			if d.Text != tt.want {
				t.Errorf("Text = %q, want %q", d.Text, tt.want)
			}
			if (d.Parse != nil) != tt.parse {
				t.Errorf("has parse rule = %v, want %v", d.Parse != nil, tt.parse)
			}
		})
	}
}

func TestDelimiterOrder(t *testing.T) {
	for _, c := range Standard().Contexts() {
		for i := 1; i < len(c.Delimiters); i++ {
			if less(c.Delimiters[i], c.Delimiters[i-1]) {
				t.Errorf("context %s: %q sorted after %q", c.Name, c.Delimiters[i].Text, c.Delimiters[i-1].Text)
			}
		}
	}
}

func TestStandardContexts(t *testing.T) {
	r := Standard()
	names := []string{
		DefaultContext, StringContext, CharContext, NumberContext, HexContext,
		ExpressionContext, SquareBraceContext, CodeBodyContext,
		LineComment, DocComment, BlockComment,
	}
	if got := len(r.Contexts()); got != len(names) {
		t.Errorf("len(Contexts()) = %d, want %d", got, len(names))
	}
	for _, name := range names {
		if _, ok := r.Context(name); !ok {
			t.Errorf("Context(%q) missing", name)
		}
	}

	str, _ := r.Context(StringContext)
	if str.IsWhitespace(' ') {
		t.Errorf("string context skips spaces")
	}
	if !r.Default().IsWhitespace('\n') {
		t.Errorf("default context does not skip newlines")
	}

	d := r.Default().DelimiterAt(`"x"`, 0)
	if got := r.Resolve(d); got != str {
		t.Errorf("Resolve(%q) = %v, want %v", d.Text, got, str)
	}
	if d.Description != "string delimiter" {
		t.Errorf("Description = %q", d.Description)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name     string
		def      string
		contexts []*Context
		want     string
	}{
		{
			name:     "unknown default",
			def:      "missing",
			contexts: []*Context{{Name: "a"}},
			want:     "default context",
		},
		{
			name:     "duplicate",
			def:      "a",
			contexts: []*Context{{Name: "a"}, {Name: "a"}},
			want:     "defined twice",
		},
		{
			name: "dangling reference",
			def:  "a",
			contexts: []*Context{{Name: "a", Delimiters: []*Delimiter{
				{Text: "<", Context: "angle", Start: true},
			}}},
			want: `"angle"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.def, tt.contexts...)
			if err == nil {
				t.Fatalf("New() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}
