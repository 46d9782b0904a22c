package rules

import (
	"fmt"
	"unicode/utf8"
)

var simpleEscapes = map[byte]rune{
	'a':  '\a',
	'b':  '\b',
	'e':  27,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'?':  '?',
}

// Unescape decodes the escape sequence starting with the backslash at offset.
// Single character, hex and octal escapes substitute a rune; a line
// continuation substitutes the empty string.
func Unescape(text string, offset int) ParseResult {
	if offset >= len(text) || text[offset] != '\\' {
		return ParseResult{}.withError("expected escape sequence starting with '\\'", 0)
	}
	if offset+1 >= len(text) {
		return ParseResult{Length: 1}.withError("unable to parse escape sequence at end of input", 0)
	}
	if r, ok := continuation(text, offset); ok {
		return r
	}
	c := text[offset+1]
	if r, ok := simpleEscapes[c]; ok {
		return ParseResult{Length: 2, Value: r, HasValue: true}
	}
	switch c {
	case 'x':
		return hexEscape(text, offset, 2)
	case 'u':
		return hexEscape(text, offset, 4)
	case 'U':
		return hexEscape(text, offset, 8)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 1
		for n < 3 && offset+1+n < len(text) && IsDigit(text[offset+1+n], 8) {
			n++
		}
		r := parseDigits(text, offset+1, n, 8, false)
		r.Length = n + 1
		r.Value = rune(r.Value.(int64))
		return r
	}
	return ParseResult{Length: 2, Value: string(c), HasValue: true}.withError("unknown escape sequence", 1)
}

// CommentEscape handles a backslash inside a line comment: a trailing
// backslash continues the comment on the next line, anything else is text.
func CommentEscape(text string, offset int) ParseResult {
	if r, ok := continuation(text, offset); ok {
		return r
	}
	return ParseResult{Length: 1}
}

func continuation(text string, offset int) (ParseResult, bool) {
	if offset+1 >= len(text) {
		return ParseResult{}, false
	}
	switch text[offset+1] {
	case '\n':
		return ParseResult{Length: 2, Value: "", HasValue: true}, true
	case '\r':
		if offset+2 < len(text) && text[offset+2] == '\n' {
			return ParseResult{Length: 3, Value: "", HasValue: true}, true
		}
		return ParseResult{Length: 2, Value: "", HasValue: true}.withError("expected windows line ending", 2), true
	}
	return ParseResult{}, false
}

func hexEscape(text string, offset, digits int) ParseResult {
	start := offset + 2
	n := 0
	for n < digits && start+n < len(text) && IsDigit(text[start+n], 16) {
		n++
	}
	r := parseDigits(text, start, n, 16, false)
	r.Length = n + 2
	v := r.Value.(int64)
	r.Value = rune(v)
	if n < digits {
		return r.withError(fmt.Sprintf("expected %d hexadecimal digits", digits), 2+n)
	}
	if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
		r.Value = utf8.RuneError
		return r.withError("escape sequence is not a valid code point", 0)
	}
	return r
}
