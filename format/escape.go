package format

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var escapes = map[rune]string{
	'\a': `\a`,
	'\b': `\b`,
	27:   `\e`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\v': `\v`,
	'\\': `\\`,
	'"':  `\"`,
}

// Escape returns s with the characters that cannot appear verbatim inside
// a double-quoted string replaced by escape sequences. Strings are UTF-8:
// a byte that does not start a valid encoding is written as \ufffd.
func Escape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			sb.WriteString(`\ufffd`)
		case escapes[r] != "":
			sb.WriteString(escapes[r])
		case r < ' ' || r == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case !unicode.IsPrint(r) && r > 0xffff:
			fmt.Fprintf(&sb, `\U%08x`, r)
		case !unicode.IsPrint(r) && r > 0x7f:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	return sb.String()
}

// Quote returns s as a double-quoted string.
func Quote(s string) string {
	return `"` + Escape(s) + `"`
}

// IsBare reports whether s can be written without quotes as a key or a
// string value and still read back as the same string.
func IsBare(s string) bool {
	switch s {
	case "", "null", "true", "false":
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}
