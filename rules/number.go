package rules

import (
	"math"
	"strconv"
	"strings"
)

// NumericValue returns the digit value of c in bases up to 36, or -1.
func NumericValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	}
	return -1
}

// IsDigit reports whether c is a valid digit in base.
func IsDigit(c byte, base int) bool {
	v := NumericValue(c)
	return v >= 0 && v < base
}

// CountNumeric counts the bytes of a numeric literal starting at offset.
func CountNumeric(text string, offset, base int, allowSign, allowDecimal bool) int {
	n := 0
	seenDecimal := false
	for offset+n < len(text) {
		c := text[offset+n]
		switch {
		case IsDigit(c, base):
		case allowSign && n == 0 && c == '-':
		case allowDecimal && c == '.' && !seenDecimal:
			seenDecimal = true
		default:
			return n
		}
		n++
	}
	return n
}

// Numeric parses a base 10 number that may carry a sign and a fraction.
func Numeric(text string, offset int) ParseResult {
	return NumberParse(text, offset, 10, true)
}

// Integer parses a base 10 integer with an optional sign.
func Integer(text string, offset int) ParseResult {
	return NumberParse(text, offset, 10, false)
}

// Hexadecimal parses a 0x-prefixed base 16 integer.
func Hexadecimal(text string, offset int) ParseResult {
	count := CountNumeric(text, offset+2, 16, false, false)
	r := parseDigits(text, offset+2, count, 16, false)
	r.Length += 2
	if r.IsError() {
		r.ErrOffset += 2
	}
	if count == 0 {
		return r.withError("hexadecimal prefix with no digits", 2)
	}
	return r
}

// NumberParse parses the digit run at offset. The value is an int64, or a
// float64 when allowDecimal is set and a decimal point is present.
func NumberParse(text string, offset, base int, allowDecimal bool) ParseResult {
	return parseDigits(text, offset, CountNumeric(text, offset, base, true, allowDecimal), base, allowDecimal)
}

func parseDigits(text string, offset, count, base int, allowDecimal bool) ParseResult {
	end := offset + count
	res := ParseResult{Length: count, HasValue: true}
	i := offset
	negative := i < end && text[i] == '-'
	if negative {
		i++
	}

	// Magnitudes past the int64 range clamp to its bound.
	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}
	var u uint64
	overflow := false
	b := uint64(base)
	for i < end && IsDigit(text[i], base) {
		d := uint64(NumericValue(text[i]))
		if overflow || u > (limit-d)/b {
			overflow = true
			u = limit
		} else {
			u = u*b + d
		}
		i++
	}
	sum := int64(u)
	if negative {
		sum = int64(-u)
	}
	res.Value = sum

	if allowDecimal && i < end && text[i] == '.' {
		dot := i
		i++
		fracStart := i
		for i < end && IsDigit(text[i], base) {
			i++
		}
		res.Value = fractional(text[offset:end], text[fracStart:i], sum, base, negative)
		if i == fracStart {
			return res.withError("decimal point with no subsequent digits", dot-offset)
		}
		return res
	}
	if overflow {
		return res.withError("integer literal overflows 64 bits", 0)
	}
	return res
}

func fractional(literal, digits string, whole int64, base int, negative bool) float64 {
	if base == 10 {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(literal, "."), 64); err == nil {
			return f
		}
	}
	var frac float64
	scale := float64(base)
	for i := 0; i < len(digits); i++ {
		frac += float64(NumericValue(digits[i])) / scale
		scale *= float64(base)
	}
	if negative {
		frac = -frac
	}
	return float64(whole) + frac
}
