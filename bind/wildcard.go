package bind

import "strings"

// FindWildcard returns the index of the first name matching pattern, or -1.
// A pattern is an exact name, "*", "x*" (prefix), "*x" (suffix) or "*x*"
// (substring). Matching is case sensitive.
func FindWildcard(names []string, pattern string) int {
	match := matcher(pattern)
	for i, n := range names {
		if match(n) {
			return i
		}
	}
	return -1
}

// findAllWildcard returns the indices of every name matching pattern.
func findAllWildcard(names []string, pattern string) []int {
	match := matcher(pattern)
	var out []int
	for i, n := range names {
		if match(n) {
			out = append(out, i)
		}
	}
	return out
}

func matcher(pattern string) func(string) bool {
	lead := strings.HasPrefix(pattern, "*")
	trail := len(pattern) > 1 && strings.HasSuffix(pattern, "*")
	core := strings.TrimSuffix(strings.TrimPrefix(pattern, "*"), "*")
	switch {
	case lead && trail:
		return func(s string) bool { return strings.Contains(s, core) }
	case lead:
		return func(s string) bool { return strings.HasSuffix(s, core) }
	case trail:
		return func(s string) bool { return strings.HasPrefix(s, core) }
	}
	return func(s string) bool { return s == pattern }
}

func isWildcard(pattern string) bool {
	return strings.HasPrefix(pattern, "*") || strings.HasSuffix(pattern, "*")
}
