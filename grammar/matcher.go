package grammar

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// fail marks a failed match. A successful match may be empty.
const fail = -1

type memoKey struct {
	name   string
	offset int
}

// Matcher matches text against the productions of a grammar. Matching is
// greedy: sequences and repetitions take the longest match of each item
// and never backtrack into it.
type Matcher struct {
	grammar ebnf.Grammar
}

// NewMatcher returns a matcher for g.
func NewMatcher(g ebnf.Grammar) *Matcher {
	return &Matcher{grammar: g}
}

// match holds the state of one Match call.
type match struct {
	grammar ebnf.Grammar
	input   string
	memo    map[memoKey]int

	// recursed tracks the productions being evaluated. An entry turns true
	// once its production is reached again at the same offset.
	recursed map[memoKey]bool
}

// Match returns the length of the longest prefix of text that production
// matches, or -1 when it matches nothing.
func (m *Matcher) Match(production, text string) (int, error) {
	if _, ok := m.grammar[production]; !ok {
		return fail, fmt.Errorf("production %q not found in grammar", production)
	}
	st := &match{
		grammar:  m.grammar,
		input:    text,
		memo:     make(map[memoKey]int),
		recursed: make(map[memoKey]bool),
	}
	return st.name(production, 0), nil
}

// Matches reports whether production matches all of text.
func (m *Matcher) Matches(production, text string) bool {
	n, err := m.Match(production, text)
	return err == nil && n == len(text)
}

func (st *match) expr(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		if strings.HasPrefix(st.input[offset:], e.String) {
			return len(e.String)
		}
		return fail

	case *ebnf.Range:
		return st.rangeAt(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := st.expr(item, offset+total)
			if n == fail {
				return fail
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := fail
		for _, alt := range e {
			if n := st.expr(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := st.expr(e.Body, offset+total)
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		return max(st.expr(e.Body, offset), 0)

	case *ebnf.Group:
		return st.expr(e.Body, offset)

	case *ebnf.Name:
		return st.name(e.String, offset)
	}
	return fail
}

// name matches a production with memoization. Left recursion is resolved
// by growing a seed: the production first fails at offset, then is
// re-evaluated with the previous result until the match stops growing.
func (st *match) name(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := st.memo[key]; ok {
		if _, pending := st.recursed[key]; pending {
			st.recursed[key] = true
		}
		return n
	}
	prod, ok := st.grammar[name]
	if !ok {
		st.memo[key] = fail
		return fail
	}

	st.memo[key] = fail
	st.recursed[key] = false
	defer delete(st.recursed, key)
	for {
		n := st.expr(prod.Expr, offset)
		if n <= st.memo[key] {
			return st.memo[key]
		}
		st.memo[key] = n
		if !st.recursed[key] {
			return n
		}
	}
}

func (st *match) rangeAt(begin, end string, offset int) int {
	if offset >= len(st.input) {
		return fail
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRuneInString(st.input[offset:])
	if r == utf8.RuneError && size == 1 {
		return fail
	}
	if r >= lo && r <= hi {
		return size
	}
	return fail
}
