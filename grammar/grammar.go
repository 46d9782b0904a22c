// Package grammar describes the data subset of the notation in EBNF and
// matches text against it.
package grammar

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/ebnf"
)

// Start is the production a whole document matches.
const Start = "Document"

//go:embed notation.ebnf
var source string

// Source returns the EBNF text of the grammar.
func Source() string {
	return source
}

// Load parses the embedded grammar and verifies it from Start.
func Load() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("notation.ebnf", strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(g, Start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// Productions returns the production names of g in source order.
func Productions(g ebnf.Grammar) []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return g[names[i]].Pos().Offset < g[names[j]].Pos().Offset
	})
	return names
}
