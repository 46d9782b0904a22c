package lex

import (
	"fmt"
	"sort"
	"strings"
)

// Lines holds the offsets of every newline in a source text.
type Lines []int

// NewLines indexes the newlines of text.
func NewLines(text string) Lines {
	var lines Lines
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i)
		}
	}
	return lines
}

// Position converts a byte offset into a 1-based line and column.
func (l Lines) Position(offset int) (line, col int) {
	n := sort.SearchInts(l, offset)
	if n == 0 {
		return 1, offset + 1
	}
	return n + 1, offset - l[n-1]
}

// Error builds a positioned error at offset.
func (l Lines) Error(offset int, msg string) *ParseError {
	line, col := l.Position(offset)
	return &ParseError{Offset: offset, Line: line, Column: col, Message: msg}
}

// ParseError is a lexical, structural or lookup error at a source position.
type ParseError struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// ErrorList collects positioned errors. The zero value is ready to use.
type ErrorList []*ParseError

// Add appends an error.
func (p *ErrorList) Add(e *ParseError) {
	*p = append(*p, e)
}

func (p ErrorList) Len() int      { return len(p) }
func (p ErrorList) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

func (p ErrorList) Less(i, j int) bool {
	return p[i].Offset < p[j].Offset
}

// Sort orders the list by source position, keeping insertion order for
// errors at the same offset.
func (p ErrorList) Sort() {
	sort.Stable(p)
}

func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	var sb strings.Builder
	for i, e := range p {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Err returns nil for an empty list and the list itself otherwise.
func (p ErrorList) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}
