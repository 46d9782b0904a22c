package lsp

import (
	"slices"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/notation/bind"
	"github.com/dhamidi/notation/format"
	"github.com/dhamidi/notation/lex"
	"github.com/dhamidi/notation/rules"
)

// Symbols lists the members of a document bound to a record, nested
// records as children.
func (doc *Document) Symbols() []protocol.DocumentSymbol {
	m, ok := doc.Value.(map[string]any)
	if !ok {
		return nil
	}
	s := doc.Stream
	n := len(s.Tokens)
	start, end := 0, n
	if first := skipTrivia(s, 0, n); first < n {
		tok := s.Tokens[first]
		if tok.Kind == lex.KindOpen && tok.Region.Context.Name == rules.CodeBodyContext &&
			skipTrivia(s, tok.Region.End(), n) == n {
			start, end = tok.Region.Inner()
		}
	}
	return doc.symbols(start, end, m)
}

func (doc *Document) symbols(start, end int, m map[string]any) []protocol.DocumentSymbol {
	s := doc.Stream
	var out []protocol.DocumentSymbol
	for i := skipTrivia(s, start, end); i < end; i = skipTrivia(s, i, end) {
		name, next, ok := memberKey(s, i)
		if !ok {
			i = after(s, i)
			continue
		}
		j := skipTrivia(s, next, end)
		if j < end && isDelim(s, j, ":", "=") {
			j = skipTrivia(s, j+1, end)
		}
		if j >= end {
			break
		}

		v := m[name]
		sym := protocol.DocumentSymbol{
			Name:           name,
			Kind:           kindOf(v),
			Range:          span(doc.Text, s.Tokens[i].Offset, tokenEnd(s, j)),
			SelectionRange: span(doc.Text, s.Tokens[i].Offset, tokenEnd(s, next-1)),
		}
		if isScalarValue(v) {
			detail := format.Stringify(v)
			sym.Detail = &detail
		}
		if tok := s.Tokens[j]; tok.Kind == lex.KindOpen && tok.Region.Context.Name == rules.CodeBodyContext {
			if sub, ok := v.(map[string]any); ok {
				from, to := tok.Region.Inner()
				sym.Children = doc.symbols(from, to, sub)
			}
		}
		out = append(out, sym)
		i = after(s, j)
	}
	return out
}

// skipTrivia skips comments and member separators.
func skipTrivia(s *lex.Stream, i, end int) int {
	for i < end {
		tok := s.Tokens[i]
		switch {
		case tok.Kind == lex.KindOpen && tok.Region.IsComment():
			i = tok.Region.End()
		case isDelim(s, i, ",", ";"):
			i++
		default:
			return i
		}
	}
	return end
}

func isDelim(s *lex.Stream, i int, texts ...string) bool {
	tok := s.Tokens[i]
	return tok.Kind == lex.KindDelim && slices.Contains(texts, tok.Delim.Text)
}

func memberKey(s *lex.Stream, i int) (string, int, bool) {
	tok := s.Tokens[i]
	switch tok.Kind {
	case lex.KindText, lex.KindSubstitution:
		return s.Raw(i), i + 1, true
	case lex.KindOpen:
		if tok.Region.IsText() {
			return s.RegionText(tok.Region), tok.Region.End(), true
		}
	}
	return "", i, false
}

// after returns the index of the first token after the value at i.
func after(s *lex.Stream, i int) int {
	if tok := s.Tokens[i]; tok.Kind == lex.KindOpen {
		return tok.Region.End()
	}
	return i + 1
}

// tokenEnd returns the byte offset just past the value at i.
func tokenEnd(s *lex.Stream, i int) int {
	return s.Tokens[after(s, i)-1].End()
}

func kindOf(v any) protocol.SymbolKind {
	switch v.(type) {
	case nil:
		return protocol.SymbolKindNull
	case map[string]any:
		return protocol.SymbolKindObject
	case []any:
		return protocol.SymbolKindArray
	case string:
		return protocol.SymbolKindString
	case bool:
		return protocol.SymbolKindBoolean
	case int64, uint64, float64:
		return protocol.SymbolKindNumber
	case bind.Expression:
		return protocol.SymbolKindFunction
	}
	return protocol.SymbolKindVariable
}

func isScalarValue(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}
