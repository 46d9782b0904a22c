package bind

import "github.com/dhamidi/notation/lex"

// Expression is a parenthesized group captured without interpretation.
type Expression struct {
	stream *lex.Stream
	region *lex.Region
}

var _ interface {
	MarshalNotation() ([]byte, error)
	MarshalText() ([]byte, error)
} = Expression{}

// String returns the source of the group, parentheses included.
func (e Expression) String() string {
	if e.stream == nil {
		return "()"
	}
	return e.stream.RegionRaw(e.region)
}

// Tokens returns the tokens between the parentheses.
func (e Expression) Tokens() []lex.Token {
	if e.stream == nil {
		return nil
	}
	start, end := e.region.Inner()
	return e.stream.Tokens[start:end]
}

// MarshalNotation prints the group verbatim.
func (e Expression) MarshalNotation() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e Expression) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}
