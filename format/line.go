package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/notation/lex"
)

// LineEncoder writes token streams one token per line, tab separated:
// position, kind, context or delimiter description, and the quoted source.
// Substitution tokens add their value as a fifth column.
type LineEncoder struct {
	w      io.Writer
	stream *lex.Stream
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

// Encode writes v, which must be a *lex.Stream.
func (e *LineEncoder) Encode(v any) error {
	s, ok := v.(*lex.Stream)
	if !ok {
		return fmt.Errorf("line encoder: cannot encode %T", v)
	}
	e.stream = s
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	s := e.stream
	if s == nil {
		return nil, nil
	}

	for i, t := range s.Tokens {
		line, col := s.Lines.Position(t.Offset)
		fmt.Fprintf(&sb, "%d:%d\t%s\t%s\t%s",
			line, col,
			t.Kind,
			e.describe(t),
			strconv.Quote(s.Raw(i)),
		)
		if t.Kind == lex.KindSubstitution {
			fmt.Fprintf(&sb, "\t%s", valueStr(t.Value))
		}
		sb.WriteByte('\n')
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) describe(t lex.Token) string {
	switch {
	case t.Region != nil:
		return t.Region.Context.Name
	case t.Delim != nil && t.Delim.Name != "":
		return t.Delim.Name
	case t.Delim != nil && t.Delim.Description != "":
		return t.Delim.Description
	}
	return "-"
}

func valueStr(v any) string {
	switch x := v.(type) {
	case rune:
		return strconv.QuoteRune(x)
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
