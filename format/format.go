// Package format renders values as notation text and converts them to
// other textual formats.
package format

import (
	"encoding"
	"io"
)

// Encoder writes values in one output format.
type Encoder interface {
	encoding.TextMarshaler
	Encode(v any) error
}

// NotationEncoder writes values as notation text, one value per line.
type NotationEncoder struct {
	w    io.Writer
	v    any
	opts []Option
}

func NewNotationEncoder(w io.Writer, opts ...Option) *NotationEncoder {
	return &NotationEncoder{w: w, opts: opts}
}

func (e *NotationEncoder) Encode(v any) error {
	e.v = v
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *NotationEncoder) MarshalText() ([]byte, error) {
	return []byte(Stringify(e.v, e.opts...) + "\n"), nil
}
