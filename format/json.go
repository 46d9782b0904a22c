package format

import (
	"encoding/json"
	"io"
)

type JSONEncoder struct {
	w    io.Writer
	v    any
	opts []Option
}

// NewJSONEncoder returns an encoder writing indented JSON. Options are
// those of Plain.
func NewJSONEncoder(w io.Writer, opts ...Option) *JSONEncoder {
	return &JSONEncoder{w: w, opts: opts}
}

func (e *JSONEncoder) Encode(v any) error {
	e.v = v
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(Plain(e.v, e.opts...), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
