package format

import (
	"io"

	"gopkg.in/yaml.v3"
)

type YAMLEncoder struct {
	w    io.Writer
	v    any
	opts []Option
}

func NewYAMLEncoder(w io.Writer, opts ...Option) *YAMLEncoder {
	return &YAMLEncoder{w: w, opts: opts}
}

func (e *YAMLEncoder) Encode(v any) error {
	e.v = v
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	return yaml.Marshal(Plain(e.v, e.opts...))
}
