package main

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/notation/bind"
	"github.com/dhamidi/notation/format"
)

// resultName holds the value of the last evaluated input.
const resultName = "_"

// session is the evaluation state shared by both REPL front ends.
// Records entered at the top level are merged into env, and a bare name
// prints the value stored under it.
type session struct {
	env    map[string]any
	format string
	types  bool
	bind   []bind.Option
	print  []format.Option
}

func newSession(bindOpts []bind.Option, formatOpts []format.Option) *session {
	return &session{
		env:    make(map[string]any),
		format: "notation",
		bind:   bindOpts,
		print:  formatOpts,
	}
}

// eval parses input and returns the printed value. Input that does not
// parse as a document is retried as a single value, so scalars can be
// entered on their own.
func (s *session) eval(input string) (string, error) {
	if v, ok := s.env[input]; ok {
		return s.render(v)
	}

	var v any
	if err := bind.Parse(input, &v, s.bind...); err != nil {
		var list []any
		if bind.Parse("["+input+"]", &list, s.bind...) != nil || len(list) != 1 {
			return "", err
		}
		v = list[0]
	}
	if m, ok := v.(map[string]any); ok {
		for name, val := range m {
			s.env[name] = val
		}
	}
	s.env[resultName] = v
	return s.render(v)
}

func (s *session) render(v any) (string, error) {
	opts := s.print
	if s.types {
		opts = append(opts[:len(opts):len(opts)], format.TypeTags())
	}
	var buf bytes.Buffer
	enc, err := newEncoder(&buf, s.format, opts...)
	if err != nil {
		return "", err
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// command runs the session commands that change state. It reports false
// for commands it does not know.
func (s *session) command(name string) (string, bool) {
	switch name {
	case ":reset", ":r":
		s.env = make(map[string]any)
		return "Environment reset", true
	case ":notation", ":json", ":yaml":
		s.format = strings.TrimPrefix(name, ":")
		return "Output format " + s.format, true
	case ":types", ":t":
		s.types = !s.types
		if s.types {
			return "Type tags on", true
		}
		return "Type tags off", true
	}
	return "", false
}

// names returns the bound names in sorted order.
func (s *session) names() []string {
	names := make([]string, 0, len(s.env))
	for name := range s.env {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// complete returns the bound names starting with prefix.
func (s *session) complete(prefix string) []string {
	var out []string
	for _, name := range s.names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

func (s *session) describe(name string) string {
	return fmt.Sprintf("%s = %s", name, format.Stringify(s.env[name]))
}
