package main

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestSession() *session {
	return newSession(nil, nil)
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newREPLModel(newTestSession())
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateHelpCommandTogglesHelp(t *testing.T) {
	m := newREPLModel(newTestSession())
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)
	if cmd != nil {
		t.Fatalf("expected no command for :help")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUpdateEvaluatesInput(t *testing.T) {
	m := newREPLModel(newTestSession())
	m.textInput.SetValue("port: 8080")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)
	if len(rm.history) != 1 {
		t.Fatalf("history length = %d, want 1", len(rm.history))
	}
	entry := rm.history[0]
	if entry.isErr || entry.output != "{port:8080}" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if len(rm.cmdHistory) != 1 || rm.cmdHistory[0] != "port: 8080" {
		t.Fatalf("input history = %v", rm.cmdHistory)
	}
}

func TestUpdateUnknownCommandIsError(t *testing.T) {
	m := newREPLModel(newTestSession())
	m.textInput.SetValue(":frobnicate")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)
	if len(rm.history) != 1 || !rm.history[0].isErr {
		t.Fatalf("expected an error entry, got %+v", rm.history)
	}
}

func TestUpdateHistoryNavigation(t *testing.T) {
	m := newREPLModel(newTestSession())
	for _, in := range []string{"a: 1", "b: 2"} {
		m.textInput.SetValue(in)
		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = model.(replModel)
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	if got := m.textInput.Value(); got != "b: 2" {
		t.Fatalf("after up = %q, want %q", got, "b: 2")
	}
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	if got := m.textInput.Value(); got != "a: 1" {
		t.Fatalf("after up up = %q, want %q", got, "a: 1")
	}
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(replModel)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(replModel)
	if got := m.textInput.Value(); got != "" {
		t.Fatalf("after returning past the end = %q, want empty", got)
	}
}

func TestAutocompleteSingleName(t *testing.T) {
	s := newTestSession()
	s.env["server"] = "alpha"
	m := newREPLModel(s)
	m.textInput.SetValue("ser")

	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "server" {
		t.Fatalf("completed input = %q, want %q", got, "server")
	}
}

func TestAutocompleteListsCandidates(t *testing.T) {
	s := newTestSession()
	s.env["port"] = int64(1)
	s.env["path"] = "/"
	m := newREPLModel(s)
	m.textInput.SetValue("p")

	m = m.handleAutocomplete()
	if len(m.history) != 1 || m.history[0].output != "Completions: path, port" {
		t.Fatalf("unexpected history %+v", m.history)
	}
}

func TestEvalMergesMembers(t *testing.T) {
	s := newTestSession()

	if _, err := s.eval(`name: "x", tags: [a, b]`); err != nil {
		t.Fatalf("eval error = %v", err)
	}
	if s.env["name"] != "x" {
		t.Fatalf("name = %#v", s.env["name"])
	}

	got, err := s.eval("tags")
	if err != nil {
		t.Fatalf("eval error = %v", err)
	}
	if got != `["a","b"]` {
		t.Fatalf("eval(tags) = %q", got)
	}
}

func TestEvalScalar(t *testing.T) {
	s := newTestSession()
	tests := []struct {
		in   string
		want string
	}{
		{"42", "42"},
		{`"hi"`, `"hi"`},
		{"[1, 2]", "[1,2]"},
		{"(a + b)", "(a + b)"},
	}
	for _, tt := range tests {
		got, err := s.eval(tt.in)
		if err != nil {
			t.Errorf("eval(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("eval(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got, _ := s.eval(resultName); got != "(a + b)" {
		t.Errorf("eval(_) = %q", got)
	}
}

func TestEvalError(t *testing.T) {
	s := newTestSession()
	if _, err := s.eval("{a: [1"); err == nil {
		t.Fatalf("eval error = nil")
	}
	if len(s.env) != 0 {
		t.Fatalf("failed input bound names: %v", s.env)
	}
}

func TestSessionCommands(t *testing.T) {
	s := newTestSession()
	s.env["a"] = int64(1)

	if out, ok := s.command(":json"); !ok || out != "Output format json" {
		t.Fatalf("command(:json) = %q, %v", out, ok)
	}
	if got, _ := s.eval("a"); got != "1" {
		t.Fatalf("json eval(a) = %q", got)
	}
	if _, ok := s.command(":types"); !ok || !s.types {
		t.Fatalf("types not enabled")
	}
	if _, ok := s.command(":reset"); !ok || len(s.env) != 0 {
		t.Fatalf("reset left %v", s.env)
	}
	if _, ok := s.command(":nope"); ok {
		t.Fatalf("unknown command accepted")
	}
}

func TestRunLines(t *testing.T) {
	in := strings.NewReader("a: 1\n\n:vars\n:json\n[true]\n{bad\n:quit\nnever: 1\n")
	var out bytes.Buffer
	s := newTestSession()
	if err := runLines(in, &out, s); err != nil {
		t.Fatalf("runLines error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if lines[0] != "{a:1}" {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if !strings.Contains(out.String(), "a = 1") {
		t.Errorf(":vars output missing a = 1:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "error: ") {
		t.Errorf("missing error line:\n%s", out.String())
	}
	if _, ok := s.env["never"]; ok {
		t.Errorf("input after :quit was evaluated")
	}
}
