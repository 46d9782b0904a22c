package format

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/dhamidi/notation/bind"
)

type point struct {
	X int `notation:"x"`
	Y int `notation:"y"`
}

type level int

const (
	Low level = iota
	High
)

func (l level) String() string {
	if l == High {
		return "High"
	}
	return "Low"
}

type shout string

func (s shout) MarshalText() ([]byte, error) {
	return []byte(strings.ToUpper(string(s))), nil
}

type broken struct{}

func (broken) MarshalNotation() ([]byte, error) {
	return nil, errors.New("boom */ here")
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"negative", int8(-7), "-7"},
		{"uint", uint8(200), "200"},
		{"whole float", 1.0, "1.0"},
		{"float", 2.5, "2.5"},
		{"float32", float32(0.5), "0.5"},
		{"NaN", math.NaN(), `"NaN"`},
		{"infinity", math.Inf(-1), `"-Inf"`},
		{"string", "hi", `"hi"`},
		{"escapes", "a\"b\n\t\\", `"a\"b\n\t\\"`},
		{"control", "\x01", `"\x01"`},
		{"empty slice", []int{}, "[]"},
		{"nil slice", []int(nil), "null"},
		{"slice", []int{1, 2}, "[1,2]"},
		{"array", [2]bool{true, false}, "[true,false]"},
		{"string map", map[string]int{"b": 2, "a": 1, "x y": 3}, `{a:1,b:2,"x y":3}`},
		{"int map", map[int]string{10: "x", 2: "y"}, `{2:"y",10:"x"}`},
		{"keyword key", map[string]bool{"null": true}, `{"null":true}`},
		{"record", point{1, 2}, "{x:1,y:2}"},
		{"pointer", &point{3, 4}, "{x:3,y:4}"},
		{"text marshaler", shout("hey"), `"HEY"`},
		{"marshaler error", broken{}, "null /* boom * / here */"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%#v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringifyPretty(t *testing.T) {
	tests := []struct {
		name string
		in   any
		opts []Option
		want string
	}{
		{"record", point{1, 2}, nil, "{\n  x: 1,\n  y: 2\n}"},
		{"scalars stay flat", []int{1, 2, 3}, nil, "[1, 2, 3]"},
		{"nested", []any{[]int{1}, 2}, nil, "[\n  [1],\n  2\n]"},
		{"empty record", struct{}{}, nil, "{}"},
		{"indent", map[string]int{"a": 1}, []Option{Indent("\t")}, "{\n\ta: 1\n}"},
		{
			"record in sequence",
			[]point{{1, 2}},
			nil,
			"[\n  {\n    x: 1,\n    y: 2\n  }\n]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{Pretty()}, tt.opts...)
			if got := Stringify(tt.in, opts...); got != tt.want {
				t.Errorf("Stringify() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestStringifyTypeTags(t *testing.T) {
	if got, want := Stringify(Dog{Name: "rex"}, TypeTags()), `{="format.Dog",name:"rex"}`; got != want {
		t.Errorf("Stringify() = %s, want %s", got, want)
	}

	reg := bind.NewRegistry()
	reg.Register("Dog", func() any { return Dog{} })
	if got, want := Stringify(Dog{Name: "rex"}, TypeTags(), WithTypeNames(reg)), `{=Dog,name:"rex"}`; got != want {
		t.Errorf("Stringify() = %s, want %s", got, want)
	}

	// members with a static type need no tag
	in := struct {
		P point  `notation:"p"`
		A Animal `notation:"a"`
	}{point{1, 2}, Dog{Name: "x"}}
	got := Stringify(in, WithTypeNames(reg), TypeTags())
	if !strings.HasPrefix(got, `{="struct {`) {
		t.Errorf("anonymous top level type tag missing: %s", got)
	}
	if !strings.Contains(got, `a:{=Dog,name:"x"}`) || !strings.Contains(got, `p:{x:1,y:2}`) {
		t.Errorf("Stringify() = %s", got)
	}

	if got, want := Stringify(Dog{Name: "rex"}, WithTypeNames(reg)), `{name:"rex"}`; got != want {
		t.Errorf("Stringify() without TypeTags = %s, want %s", got, want)
	}
}

func TestStringifyEnums(t *testing.T) {
	reg := bind.NewRegistry()
	reg.RegisterEnum(Low, High)

	in := map[string]level{"a": High, "b": Low, "c": level(9)}
	if got, want := Stringify(in, WithEnums(reg)), `{a:High,b:Low,c:9}`; got != want {
		t.Errorf("Stringify() = %s, want %s", got, want)
	}
	if got, want := Stringify(High), `1`; got != want {
		t.Errorf("Stringify() without enums = %s, want %s", got, want)
	}
}

func TestStringifyCycles(t *testing.T) {
	m := map[string]any{"name": "loop"}
	m["self"] = m
	if got, want := Stringify(m), `{name:"loop",self:null /* recursed 1 */}`; got != want {
		t.Errorf("Stringify() = %s, want %s", got, want)
	}

	s := []any{1, nil}
	s[1] = s
	if got, want := Stringify(s), `[1,null /* recursed 1 */]`; got != want {
		t.Errorf("Stringify() = %s, want %s", got, want)
	}

	// shared values that do not form a cycle print twice
	shared := &point{1, 1}
	if got, want := Stringify([]*point{shared, shared}), `[{x:1,y:1},{x:1,y:1}]`; got != want {
		t.Errorf("Stringify() = %s, want %s", got, want)
	}
}

func TestStringifyDepth(t *testing.T) {
	in := []any{[]any{[]any{1}}}
	if got, want := Stringify(in, Depth(1)), "[[null]]"; got != want {
		t.Errorf("Stringify() = %s, want %s", got, want)
	}
}

func TestStringifyExpression(t *testing.T) {
	var got struct {
		When bind.Expression `notation:"when"`
	}
	if err := bind.Parse(`{when: (a + b) * 2)}`, &got); err == nil {
		t.Fatalf("Parse() expected error for unbalanced input")
	}
	if err := bind.Parse(`{when: (a+ (b *c))}`, &got); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s, want := Stringify(got), `{when:(a+ (b *c))}`; s != want {
		t.Errorf("Stringify() = %s, want %s", s, want)
	}
}

func TestIsBare(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"name", true},
		{"_x1", true},
		{"caf\u00e9", true},
		{"1x", false},
		{"", false},
		{"null", false},
		{"true", false},
		{"a b", false},
		{"a.b", false},
	}
	for _, tt := range tests {
		if got := IsBare(tt.in); got != tt.want {
			t.Errorf("IsBare(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEscapeInvalidUTF8(t *testing.T) {
	if got, want := Escape("a\xffb"), `a\ufffdb`; got != want {
		t.Errorf("Escape() = %q, want %q", got, want)
	}

	for _, s := range []string{"a\xffb", "ÿ\x00 "} {
		got, err := bind.ParseAs[[]string](Stringify([]string{s}))
		if err != nil {
			t.Fatalf("ParseAs() error = %v", err)
		}
		if want := strings.ToValidUTF8(s, "\uFFFD"); len(got) != 1 || got[0] != want {
			t.Errorf("round trip of %q = %q, want %q", s, got, want)
		}
	}
}
