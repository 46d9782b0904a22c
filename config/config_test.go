package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/notation/bind"
	"github.com/dhamidi/notation/format"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
pretty = false
type_tags = true
indent = "\t"
max_depth = 16
fail_fast = true
verbosity = 2
log_file = "notation.log"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Config{
		Path:      path,
		TypeTags:  true,
		Indent:    "\t",
		MaxDepth:  16,
		FailFast:  true,
		Verbosity: 2,
		LogFile:   "notation.log",
		Addr:      Default().Addr,
	}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "pretty = true\ncolour = \"red\"\n", "unknown keys: colour"},
		{"bad depth", "max_depth = 0\n", "max_depth must be positive"},
		{"syntax", "pretty = \n", "read config"},
		{"wrong type", "indent = 4\n", "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".toml")
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Errorf("Load(missing) expected error")
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "verbosity = 1\n")
	deep := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(deep)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if want := filepath.Join(root, FileName); got != want {
		t.Errorf("Find() = %s, want %s", got, want)
	}

	// a directory named like the file does not count
	other := t.TempDir()
	if err := os.MkdirAll(filepath.Join(other, FileName), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Find(other); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find() error = %v, want ErrNotFound", err)
	}
}

func TestLoadFrom(t *testing.T) {
	t.Setenv(EnvVar, "")

	empty := t.TempDir()
	if _, err := Find(empty); err == nil {
		t.Skip("a configuration file exists above the temporary directory")
	}
	cfg, err := LoadFrom(empty)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("LoadFrom() = %+v, want defaults", *cfg)
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "verbosity = 1\n")
	explicit := filepath.Join(t.TempDir(), "explicit.toml")
	writeFile(t, explicit, "verbosity = 3\n")

	cfg, err = LoadFrom(dir)
	if err != nil || cfg.Verbosity != 1 {
		t.Errorf("LoadFrom() = %+v, %v, want verbosity 1", cfg, err)
	}

	t.Setenv(EnvVar, explicit)
	cfg, err = LoadFrom(dir)
	if err != nil || cfg.Verbosity != 3 || cfg.Path != explicit {
		t.Errorf("LoadFrom() with %s = %+v, %v, want verbosity 3", EnvVar, cfg, err)
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.TypeTags = true
	cfg.FailFast = true
	cfg.MaxDepth = 2

	type point struct {
		X int `notation:"x"`
	}
	if got, want := format.Stringify(point{1}, cfg.FormatOptions()...), "{\n  =\"config.point\",\n  x: 1\n}"; got != want {
		t.Errorf("Stringify() = %q, want %q", got, want)
	}

	_, err := bind.ParseAs[any]("[[[1]]]", cfg.BindOptions()...)
	if err == nil || !strings.Contains(err.Error(), "nested deeper than 2") {
		t.Errorf("ParseAs() error = %v, want depth error", err)
	}
}
