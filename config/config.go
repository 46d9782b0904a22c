// Package config loads the settings shared by the notation tools from a
// TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dhamidi/notation/bind"
	"github.com/dhamidi/notation/format"
)

// FileName is the name of the configuration file Find looks for.
const FileName = ".notation.toml"

// EnvVar names an environment variable holding the path of the
// configuration file. It takes precedence over Find.
const EnvVar = "NOTATION_CONFIG"

// ErrNotFound is returned by Find when no configuration file exists in the
// directory or any of its parents.
var ErrNotFound = errors.New("config: no " + FileName + " found")

// Config holds the settings of the command line tools.
type Config struct {
	// Path is the file the configuration was read from, empty for the
	// defaults.
	Path string `toml:"-"`

	Pretty   bool   `toml:"pretty"`
	TypeTags bool   `toml:"type_tags"`
	Indent   string `toml:"indent"`
	MaxDepth int    `toml:"max_depth"`
	FailFast bool   `toml:"fail_fast"`

	Verbosity int    `toml:"verbosity"`
	LogFile   string `toml:"log_file"`

	Addr string `toml:"addr"`
}

// Default returns the settings used when no file is found.
func Default() *Config {
	return &Config{
		Pretty:   true,
		Indent:   "  ",
		MaxDepth: bind.DefaultMaxDepth,
		Addr:     "localhost:8080",
	}
}

// Load reads the file at path over the defaults. Keys the file sets that
// Config does not know are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("read config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("read config %s: max_depth must be positive, got %d", path, cfg.MaxDepth)
	}
	cfg.Path = path
	return cfg, nil
}

// Find walks up from dir looking for FileName and returns its path.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// LoadFrom loads the configuration that applies to dir: the file named by
// EnvVar if set, otherwise the nearest FileName, otherwise the defaults.
func LoadFrom(dir string) (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	path, err := Find(dir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// BindOptions translates the settings into binder options.
func (c *Config) BindOptions() []bind.Option {
	opts := []bind.Option{bind.MaxDepth(c.MaxDepth)}
	if c.FailFast {
		opts = append(opts, bind.FailFast())
	}
	return opts
}

// FormatOptions translates the settings into printer options.
func (c *Config) FormatOptions() []format.Option {
	var opts []format.Option
	if c.Pretty {
		opts = append(opts, format.Pretty())
	}
	if c.TypeTags {
		opts = append(opts, format.TypeTags())
	}
	if c.Indent != "" {
		opts = append(opts, format.Indent(c.Indent))
	}
	return opts
}
