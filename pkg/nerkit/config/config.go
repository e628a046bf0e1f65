// Package config loads nerkit settings from YAML or TOML files and builds
// the pipeline components they describe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/nerkit/pkg/nerkit/decode"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
)

// Config is the file configuration of the nerkit tools.
type Config struct {
	Lexicon  Lexicon  `yaml:"lexicon" toml:"lexicon"`
	Temporal Temporal `yaml:"temporal" toml:"temporal"`
	Tagger   Tagger   `yaml:"tagger" toml:"tagger"`
	Ingest   Ingest   `yaml:"ingest" toml:"ingest"`
	Server   Server   `yaml:"server" toml:"server"`
}

// Lexicon locates the gazetteer. When both are set the YAML lexicon is
// imported into the SQLite store.
type Lexicon struct {
	Path   string `yaml:"path" toml:"path"`
	SQLite string `yaml:"sqlite" toml:"sqlite"`
}

// Temporal overrides the embedded month/day tables.
type Temporal struct {
	Path string `yaml:"path" toml:"path"`
}

// Tagger selects the sequence labeler. Without a command the lexicon
// baseline tagger is used.
type Tagger struct {
	Command           string   `yaml:"command" toml:"command"`
	Args              []string `yaml:"args" toml:"args"`
	DefaultConfidence float64  `yaml:"default_confidence" toml:"default_confidence"`
}

type Ingest struct {
	Strict  bool `yaml:"strict" toml:"strict"`
	Workers int  `yaml:"workers" toml:"workers"`
}

type Server struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Tagger: Tagger{DefaultConfidence: decode.DefaultConfidence},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads a configuration file. The format is chosen by extension:
// .yaml/.yml or .toml. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration data in the given format ("yaml", "yml" or
// "toml") over the defaults and validates it.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", internalerr.ErrInvalidConfig, format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Tagger.DefaultConfidence < 0 || c.Tagger.DefaultConfidence > 1 {
		return fmt.Errorf("%w: tagger.default_confidence %v outside [0,1]", internalerr.ErrInvalidConfig, c.Tagger.DefaultConfidence)
	}
	if c.Ingest.Workers < 0 {
		return fmt.Errorf("%w: ingest.workers must not be negative", internalerr.ErrInvalidConfig)
	}
	if len(c.Tagger.Args) > 0 && c.Tagger.Command == "" {
		return fmt.Errorf("%w: tagger.args set without tagger.command", internalerr.ErrInvalidConfig)
	}
	return nil
}
