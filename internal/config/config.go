// Package config loads selfref.yaml, the project configuration of the
// generator, with SELFREF_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"selfref-generator/internal/schema"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "selfref.yaml"

// Config is the root configuration structure.
type Config struct {
	// Packages are the Go package patterns to analyze.
	Packages []string `yaml:"packages,omitempty"`
	// Schemas are YAML schema files to generate from.
	Schemas []string `yaml:"schemas,omitempty"`
	// Out overrides the output directory of every generated file.
	Out string `yaml:"out,omitempty"`
	// Compat and NoDoc are default options merged into every schema.
	Compat bool `yaml:"compat,omitempty"`
	NoDoc  bool `yaml:"no_doc,omitempty"`
	// ScopeMarker is the type parameter name that stands for the aggregate.
	ScopeMarker string `yaml:"scope_marker,omitempty"`
	// Jobs bounds how many schemas are processed at once.
	Jobs    int           `yaml:"jobs,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "console" or "json"
}

// Options returns the schema options every schema inherits.
func (c *Config) Options() schema.Options {
	return schema.Options{Compat: c.Compat, NoDoc: c.NoDoc}
}

// Default returns the configuration used without a file.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)

	return cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes configuration, applying environment overrides and defaults.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads path when it exists and the defaults otherwise.
// A missing file at the default path is not an error; a missing file the
// user named explicitly is.
func LoadWithFallback(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}

	if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = &Config{}
	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies SELFREF_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SELFREF_PACKAGES"); v != "" {
		cfg.Packages = splitList(v)
	}

	if v := os.Getenv("SELFREF_SCHEMAS"); v != "" {
		cfg.Schemas = splitList(v)
	}

	if v := os.Getenv("SELFREF_OUT"); v != "" {
		cfg.Out = v
	}

	if v := os.Getenv("SELFREF_COMPAT"); v != "" {
		cfg.Compat = parseBool(v)
	}

	if v := os.Getenv("SELFREF_NO_DOC"); v != "" {
		cfg.NoDoc = parseBool(v)
	}

	if v := os.Getenv("SELFREF_SCOPE_MARKER"); v != "" {
		cfg.ScopeMarker = v
	}

	if v := os.Getenv("SELFREF_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Jobs = n
		}
	}

	if v := os.Getenv("SELFREF_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("SELFREF_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func splitList(v string) []string {
	var out []string

	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func setDefaults(cfg *Config) {
	if cfg.ScopeMarker == "" {
		cfg.ScopeMarker = schema.DefaultScopeMarker
	}

	if cfg.Jobs <= 0 {
		cfg.Jobs = 4
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validate(cfg *Config) error {
	if !schema.IsValidIdent(cfg.ScopeMarker) {
		return fmt.Errorf("scope_marker %q is not an identifier", cfg.ScopeMarker)
	}

	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	switch cfg.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", cfg.Logging.Format)
	}

	return nil
}
