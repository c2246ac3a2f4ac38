// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	xglog "github.com/ManuGH/confj/internal/log"
	"github.com/rs/zerolog"
)

// EnvConfigPath is the environment variable consulted when neither an
// explicit nor a default source is available.
const EnvConfigPath = "JSON_CONFIG_PATH"

// Config is a Data populated from a resolved source.
// It is not safe for concurrent use; see Holder.
type Config struct {
	Data

	defaultSource string
	envVar        string
	logger        zerolog.Logger
}

// Option configures a Config.
type Option func(*Config)

// WithDefaultSource sets the source used when Load is called without one.
func WithDefaultSource(source string) Option {
	return func(c *Config) { c.defaultSource = source }
}

// WithEnvVar overrides the fallback environment variable (default JSON_CONFIG_PATH).
// An empty name disables the environment fallback.
func WithEnvVar(name string) Option {
	return func(c *Config) { c.envVar = name }
}

// WithLogger sets the logger used for load events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.logger = l }
}

// New returns an unloaded Config holding an empty mapping.
func New(opts ...Option) *Config {
	c := &Config{
		Data:   Data{raw: map[string]any{}},
		envVar: EnvConfigPath,
		logger: xglog.WithComponent("config"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open creates a Config and loads it from the resolved source.
func Open(opts ...Option) (*Config, error) {
	c := New(opts...)
	if err := c.Load(""); err != nil {
		return nil, err
	}
	return c, nil
}

// sibling returns an unloaded Config sharing c's options.
func (c *Config) sibling() *Config {
	return &Config{
		Data:          Data{raw: map[string]any{}},
		defaultSource: c.defaultSource,
		envVar:        c.envVar,
		logger:        c.logger,
	}
}

// AddSubconfig inserts raw under name in the top-level mapping. An existing
// name is never overwritten.
func (c *Config) AddSubconfig(name string, raw any) error {
	m, ok := c.mapping()
	if !ok {
		return configError("add_subconfig", "config root is a %s, not a mapping", c.Kind())
	}
	if _, exists := m[name]; exists {
		return configError("add_subconfig", "config already contains %q option", name)
	}
	v, err := Normalize(raw)
	if err != nil {
		return loadError("add_subconfig", name, err, "cannot use %T as subsection %q: %v", raw, name, err)
	}
	m[name] = v
	return nil
}

// LoadFromObject replaces the data with v without any structural validation.
func (c *Config) LoadFromObject(v any) error {
	start := now()
	raw, err := Normalize(v)
	if err != nil {
		err = loadError("load_from_object", "", err, "cannot use %T as config data: %v", v, err)
	} else {
		c.raw = raw
	}
	c.observe(sourceObject, "", start, err)
	return err
}
