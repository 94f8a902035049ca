// Package config holds the ctltable configuration file schema and its
// embedded defaults.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ctltable/pkg/terminal"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// Config is the merged configuration. File values override the defaults
// key by key; keys absent from the file keep their default.
type Config struct {
	Color          string `yaml:"color"`
	Unicode        bool   `yaml:"unicode"`
	MaxWidth       int    `yaml:"maxWidth"`
	ShowSeparators bool   `yaml:"showSeparators"`
	Overwrite      bool   `yaml:"overwrite"`
	NaturalSort    bool   `yaml:"naturalSort"`
	LogLevel       string `yaml:"logLevel"`
}

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if err := Merge(&cfg, embeddedDefaultConfig); err != nil {
		return Config{}, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Merge decodes data over cfg. Unknown keys are rejected and the result is
// validated.
func Merge(cfg *Config, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	if _, err := terminal.ParseColorMode(c.Color); err != nil {
		return err
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("maxWidth must not be negative, got %d", c.MaxWidth)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ColorMode returns the parsed color setting.
func (c Config) ColorMode() terminal.ColorMode {
	m, err := terminal.ParseColorMode(c.Color)
	if err != nil {
		return terminal.ColorAuto
	}
	return m
}

// ParseLogLevel maps a level name to the zap level value the logger takes.
func ParseLogLevel(s string) (int8, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("invalid logLevel %q (expected debug|info|warn|error)", s)
	}
	return int8(lvl), nil
}
