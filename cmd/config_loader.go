package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ctltable/internal/config"
	"github.com/oakwood-commons/ctltable/pkg/settings"
)

// configLoader centralizes config loading so callers avoid duplicating merge logic.
type configLoader struct {
	defaultConfig func() ([]byte, error)
}

var cfgLoader = configLoader{defaultConfig: loadDefaultConfigYAML}

func loadMergedConfig(cfgPath string) (config.Config, error) {
	return cfgLoader.loadMergedConfig(cfgPath)
}

func loadDefaultConfigYAML() ([]byte, error) {
	data := config.DefaultYAML()
	if len(data) == 0 {
		return nil, fmt.Errorf("embedded default config is empty")
	}
	return data, nil
}

// loadMergedConfig decodes the defaults, then the file at cfgPath (if any)
// over them.
func (l configLoader) loadMergedConfig(cfgPath string) (config.Config, error) {
	var cfg config.Config

	defaultData, err := l.loadDefaultConfigRaw()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if err := config.Merge(&cfg, defaultData); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}

	if cfgPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", cfgPath, err)
	}
	if err := config.Merge(&cfg, data); err != nil {
		return cfg, fmt.Errorf("config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func (l configLoader) loadDefaultConfigRaw() ([]byte, error) {
	if l.defaultConfig != nil {
		return l.defaultConfig()
	}
	return loadDefaultConfigYAML()
}

// resolveConfigPath returns the explicit path if set, otherwise
// $XDG_CONFIG_HOME/ctltable/config.yaml or ~/.config/ctltable/config.yaml
// when that file exists.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// renderConfigYAML prints cfg with a header naming where it came from.
func renderConfigYAML(cfg config.Config, source string) (string, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if source == "" {
		source = "built-in defaults"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s configuration (source: %s)\n", settings.CliBinaryName, source)
	b.Write(out)
	return b.String(), nil
}
