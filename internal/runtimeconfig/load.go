package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

// ErrConfigDecode wraps YAML decode failures, including unknown keys.
var ErrConfigDecode = errors.New("nbaudit config: decode failed")

type fileConfig struct {
	Engine     fileEngine              `yaml:"engine"`
	Logging    fileLogging             `yaml:"logging"`
	Categories map[string]fileCategory `yaml:"categories"`
}

type fileEngine struct {
	FailFast  *bool  `yaml:"fail_fast"`
	Workers   *int   `yaml:"workers"`
	Pattern   string `yaml:"pattern"`
	Recursive *bool  `yaml:"recursive"`
	Official  *bool  `yaml:"official"`
}

type fileLogging struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

type fileCategory struct {
	Enabled *bool               `yaml:"enabled"`
	Rules   map[string]fileRule `yaml:"rules"`
}

type fileRule struct {
	Enabled    *bool          `yaml:"enabled"`
	Severity   string         `yaml:"severity"`
	Parameters map[string]any `yaml:"parameters"`
}

// LoadFile reads a YAML rules file and overlays it onto the defaults. A
// missing path returns DefaultConfig unchanged so callers can treat the
// rules file as optional, matching the engine's built-in behaviour.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("nbaudit config: read %s: %w", path, err)
	}

	return Load(data)
}

// Load decodes YAML config bytes strictly: unknown keys at any level are a
// configuration error, not a silent no-op.
func Load(data []byte) (Config, error) {
	var raw fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigDecode, err)
	}

	cfg := DefaultConfig()
	applyEngine(&cfg.Engine, raw.Engine)
	applyLogging(&cfg.Logging, raw.Logging)

	for name, fc := range raw.Categories {
		category := CategoryConfig{Enabled: true, Rules: map[string]RuleConfig{}}
		if existing, ok := cfg.Categories[name]; ok {
			category = existing
		}
		if fc.Enabled != nil {
			category.Enabled = *fc.Enabled
		}
		if category.Rules == nil {
			category.Rules = map[string]RuleConfig{}
		}
		for ruleName, fr := range fc.Rules {
			category.Rules[ruleName] = RuleConfig{
				Enabled:    fr.Enabled,
				Severity:   interfaces.Severity(fr.Severity),
				Parameters: fr.Parameters,
			}
		}
		cfg.Categories[name] = category
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEngine(dst *EngineConfig, src fileEngine) {
	if src.FailFast != nil {
		dst.FailFast = *src.FailFast
	}
	if src.Workers != nil {
		dst.Workers = *src.Workers
	}
	if src.Pattern != "" {
		dst.Pattern = src.Pattern
	}
	if src.Recursive != nil {
		dst.Recursive = *src.Recursive
	}
	if src.Official != nil {
		dst.Official = *src.Official
	}
}

func applyLogging(dst *LoggingConfig, src fileLogging) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Level != "" {
		dst.Level = src.Level
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.AddSource {
		dst.AddSource = true
	}
	if len(src.Focus) > 0 {
		dst.Focus = append([]string(nil), src.Focus...)
	}
}
