package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

// ErrUnknownCategory flags a configuration key that names no known category.
var ErrUnknownCategory = errors.New("nbaudit config: unknown validator category")

// ErrUnknownRule flags a rule key that no category registers.
var ErrUnknownRule = errors.New("nbaudit config: unknown rule")

// ErrInvalidSeverity flags a severity outside error/warning/info.
var ErrInvalidSeverity = errors.New("nbaudit config: severity must be error, warning or info")

var ErrWorkersNegative = errors.New("nbaudit config: engine workers must be zero or positive")
var ErrLoggingProviderUnknown = errors.New("nbaudit config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("nbaudit config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("nbaudit config: logging format is invalid")

// Category identifiers, in the fixed execution order used by the engine.
const (
	CategoryStructure  = "structure"
	CategoryContent    = "content"
	CategoryMetadata   = "metadata"
	CategoryDependency = "dependency"
)

// CategoryOrder is the order categories run in: structural problems should
// surface before deeper checks.
var CategoryOrder = []string{CategoryStructure, CategoryContent, CategoryMetadata, CategoryDependency}

// knownRules enumerates every rule id each category registers. Configuration
// referencing anything else is rejected at load time so silent
// misconfiguration cannot corrupt CI gating.
var knownRules = map[string][]string{
	CategoryStructure:  {"require_title", "require_overview", "require_setup_section", "check_cell_order", "check_section_headers"},
	CategoryContent:    {"hardcoded_values", "output_cells", "markdown_links", "documentation"},
	CategoryMetadata:   {"required_fields", "colab_links", "license_info"},
	CategoryDependency: {"version_pinning", "deprecated_apis", "import_availability"},
}

// Config aggregates engine behaviour, per-category rule settings, and
// logging options. Fields intentionally use simple types so host
// applications can extend them later.
type Config struct {
	Engine     EngineConfig
	Logging    LoggingConfig
	Categories map[string]CategoryConfig
}

// EngineConfig captures orchestrator-level toggles.
type EngineConfig struct {
	// FailFast halts directory iteration after the first failing report.
	FailFast bool
	// Workers caps the directory worker pool. Zero or one runs sequentially.
	Workers int
	// Pattern is the discovery glob for directory runs.
	Pattern string
	// Recursive controls directory traversal.
	Recursive bool
	// Official marks the corpus as official documentation, which gates the
	// colab_links and license_info checks.
	Official bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CategoryConfig enables a validator category and overrides its rules.
type CategoryConfig struct {
	Enabled bool
	Rules   map[string]RuleConfig
}

// RuleConfig overrides a single rule. Zero values fall back to the rule's
// built-in defaults.
type RuleConfig struct {
	Enabled    *bool
	Severity   interfaces.Severity
	Parameters map[string]any
}

// RuleEnabled resolves the effective enabled flag, defaulting to true.
func (c RuleConfig) RuleEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// DefaultConfig returns the built-in configuration: every category enabled,
// every rule on its intrinsic defaults, sequential directory runs.
func DefaultConfig() Config {
	categories := make(map[string]CategoryConfig, len(CategoryOrder))
	for _, name := range CategoryOrder {
		categories[name] = CategoryConfig{Enabled: true, Rules: map[string]RuleConfig{}}
	}

	return Config{
		Engine: EngineConfig{
			Pattern:   "*.ipynb",
			Recursive: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
		Categories: categories,
	}
}

// CategoryEnabled reports whether a category should run at all. Absent keys
// default to enabled.
func (c Config) CategoryEnabled(name string) bool {
	category, ok := c.Categories[name]
	if !ok {
		return true
	}
	return category.Enabled
}

// Rule returns the override for a rule id within a category, if any.
func (c Config) Rule(category, rule string) (RuleConfig, bool) {
	cat, ok := c.Categories[category]
	if !ok {
		return RuleConfig{}, false
	}
	rc, ok := cat.Rules[rule]
	return rc, ok
}

// Validate checks cross-field consistency and rejects unknown keys and
// invalid severities. A failed validation is fatal at engine startup.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Engine,
		validation.Field(&c.Engine.Workers, validation.Min(0).Error(ErrWorkersNegative.Error())),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrWorkersNegative, err)
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	for name, category := range c.Categories {
		rules, ok := knownRules[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		for ruleName, rc := range category.Rules {
			if !containsString(rules, ruleName) {
				return fmt.Errorf("%w: %q has no rule %q", ErrUnknownRule, name, ruleName)
			}
			if rc.Severity != "" && !rc.Severity.Valid() {
				return fmt.Errorf("%w: %s.%s given %q", ErrInvalidSeverity, name, ruleName, rc.Severity)
			}
		}
	}

	return nil
}

func (c Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Provider)) {
	case "", "gologger", "noop":
	default:
		return fmt.Errorf("%w: %q", ErrLoggingProviderUnknown, c.Logging.Provider)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("%w: %q", ErrLoggingLevelInvalid, c.Logging.Level)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "console", "pretty":
	default:
		return fmt.Errorf("%w: %q", ErrLoggingFormatInvalid, c.Logging.Format)
	}

	return nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
