package nbaudit

import "github.com/goliatone/go-nbaudit/internal/runtimeconfig"

// Config exports the runtime configuration consumed by New.
type Config = runtimeconfig.Config

// EngineConfig exports the orchestrator-level toggles.
type EngineConfig = runtimeconfig.EngineConfig

// LoggingConfig exports the logging provider options.
type LoggingConfig = runtimeconfig.LoggingConfig

// CategoryConfig exports per-category rule settings.
type CategoryConfig = runtimeconfig.CategoryConfig

// RuleConfig exports per-rule overrides.
type RuleConfig = runtimeconfig.RuleConfig

// Category identifiers, re-exported for consumers.
const (
	CategoryStructure  = runtimeconfig.CategoryStructure
	CategoryContent    = runtimeconfig.CategoryContent
	CategoryMetadata   = runtimeconfig.CategoryMetadata
	CategoryDependency = runtimeconfig.CategoryDependency
)

// Configuration errors, re-exported so callers can test with errors.Is.
var (
	ErrUnknownCategory = runtimeconfig.ErrUnknownCategory
	ErrUnknownRule     = runtimeconfig.ErrUnknownRule
	ErrInvalidSeverity = runtimeconfig.ErrInvalidSeverity
	ErrWorkersNegative = runtimeconfig.ErrWorkersNegative
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file, overlaying it on the defaults.
// A missing path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
