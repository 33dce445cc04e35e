// Package nbaudit is the public façade over the notebook audit runtime. It
// re-exports the contracts host applications consume and wires the engine,
// extractor and logging provider together behind a single constructor.
package nbaudit

import (
	"context"

	"github.com/goliatone/go-nbaudit/internal/engine"
	"github.com/goliatone/go-nbaudit/internal/logging"
	"github.com/goliatone/go-nbaudit/internal/logging/gologger"
	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

// Severity exports the finding severity enum.
type Severity = interfaces.Severity

// Severity levels, re-exported for consumers.
const (
	SeverityError   = interfaces.SeverityError
	SeverityWarning = interfaces.SeverityWarning
	SeverityInfo    = interfaces.SeverityInfo
)

// Finding exports the per-issue record rules produce.
type Finding = interfaces.Finding

// ValidationReport exports the per-notebook outcome.
type ValidationReport = interfaces.ValidationReport

// RunSummary exports the batch aggregate.
type RunSummary = interfaces.RunSummary

// MetadataRecord exports the extracted notebook metadata.
type MetadataRecord = interfaces.MetadataRecord

// DependencySpec exports one discovered package install.
type DependencySpec = interfaces.DependencySpec

// Difficulty exports the estimated complexity bucket.
type Difficulty = interfaces.Difficulty

// Difficulty levels, re-exported for consumers.
const (
	DifficultyBeginner     = interfaces.DifficultyBeginner
	DifficultyIntermediate = interfaces.DifficultyIntermediate
	DifficultyAdvanced     = interfaces.DifficultyAdvanced
)

// ValidateOptions exports the per-run overrides.
type ValidateOptions = interfaces.ValidateOptions

// Validator exports the validation contract implemented by the engine.
type Validator = interfaces.Validator

// Extractor exports the standalone metadata extraction contract.
type Extractor = interfaces.Extractor

// Logger exports the logging contract used across the runtime.
type Logger = interfaces.Logger

// LoggerProvider exports the named logger factory contract.
type LoggerProvider = interfaces.LoggerProvider

// Module is the top level audit runtime façade.
type Module struct {
	engine   *engine.Engine
	provider interfaces.LoggerProvider
}

// New constructs an audit module from the supplied configuration. A nil
// provider selects one from cfg.Logging; pass a provider to integrate with a
// host application's logging.
func New(cfg Config, provider interfaces.LoggerProvider) (*Module, error) {
	if provider == nil {
		built, err := buildProvider(cfg)
		if err != nil {
			return nil, err
		}
		provider = built
	}

	eng, err := engine.New(cfg, provider)
	if err != nil {
		return nil, err
	}

	return &Module{engine: eng, provider: provider}, nil
}

// Validator returns the validation surface of the module.
func (m *Module) Validator() Validator { return m.engine }

// Extractor returns the standalone metadata extraction surface.
func (m *Module) Extractor() Extractor { return m.engine }

// Logger returns a named logger from the module's provider.
func (m *Module) Logger(name string) Logger {
	return m.provider.GetLogger(name)
}

// ValidateOne validates a single notebook file.
func (m *Module) ValidateOne(ctx context.Context, path string) (ValidationReport, error) {
	return m.engine.ValidateOne(ctx, path)
}

// ValidateMany validates each path and summarises the batch.
func (m *Module) ValidateMany(ctx context.Context, paths []string, opts ValidateOptions) ([]ValidationReport, RunSummary, error) {
	return m.engine.ValidateMany(ctx, paths, opts)
}

// ValidateDirectory discovers and validates notebooks under dir.
func (m *Module) ValidateDirectory(ctx context.Context, dir string, opts ValidateOptions) ([]ValidationReport, RunSummary, error) {
	return m.engine.ValidateDirectory(ctx, dir, opts)
}

// ExtractMetadata extracts a metadata record without running validation.
func (m *Module) ExtractMetadata(ctx context.Context, path string) (MetadataRecord, error) {
	return m.engine.ExtractMetadata(ctx, path)
}

// Summarize derives a run summary from a batch of reports.
func Summarize(reports []ValidationReport) RunSummary {
	return engine.Summarize(reports)
}

func buildProvider(cfg Config) (interfaces.LoggerProvider, error) {
	switch cfg.Logging.Provider {
	case "noop":
		return noopProvider{}, nil
	default:
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
	}
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
