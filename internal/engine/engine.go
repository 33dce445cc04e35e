// Package engine orchestrates a validation run: it loads documents, drives
// the enabled rule categories in their fixed order, attaches extracted
// metadata, and aggregates the per-document reports into a run summary.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/goliatone/go-nbaudit/internal/extract"
	"github.com/goliatone/go-nbaudit/internal/logging"
	"github.com/goliatone/go-nbaudit/internal/notebook"
	"github.com/goliatone/go-nbaudit/internal/rules"
	"github.com/goliatone/go-nbaudit/internal/runtimeconfig"
	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

// parseErrorRuleID tags the synthetic finding emitted when a document cannot
// be loaded at all.
const parseErrorRuleID = "document.parse_error"

// Engine validates notebooks against the configured rule catalog. The
// configuration is resolved once at construction and immutable afterwards,
// so a single Engine is safe to reuse across runs and goroutines.
type Engine struct {
	cfg        runtimeconfig.Config
	categories []*rules.Category
	extractor  *extract.Extractor
	logger     interfaces.Logger
	ruleLogger interfaces.Logger
}

var _ interfaces.Validator = (*Engine)(nil)
var _ interfaces.Extractor = (*Engine)(nil)

// New builds an engine from a validated configuration. Configuration
// problems are fatal here, before any document is touched: silent
// misconfiguration would corrupt CI gating downstream.
func New(cfg runtimeconfig.Config, provider interfaces.LoggerProvider) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:        cfg,
		categories: rules.Registry(),
		extractor:  extract.New(logging.ExtractLogger(provider)),
		logger:     logging.EngineLogger(provider),
		ruleLogger: logging.RulesLogger(provider),
	}, nil
}

// ValidateOne validates a single notebook. A document that cannot be loaded
// yields a report carrying exactly one error finding instead of an error
// return, so one bad file never aborts a batch.
func (e *Engine) ValidateOne(ctx context.Context, path string) (interfaces.ValidationReport, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.ValidationReport{}, err
	}

	report := interfaces.ValidationReport{DocumentPath: path}

	doc, err := loadDocument(path)
	if err != nil {
		e.logger.Warn("document load failed", "path", path, "error", err)
		report.Findings = []interfaces.Finding{{
			RuleID:   parseErrorRuleID,
			Severity: interfaces.SeverityError,
			Message:  fmt.Sprintf("failed to parse notebook: %v", err),
		}}
		report.IsValid = false
		return report, nil
	}

	record := e.extractor.Extract(doc)
	report.Metadata = &record

	for _, category := range e.categories {
		if !e.cfg.CategoryEnabled(category.Name) {
			continue
		}
		logger := logging.WithNotebookContext(e.ruleLogger, path, category.Name, "validate")
		report.Findings = append(report.Findings, category.Run(doc, e.cfg, logger)...)
	}

	report.IsValid = report.ErrorCount() == 0
	e.logger.Debug("document validated",
		"path", path,
		"findings", len(report.Findings),
		"is_valid", report.IsValid,
	)
	return report, nil
}

// ValidateMany validates each path independently and summarises the batch.
// Report order always matches input path order, even when a worker pool is
// in use, so CI logs stay diffable.
func (e *Engine) ValidateMany(ctx context.Context, paths []string, opts interfaces.ValidateOptions) ([]interfaces.ValidationReport, interfaces.RunSummary, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = e.cfg.Engine.Workers
	}
	failFast := opts.FailFast || e.cfg.Engine.FailFast

	var reports []interfaces.ValidationReport
	var err error
	if workers > 1 && !failFast {
		reports, err = e.validateParallel(ctx, paths, workers)
	} else {
		reports, err = e.validateSequential(ctx, paths, failFast)
	}
	if err != nil {
		return reports, Summarize(reports), err
	}

	summary := Summarize(reports)
	e.logger.Info("validation run completed",
		"run_id", summary.RunID,
		"total", summary.TotalDocuments,
		"passed", summary.Passed,
		"failed", summary.Failed,
	)
	return reports, summary, nil
}

// ValidateDirectory discovers notebooks under dir and validates them.
func (e *Engine) ValidateDirectory(ctx context.Context, dir string, opts interfaces.ValidateOptions) ([]interfaces.ValidationReport, interfaces.RunSummary, error) {
	paths, err := e.discover(ctx, dir, opts)
	if err != nil {
		return nil, interfaces.RunSummary{}, err
	}
	return e.ValidateMany(ctx, paths, opts)
}

// ExtractMetadata is the standalone extraction entry point; it does not
// require validation to have run.
func (e *Engine) ExtractMetadata(ctx context.Context, path string) (interfaces.MetadataRecord, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.MetadataRecord{}, err
	}
	doc, err := loadDocument(path)
	if err != nil {
		return interfaces.MetadataRecord{}, err
	}
	return e.extractor.Extract(doc), nil
}

func (e *Engine) discover(ctx context.Context, dir string, opts interfaces.ValidateOptions) ([]string, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = e.cfg.Engine.Pattern
	}
	recursive := opts.Recursive || e.cfg.Engine.Recursive

	loader := notebook.NewOSLoader(dir, notebook.LoaderConfig{
		Pattern:   pattern,
		Recursive: recursive,
	})
	rels, err := loader.Discover(ctx, ".")
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(rels))
	for _, rel := range rels {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(rel)))
	}
	return paths, nil
}

func (e *Engine) validateSequential(ctx context.Context, paths []string, failFast bool) ([]interfaces.ValidationReport, error) {
	var reports []interfaces.ValidationReport
	for _, path := range paths {
		report, err := e.ValidateOne(ctx, path)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
		// Fail-fast is only honoured at document boundaries, never mid-rule.
		if failFast && !report.IsValid {
			e.logger.Info("fail-fast triggered", "path", path)
			break
		}
	}
	return reports, nil
}

func loadDocument(path string) (*notebook.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", notebook.ErrMalformedDocument, path, err)
	}
	return notebook.Decode(path, data)
}

// Summarize derives the run summary from a batch of reports. Counts are
// always exact sums over the constituent reports.
func Summarize(reports []interfaces.ValidationReport) interfaces.RunSummary {
	summary := interfaces.RunSummary{
		RunID:          uuid.NewString(),
		TotalDocuments: len(reports),
	}
	for _, report := range reports {
		if report.IsValid {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.TotalErrors += report.ErrorCount()
		summary.TotalWarnings += report.WarningCount()
		summary.TotalInfo += report.InfoCount()
	}
	return summary
}
