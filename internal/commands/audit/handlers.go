package auditcmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-nbaudit/internal/commands"
	"github.com/goliatone/go-nbaudit/internal/logging"
	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

const (
	validateDirectoryOperation = "nbaudit.validate_directory"
	validateFileOperation      = "nbaudit.validate_file"
	extractMetadataOperation   = "nbaudit.extract_metadata"
)

var (
	_ command.Commander[ValidateDirectoryCommand] = (*ValidateDirectoryHandler)(nil)
	_ command.Commander[ValidateFileCommand]      = (*ValidateFileHandler)(nil)
	_ command.Commander[ExtractMetadataCommand]   = (*ExtractMetadataHandler)(nil)
)

// BatchSink receives the outcome of a directory validation run.
type BatchSink func(reports []interfaces.ValidationReport, summary interfaces.RunSummary)

// ReportSink receives a single validation report.
type ReportSink func(report interfaces.ValidationReport)

// RecordSink receives an extracted metadata record.
type RecordSink func(record interfaces.MetadataRecord)

// ValidateDirectoryHandler runs directory validation through the shared
// command handler foundation.
type ValidateDirectoryHandler struct {
	inner *commands.Handler[ValidateDirectoryCommand]
}

// NewValidateDirectoryHandler creates a handler bound to the supplied
// validator. The sink, when non-nil, receives the reports and summary.
func NewValidateDirectoryHandler(validator interfaces.Validator, logger interfaces.Logger, sink BatchSink, opts ...commands.HandlerOption[ValidateDirectoryCommand]) *ValidateDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ValidateDirectoryCommand) error {
		reports, summary, err := validator.ValidateDirectory(ctx, msg.Directory, interfaces.ValidateOptions{
			Pattern:   msg.Pattern,
			FailFast:  msg.FailFast,
			Workers:   msg.Workers,
			Recursive: true,
		})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(reports, summary)
		}
		logging.WithFields(baseLogger, map[string]any{
			"run_id":    summary.RunID,
			"total":     summary.TotalDocuments,
			"passed":    summary.Passed,
			"failed":    summary.Failed,
			"errors":    summary.TotalErrors,
			"warnings":  summary.TotalWarnings,
			"fail_fast": msg.FailFast,
		}).Info("nbaudit.command.validate_directory.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateDirectoryCommand]{
		commands.WithLogger[ValidateDirectoryCommand](baseLogger),
		commands.WithOperation[ValidateDirectoryCommand](validateDirectoryOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ValidateDirectoryCommand].
func (h *ValidateDirectoryHandler) Execute(ctx context.Context, msg ValidateDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ValidateFileHandler validates one notebook through the shared foundation.
type ValidateFileHandler struct {
	inner *commands.Handler[ValidateFileCommand]
}

// NewValidateFileHandler creates a handler bound to the supplied validator.
func NewValidateFileHandler(validator interfaces.Validator, logger interfaces.Logger, sink ReportSink, opts ...commands.HandlerOption[ValidateFileCommand]) *ValidateFileHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ValidateFileCommand) error {
		report, err := validator.ValidateOne(ctx, msg.Path)
		if err != nil {
			return err
		}
		if sink != nil {
			sink(report)
		}
		logging.WithFields(baseLogger, map[string]any{
			"path":     msg.Path,
			"findings": len(report.Findings),
			"is_valid": report.IsValid,
		}).Info("nbaudit.command.validate_file.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateFileCommand]{
		commands.WithLogger[ValidateFileCommand](baseLogger),
		commands.WithOperation[ValidateFileCommand](validateFileOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateFileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ValidateFileCommand].
func (h *ValidateFileHandler) Execute(ctx context.Context, msg ValidateFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExtractMetadataHandler extracts metadata through the shared foundation.
type ExtractMetadataHandler struct {
	inner *commands.Handler[ExtractMetadataCommand]
}

// NewExtractMetadataHandler creates a handler bound to the supplied extractor.
func NewExtractMetadataHandler(extractor interfaces.Extractor, logger interfaces.Logger, sink RecordSink, opts ...commands.HandlerOption[ExtractMetadataCommand]) *ExtractMetadataHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ExtractMetadataCommand) error {
		record, err := extractor.ExtractMetadata(ctx, msg.Path)
		if err != nil {
			return err
		}
		if sink != nil {
			sink(record)
		}
		logging.WithFields(baseLogger, map[string]any{
			"path":  msg.Path,
			"title": record.Title,
		}).Info("nbaudit.command.extract_metadata.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExtractMetadataCommand]{
		commands.WithLogger[ExtractMetadataCommand](baseLogger),
		commands.WithOperation[ExtractMetadataCommand](extractMetadataOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExtractMetadataHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExtractMetadataCommand].
func (h *ExtractMetadataHandler) Execute(ctx context.Context, msg ExtractMetadataCommand) error {
	return h.inner.Execute(ctx, msg)
}
