package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	nbaudit "github.com/goliatone/go-nbaudit"
	auditcmd "github.com/goliatone/go-nbaudit/internal/commands/audit"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("nbaudit: %v", err)
	}
}

func run(args []string, out *os.File) error {
	fs := flag.NewFlagSet("nbaudit", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	dir := fs.String("dir", "", "Directory of notebooks to validate")
	file := fs.String("file", "", "Single notebook to validate")
	extract := fs.String("extract", "", "Notebook to extract metadata from (skips validation)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering notebooks")
	failFast := fs.Bool("fail-fast", false, "Stop after the first notebook with errors")
	workers := fs.Int("workers", 0, "Worker pool size for directory runs (0 = sequential)")
	official := fs.Bool("official", false, "Treat notebooks as official documentation")
	logLevel := fs.String("log-level", "", "Override the configured log level")
	quiet := fs.Bool("quiet", false, "Disable runtime logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := nbaudit.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *official {
		cfg.Engine.Official = true
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *quiet {
		cfg.Logging.Provider = "noop"
	}

	module, err := nbaudit.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}

	ctx := context.Background()
	logger := module.Logger("nbaudit.cli")
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	switch {
	case *extract != "":
		handler := auditcmd.NewExtractMetadataHandler(module.Extractor(), logger, func(record nbaudit.MetadataRecord) {
			_ = enc.Encode(record)
		})
		return handler.Execute(ctx, auditcmd.ExtractMetadataCommand{Path: *extract})

	case *file != "":
		var failed bool
		handler := auditcmd.NewValidateFileHandler(module.Validator(), logger, func(report nbaudit.ValidationReport) {
			failed = !report.IsValid
			_ = enc.Encode(report)
		})
		if err := handler.Execute(ctx, auditcmd.ValidateFileCommand{Path: *file}); err != nil {
			return err
		}
		if failed {
			return fmt.Errorf("validation failed: %s", *file)
		}
		return nil

	case *dir != "":
		var result struct {
			Reports []nbaudit.ValidationReport `json:"reports"`
			Summary nbaudit.RunSummary         `json:"summary"`
		}
		handler := auditcmd.NewValidateDirectoryHandler(module.Validator(), logger, func(reports []nbaudit.ValidationReport, summary nbaudit.RunSummary) {
			result.Reports = reports
			result.Summary = summary
		})
		cmd := auditcmd.ValidateDirectoryCommand{
			Directory: *dir,
			Pattern:   *pattern,
			FailFast:  *failFast,
			Workers:   *workers,
		}
		if err := handler.Execute(ctx, cmd); err != nil {
			return err
		}
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		if result.Summary.Failed > 0 {
			return fmt.Errorf("validation failed: %d of %d notebooks have errors", result.Summary.Failed, result.Summary.TotalDocuments)
		}
		return nil

	default:
		fs.Usage()
		return fmt.Errorf("one of -dir, -file or -extract is required")
	}
}
