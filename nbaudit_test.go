package nbaudit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleNotebook = `{
	"cells": [
		{"cell_type": "markdown", "metadata": {}, "source": "# Quickstart\n\nThis notebook shows the full validation flow in a compact example.\n\n## Overview\n\nWhat you'll learn."},
		{"cell_type": "markdown", "metadata": {}, "source": "## Setup\n\nInstall dependencies."},
		{"cell_type": "code", "metadata": {}, "outputs": [], "source": "!pip install pandas==2.1.0"},
		{"cell_type": "code", "metadata": {}, "outputs": [], "source": "import pandas as pd"}
	],
	"metadata": {"tags": ["quickstart"]}
}`

func newQuietModule(t *testing.T) *Module {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Logging.Provider = "noop"

	module, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return module
}

func TestModule_ValidateOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quickstart.ipynb")
	if err := os.WriteFile(path, []byte(sampleNotebook), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	module := newQuietModule(t)

	report, err := module.ValidateOne(context.Background(), path)
	if err != nil {
		t.Fatalf("ValidateOne: %v", err)
	}
	if !report.IsValid {
		t.Fatalf("expected a passing report, findings: %#v", report.Findings)
	}
	if report.Metadata == nil || report.Metadata.Slug != "quickstart" {
		t.Fatalf("metadata mismatch: %#v", report.Metadata)
	}
}

func TestModule_ValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.ipynb", "b.ipynb"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sampleNotebook), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	module := newQuietModule(t)

	reports, summary, err := module.ValidateDirectory(context.Background(), dir, ValidateOptions{})
	if err != nil {
		t.Fatalf("ValidateDirectory: %v", err)
	}
	if len(reports) != 2 || summary.Passed != 2 {
		t.Fatalf("expected both notebooks to pass: %#v", summary)
	}
}

func TestModule_SurfacesConfigErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories["styling"] = CategoryConfig{Enabled: true}

	if _, err := New(cfg, nil); err == nil {
		t.Fatal("invalid configuration must fail module construction")
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.CategoryEnabled(CategoryDependency) {
		t.Fatal("expected default configuration")
	}
}
