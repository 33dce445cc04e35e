package rules

import (
	"strings"
	"testing"

	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

func TestVersionPinning_UnpinnedFlagged(t *testing.T) {
	document := doc(code("!pip install pandas\n!pip install numpy==1.26.0"))

	findings, err := checkVersionPinning(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkVersionPinning: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
	if !strings.Contains(findings[0].Message, "pandas") {
		t.Fatalf("finding should name the package: %q", findings[0].Message)
	}
	if findings[0].LineNumber == nil || *findings[0].LineNumber != 1 {
		t.Fatalf("line number mismatch: %#v", findings[0].LineNumber)
	}
}

func TestVersionPinning_AllowList(t *testing.T) {
	document := doc(code("!pip install Pandas"))

	findings, err := checkVersionPinning(document, Context{
		Severity:   interfaces.SeverityWarning,
		Parameters: map[string]any{"allow_unpinned": []any{"pandas"}},
	})
	if err != nil {
		t.Fatalf("checkVersionPinning: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("allow-listed packages are exempt regardless of case: %#v", findings)
	}
}

func TestDeprecatedAPIs_Builtin(t *testing.T) {
	document := doc(code("from google.cloud.automl_v1beta1 import AutoMlClient"))

	findings, err := checkDeprecatedAPIs(document, Context{Severity: interfaces.SeverityError})
	if err != nil {
		t.Fatalf("checkDeprecatedAPIs: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
	if !strings.Contains(findings[0].Suggestion, "google.cloud.automl_v1") {
		t.Fatalf("suggestion should name the replacement: %q", findings[0].Suggestion)
	}
}

func TestDeprecatedAPIs_EveryOccurrence(t *testing.T) {
	document := doc(code(
		"import google.cloud.automl_v1beta1\n" +
			"client = google.cloud.automl_v1beta1.AutoMlClient()",
	))

	findings, err := checkDeprecatedAPIs(document, Context{Severity: interfaces.SeverityError})
	if err != nil {
		t.Fatalf("checkDeprecatedAPIs: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %#v", findings)
	}
	if *findings[0].LineNumber != 1 || *findings[1].LineNumber != 2 {
		t.Fatalf("line numbers mismatch: %#v, %#v", findings[0].LineNumber, findings[1].LineNumber)
	}
}

func TestDeprecatedAPIs_ConfiguredEntries(t *testing.T) {
	document := doc(code("from legacy.sdk import thing"))

	findings, err := checkDeprecatedAPIs(document, Context{
		Severity: interfaces.SeverityError,
		Parameters: map[string]any{
			"deprecated_imports": []any{
				map[string]any{"old": "legacy.sdk", "new": "modern.sdk", "deprecated_since": "2024-01-01"},
			},
		},
	})
	if err != nil {
		t.Fatalf("checkDeprecatedAPIs: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
	if !strings.Contains(findings[0].Suggestion, "modern.sdk") || !strings.Contains(findings[0].Suggestion, "2024-01-01") {
		t.Fatalf("suggestion mismatch: %q", findings[0].Suggestion)
	}
}

func TestImportAvailability_MissingInstall(t *testing.T) {
	document := doc(code("import pandas as pd"))

	findings, err := checkImportAvailability(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkImportAvailability: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
	if !strings.Contains(findings[0].Suggestion, "pip install pandas") {
		t.Fatalf("suggestion mismatch: %q", findings[0].Suggestion)
	}
}

func TestImportAvailability_InstalledAnywhere(t *testing.T) {
	document := doc(
		code("import pandas as pd"),
		code("!pip install pandas==2.1.0"),
	)

	findings, err := checkImportAvailability(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkImportAvailability: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("install anywhere in the notebook satisfies the import: %#v", findings)
	}
}

func TestImportAvailability_StdlibSkipped(t *testing.T) {
	document := doc(code("import os\nimport json\nfrom pathlib import Path"))

	findings, err := checkImportAvailability(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkImportAvailability: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("stdlib imports need no install: %#v", findings)
	}
}

func TestImportAvailability_PackageAlias(t *testing.T) {
	document := doc(
		code("!pip install scikit-learn==1.3.0"),
		code("from sklearn import linear_model"),
	)

	findings, err := checkImportAvailability(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkImportAvailability: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("sklearn should map to scikit-learn: %#v", findings)
	}
}
