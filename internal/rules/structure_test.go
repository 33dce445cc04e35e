package rules

import (
	"strings"
	"testing"

	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

func TestRequireTitle_Present(t *testing.T) {
	document := doc(md("# My Notebook"), code("x = 1"))

	findings, err := checkRequireTitle(document, Context{Severity: interfaces.SeverityError})
	if err != nil {
		t.Fatalf("checkRequireTitle: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %#v", findings)
	}
}

func TestRequireTitle_Missing(t *testing.T) {
	document := doc(md("just some prose"), code("x = 1"))

	findings, err := checkRequireTitle(document, Context{Severity: interfaces.SeverityError})
	if err != nil {
		t.Fatalf("checkRequireTitle: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
	if findings[0].Severity != interfaces.SeverityError {
		t.Fatalf("severity mismatch: %s", findings[0].Severity)
	}
	if findings[0].Suggestion == "" {
		t.Fatal("expected a suggestion")
	}
}

func TestRequireTitle_HeadingAfterCodeDoesNotCount(t *testing.T) {
	document := doc(code("x = 1"), md("# Too Late"))

	findings, err := checkRequireTitle(document, Context{Severity: interfaces.SeverityError})
	if err != nil {
		t.Fatalf("checkRequireTitle: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("titles after the first code cell must not satisfy the rule: %#v", findings)
	}
}

func TestRequireOverview(t *testing.T) {
	satisfied := doc(md("# T"), md("## Overview\n\nWhat you'll learn."))
	findings, err := checkRequireOverview(satisfied, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkRequireOverview: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %#v", findings)
	}

	missing := doc(md("# T"), code("x = 1"))
	findings, err = checkRequireOverview(missing, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkRequireOverview: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
}

func TestRequireOverview_CustomWindow(t *testing.T) {
	document := doc(
		code("a = 1"),
		code("b = 2"),
		md("## Overview"),
	)

	findings, err := checkRequireOverview(document, Context{
		Severity:   interfaces.SeverityWarning,
		Parameters: map[string]any{"window": 2},
	})
	if err != nil {
		t.Fatalf("checkRequireOverview: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("overview outside the window should not count: %#v", findings)
	}
}

func TestRequireSetup(t *testing.T) {
	satisfied := doc(md("## Setup\n\nInstall the requirements."))
	findings, err := checkRequireSetup(satisfied, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkRequireSetup: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %#v", findings)
	}

	missing := doc(md("# T"), code("x = 1"))
	findings, err = checkRequireSetup(missing, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkRequireSetup: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
}

func TestCheckCellOrder_LateImport(t *testing.T) {
	document := doc(
		code("df = pd.DataFrame()"),
		code("import pandas as pd"),
	)

	findings, err := checkCellOrder(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkCellOrder: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
	if !strings.Contains(findings[0].Message, "pd") {
		t.Fatalf("finding should name the late import: %q", findings[0].Message)
	}
	if findings[0].CellIndex == nil || *findings[0].CellIndex != 1 {
		t.Fatalf("cell index mismatch: %#v", findings[0].CellIndex)
	}
}

func TestCheckCellOrder_ImportsFirst(t *testing.T) {
	document := doc(
		code("import pandas as pd\nfrom google.cloud import aiplatform"),
		code("df = pd.DataFrame()\naiplatform.init()"),
	)

	findings, err := checkCellOrder(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkCellOrder: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("imports-first notebooks should pass: %#v", findings)
	}
}

func TestCheckCellOrder_UnrelatedLateImportAllowed(t *testing.T) {
	document := doc(
		code("x = 1"),
		code("import json"),
	)

	findings, err := checkCellOrder(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkCellOrder: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("late imports nobody referenced earlier are fine: %#v", findings)
	}
}

func TestCheckSectionHeaders_SkippedLevel(t *testing.T) {
	document := doc(md("# Title"), md("### Deep Dive"))

	findings, err := checkSectionHeaders(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkSectionHeaders: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
	if !strings.Contains(findings[0].Message, "h1") || !strings.Contains(findings[0].Message, "h3") {
		t.Fatalf("message should name both levels: %q", findings[0].Message)
	}
}

func TestCheckSectionHeaders_ProperNesting(t *testing.T) {
	document := doc(md("# Title\n\n## Section\n\n### Detail\n\n## Next"))

	findings, err := checkSectionHeaders(document, Context{Severity: interfaces.SeverityWarning})
	if err != nil {
		t.Fatalf("checkSectionHeaders: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("well-nested headings should pass: %#v", findings)
	}
}
