package rules

import (
	"strings"
	"testing"

	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

func TestRequiredFields_AllMissing(t *testing.T) {
	findings, err := checkRequiredFields(doc(code("x = 1")), Context{Severity: interfaces.SeverityError})
	if err != nil {
		t.Fatalf("checkRequiredFields: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("expected findings for title, description and tags, got %v", ruleIDs(findings))
	}
	for _, f := range findings {
		if f.RuleID != "metadata.required_fields" {
			t.Fatalf("unexpected rule id %q", f.RuleID)
		}
	}
}

func TestRequiredFields_MetadataSatisfies(t *testing.T) {
	document := doc(code("x = 1"))
	document.RawMetadata = map[string]any{
		"title":       "Demo",
		"description": "Walks through the demo",
		"tags":        []any{"demo"},
	}

	findings, err := checkRequiredFields(document, Context{Severity: interfaces.SeverityError})
	if err != nil {
		t.Fatalf("checkRequiredFields: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %#v", findings)
	}
}

func TestRequiredFields_MarkdownFallbacks(t *testing.T) {
	document := doc(
		md("# A Proper Title"),
		md("This opening paragraph is comfortably longer than fifty characters of text."),
	)

	findings, err := checkRequiredFields(document, Context{Severity: interfaces.SeverityError})
	if err != nil {
		t.Fatalf("checkRequiredFields: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("only tags should be missing, got %v", ruleIDs(findings))
	}
	if !strings.Contains(findings[0].Message, "tags") {
		t.Fatalf("expected the tags field to be named: %q", findings[0].Message)
	}
}

func TestRequiredFields_EmptyValuesCount(t *testing.T) {
	document := doc()
	document.RawMetadata = map[string]any{
		"title":       "  ",
		"description": nil,
		"tags":        []any{},
	}

	findings, err := checkRequiredFields(document, Context{Severity: interfaces.SeverityError})
	if err != nil {
		t.Fatalf("checkRequiredFields: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("blank values must count as missing, got %v", ruleIDs(findings))
	}
}

func TestRequiredFields_CustomList(t *testing.T) {
	document := doc()
	document.RawMetadata = map[string]any{"owner": "ml-team"}

	findings, err := checkRequiredFields(document, Context{
		Severity:   interfaces.SeverityError,
		Parameters: map[string]any{"fields": []any{"owner", "cost_center"}},
	})
	if err != nil {
		t.Fatalf("checkRequiredFields: %v", err)
	}
	if len(findings) != 1 || !strings.Contains(findings[0].Message, "cost_center") {
		t.Fatalf("custom field list mismatch: %#v", findings)
	}
}

func TestColabLinks_OnlyForOfficial(t *testing.T) {
	document := doc(md("no launch links here"))

	findings, err := checkColabLinks(document, Context{Severity: interfaces.SeverityWarning, Official: false})
	if err != nil {
		t.Fatalf("checkColabLinks: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("non-official notebooks are exempt: %#v", findings)
	}

	findings, err = checkColabLinks(document, Context{Severity: interfaces.SeverityWarning, Official: true})
	if err != nil {
		t.Fatalf("checkColabLinks: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("official notebooks need launch links: %#v", findings)
	}
}

func TestColabLinks_Satisfied(t *testing.T) {
	document := doc(md("[Run in Colab](https://colab.research.google.com/github/org/repo/blob/main/demo.ipynb)"))

	findings, err := checkColabLinks(document, Context{Severity: interfaces.SeverityWarning, Official: true})
	if err != nil {
		t.Fatalf("checkColabLinks: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %#v", findings)
	}
}

func TestLicenseInfo(t *testing.T) {
	licensed := doc(md("Licensed under the Apache License, Version 2.0"))
	findings, err := checkLicenseInfo(licensed, Context{Severity: interfaces.SeverityWarning, Official: true})
	if err != nil {
		t.Fatalf("checkLicenseInfo: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %#v", findings)
	}

	bare := doc(md("# Title"), code("x = 1"))
	findings, err = checkLicenseInfo(bare, Context{Severity: interfaces.SeverityWarning, Official: true})
	if err != nil {
		t.Fatalf("checkLicenseInfo: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %#v", findings)
	}
}

func TestLicenseInfo_RequirementTogglable(t *testing.T) {
	bare := doc(md("# Title"))

	findings, err := checkLicenseInfo(bare, Context{
		Severity:   interfaces.SeverityWarning,
		Official:   false,
		Parameters: map[string]any{"require_for_official": false},
	})
	if err != nil {
		t.Fatalf("checkLicenseInfo: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("with the gate off, every notebook is checked: %#v", findings)
	}
}
