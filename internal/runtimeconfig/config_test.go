package runtimeconfig

import (
	"errors"
	"testing"

	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Engine.Pattern != "*.ipynb" {
		t.Fatalf("default pattern mismatch: %q", cfg.Engine.Pattern)
	}
	if !cfg.Engine.Recursive {
		t.Fatal("default discovery should be recursive")
	}
	for _, name := range CategoryOrder {
		if !cfg.CategoryEnabled(name) {
			t.Fatalf("category %q should be enabled by default", name)
		}
	}
}

func TestValidate_UnknownCategory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories["styling"] = CategoryConfig{Enabled: true}

	err := cfg.Validate()
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestValidate_UnknownRule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories[CategoryStructure] = CategoryConfig{
		Enabled: true,
		Rules:   map[string]RuleConfig{"require_abstract": {}},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
}

func TestValidate_InvalidSeverity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories[CategoryContent] = CategoryConfig{
		Enabled: true,
		Rules:   map[string]RuleConfig{"hardcoded_values": {Severity: "critical"}},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidSeverity) {
		t.Fatalf("expected ErrInvalidSeverity, got %v", err)
	}
}

func TestValidate_NegativeWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.Workers = -2

	err := cfg.Validate()
	if !errors.Is(err, ErrWorkersNegative) {
		t.Fatalf("expected ErrWorkersNegative, got %v", err)
	}
}

func TestValidate_InvalidLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestRuleEnabled_Defaults(t *testing.T) {
	if !(RuleConfig{}).RuleEnabled() {
		t.Fatal("absent enabled flag should default to true")
	}

	disabled := false
	if (RuleConfig{Enabled: &disabled}).RuleEnabled() {
		t.Fatal("explicit false must disable the rule")
	}
}

func TestRuleLookup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories[CategoryMetadata] = CategoryConfig{
		Enabled: true,
		Rules: map[string]RuleConfig{
			"required_fields": {Severity: interfaces.SeverityWarning},
		},
	}

	rc, ok := cfg.Rule(CategoryMetadata, "required_fields")
	if !ok || rc.Severity != interfaces.SeverityWarning {
		t.Fatalf("rule lookup mismatch: %#v ok=%v", rc, ok)
	}

	if _, ok := cfg.Rule(CategoryMetadata, "colab_links"); ok {
		t.Fatal("unconfigured rule should report no override")
	}
}
