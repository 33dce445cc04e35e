// Package rules holds the rule catalog and the category runner. A rule is a
// pure evaluation function plus metadata; categories execute their rules in
// registration order so finding sequences stay deterministic.
package rules

import (
	"fmt"

	"github.com/goliatone/go-nbaudit/internal/logging"
	"github.com/goliatone/go-nbaudit/internal/notebook"
	"github.com/goliatone/go-nbaudit/internal/runtimeconfig"
	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

// Context carries everything a rule may consult beyond the document itself.
type Context struct {
	// Severity is the rule's effective severity after config resolution.
	Severity interfaces.Severity
	// Parameters are the rule-specific overrides from configuration.
	Parameters map[string]any
	// Official marks the notebook as official documentation.
	Official bool
}

// EvaluateFunc inspects a read-only document and reports findings. An error
// return is contained at the category boundary; it never aborts the run.
type EvaluateFunc func(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error)

// Rule composes identification metadata with a pure evaluation function.
// Rules must be order-independent: no rule may rely on another having run.
type Rule struct {
	ID              string
	DefaultSeverity interfaces.Severity
	Evaluate        EvaluateFunc
}

// Category is an ordered collection of rules sharing a concern.
type Category struct {
	Name  string
	rules []Rule
}

// Rules exposes the registration-ordered rule list.
func (c *Category) Rules() []Rule {
	return c.rules
}

// Run evaluates every enabled rule against the document. A rule that errors
// or panics contributes a single info finding tagged internal_error and the
// remaining rules still run.
func (c *Category) Run(doc *notebook.Document, cfg runtimeconfig.Config, logger interfaces.Logger) []interfaces.Finding {
	if logger == nil {
		logger = logging.NoOp()
	}

	var findings []interfaces.Finding
	for _, rule := range c.rules {
		override, _ := cfg.Rule(c.Name, rule.ID)
		if !override.RuleEnabled() {
			continue
		}

		rctx := Context{
			Severity:   rule.DefaultSeverity,
			Parameters: override.Parameters,
			Official:   cfg.Engine.Official,
		}
		if override.Severity != "" && override.Severity.Valid() {
			rctx.Severity = override.Severity
		}

		results, err := c.evaluate(rule, doc, rctx)
		if err != nil {
			logger.Warn("rule evaluation failed", "rule", c.Name+"."+rule.ID, "error", err)
			findings = append(findings, interfaces.Finding{
				RuleID:   fmt.Sprintf("%s.%s.internal_error", c.Name, rule.ID),
				Severity: interfaces.SeverityInfo,
				Message:  fmt.Sprintf("rule %s.%s failed: %v", c.Name, rule.ID, err),
			})
			continue
		}
		findings = append(findings, results...)
	}
	return findings
}

func (c *Category) evaluate(rule Rule, doc *notebook.Document, rctx Context) (results []interfaces.Finding, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			results = nil
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return rule.Evaluate(doc, rctx)
}

// Registry builds the category set in the engine's fixed execution order.
// The table is static: adding a rule means appending to one of the
// constructors below, never touching the orchestrator.
func Registry() []*Category {
	return []*Category{
		{Name: runtimeconfig.CategoryStructure, rules: structureRules()},
		{Name: runtimeconfig.CategoryContent, rules: contentRules()},
		{Name: runtimeconfig.CategoryMetadata, rules: metadataRules()},
		{Name: runtimeconfig.CategoryDependency, rules: dependencyRules()},
	}
}

func finding(ruleID string, rctx Context, message string) interfaces.Finding {
	return interfaces.Finding{
		RuleID:   ruleID,
		Severity: rctx.Severity,
		Message:  message,
	}
}

func cellFinding(ruleID string, rctx Context, message string, cellIndex int) interfaces.Finding {
	f := finding(ruleID, rctx, message)
	idx := cellIndex
	f.CellIndex = &idx
	return f
}

func lineFinding(ruleID string, rctx Context, message string, cellIndex, line int) interfaces.Finding {
	f := cellFinding(ruleID, rctx, message, cellIndex)
	ln := line
	f.LineNumber = &ln
	return f
}
