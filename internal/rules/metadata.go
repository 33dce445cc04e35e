package rules

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-nbaudit/internal/mdscan"
	"github.com/goliatone/go-nbaudit/internal/notebook"
	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

const (
	requiredFieldsRuleID = "metadata.required_fields"
	colabLinksRuleID     = "metadata.colab_links"
	licenseInfoRuleID    = "metadata.license_info"
)

var defaultRequiredFields = []string{"title", "description", "tags"}

var licenseKeywords = []string{"license", "copyright", "apache", "mit"}

const (
	colabHost     = "colab.research.google.com"
	workbenchHost = "console.cloud.google.com/vertex-ai/workbench"
)

func metadataRules() []Rule {
	return []Rule{
		{ID: "required_fields", DefaultSeverity: interfaces.SeverityError, Evaluate: checkRequiredFields},
		{ID: "colab_links", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkColabLinks},
		{ID: "license_info", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkLicenseInfo},
	}
}

// checkRequiredFields errors once per missing field among the configured
// list. Title and description accept markdown fallbacks (a level-1 heading
// or a substantial markdown cell) so prose-first notebooks are not punished
// for leaving the metadata mapping empty.
func checkRequiredFields(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	fields := paramStrings(rctx.Parameters, "fields")
	if len(fields) == 0 {
		fields = defaultRequiredFields
	}

	var findings []interfaces.Finding
	for _, field := range fields {
		if hasMetadataField(doc, field) {
			continue
		}
		f := finding(requiredFieldsRuleID, rctx, fmt.Sprintf("missing required field: %s", field))
		f.Suggestion = fieldSuggestion(field)
		findings = append(findings, f)
	}
	return findings, nil
}

func hasMetadataField(doc *notebook.Document, field string) bool {
	if value, ok := doc.RawMetadata[field]; ok && !emptyMetadataValue(value) {
		return true
	}

	switch field {
	case "title":
		for _, cell := range doc.Cells {
			if cell.Index >= 5 {
				break
			}
			if cell.Type == notebook.CellMarkdown && mdscan.Scan(cell.Source).HasHeadingLevel(1) {
				return true
			}
		}
	case "description":
		for _, cell := range doc.Cells {
			if cell.Index >= 10 {
				break
			}
			if cell.Type == notebook.CellMarkdown && len(strings.TrimSpace(cell.Source)) > 50 {
				return true
			}
		}
	}
	return false
}

func emptyMetadataValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	}
	return false
}

func fieldSuggestion(field string) string {
	switch field {
	case "title":
		return "Add a title as the first H1 heading"
	case "description":
		return "Add a description explaining what the notebook does"
	case "tags":
		return "Add tags to help categorize the notebook"
	}
	return fmt.Sprintf("Add %s to the notebook metadata", field)
}

// checkColabLinks warns when an official notebook carries neither a Colab
// nor a Workbench launch link in its opening cells.
func checkColabLinks(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	if paramBool(rctx.Parameters, "require_for_official", true) && !rctx.Official {
		return nil, nil
	}

	for _, cell := range doc.Cells {
		if cell.Index >= 10 {
			break
		}
		if cell.Type != notebook.CellMarkdown {
			continue
		}
		if strings.Contains(cell.Source, colabHost) || strings.Contains(cell.Source, workbenchHost) {
			return nil, nil
		}
	}

	f := finding(colabLinksRuleID, rctx, "missing Colab or Workbench links")
	f.Suggestion = "Add links to open the notebook in Colab or Workbench"
	return []interfaces.Finding{f}, nil
}

// checkLicenseInfo warns when an official notebook has no legal text in its
// opening cells.
func checkLicenseInfo(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	if paramBool(rctx.Parameters, "require_for_official", true) && !rctx.Official {
		return nil, nil
	}

	for _, cell := range doc.Cells {
		if cell.Index >= 10 {
			break
		}
		if cell.Type != notebook.CellMarkdown {
			continue
		}
		content := strings.ToLower(cell.Source)
		for _, keyword := range licenseKeywords {
			if strings.Contains(content, keyword) {
				return nil, nil
			}
		}
	}

	f := finding(licenseInfoRuleID, rctx, "no license information found")
	f.Suggestion = "Add license information (e.g. Apache 2.0) to the notebook"
	return []interfaces.Finding{f}, nil
}
