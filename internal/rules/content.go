package rules

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/goliatone/go-nbaudit/internal/mdscan"
	"github.com/goliatone/go-nbaudit/internal/notebook"
	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

const (
	defaultMaxOutputSize    = 10000
	defaultMinMarkdownRatio = 0.2
	maxConsecutiveCode      = 5
	hardcodedValuesRuleID   = "content.hardcoded_values"
	outputCellsRuleID       = "content.output_cells"
	markdownLinksRuleID     = "content.markdown_links"
	documentationRuleID     = "content.documentation"
)

func contentRules() []Rule {
	return []Rule{
		{ID: "hardcoded_values", DefaultSeverity: interfaces.SeverityError, Evaluate: checkHardcodedValues},
		{ID: "output_cells", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkOutputCells},
		{ID: "markdown_links", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkMarkdownLinks},
		{ID: "documentation", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkDocumentation},
	}
}

// hardcodedPattern is one entry of the externalized pattern table. New
// patterns arrive through rule parameters, not code changes.
type hardcodedPattern struct {
	re         *regexp.Regexp
	message    string
	suggestion string
}

var defaultHardcodedPatterns = []hardcodedPattern{
	{
		re:         regexp.MustCompile(`project_id\s*=\s*["'](?:[^"']+)["']`),
		message:    "hardcoded project_id found; use an environment variable or parameter",
		suggestion: `Use: project_id = os.environ.get("PROJECT_ID", "YOUR_PROJECT_ID")`,
	},
	{
		re:         regexp.MustCompile(`region\s*=\s*["'](?:[^"']+)["']`),
		message:    "hardcoded region found; use an environment variable or parameter",
		suggestion: `Use: region = os.environ.get("REGION", "YOUR_REGION")`,
	},
	{
		re:         regexp.MustCompile(`(?:api_key|API_KEY)\s*=\s*["'][^"']+["']`),
		message:    "hardcoded API key found; this is a security risk",
		suggestion: `Use os.environ or a secret manager for credentials`,
	},
}

// placeholderValue recognises template values that are fine to commit.
var placeholderValue = regexp.MustCompile(`["'](?:YOUR_[A-Z_]+|<[^>]*>|\{[^}]*\})["']`)

// checkHardcodedValues scans code cells for literal project identifiers,
// regions and credential-like tokens. Every match occurrence yields its own
// finding with cell and line location.
func checkHardcodedValues(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	patterns, err := hardcodedPatterns(rctx.Parameters)
	if err != nil {
		return nil, err
	}

	var findings []interfaces.Finding
	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellCode {
			continue
		}
		for _, pattern := range patterns {
			for _, loc := range pattern.re.FindAllStringIndex(cell.Source, -1) {
				match := cell.Source[loc[0]:loc[1]]
				if placeholderValue.MatchString(match) {
					continue
				}
				line := strings.Count(cell.Source[:loc[0]], "\n") + 1
				f := lineFinding(hardcodedValuesRuleID, rctx, pattern.message, cell.Index, line)
				f.Suggestion = pattern.suggestion
				findings = append(findings, f)
			}
		}
	}
	return findings, nil
}

func hardcodedPatterns(params map[string]any) ([]hardcodedPattern, error) {
	entries := paramMaps(params, "patterns")
	if len(entries) == 0 {
		return defaultHardcodedPatterns, nil
	}

	patterns := make([]hardcodedPattern, 0, len(entries))
	for _, entry := range entries {
		expr := stringField(entry, "pattern")
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
		}
		patterns = append(patterns, hardcodedPattern{
			re:         re,
			message:    stringField(entry, "message"),
			suggestion: stringField(entry, "suggestion"),
		})
	}
	return patterns, nil
}

// checkOutputCells warns when a cell's persisted output exceeds the
// configured byte threshold.
func checkOutputCells(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	maxSize := paramInt(rctx.Parameters, "max_output_size", defaultMaxOutputSize)

	var findings []interfaces.Finding
	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellCode || len(cell.Outputs) == 0 {
			continue
		}
		size := cell.OutputSize()
		if size > maxSize {
			f := cellFinding(outputCellsRuleID, rctx,
				fmt.Sprintf("large output (%d bytes) at cell %d; consider clearing outputs", size, cell.Index),
				cell.Index)
			f.Suggestion = "Clear outputs before committing"
			findings = append(findings, f)
		}
	}
	return findings, nil
}

// checkMarkdownLinks flags links whose targets are empty, contain spaces, or
// carry no recognizable scheme. Anchor links are internal and always fine.
func checkMarkdownLinks(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	var findings []interfaces.Finding
	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellMarkdown {
			continue
		}
		for _, link := range mdscan.Scan(cell.Source).Links {
			if issue := linkIssue(link.Destination); issue != "" {
				f := cellFinding(markdownLinksRuleID, rctx, issue, cell.Index)
				if strings.Contains(link.Destination, " ") {
					f.Suggestion = "Encode spaces as %20 or remove them"
				}
				findings = append(findings, f)
			}
		}
	}
	return findings, nil
}

func linkIssue(destination string) string {
	trimmed := strings.TrimSpace(destination)
	if trimmed == "" {
		return "markdown link has an empty target"
	}
	if strings.HasPrefix(trimmed, "#") {
		return ""
	}
	if strings.Contains(trimmed, " ") {
		return fmt.Sprintf("link contains spaces: %s", trimmed)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Sprintf("link is not a valid URL: %s", trimmed)
	}
	if parsed.Scheme == "" {
		return fmt.Sprintf("link has no recognized scheme: %s", trimmed)
	}
	return ""
}

// checkDocumentation flags notebooks whose markdown falls below the
// configured ratio and long stretches of unexplained code cells.
func checkDocumentation(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	minRatio := paramFloat(rctx.Parameters, "min_markdown_ratio", defaultMinMarkdownRatio)

	markdownCells := len(doc.MarkdownCells())
	codeCells := len(doc.CodeCells())
	if codeCells == 0 {
		return nil, nil
	}

	var findings []interfaces.Finding

	ratio := float64(markdownCells) / float64(markdownCells+codeCells)
	if ratio < minRatio {
		f := finding(documentationRuleID, rctx,
			fmt.Sprintf("low documentation ratio: %.0f%% (minimum: %.0f%%)", ratio*100, minRatio*100))
		f.Suggestion = "Add more markdown cells to explain the code"
		findings = append(findings, f)
	}

	consecutive := 0
	for _, cell := range doc.Cells {
		if cell.Type == notebook.CellMarkdown {
			consecutive = 0
			continue
		}
		if cell.Type != notebook.CellCode {
			continue
		}
		consecutive++
		if consecutive > maxConsecutiveCode {
			f := cellFinding(documentationRuleID, rctx,
				fmt.Sprintf("many consecutive code cells without explanation (cell %d)", cell.Index),
				cell.Index)
			f.Severity = interfaces.SeverityInfo
			f.Suggestion = "Add markdown cells to explain what the code does"
			findings = append(findings, f)
			consecutive = 0
		}
	}

	return findings, nil
}
