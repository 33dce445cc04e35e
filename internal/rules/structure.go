package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-nbaudit/internal/mdscan"
	"github.com/goliatone/go-nbaudit/internal/notebook"
	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

const (
	defaultOverviewWindow = 10
	defaultSetupWindow    = 15
)

var defaultOverviewKeywords = []string{
	"overview",
	"objective",
	"introduction",
	"what you'll learn",
	"goals",
}

var defaultSetupKeywords = []string{
	"setup",
	"installation",
	"install",
	"requirements",
	"prerequisites",
}

func structureRules() []Rule {
	return []Rule{
		{ID: "require_title", DefaultSeverity: interfaces.SeverityError, Evaluate: checkRequireTitle},
		{ID: "require_overview", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkRequireOverview},
		{ID: "require_setup_section", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkRequireSetup},
		{ID: "check_cell_order", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkCellOrder},
		{ID: "check_section_headers", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkSectionHeaders},
	}
}

// checkRequireTitle fails when no markdown cell before the first code cell
// carries a level-1 heading.
func checkRequireTitle(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	for _, cell := range doc.Cells {
		if cell.Type == notebook.CellCode {
			break
		}
		if cell.Type != notebook.CellMarkdown {
			continue
		}
		if mdscan.Scan(cell.Source).HasHeadingLevel(1) {
			return nil, nil
		}
	}

	f := finding("structure.require_title", rctx, "notebook should open with a title (# heading) before the first code cell")
	f.Suggestion = "Add a title using: # Your Notebook Title"
	return []interfaces.Finding{f}, nil
}

// checkRequireOverview warns when no markdown cell within the first N cells
// mentions an overview-like section.
func checkRequireOverview(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	window := paramInt(rctx.Parameters, "window", defaultOverviewWindow)
	keywords := paramStrings(rctx.Parameters, "keywords")
	if len(keywords) == 0 {
		keywords = defaultOverviewKeywords
	}

	if markdownMentions(doc, window, keywords) {
		return nil, nil
	}

	f := finding("structure.require_overview", rctx, "notebook should have an overview or objectives section")
	f.Suggestion = "Add a section describing what the notebook covers"
	return []interfaces.Finding{f}, nil
}

// checkRequireSetup warns when no setup/installation section appears early.
func checkRequireSetup(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	window := paramInt(rctx.Parameters, "window", defaultSetupWindow)
	keywords := paramStrings(rctx.Parameters, "keywords")
	if len(keywords) == 0 {
		keywords = defaultSetupKeywords
	}

	if markdownMentions(doc, window, keywords) {
		return nil, nil
	}

	f := finding("structure.require_setup_section", rctx, "notebook should have a setup/installation section")
	f.Suggestion = "Add a section explaining how to set up the environment"
	return []interfaces.Finding{f}, nil
}

func markdownMentions(doc *notebook.Document, window int, keywords []string) bool {
	for _, cell := range doc.Cells {
		if cell.Index >= window {
			break
		}
		if cell.Type != notebook.CellMarkdown {
			continue
		}
		content := strings.ToLower(cell.Source)
		for _, keyword := range keywords {
			if strings.Contains(content, strings.ToLower(keyword)) {
				return true
			}
		}
	}
	return false
}

var (
	importStmt = regexp.MustCompile(`(?m)^\s*(?:import\s+([a-zA-Z0-9_.,\s]+?)(?:\s+as\s+([a-zA-Z0-9_]+))?|from\s+([a-zA-Z0-9_.]+)\s+import\s+([a-zA-Z0-9_,\s*]+?)(?:\s+as\s+([a-zA-Z0-9_]+))?)\s*$`)
	codeLine   = regexp.MustCompile(`(?m)^\s*[^#\s]`)
	identifier = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

// checkCellOrder warns when an import block appears after a cell that
// already referenced one of the names it introduces. This is a heuristic
// over identifiers, not a dependency analysis.
func checkCellOrder(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	var findings []interfaces.Finding
	seenIdentifiers := map[string]struct{}{}
	sawNonImportCode := false

	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellCode {
			continue
		}

		introduced := importedNames(cell.Source)
		stripped := importStmt.ReplaceAllString(cell.Source, "")
		hasOtherCode := codeLine.MatchString(stripped)

		if len(introduced) > 0 && sawNonImportCode {
			late := referencedEarlier(introduced, seenIdentifiers)
			if len(late) > 0 {
				f := cellFinding("structure.check_cell_order", rctx,
					fmt.Sprintf("import of %s at cell %d appears after code that already referenced it", strings.Join(late, ", "), cell.Index),
					cell.Index)
				f.Suggestion = "Move all imports to the beginning of the notebook"
				findings = append(findings, f)
			}
		}

		if hasOtherCode {
			sawNonImportCode = true
			for _, ident := range identifier.FindAllString(stripped, -1) {
				seenIdentifiers[ident] = struct{}{}
			}
		}
	}

	return findings, nil
}

// importedNames lists the identifiers an import statement introduces into
// the notebook namespace.
func importedNames(source string) []string {
	var names []string
	for _, match := range importStmt.FindAllStringSubmatch(source, -1) {
		switch {
		case match[1] != "":
			// import a.b as c, d
			if match[2] != "" {
				names = append(names, match[2])
				continue
			}
			for _, part := range strings.Split(match[1], ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				names = append(names, strings.SplitN(part, ".", 2)[0])
			}
		case match[3] != "":
			// from x import y as z, w
			if match[5] != "" {
				names = append(names, match[5])
				continue
			}
			for _, part := range strings.Split(match[4], ",") {
				part = strings.TrimSpace(part)
				if part == "" || part == "*" {
					continue
				}
				names = append(names, part)
			}
		}
	}
	return names
}

func referencedEarlier(names []string, seen map[string]struct{}) []string {
	var hits []string
	for _, name := range names {
		if _, ok := seen[name]; ok {
			hits = append(hits, name)
		}
	}
	return hits
}

// checkSectionHeaders warns when markdown heading levels skip (e.g. an h1
// followed directly by an h3).
func checkSectionHeaders(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	var findings []interfaces.Finding
	lastLevel := 0

	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellMarkdown {
			continue
		}
		for _, heading := range mdscan.Scan(cell.Source).Headings() {
			if lastLevel > 0 && heading.Level > lastLevel+1 {
				f := cellFinding("structure.check_section_headers", rctx,
					fmt.Sprintf("skipped heading level from h%d to h%d at cell %d", lastLevel, heading.Level, cell.Index),
					cell.Index)
				f.Suggestion = fmt.Sprintf("Use h%d instead of h%d", lastLevel+1, heading.Level)
				findings = append(findings, f)
			}
			lastLevel = heading.Level
		}
	}

	return findings, nil
}
