package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-nbaudit/internal/notebook"
	"github.com/goliatone/go-nbaudit/internal/pipscan"
	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

const (
	versionPinningRuleID     = "dependency.version_pinning"
	deprecatedAPIsRuleID     = "dependency.deprecated_apis"
	importAvailabilityRuleID = "dependency.import_availability"
)

func dependencyRules() []Rule {
	return []Rule{
		{ID: "version_pinning", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkVersionPinning},
		{ID: "deprecated_apis", DefaultSeverity: interfaces.SeverityError, Evaluate: checkDeprecatedAPIs},
		{ID: "import_availability", DefaultSeverity: interfaces.SeverityWarning, Evaluate: checkImportAvailability},
	}
}

// checkVersionPinning warns for every install occurrence that lacks an exact
// version pin, unless the package is allow-listed.
func checkVersionPinning(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	allowUnpinned := map[string]struct{}{}
	for _, name := range paramStrings(rctx.Parameters, "allow_unpinned") {
		allowUnpinned[strings.ToLower(name)] = struct{}{}
	}

	var findings []interfaces.Finding
	for _, install := range pipscan.Scan(doc) {
		if install.Pinned {
			continue
		}
		if _, ok := allowUnpinned[strings.ToLower(install.Name)]; ok {
			continue
		}
		f := lineFinding(versionPinningRuleID, rctx,
			fmt.Sprintf("unpinned dependency: %s", install.Name),
			install.CellIndex, install.Line)
		f.Suggestion = fmt.Sprintf("Pin version: pip install %s==x.y.z", install.Name)
		findings = append(findings, f)
	}
	return findings, nil
}

// deprecatedAPI describes one retired import and its replacement.
type deprecatedAPI struct {
	replacement     string
	deprecatedSince string
}

// builtinDeprecatedAPIs seeds the pattern table; configuration merges
// additional entries through the deprecated_imports parameter.
var builtinDeprecatedAPIs = map[string]deprecatedAPI{
	"google.cloud.automl_v1beta1": {
		replacement:     "google.cloud.automl_v1",
		deprecatedSince: "2023-01-01",
	},
	"google.cloud.aiplatform.gapic": {
		replacement:     "google.cloud.aiplatform",
		deprecatedSince: "2022-06-01",
	},
}

// checkDeprecatedAPIs errors for every occurrence of a retired API in code
// cells.
func checkDeprecatedAPIs(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	table := map[string]deprecatedAPI{}
	for name, info := range builtinDeprecatedAPIs {
		table[name] = info
	}
	for _, entry := range paramMaps(rctx.Parameters, "deprecated_imports") {
		old := stringField(entry, "old")
		if old == "" {
			continue
		}
		since := stringField(entry, "deprecated_since")
		if since == "" {
			since = "unknown"
		}
		table[old] = deprecatedAPI{
			replacement:     stringField(entry, "new"),
			deprecatedSince: since,
		}
	}

	// Iterate the table in a stable order so repeated runs emit identical
	// finding sequences.
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []interfaces.Finding
	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellCode {
			continue
		}
		for _, name := range names {
			info := table[name]
			offset := 0
			for {
				idx := strings.Index(cell.Source[offset:], name)
				if idx < 0 {
					break
				}
				absolute := offset + idx
				line := strings.Count(cell.Source[:absolute], "\n") + 1
				f := lineFinding(deprecatedAPIsRuleID, rctx,
					fmt.Sprintf("deprecated API usage: %s", name),
					cell.Index, line)
				f.Suggestion = fmt.Sprintf("Use %s instead (deprecated since %s)", info.replacement, info.deprecatedSince)
				findings = append(findings, f)
				offset = absolute + len(name)
			}
		}
	}
	return findings, nil
}

// stdlibModules are import names that never need a pip install.
var stdlibModules = map[string]struct{}{
	"os": {}, "sys": {}, "re": {}, "json": {}, "time": {}, "datetime": {},
	"pathlib": {}, "typing": {}, "collections": {}, "itertools": {},
	"functools": {}, "math": {}, "random": {}, "io": {}, "csv": {},
	"logging": {}, "unittest": {}, "dataclasses": {}, "subprocess": {},
	"string": {}, "textwrap": {}, "warnings": {}, "abc": {}, "enum": {},
}

// importToPackage maps import names whose distribution name differs.
var importToPackage = map[string]string{
	"google":  "google-cloud-aiplatform",
	"sklearn": "scikit-learn",
	"cv2":     "opencv-python",
	"PIL":     "pillow",
}

var importRef = regexp.MustCompile(`(?m)^\s*(?:import|from)\s+([a-zA-Z0-9_\.]+)`)

// checkImportAvailability warns when a code cell imports a module with no
// matching install command anywhere in the notebook.
func checkImportAvailability(doc *notebook.Document, rctx Context) ([]interfaces.Finding, error) {
	installed := pipscan.InstalledSet(pipscan.Scan(doc))

	var findings []interfaces.Finding
	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellCode {
			continue
		}
		for _, match := range importRef.FindAllStringSubmatchIndex(cell.Source, -1) {
			module := cell.Source[match[2]:match[3]]
			module = strings.SplitN(module, ".", 2)[0]
			if _, ok := stdlibModules[module]; ok {
				continue
			}

			pkg := module
			if mapped, ok := importToPackage[module]; ok {
				pkg = mapped
			}
			if _, ok := installed[strings.ToLower(pkg)]; ok {
				continue
			}

			line := strings.Count(cell.Source[:match[0]], "\n") + 1
			f := lineFinding(importAvailabilityRuleID, rctx,
				fmt.Sprintf("import %q not found in install commands", module),
				cell.Index, line)
			f.Suggestion = fmt.Sprintf("Add: pip install %s", pkg)
			findings = append(findings, f)
		}
	}
	return findings, nil
}
