// Package pipscan parses pip install invocations out of notebook code cells.
// Both the dependency rules and the metadata extractor consume it so the two
// never disagree about what a notebook installs.
package pipscan

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-nbaudit/internal/notebook"
)

// Install is one package occurrence inside a pip install command.
type Install struct {
	Name      string
	Version   string
	Pinned    bool
	CellIndex int
	// Line is 1-based within the cell source.
	Line int
}

var (
	installLine = regexp.MustCompile(`^\s*[!%]?\s*pip3?\s+install\s+(.+)$`)
	specSplit   = regexp.MustCompile(`[><=~!]+`)
)

// Scan walks code cells in document order and returns every package
// occurrence. The same package installed twice yields two entries; callers
// decide whether first or last occurrence wins.
func Scan(doc *notebook.Document) []Install {
	var installs []Install
	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellCode {
			continue
		}
		for lineIdx, line := range cell.Lines() {
			match := installLine.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			for _, spec := range strings.Fields(match[1]) {
				install, ok := parseSpec(spec)
				if !ok {
					continue
				}
				install.CellIndex = cell.Index
				install.Line = lineIdx + 1
				installs = append(installs, install)
			}
		}
	}
	return installs
}

// parseSpec interprets one requirement token. Flags and their values are
// skipped; quoting is stripped so `"pkg==1.0"` parses like pkg==1.0.
func parseSpec(spec string) (Install, bool) {
	spec = strings.Trim(spec, `"'`)
	if spec == "" || strings.HasPrefix(spec, "-") {
		return Install{}, false
	}

	name := specSplit.Split(spec, 2)[0]
	name = strings.TrimSpace(trimExtras(name))
	if name == "" {
		return Install{}, false
	}

	install := Install{Name: name}
	switch {
	case strings.Contains(spec, "=="):
		parts := strings.SplitN(spec, "==", 2)
		install.Version = strings.TrimSpace(parts[1])
		install.Pinned = true
	case strings.ContainsAny(spec, "<>~"):
		if loc := specSplit.FindStringIndex(spec); loc != nil {
			install.Version = strings.TrimSpace(spec[loc[1]:])
		}
	}
	return install, true
}

// trimExtras drops a requirement extras suffix such as pkg[all].
func trimExtras(name string) string {
	if idx := strings.Index(name, "["); idx >= 0 {
		return name[:idx]
	}
	return name
}

// InstalledSet lowercases distinct package names for membership checks.
func InstalledSet(installs []Install) map[string]struct{} {
	set := make(map[string]struct{}, len(installs))
	for _, install := range installs {
		set[strings.ToLower(install.Name)] = struct{}{}
	}
	return set
}
