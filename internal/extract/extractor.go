// Package extract derives a typed metadata record from a notebook. Every
// signal is heuristic: a missing title, link, or dependency leaves the field
// unset instead of raising, since extraction must never fail on malformed
// content.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-nbaudit/internal/logging"
	"github.com/goliatone/go-nbaudit/internal/mdscan"
	"github.com/goliatone/go-nbaudit/internal/notebook"
	"github.com/goliatone/go-nbaudit/internal/pipscan"
	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

// serviceVocabulary maps a managed-service label to the code patterns that
// reveal its use. Extend the table, not the matcher.
var serviceVocabulary = map[string][]*regexp.Regexp{
	"AutoML": {
		regexp.MustCompile(`from google\.cloud import automl`),
		regexp.MustCompile(`automl\.AutoMlClient`),
		regexp.MustCompile(`AutoMLTabularTrainingJob`),
		regexp.MustCompile(`AutoMLImageTrainingJob`),
	},
	"Pipelines": {
		regexp.MustCompile(`from google\.cloud import aiplatform`),
		regexp.MustCompile(`@kfp\.dsl\.pipeline`),
		regexp.MustCompile(`aiplatform\.PipelineJob`),
	},
	"Custom Training": {
		regexp.MustCompile(`CustomTrainingJob`),
		regexp.MustCompile(`CustomContainerTrainingJob`),
	},
	"Prediction": {
		regexp.MustCompile(`\.predict\(`),
		regexp.MustCompile(`Endpoint\.deploy`),
		regexp.MustCompile(`Model\.deploy`),
	},
	"Feature Store": {
		regexp.MustCompile(`aiplatform\.Featurestore`),
		regexp.MustCompile(`aiplatform\.EntityType`),
	},
	"Model Registry": {
		regexp.MustCompile(`aiplatform\.Model\.upload`),
		regexp.MustCompile(`model_registry`),
	},
}

// tagVocabulary maps inferred tags to the phrases that imply them.
var tagVocabulary = map[string][]string{
	"automl":               {"automl"},
	"custom-training":      {"custom training", "customtrainingjob"},
	"pipelines":            {"pipeline", "kfp"},
	"prediction":           {"prediction", "endpoint"},
	"image-classification": {"image classification"},
	"text-classification":  {"text classification"},
	"tabular":              {"tabular", "structured data"},
}

var (
	authorLine    = regexp.MustCompile(`(?i)(?:Author|By):\s*(.+)`)
	colabLink     = regexp.MustCompile(`https://colab\.research\.google\.com/[^\s\)"']+`)
	workbenchLink = regexp.MustCompile(`https://console\.cloud\.google\.com/vertex-ai/workbench/[^\s\)"']+`)
	githubLink    = regexp.MustCompile(`https://github\.com/[^\s\)"']+`)
	kernelDigits  = regexp.MustCompile(`python(\d+)`)
)

// advancedPatterns weigh constructs that push a notebook past beginner level.
var advancedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`class\s+\w+`),
	regexp.MustCompile(`@\w+`),
	regexp.MustCompile(`async\s+def`),
	regexp.MustCompile(`yield`),
	regexp.MustCompile(`lambda`),
}

const (
	beginnerThreshold     = 5
	intermediateThreshold = 15
)

// Extractor turns documents into metadata records. It carries no per-run
// state so one instance serves every document.
type Extractor struct {
	logger interfaces.Logger
}

// New constructs an extractor. A nil logger is replaced with a no-op.
func New(logger interfaces.Logger) *Extractor {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Extractor{logger: logger}
}

// Extract builds the metadata record for one document.
func (e *Extractor) Extract(doc *notebook.Document) interfaces.MetadataRecord {
	record := interfaces.MetadataRecord{
		Title:            e.title(doc),
		Description:      e.description(doc),
		Author:           e.author(doc),
		Tags:             e.tags(doc),
		Services:         e.services(doc),
		Dependencies:     e.dependencies(doc),
		PythonVersion:    e.pythonVersion(doc),
		EstimatedRuntime: e.estimatedRuntime(doc),
		ColabLink:        firstMatch(colabLink, doc.AllMarkdown()),
		WorkbenchLink:    firstMatch(workbenchLink, doc.AllMarkdown()),
		GitHubLink:       firstMatch(githubLink, doc.AllMarkdown()),
	}
	record.Difficulty = e.difficulty(doc, len(record.Dependencies))

	e.applyFrontMatter(doc, &record)

	if record.Title != "" {
		if normalized, err := slug.Normalize(record.Title); err == nil && normalized != "" {
			record.Slug = normalized
		}
	}

	return record
}

// applyFrontMatter lets an explicit front-matter block in the first raw or
// markdown cell override the heuristics.
func (e *Extractor) applyFrontMatter(doc *notebook.Document, record *interfaces.MetadataRecord) {
	if len(doc.Cells) == 0 {
		return
	}
	first := doc.Cells[0]
	if first.Type != notebook.CellRaw && first.Type != notebook.CellMarkdown {
		return
	}

	matter, err := mdscan.ParseFrontMatter(first.Source)
	if err != nil {
		e.logger.Debug("front matter probe failed", "path", doc.Path, "error", err)
		return
	}
	if matter.IsZero() {
		return
	}

	if matter.Title != "" {
		record.Title = matter.Title
	}
	if matter.Description != "" {
		record.Description = matter.Description
	}
	if matter.Author != "" {
		record.Author = matter.Author
	}
	if len(matter.Tags) > 0 {
		record.Tags = mergeTags(record.Tags, matter.Tags)
	}
}

func (e *Extractor) title(doc *notebook.Document) string {
	if title, ok := doc.RawMetadata["title"].(string); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	for _, cell := range doc.MarkdownCells() {
		if heading, ok := mdscan.Scan(cell.Source).FirstHeading(1); ok {
			return heading.Text
		}
	}
	return ""
}

// description returns the first paragraph of markdown following the title
// heading.
func (e *Extractor) description(doc *notebook.Document) string {
	if description, ok := doc.RawMetadata["description"].(string); ok && strings.TrimSpace(description) != "" {
		return strings.TrimSpace(description)
	}

	foundTitle := false
	for _, cell := range doc.MarkdownCells() {
		for _, block := range mdscan.Scan(cell.Source).Blocks {
			if block.Kind == mdscan.BlockHeading && block.Level == 1 {
				foundTitle = true
				continue
			}
			if foundTitle && block.Kind == mdscan.BlockParagraph {
				return block.Text
			}
		}
	}
	return ""
}

func (e *Extractor) author(doc *notebook.Document) string {
	if author, ok := doc.RawMetadata["author"].(string); ok && strings.TrimSpace(author) != "" {
		return strings.TrimSpace(author)
	}
	for _, cell := range doc.Cells {
		if cell.Index >= 5 {
			break
		}
		if cell.Type != notebook.CellMarkdown {
			continue
		}
		if match := authorLine.FindStringSubmatch(cell.Source); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

func (e *Extractor) tags(doc *notebook.Document) []string {
	seen := map[string]struct{}{}
	var tags []string
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if declared, ok := doc.RawMetadata["tags"].([]any); ok {
		for _, item := range declared {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}

	content := strings.ToLower(allText(doc))
	vocabTags := make([]string, 0, len(tagVocabulary))
	for tag := range tagVocabulary {
		vocabTags = append(vocabTags, tag)
	}
	sort.Strings(vocabTags)
	for _, tag := range vocabTags {
		for _, keyword := range tagVocabulary[tag] {
			if strings.Contains(content, keyword) {
				add(tag)
				break
			}
		}
	}

	return tags
}

func (e *Extractor) services(doc *notebook.Document) []string {
	code := doc.AllCode()

	names := make([]string, 0, len(serviceVocabulary))
	for name := range serviceVocabulary {
		names = append(names, name)
	}
	sort.Strings(names)

	var services []string
	for _, name := range names {
		for _, pattern := range serviceVocabulary[name] {
			if pattern.MatchString(code) {
				services = append(services, name)
				break
			}
		}
	}
	return services
}

// dependencies lists each distinct installed package once, in first-seen
// order. When the same package appears with different pins across cells the
// last occurrence wins; that ambiguity is a deliberate policy, not an
// accident.
func (e *Extractor) dependencies(doc *notebook.Document) []interfaces.DependencySpec {
	var order []string
	byName := map[string]interfaces.DependencySpec{}

	for _, install := range pipscan.Scan(doc) {
		key := strings.ToLower(install.Name)
		if _, ok := byName[key]; !ok {
			order = append(order, key)
		}
		byName[key] = interfaces.DependencySpec{
			Name:     install.Name,
			Version:  install.Version,
			IsPinned: install.Pinned,
		}
	}

	deps := make([]interfaces.DependencySpec, 0, len(order))
	for _, key := range order {
		deps = append(deps, byName[key])
	}
	return deps
}

func (e *Extractor) pythonVersion(doc *notebook.Document) string {
	if info, ok := doc.RawMetadata["language_info"].(map[string]any); ok {
		if version, ok := info["version"].(string); ok && version != "" {
			return version
		}
	}
	if spec, ok := doc.RawMetadata["kernelspec"].(map[string]any); ok {
		name, _ := spec["name"].(string)
		if strings.Contains(strings.ToLower(name), "python") {
			if match := kernelDigits.FindStringSubmatch(strings.ToLower(name)); match != nil {
				return match[1]
			}
		}
	}
	return ""
}

// estimatedRuntime sums recorded execution spans when the notebook was last
// run with timing metadata enabled.
func (e *Extractor) estimatedRuntime(doc *notebook.Document) string {
	var total time.Duration
	count := 0

	for _, cell := range doc.Cells {
		if cell.Type != notebook.CellCode {
			continue
		}
		execMeta, ok := cell.Metadata["execution"].(map[string]any)
		if !ok {
			continue
		}
		start, okStart := parseExecTime(execMeta["iopub.execute_input"])
		end, okEnd := parseExecTime(execMeta["iopub.status.idle"])
		if !okStart || !okEnd || end.Before(start) {
			continue
		}
		total += end.Sub(start)
		count++
	}

	if count == 0 {
		return ""
	}

	minutes := int(total.Minutes())
	switch {
	case minutes < 1:
		return "< 1 minute"
	case minutes < 60:
		return "~" + strconv.Itoa(minutes) + " minutes"
	default:
		return "~" + strconv.Itoa(minutes/60) + " hours"
	}
}

func (e *Extractor) difficulty(doc *notebook.Document, dependencyCount int) interfaces.Difficulty {
	code := doc.AllCode()

	score := 0
	for _, pattern := range advancedPatterns {
		score += len(pattern.FindAllString(code, -1))
	}
	if len(doc.Cells) > 30 {
		score += 2
	}
	if dependencyCount > 10 {
		score += 2
	}

	switch {
	case score < beginnerThreshold:
		return interfaces.DifficultyBeginner
	case score < intermediateThreshold:
		return interfaces.DifficultyIntermediate
	default:
		return interfaces.DifficultyAdvanced
	}
}

func firstMatch(pattern *regexp.Regexp, content string) string {
	return pattern.FindString(content)
}

func parseExecTime(value any) (time.Time, bool) {
	raw, ok := value.(string)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func allText(doc *notebook.Document) string {
	var parts []string
	for _, cell := range doc.Cells {
		parts = append(parts, cell.Source)
	}
	return strings.Join(parts, "\n")
}

func mergeTags(existing, extra []string) []string {
	seen := map[string]struct{}{}
	var merged []string
	for _, tag := range append(append([]string(nil), extra...), existing...) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	return merged
}
