package interfaces

import "context"

// Severity ranks a finding. Only SeverityError gates a report's validity.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Valid reports whether the severity is one of the three enumerated levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Finding captures one issue reported by a rule. Findings are immutable
// values: rules create them and the engine only collects them.
type Finding struct {
	RuleID     string   `json:"rule_id"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	CellIndex  *int     `json:"cell_index,omitempty"`
	LineNumber *int     `json:"line_number,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// ValidationReport is the per-notebook outcome handed to reporters and CI.
type ValidationReport struct {
	DocumentPath string          `json:"document_path"`
	Findings     []Finding       `json:"findings"`
	IsValid      bool            `json:"is_valid"`
	Metadata     *MetadataRecord `json:"metadata,omitempty"`
}

// ErrorCount returns the number of error-level findings.
func (r ValidationReport) ErrorCount() int { return r.countSeverity(SeverityError) }

// WarningCount returns the number of warning-level findings.
func (r ValidationReport) WarningCount() int { return r.countSeverity(SeverityWarning) }

// InfoCount returns the number of info-level findings.
func (r ValidationReport) InfoCount() int { return r.countSeverity(SeverityInfo) }

func (r ValidationReport) countSeverity(severity Severity) int {
	total := 0
	for _, finding := range r.Findings {
		if finding.Severity == severity {
			total++
		}
	}
	return total
}

// RunSummary aggregates a batch of validation reports. Counts are always
// derived from the constituent reports, never maintained separately.
type RunSummary struct {
	RunID          string `json:"run_id"`
	TotalDocuments int    `json:"total_documents"`
	Passed         int    `json:"passed"`
	Failed         int    `json:"failed"`
	TotalErrors    int    `json:"total_errors"`
	TotalWarnings  int    `json:"total_warnings"`
	TotalInfo      int    `json:"total_info"`
}

// Difficulty buckets a notebook by estimated complexity.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// DependencySpec describes one package install discovered in a notebook.
type DependencySpec struct {
	Name     string `json:"name"`
	Version  string `json:"version,omitempty"`
	IsPinned bool   `json:"is_pinned"`
}

// MetadataRecord is the typed summary extracted from a notebook. Extraction
// is heuristic: absent signals leave fields at their zero value, never error.
type MetadataRecord struct {
	Title            string           `json:"title,omitempty"`
	Slug             string           `json:"slug,omitempty"`
	Description      string           `json:"description,omitempty"`
	Author           string           `json:"author,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
	Services         []string         `json:"services,omitempty"`
	Dependencies     []DependencySpec `json:"dependencies,omitempty"`
	PythonVersion    string           `json:"python_version,omitempty"`
	Difficulty       Difficulty       `json:"difficulty,omitempty"`
	ColabLink        string           `json:"colab_link,omitempty"`
	WorkbenchLink    string           `json:"workbench_link,omitempty"`
	GitHubLink       string           `json:"github_link,omitempty"`
	EstimatedRuntime string           `json:"estimated_runtime,omitempty"`
}

// ValidateOptions tweaks a validation run without touching rule configuration.
type ValidateOptions struct {
	// FailFast stops directory iteration after the first failing report.
	// Already accumulated reports are still returned.
	FailFast bool
	// Workers caps the worker pool for directory runs. Zero or one keeps
	// the run sequential.
	Workers int
	// Pattern overrides the discovery glob (defaults to "*.ipynb").
	Pattern string
	// Recursive controls directory traversal during discovery.
	Recursive bool
}

// Validator is the engine surface consumed by commands, reporters and the
// catalog backend. Implementations must be safe for reuse across runs.
type Validator interface {
	ValidateOne(ctx context.Context, path string) (ValidationReport, error)
	ValidateMany(ctx context.Context, paths []string, opts ValidateOptions) ([]ValidationReport, RunSummary, error)
	ValidateDirectory(ctx context.Context, dir string, opts ValidateOptions) ([]ValidationReport, RunSummary, error)
}

// Extractor derives a MetadataRecord without requiring validation to run.
type Extractor interface {
	ExtractMetadata(ctx context.Context, path string) (MetadataRecord, error)
}
