package auditcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	validateDirectoryMessageType = "nbaudit.validate_directory"
	validateFileMessageType      = "nbaudit.validate_file"
	extractMetadataMessageType   = "nbaudit.extract_metadata"
)

// ValidateDirectoryCommand triggers a filesystem walk for notebooks under
// Directory and validates every match.
type ValidateDirectoryCommand struct {
	// Directory selects the filesystem path to discover notebooks in.
	Directory string `json:"directory"`
	// Pattern overrides the discovery glob when non-empty.
	Pattern string `json:"pattern,omitempty"`
	// FailFast halts iteration after the first failing report.
	FailFast bool `json:"fail_fast,omitempty"`
	// Workers caps the directory worker pool.
	Workers int `json:"workers,omitempty"`
}

// Type implements command.Message.
func (ValidateDirectoryCommand) Type() string { return validateDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ValidateDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireNonBlank("nbaudit.validate_directory.directory_required", "directory is required"))),
		validation.Field(&cmd.Workers, validation.Min(0)),
	)
}

// ValidateFileCommand validates a single notebook file.
type ValidateFileCommand struct {
	// Path selects the notebook file to validate.
	Path string `json:"path"`
}

// Type implements command.Message.
func (ValidateFileCommand) Type() string { return validateFileMessageType }

// Validate ensures the path is present before handlers execute.
func (cmd ValidateFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(requireNonBlank("nbaudit.validate_file.path_required", "path is required"))),
	)
}

// ExtractMetadataCommand extracts the metadata record for one notebook
// without running validation.
type ExtractMetadataCommand struct {
	// Path selects the notebook file to extract metadata from.
	Path string `json:"path"`
}

// Type implements command.Message.
func (ExtractMetadataCommand) Type() string { return extractMetadataMessageType }

// Validate ensures the path is present before handlers execute.
func (cmd ExtractMetadataCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(requireNonBlank("nbaudit.extract_metadata.path_required", "path is required"))),
	)
}

func requireNonBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
