package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMalformedDocument indicates the file is not structurally a notebook:
// invalid JSON, a missing cell list, or a cell lacking required fields. The
// engine reports it as a finding instead of aborting a batch.
var ErrMalformedDocument = errors.New("notebook: malformed document")

// notebookSchema is the minimal structural contract enforced before
// decoding. Content checks live in the rule catalog, not here.
const notebookSchema = `{
	"type": "object",
	"required": ["cells"],
	"properties": {
		"cells": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["cell_type", "source"],
				"properties": {
					"cell_type": {"enum": ["code", "markdown", "raw"]},
					"source": {
						"anyOf": [
							{"type": "string"},
							{"type": "array", "items": {"type": "string"}}
						]
					},
					"outputs": {"type": "array"},
					"metadata": {"type": "object"}
				}
			}
		},
		"metadata": {"type": "object"}
	}
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func structuralSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("notebook.json", bytes.NewReader([]byte(notebookSchema))); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("notebook.json")
	})
	return compiledSchema, schemaErr
}

type rawNotebook struct {
	Cells    []rawCell      `json:"cells"`
	Metadata map[string]any `json:"metadata"`
}

type rawCell struct {
	CellType string           `json:"cell_type"`
	Source   json.RawMessage  `json:"source"`
	Outputs  []map[string]any `json:"outputs"`
	Metadata map[string]any   `json:"metadata"`
}

// Decode parses raw notebook bytes into a Document. Structural failures are
// wrapped in ErrMalformedDocument with the schema issue locations attached.
func Decode(path string, data []byte) (*Document, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %s: invalid JSON: %v", ErrMalformedDocument, path, err)
	}

	schema, err := structuralSchema()
	if err != nil {
		return nil, fmt.Errorf("notebook: compile structural schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrMalformedDocument, path, schemaIssues(err))
	}

	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, path, err)
	}

	doc := &Document{
		Path:        path,
		Cells:       make([]Cell, 0, len(raw.Cells)),
		RawMetadata: raw.Metadata,
	}
	if doc.RawMetadata == nil {
		doc.RawMetadata = map[string]any{}
	}

	for i, rc := range raw.Cells {
		source, err := decodeSource(rc.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: cell %d: %v", ErrMalformedDocument, path, i, err)
		}
		doc.Cells = append(doc.Cells, Cell{
			Index:    i,
			Type:     CellType(rc.CellType),
			Source:   source,
			Outputs:  rc.Outputs,
			Metadata: rc.Metadata,
		})
	}

	return doc, nil
}

// decodeSource accepts the two nbformat encodings: a single string or an
// array of line fragments.
func decodeSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("source missing")
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, nil
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", fmt.Errorf("source must be string or string array: %v", err)
	}
	return strings.Join(lines, ""), nil
}

func schemaIssues(err error) string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err.Error()
	}

	issues := []string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			} else if !strings.HasPrefix(location, "#") {
				location = "#" + location
			}
			issues = append(issues, fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return strings.Join(issues, "; ")
}
