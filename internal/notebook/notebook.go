package notebook

import "strings"

// CellType discriminates notebook cells. Raw cells are preserved so the
// extractor can probe them for front matter, but rules only inspect code and
// markdown cells.
type CellType string

const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
	CellRaw      CellType = "raw"
)

// Cell is one ordered unit of a notebook. Cells are immutable once the
// document is loaded; indices are contiguous from zero and never reordered.
type Cell struct {
	Index    int
	Type     CellType
	Source   string
	Outputs  []map[string]any
	Metadata map[string]any
}

// OutputSize sums the serialized size of the cell's output data payloads,
// mirroring how notebook front-ends weigh persisted outputs.
func (c Cell) OutputSize() int {
	total := 0
	for _, output := range c.Outputs {
		data, ok := output["data"].(map[string]any)
		if !ok {
			continue
		}
		for _, value := range data {
			switch v := value.(type) {
			case string:
				total += len(v)
			case []any:
				for _, item := range v {
					if s, ok := item.(string); ok {
						total += len(s)
					}
				}
			}
		}
	}
	return total
}

// Lines splits the cell source for line-addressed findings.
func (c Cell) Lines() []string {
	return strings.Split(c.Source, "\n")
}

// Document is the in-memory representation of one notebook file. It is owned
// by a single validation run and read-only for its duration.
type Document struct {
	Path        string
	Cells       []Cell
	RawMetadata map[string]any
}

// CodeCells returns the code cells in document order.
func (d *Document) CodeCells() []Cell {
	return d.cellsOfType(CellCode)
}

// MarkdownCells returns the markdown cells in document order.
func (d *Document) MarkdownCells() []Cell {
	return d.cellsOfType(CellMarkdown)
}

func (d *Document) cellsOfType(t CellType) []Cell {
	var cells []Cell
	for _, cell := range d.Cells {
		if cell.Type == t {
			cells = append(cells, cell)
		}
	}
	return cells
}

// AllCode concatenates code cell sources in document order.
func (d *Document) AllCode() string {
	return d.joinSources(CellCode)
}

// AllMarkdown concatenates markdown cell sources in document order.
func (d *Document) AllMarkdown() string {
	return d.joinSources(CellMarkdown)
}

func (d *Document) joinSources(t CellType) string {
	var parts []string
	for _, cell := range d.Cells {
		if cell.Type == t {
			parts = append(parts, cell.Source)
		}
	}
	return strings.Join(parts, "\n")
}
