package mdscan

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter holds the descriptive fields a notebook author can pin in a
// YAML front-matter block at the top of the first raw or markdown cell.
// When present these override the heuristic extraction.
type FrontMatter struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Author      string         `yaml:"author"`
	Tags        []string       `yaml:"tags"`
	Custom      map[string]any `yaml:",inline"`
}

// IsZero reports whether no front-matter fields were populated.
func (f FrontMatter) IsZero() bool {
	return f.Title == "" && f.Description == "" && f.Author == "" && len(f.Tags) == 0 && len(f.Custom) == 0
}

// ParseFrontMatter probes a cell source for a leading front-matter block.
// Sources without one return a zero FrontMatter and no error: absence of the
// signal is not a failure.
func ParseFrontMatter(source string) (FrontMatter, error) {
	trimmed := strings.TrimLeft(source, "\n\r\t ")
	if !strings.HasPrefix(trimmed, "---") {
		return FrontMatter{}, nil
	}

	var matter FrontMatter
	if _, err := frontmatter.Parse(bytes.NewReader([]byte(trimmed)), &matter); err != nil {
		return FrontMatter{}, err
	}
	return matter, nil
}
