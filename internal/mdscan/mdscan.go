// Package mdscan analyses markdown cell sources through the goldmark AST so
// rules and the extractor share one parse instead of ad-hoc regexes.
package mdscan

import (
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// BlockKind tags outline entries.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
)

// Block is one top-level element of a markdown cell in document order.
type Block struct {
	Kind BlockKind
	// Level is the heading level (1-6); zero for paragraphs.
	Level int
	Text  string
}

// Link is one hyperlink found in a markdown cell.
type Link struct {
	Text        string
	Destination string
}

// Outline captures the scanned shape of one markdown source.
type Outline struct {
	Blocks []Block
	Links  []Link
}

// The engine is stateless, so a single instance is shared by every scan.
var (
	engineOnce sync.Once
	engine     goldmark.Markdown
)

func markdownEngine() goldmark.Markdown {
	engineOnce.Do(func() {
		engine = goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
		)
	})
	return engine
}

// Scan parses a markdown source and returns its outline. Parsing never
// fails: goldmark treats any input as markdown.
func Scan(source string) Outline {
	src := []byte(source)
	root := markdownEngine().Parser().Parse(text.NewReader(src))

	outline := Outline{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			outline.Blocks = append(outline.Blocks, Block{
				Kind:  BlockHeading,
				Level: node.Level,
				Text:  strings.TrimSpace(string(node.Text(src))),
			})
		case *ast.Paragraph:
			textContent := strings.TrimSpace(string(node.Text(src)))
			if textContent != "" {
				outline.Blocks = append(outline.Blocks, Block{
					Kind: BlockParagraph,
					Text: textContent,
				})
			}
		case *ast.Link:
			outline.Links = append(outline.Links, Link{
				Text:        strings.TrimSpace(string(node.Text(src))),
				Destination: string(node.Destination),
			})
		case *ast.AutoLink:
			outline.Links = append(outline.Links, Link{
				Destination: string(node.URL(src)),
			})
		}
		return ast.WalkContinue, nil
	})

	return outline
}

// FirstHeading returns the first heading at the given level, if any.
func (o Outline) FirstHeading(level int) (Block, bool) {
	for _, block := range o.Blocks {
		if block.Kind == BlockHeading && block.Level == level {
			return block, true
		}
	}
	return Block{}, false
}

// HasHeadingLevel reports whether any heading of the given level exists.
func (o Outline) HasHeadingLevel(level int) bool {
	_, ok := o.FirstHeading(level)
	return ok
}

// Headings returns every heading block in order.
func (o Outline) Headings() []Block {
	var headings []Block
	for _, block := range o.Blocks {
		if block.Kind == BlockHeading {
			headings = append(headings, block)
		}
	}
	return headings
}
