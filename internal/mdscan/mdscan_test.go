package mdscan

import (
	"testing"
)

func TestScan_Outline(t *testing.T) {
	source := "# Getting Started\n\nThis notebook walks through the basics.\n\n## Setup\n\nInstall dependencies first."

	outline := Scan(source)

	headings := outline.Headings()
	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d: %#v", len(headings), headings)
	}
	if headings[0].Level != 1 || headings[0].Text != "Getting Started" {
		t.Fatalf("first heading mismatch: %#v", headings[0])
	}
	if headings[1].Level != 2 || headings[1].Text != "Setup" {
		t.Fatalf("second heading mismatch: %#v", headings[1])
	}

	if !outline.HasHeadingLevel(1) {
		t.Fatal("expected a level-1 heading")
	}
	if outline.HasHeadingLevel(3) {
		t.Fatal("did not expect a level-3 heading")
	}

	first, ok := outline.FirstHeading(2)
	if !ok || first.Text != "Setup" {
		t.Fatalf("FirstHeading(2) mismatch: %#v ok=%v", first, ok)
	}
}

func TestScan_ParagraphsFollowHeadings(t *testing.T) {
	outline := Scan("# Title\n\nFirst paragraph.\n\nSecond paragraph.")

	if len(outline.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %#v", len(outline.Blocks), outline.Blocks)
	}
	if outline.Blocks[0].Kind != BlockHeading {
		t.Fatalf("expected heading first, got %#v", outline.Blocks[0])
	}
	if outline.Blocks[1].Kind != BlockParagraph || outline.Blocks[1].Text != "First paragraph." {
		t.Fatalf("paragraph mismatch: %#v", outline.Blocks[1])
	}
}

func TestScan_Links(t *testing.T) {
	source := "See [the docs](https://example.com/docs) and [broken]() for details."

	outline := Scan(source)

	if len(outline.Links) != 2 {
		t.Fatalf("expected 2 links, got %d: %#v", len(outline.Links), outline.Links)
	}
	if outline.Links[0].Destination != "https://example.com/docs" {
		t.Fatalf("link destination mismatch: %#v", outline.Links[0])
	}
	if outline.Links[1].Destination != "" {
		t.Fatalf("expected empty destination, got %#v", outline.Links[1])
	}
}

func TestScan_AutoLinks(t *testing.T) {
	outline := Scan("Open https://colab.research.google.com/github/org/repo to run it.")

	if len(outline.Links) != 1 {
		t.Fatalf("expected 1 autolink, got %d: %#v", len(outline.Links), outline.Links)
	}
	if outline.Links[0].Destination != "https://colab.research.google.com/github/org/repo" {
		t.Fatalf("autolink destination mismatch: %#v", outline.Links[0])
	}
}

func TestScan_EmptySource(t *testing.T) {
	outline := Scan("")
	if len(outline.Blocks) != 0 || len(outline.Links) != 0 {
		t.Fatalf("expected empty outline, got %#v", outline)
	}
}
