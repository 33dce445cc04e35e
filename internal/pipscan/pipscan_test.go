package pipscan

import (
	"testing"

	"github.com/goliatone/go-nbaudit/internal/notebook"
)

func codeDoc(sources ...string) *notebook.Document {
	doc := &notebook.Document{Path: "test.ipynb"}
	for i, source := range sources {
		doc.Cells = append(doc.Cells, notebook.Cell{
			Index:  i,
			Type:   notebook.CellCode,
			Source: source,
		})
	}
	return doc
}

func TestScan_PinnedInstall(t *testing.T) {
	doc := codeDoc("!pip install google-cloud-aiplatform==1.38.0")

	installs := Scan(doc)
	if len(installs) != 1 {
		t.Fatalf("expected 1 install, got %d: %#v", len(installs), installs)
	}
	install := installs[0]
	if install.Name != "google-cloud-aiplatform" {
		t.Fatalf("Name mismatch: %q", install.Name)
	}
	if !install.Pinned || install.Version != "1.38.0" {
		t.Fatalf("expected pinned 1.38.0, got %#v", install)
	}
	if install.CellIndex != 0 || install.Line != 1 {
		t.Fatalf("location mismatch: %#v", install)
	}
}

func TestScan_UnpinnedAndRanges(t *testing.T) {
	doc := codeDoc("%pip install pandas\n!pip install 'tensorflow>=2.12'")

	installs := Scan(doc)
	if len(installs) != 2 {
		t.Fatalf("expected 2 installs, got %d: %#v", len(installs), installs)
	}
	if installs[0].Name != "pandas" || installs[0].Pinned || installs[0].Version != "" {
		t.Fatalf("pandas mismatch: %#v", installs[0])
	}
	if installs[1].Name != "tensorflow" || installs[1].Pinned || installs[1].Version != "2.12" {
		t.Fatalf("tensorflow mismatch: %#v", installs[1])
	}
	if installs[1].Line != 2 {
		t.Fatalf("expected line 2, got %d", installs[1].Line)
	}
}

func TestScan_MultiplePackagesAndFlags(t *testing.T) {
	doc := codeDoc("!pip install -q --upgrade numpy scipy==1.11.0")

	installs := Scan(doc)
	if len(installs) != 2 {
		t.Fatalf("expected 2 installs, got %d: %#v", len(installs), installs)
	}
	if installs[0].Name != "numpy" || installs[0].Pinned {
		t.Fatalf("numpy mismatch: %#v", installs[0])
	}
	if installs[1].Name != "scipy" || !installs[1].Pinned || installs[1].Version != "1.11.0" {
		t.Fatalf("scipy mismatch: %#v", installs[1])
	}
}

func TestScan_ExtrasSuffix(t *testing.T) {
	doc := codeDoc(`!pip install "apache-beam[gcp]==2.50.0"`)

	installs := Scan(doc)
	if len(installs) != 1 {
		t.Fatalf("expected 1 install, got %d", len(installs))
	}
	if installs[0].Name != "apache-beam" || !installs[0].Pinned {
		t.Fatalf("extras handling mismatch: %#v", installs[0])
	}
}

func TestScan_IgnoresMarkdownAndPlainCode(t *testing.T) {
	doc := &notebook.Document{
		Cells: []notebook.Cell{
			{Index: 0, Type: notebook.CellMarkdown, Source: "pip install pandas"},
			{Index: 1, Type: notebook.CellCode, Source: "print('pip install pandas is a string here')"},
		},
	}
	if installs := Scan(doc); len(installs) != 0 {
		t.Fatalf("expected no installs, got %#v", installs)
	}
}

func TestInstalledSet(t *testing.T) {
	set := InstalledSet([]Install{{Name: "Pandas"}, {Name: "numpy"}})
	if _, ok := set["pandas"]; !ok {
		t.Fatal("expected lowercased pandas in set")
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set))
	}
}
