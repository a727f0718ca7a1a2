package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moghammed/epstein-universal-unredaction/classify"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDirTextFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "name.txt", "# surnames\nMaxwell\tnot-a-number\nEpstein\t95\nDoe\n\n")
	writeFile(t, dir, "general.txt", "alpha\nbravo\n")
	writeFile(t, dir, "notes.md", "ignored\n")

	corpus, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	names := corpus.ForType(classify.TypeName)
	if names.Len() != 3 {
		t.Fatalf("Expected 3 name entries, got %d", names.Len())
	}
	// "Epstein\t95" parses a frequency; bad frequency text falls back to 1.
	var epstein *Entry
	for i := range names.Entries() {
		if names.Entries()[i].Text == "Epstein" {
			epstein = &names.Entries()[i]
		}
	}
	if epstein == nil || epstein.Freq != 95 {
		t.Errorf("Expected Epstein freq 95, got %+v", epstein)
	}

	if corpus.General().Len() != 2 {
		t.Errorf("Expected 2 general entries, got %d", corpus.General().Len())
	}
}

func TestLoadDirHTML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "organisation.html",
		`<html><body><ul><li>Acme Corp</li><li> Initech </li></ul>
		<table><tr><td>Globex</td></tr></table></body></html>`)

	corpus, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	orgs := corpus.ForType(classify.TypeOrganisation)
	if orgs.Len() != 3 {
		t.Fatalf("Expected 3 organisation entries, got %d", orgs.Len())
	}
	if orgs.Entries()[1].Text != "Initech" {
		t.Errorf("Expected trimmed entry, got %q", orgs.Entries()[1].Text)
	}
}

func TestLoadDirUnknownBasenameFeedsGeneral(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "misc.txt", "one\ntwo\n")

	corpus, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if corpus.General().Len() != 2 {
		t.Errorf("Unknown basename should feed general pool, got %d", corpus.General().Len())
	}
}

func TestNewDictionaryCleansEntries(t *testing.T) {
	d := NewDictionary([]Entry{
		{Text: "  spaced  "},
		{Text: ""},
		{Text: "kept", Freq: -3},
	})
	if d.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", d.Len())
	}
	if d.Entries()[0].Text != "spaced" {
		t.Errorf("Expected trimmed text, got %q", d.Entries()[0].Text)
	}
	if d.Entries()[1].Freq != 1 {
		t.Errorf("Non-positive frequency should become 1, got %f", d.Entries()[1].Freq)
	}
}

func TestEmptyDictionaryNilSafety(t *testing.T) {
	var d *Dictionary
	if d.Len() != 0 {
		t.Error("Nil dictionary should have length 0")
	}
	if d.Entries() != nil {
		t.Error("Nil dictionary should have nil entries")
	}
}
