// Package match ranks dictionary candidates for each redaction by how
// closely their rendered width, under the document's typographic profile,
// matches the measured gap width.
package match

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/moghammed/epstein-universal-unredaction/classify"
)

// Entry is one dictionary string with a corpus frequency. Higher frequency
// breaks score ties in the candidate ranking.
type Entry struct {
	Text string
	Freq float64
}

// Dictionary is an immutable list of entries for one content type.
type Dictionary struct {
	entries []Entry
}

// NewDictionary builds a dictionary from entries. Text is NFC-normalized;
// empty entries are dropped and a zero frequency becomes 1.
func NewDictionary(entries []Entry) *Dictionary {
	cleaned := make([]Entry, 0, len(entries))
	for _, e := range entries {
		text := strings.TrimSpace(norm.NFC.String(e.Text))
		if text == "" {
			continue
		}
		if e.Freq <= 0 {
			e.Freq = 1
		}
		cleaned = append(cleaned, Entry{Text: text, Freq: e.Freq})
	}
	return &Dictionary{entries: cleaned}
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns the underlying entries. Callers must not modify them.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	return d.entries
}

// Corpus holds per-content-type dictionaries plus a general fallback pool.
// Read-only after loading; safe to share across workers.
type Corpus struct {
	byType  map[classify.ContentType]*Dictionary
	general *Dictionary
}

// NewCorpus builds a corpus from explicit dictionaries. Useful in tests
// and for callers with their own data sources.
func NewCorpus(byType map[classify.ContentType]*Dictionary, general *Dictionary) *Corpus {
	if byType == nil {
		byType = make(map[classify.ContentType]*Dictionary)
	}
	return &Corpus{byType: byType, general: general}
}

// ForType returns the dictionary for a content type; nil when absent.
func (c *Corpus) ForType(t classify.ContentType) *Dictionary {
	return c.byType[t]
}

// General returns the general fallback pool; may be nil.
func (c *Corpus) General() *Dictionary {
	return c.general
}

// knownTypes maps dictionary file basenames to content types.
var knownTypes = map[string]classify.ContentType{
	"name":         classify.TypeName,
	"phone":        classify.TypePhone,
	"email":        classify.TypeEmail,
	"address":      classify.TypeAddress,
	"date":         classify.TypeDate,
	"id_number":    classify.TypeIDNumber,
	"monetary":     classify.TypeMonetary,
	"organisation": classify.TypeOrganisation,
}

// LoadDir loads every *.txt and *.html file in dir into a corpus. The
// basename selects the content type ("name.txt" feeds the name pool);
// "general" and unrecognized basenames feed the general pool. Text files
// hold one entry per line with an optional tab-separated frequency; HTML
// files contribute the text of their list items and table cells.
func LoadDir(dir string) (*Corpus, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return nil, fmt.Errorf("scan dictionary dir: %w", err)
	}
	sort.Strings(matches)

	perType := make(map[classify.ContentType][]Entry)
	var general []Entry
	for _, path := range matches {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".html" {
			continue
		}

		var entries []Entry
		switch ext {
		case ".txt":
			entries, err = loadTextFile(path)
		case ".html":
			entries, err = loadHTMLFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("load dictionary %s: %w", path, err)
		}

		base := strings.TrimSuffix(filepath.Base(path), ext)
		if t, ok := knownTypes[strings.ToLower(base)]; ok {
			perType[t] = append(perType[t], entries...)
		} else {
			general = append(general, entries...)
		}
	}

	byType := make(map[classify.ContentType]*Dictionary, len(perType))
	for t, entries := range perType {
		byType[t] = NewDictionary(entries)
	}
	return NewCorpus(byType, NewDictionary(general)), nil
}

// loadTextFile reads "entry" or "entry\tfrequency" lines. Blank lines and
// lines starting with '#' are skipped.
func loadTextFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry := Entry{Text: line, Freq: 1}
		if text, freqStr, ok := strings.Cut(line, "\t"); ok {
			entry.Text = strings.TrimSpace(text)
			if freq, err := strconv.ParseFloat(strings.TrimSpace(freqStr), 64); err == nil && freq > 0 {
				entry.Freq = freq
			}
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// loadHTMLFile extracts the text content of <li> and <td> nodes.
func loadHTMLFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "li" || n.Data == "td") {
			if text := strings.TrimSpace(nodeText(n)); text != "" {
				entries = append(entries, Entry{Text: text, Freq: 1})
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return entries, nil
}

// nodeText concatenates the text nodes under n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
