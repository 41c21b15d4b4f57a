// Package manifest loads the optional JSON-lines article manifest and the
// media manifest. Both are enrichment sources: their absence degrades the
// pipeline to metadata-only mode instead of failing it.
package manifest

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"regexp"
	"strings"
)

// Entry is one article record from the manifest. Entries are immutable once
// loaded and indexed three ways: full id, embedded numeric id, and slug.
type Entry struct {
	ArticleID string   `json:"article_id"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Product   string   `json:"product"`
	Category  string   `json:"category"`
	Section   string   `json:"section"`
	Tags      []string `json:"tags"`
	MediaIDs  []string `json:"media_ids"`
}

// Index provides the three manifest lookups. Lookup misses are normal
// negative results, never errors.
type Index struct {
	byID        map[string]*Entry
	byNumericID map[string]*Entry
	bySlug      map[string]*Entry
	skipped     int
}

// numericIDPattern matches a trailing run of digits, e.g. the "38790618700820"
// in "zendesk:radix:38790618700820". Short runs are ignored so slugs ending
// in a version number don't masquerade as article ids.
var numericIDPattern = regexp.MustCompile(`(\d{6,})$`)

// NewIndex returns an empty index. Every lookup misses, which is the
// metadata-only degradation mode for runs without a manifest.
func NewIndex() *Index {
	return &Index{
		byID:        map[string]*Entry{},
		byNumericID: map[string]*Entry{},
		bySlug:      map[string]*Entry{},
	}
}

// Load parses line-delimited JSON records from r. Malformed lines are
// skipped and counted, never fatal.
func Load(r io.Reader) *Index {
	idx := NewIndex()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			idx.skipped++
			continue
		}
		if entry.ArticleID == "" && entry.Slug == "" {
			idx.skipped++
			continue
		}
		idx.add(&entry)
	}

	return idx
}

// LoadFile reads a manifest from disk. A missing file yields an empty index
// and no error: the manifest is optional.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewIndex(), nil
		}
		return nil, err
	}
	defer f.Close()
	return Load(f), nil
}

func (x *Index) add(entry *Entry) {
	if entry.ArticleID != "" {
		if _, exists := x.byID[entry.ArticleID]; !exists {
			x.byID[entry.ArticleID] = entry
		}
	}
	if numeric := ExtractNumericID(entry.ArticleID); numeric != "" {
		if _, exists := x.byNumericID[numeric]; !exists {
			x.byNumericID[numeric] = entry
		}
	}
	if entry.Slug != "" {
		if _, exists := x.bySlug[entry.Slug]; !exists {
			x.bySlug[entry.Slug] = entry
		}
	}
}

// LookupByID resolves an entry by its full article id.
func (x *Index) LookupByID(id string) (*Entry, bool) {
	entry, ok := x.byID[id]
	return entry, ok
}

// LookupByNumericID resolves an entry by the numeric id embedded in its
// article id.
func (x *Index) LookupByNumericID(numeric string) (*Entry, bool) {
	entry, ok := x.byNumericID[numeric]
	return entry, ok
}

// LookupBySlug resolves an entry by slug.
func (x *Index) LookupBySlug(slug string) (*Entry, bool) {
	entry, ok := x.bySlug[slug]
	return entry, ok
}

// Len reports the number of distinct entries indexed by full id.
func (x *Index) Len() int {
	return len(x.byID)
}

// Skipped reports how many malformed manifest lines were dropped.
func (x *Index) Skipped() int {
	return x.skipped
}

// ExtractNumericID pulls the trailing numeric id out of an article id or
// legacy filename stem. Returns "" when no id is embedded.
func ExtractNumericID(id string) string {
	return numericIDPattern.FindString(strings.TrimSpace(id))
}
