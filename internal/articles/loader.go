// Package articles discovers article records in the export store across the
// legacy naming conventions and normalizes each into one in-memory record.
package articles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-docmigrate/internal/logging"
	"github.com/goliatone/go-docmigrate/internal/manifest"
	"github.com/goliatone/go-docmigrate/internal/mdtext"
	"github.com/goliatone/go-docmigrate/internal/store"
	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

// Source identifies which storage shape produced a record.
type Source string

const (
	// SourceMetadata is a directory holding metadata.json plus content.md.
	SourceMetadata Source = "metadata"
	// SourceContentOnly is a directory holding content.md without metadata.
	SourceContentOnly Source = "content-only"
	// SourceFlatLegacy is a flat "<slug> [<id>].md" file.
	SourceFlatLegacy Source = "flat-legacy"
)

// Enrichment identifies where a record's metadata was filled in from when it
// had no metadata record of its own.
type Enrichment string

const (
	EnrichmentNone         Enrichment = ""
	EnrichmentManifestID   Enrichment = "manifest-numeric-id"
	EnrichmentManifestSlug Enrichment = "manifest-slug"
	EnrichmentHeading      Enrichment = "heading"
	EnrichmentPathSegment  Enrichment = "path-segment"
)

// Record is one normalized article. OutputPath stays empty until path
// assignment runs.
type Record struct {
	UID        string
	Meta       interfaces.Metadata
	Content    []byte
	OutputPath string
	Source     Source
	Enriched   Enrichment
}

// ItemError ties a per-article failure to the storage key that caused it.
type ItemError struct {
	Key string
	Err error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

// Result is the outcome of a load pass. Records preserves discovery order so
// downstream path assignment stays deterministic.
type Result struct {
	Records  []*Record
	Errors   []ItemError
	Warnings []string
}

// flatPattern matches the flat legacy filename form "<slug> [<numeric-id>].md".
var flatPattern = regexp.MustCompile(`^(.+?)\s*\[(\d+)\]\.md$`)

// embeddedFrontMatter is the legacy front-matter block some exports carry
// inside content.md. Parsed once, used only as a fallback source.
type embeddedFrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Loader walks the articles prefix of an object store and produces one
// record per logical article.
type Loader struct {
	store    interfaces.ObjectStore
	manifest *manifest.Index
	logger   interfaces.Logger
}

// NewLoader wires a loader. A nil manifest index degrades enrichment to
// heading/path synthesis only.
func NewLoader(objects interfaces.ObjectStore, idx *manifest.Index, logger interfaces.Logger) *Loader {
	if idx == nil {
		idx = manifest.NewIndex()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Loader{store: objects, manifest: idx, logger: logger}
}

// LoadAll discovers every article under prefix. Per-article failures are
// collected into the result; only a failed listing aborts the batch.
func (l *Loader) LoadAll(ctx context.Context, prefix string) (*Result, error) {
	root := prefix + "articles/"
	objects, err := l.store.List(ctx, root, 0)
	if err != nil {
		return nil, fmt.Errorf("list articles under %q: %w", root, err)
	}

	dirs, flats := partition(root, objects)

	result := &Result{}
	seen := map[string]*Record{}

	add := func(rec *Record) bool {
		if _, taken := seen[rec.UID]; taken {
			return false
		}
		seen[rec.UID] = rec
		result.Records = append(result.Records, rec)
		return true
	}

	for _, dir := range sortedKeys(dirs) {
		group := dirs[dir]
		rec, warns, itemErr := l.loadDir(ctx, root, dir, group)
		result.Warnings = append(result.Warnings, warns...)
		if itemErr != nil {
			result.Errors = append(result.Errors, *itemErr)
		}
		if rec == nil {
			continue
		}
		if !add(rec) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("duplicate uid %q from %s, keeping earlier record", rec.UID, dir))
		}
	}

	for _, key := range flats {
		rec, itemErr := l.loadFlat(ctx, root, key)
		if itemErr != nil {
			result.Errors = append(result.Errors, *itemErr)
			continue
		}
		if !add(rec) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("duplicate uid %q from %s, keeping earlier record", rec.UID, key))
		}
	}

	l.logger.Info("articles loaded",
		"records", len(result.Records),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
	)
	return result, nil
}

type dirGroup struct {
	metadataKey string
	contentKey  string
}

// partition splits listed keys into directory groups keyed by relative dir
// and flat legacy files, preserving listing order for the flats.
func partition(root string, objects []interfaces.ObjectInfo) (map[string]dirGroup, []string) {
	dirs := map[string]dirGroup{}
	var flats []string

	for _, obj := range objects {
		rel := strings.TrimPrefix(obj.Key, root)
		if rel == "" {
			continue
		}
		if !strings.Contains(rel, "/") {
			if strings.HasSuffix(rel, ".md") {
				flats = append(flats, obj.Key)
			}
			continue
		}

		dir := path.Dir(rel)
		group := dirs[dir]
		switch path.Base(rel) {
		case "metadata.json":
			group.metadataKey = obj.Key
		case "content.md":
			group.contentKey = obj.Key
		default:
			continue
		}
		dirs[dir] = group
	}

	return dirs, flats
}

func sortedKeys(groups map[string]dirGroup) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// loadDir handles the directory shapes: metadata.json + content.md, or
// content.md alone with synthesized metadata.
func (l *Loader) loadDir(ctx context.Context, root, dir string, group dirGroup) (*Record, []string, *ItemError) {
	var warns []string

	rec := &Record{UID: dir}

	var meta interfaces.Metadata
	hasMetadata := false
	if group.metadataKey != "" {
		raw, err := l.store.Get(ctx, group.metadataKey)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				warns = append(warns, fmt.Sprintf("%s: metadata listed but gone, synthesizing", group.metadataKey))
			} else {
				return nil, warns, &ItemError{Key: group.metadataKey, Err: err}
			}
		} else if err := decodeMetadata(raw, &meta); err != nil {
			warns = append(warns, fmt.Sprintf("%s: malformed metadata (%v), synthesizing from content", group.metadataKey, err))
		} else {
			hasMetadata = true
		}
	}

	if group.contentKey != "" {
		body, err := l.store.Get(ctx, group.contentKey)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, warns, &ItemError{Key: group.contentKey, Err: err}
		}
		rec.Content = body
	}

	if len(rec.Content) == 0 {
		if !hasMetadata {
			// Nothing usable under this directory.
			return nil, warns, nil
		}
		warns = append(warns, fmt.Sprintf("%s: metadata without content", dir))
	}

	embedded := l.stripEmbeddedFrontMatter(rec)

	if hasMetadata {
		rec.Source = SourceMetadata
		rec.Meta = meta
	} else {
		rec.Source = SourceContentOnly
		rec.Meta, rec.Enriched = l.synthesize(rec.Content, path.Base(dir))
	}
	applyFallbacks(rec, embedded, path.Base(dir))

	return rec, warns, nil
}

// loadFlat handles the "<slug> [<numeric-id>].md" form, enriching from the
// manifest by numeric id first, then slug, then heading.
func (l *Loader) loadFlat(ctx context.Context, root, key string) (*Record, *ItemError) {
	body, err := l.store.Get(ctx, key)
	if err != nil {
		return nil, &ItemError{Key: key, Err: err}
	}

	base := strings.TrimPrefix(key, root)
	stem := strings.TrimSuffix(base, ".md")

	rec := &Record{
		UID:     stem,
		Content: body,
		Source:  SourceFlatLegacy,
	}

	slugPart := stem
	numericID := ""
	if m := flatPattern.FindStringSubmatch(base); m != nil {
		slugPart = m[1]
		numericID = m[2]
		rec.UID = slugPart + "-" + numericID
	}

	var entry *manifest.Entry
	if numericID != "" {
		if hit, ok := l.manifest.LookupByNumericID(numericID); ok {
			entry = hit
			rec.Enriched = EnrichmentManifestID
		}
	}
	if entry == nil {
		if hit, ok := l.manifest.LookupBySlug(slugPart); ok {
			entry = hit
			rec.Enriched = EnrichmentManifestSlug
		}
	}

	embedded := l.stripEmbeddedFrontMatter(rec)

	if entry != nil {
		if entry.ArticleID != "" {
			rec.UID = entry.ArticleID
		}
		rec.Meta = interfaces.Metadata{
			Title:    entry.Title,
			Product:  entry.Product,
			Category: entry.Category,
			Section:  entry.Section,
			Tags:     entry.Tags,
			MediaIDs: entry.MediaIDs,
		}
	} else {
		rec.Meta, rec.Enriched = l.synthesize(rec.Content, slugPart)
	}
	applyFallbacks(rec, embedded, slugPart)

	return rec, nil
}

// stripEmbeddedFrontMatter parses and removes a legacy front-matter block
// from record content when one is present. A block that fails to parse is
// left in place untouched.
func (l *Loader) stripEmbeddedFrontMatter(rec *Record) embeddedFrontMatter {
	var embedded embeddedFrontMatter
	if !bytes.HasPrefix(rec.Content, []byte("---")) {
		return embedded
	}
	rest, err := frontmatter.Parse(bytes.NewReader(rec.Content), &embedded)
	if err != nil {
		return embeddedFrontMatter{}
	}
	rec.Content = rest
	return embedded
}

// synthesize builds metadata for a record without any metadata source: title
// from the first heading, or a title-cased form of the trailing segment.
func (l *Loader) synthesize(content []byte, segment string) (interfaces.Metadata, Enrichment) {
	if heading := mdtext.FirstHeading(content); heading != "" {
		return interfaces.Metadata{Title: heading}, EnrichmentHeading
	}
	return interfaces.Metadata{Title: TitleFromSegment(segment)}, EnrichmentPathSegment
}

// applyFallbacks fills still-empty title/description from the embedded
// front-matter block, then from the path segment as a last resort.
func applyFallbacks(rec *Record, embedded embeddedFrontMatter, segment string) {
	if rec.Meta.Title == "" {
		rec.Meta.Title = embedded.Title
	}
	if rec.Meta.Title == "" {
		rec.Meta.Title = TitleFromSegment(segment)
	}
	if rec.Meta.Description == "" {
		rec.Meta.Description = embedded.Description
	}
}

// TitleFromSegment turns a path segment like "deal-page" into "Deal Page".
func TitleFromSegment(segment string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(segment)
	words := strings.Fields(cleaned)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	if len(words) == 0 {
		return "Untitled"
	}
	return strings.Join(words, " ")
}

func decodeMetadata(raw []byte, meta *interfaces.Metadata) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("empty metadata record")
	}
	return json.Unmarshal(raw, meta)
}
