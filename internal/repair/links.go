// Package repair post-processes a generated page tree: residual kb://
// article links, missing frame captions, and stray .mdx link extensions.
package repair

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-docmigrate/internal/logging"
	"github.com/goliatone/go-docmigrate/internal/manifest"
	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

// articleLinkPattern matches residual kb://article/<id> link targets that
// survived the main rewrite pass.
var articleLinkPattern = regexp.MustCompile(`kb://article/([^)\s]+)`)

// LinkStats summarizes a link-repair run.
type LinkStats struct {
	FilesScanned int
	FilesChanged int
	LinksFixed   int
	UnmappedIDs  []string
	UnfoundSlugs []string
}

// LinkFixer resolves kb://article ids to real page files on disk via the
// manifest, replacing each with a path relative to the referencing page.
type LinkFixer struct {
	root   string
	index  *manifest.Index
	logger interfaces.Logger

	// slug -> relative file path, built lazily from one tree walk
	files map[string][]string
}

// NewLinkFixer wires a fixer over the generated tree rooted at root.
func NewLinkFixer(root string, index *manifest.Index, logger interfaces.Logger) *LinkFixer {
	if index == nil {
		index = manifest.NewIndex()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LinkFixer{root: root, index: index, logger: logger}
}

// Run repairs every page under the tree. Unresolvable links are left in
// place and reported, never blanked.
func (f *LinkFixer) Run(dryRun bool) (*LinkStats, error) {
	if err := f.indexFiles(); err != nil {
		return nil, fmt.Errorf("index page tree: %w", err)
	}

	stats := &LinkStats{}
	unmapped := map[string]bool{}
	unfound := map[string]bool{}

	err := walkPages(f.root, func(path string) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		stats.FilesScanned++

		page := string(raw)
		fixed := articleLinkPattern.ReplaceAllStringFunc(page, func(token string) string {
			id := articleLinkPattern.FindStringSubmatch(token)[1]
			target, outcome := f.resolve(path, id)
			switch outcome {
			case resolved:
				stats.LinksFixed++
				return target
			case unknownID:
				unmapped[id] = true
			case fileMissing:
				unfound[target] = true
			}
			return token
		})

		if fixed == page {
			return nil
		}
		stats.FilesChanged++
		if dryRun {
			return nil
		}
		return os.WriteFile(path, []byte(fixed), 0o644)
	})
	if err != nil {
		return nil, err
	}

	stats.UnmappedIDs = sortedSet(unmapped)
	stats.UnfoundSlugs = sortedSet(unfound)
	return stats, nil
}

// WriteReport serializes the run outcome to a plain-text report: the
// counts plus the full unmapped-id and unfound-slug sets, which the
// console summary may truncate.
func (s *LinkStats) WriteReport(path string) error {
	var b strings.Builder
	b.WriteString("=== LINK FIX REPORT ===\n\n")
	fmt.Fprintf(&b, "Files processed: %d\n", s.FilesScanned)
	fmt.Fprintf(&b, "Files modified: %d\n", s.FilesChanged)
	fmt.Fprintf(&b, "Total links fixed: %d\n", s.LinksFixed)

	if len(s.UnfoundSlugs) > 0 {
		b.WriteString("\n=== SLUGS WITHOUT FILES ===\n")
		for _, slug := range s.UnfoundSlugs {
			fmt.Fprintf(&b, "  %s\n", slug)
		}
	}
	if len(s.UnmappedIDs) > 0 {
		b.WriteString("\n=== UNMAPPED ARTICLE IDs ===\n")
		for _, id := range s.UnmappedIDs {
			fmt.Fprintf(&b, "  %s\n", id)
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

type outcome int

const (
	resolved outcome = iota
	unknownID
	fileMissing
)

// resolve maps an article id to a page path relative to the referencing
// file. The manifest supplies the slug; the file index finds the page by
// exact "<slug>.mdx" name first, then by substring.
func (f *LinkFixer) resolve(fromPath, id string) (string, outcome) {
	entry, ok := f.index.LookupByID(id)
	if !ok {
		if numeric := manifest.ExtractNumericID(id); numeric != "" {
			entry, ok = f.index.LookupByNumericID(numeric)
		}
	}
	if !ok || entry.Slug == "" {
		return "", unknownID
	}

	target := f.findFile(entry.Slug)
	if target == "" {
		return entry.Slug, fileMissing
	}

	fromDir := filepath.Dir(fromPath)
	rel, err := filepath.Rel(fromDir, filepath.Join(f.root, target))
	if err != nil {
		return entry.Slug, fileMissing
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, ".mdx"), resolved
}

// findFile locates a page by slug: exact filename match wins, then the
// first (alphabetical) substring match.
func (f *LinkFixer) findFile(slug string) string {
	if paths, ok := f.files[slug]; ok && len(paths) > 0 {
		return paths[0]
	}
	var candidates []string
	for name, paths := range f.files {
		if strings.Contains(name, slug) {
			candidates = append(candidates, paths...)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	return candidates[0]
}

func (f *LinkFixer) indexFiles() error {
	f.files = map[string][]string{}
	return walkPages(f.root, func(path string) error {
		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		stem := strings.TrimSuffix(filepath.Base(path), ".mdx")
		f.files[stem] = append(f.files[stem], rel)
		return nil
	})
}

func walkPages(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".mdx" {
			return nil
		}
		return fn(p)
	})
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
