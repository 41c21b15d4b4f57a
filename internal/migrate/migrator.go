// Package migrate orchestrates the full conversion: load, assign paths,
// rewrite references, transform content, materialize the output tree,
// fetch referenced media, and emit the navigation manifest.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-docmigrate/internal/articles"
	"github.com/goliatone/go-docmigrate/internal/backfill"
	"github.com/goliatone/go-docmigrate/internal/logging"
	"github.com/goliatone/go-docmigrate/internal/manifest"
	"github.com/goliatone/go-docmigrate/internal/nav"
	"github.com/goliatone/go-docmigrate/internal/resolve"
	"github.com/goliatone/go-docmigrate/internal/rewrite"
	"github.com/goliatone/go-docmigrate/internal/store"
	"github.com/goliatone/go-docmigrate/internal/transform"
	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

// Config wires a migration run.
type Config struct {
	// SiteName names the generated site in the navigation manifest.
	SiteName string
	// SourcePrefix is the object-store prefix the export lives under.
	SourcePrefix string
	// OutputRoot is the local directory the site is written into.
	OutputRoot string
	// DownloadMedia fetches media referenced by article metadata.
	DownloadMedia bool
	// DryRun computes and reports everything without writing.
	DryRun bool
	// Workers bounds the media download pool.
	Workers int
}

// Migrator runs the pipeline against one object store.
type Migrator struct {
	cfg    Config
	store  interfaces.ObjectStore
	logger interfaces.Logger
}

// New builds a migrator.
func New(cfg Config, objects interfaces.ObjectStore, logger interfaces.Logger) *Migrator {
	if cfg.SiteName == "" {
		cfg.SiteName = "Documentation"
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Migrator{cfg: cfg, store: objects, logger: logger}
}

// Run executes the pipeline. Per-article failures accumulate in the stats;
// only setup failures (unreachable store, unwritable output root) return an
// error.
func (m *Migrator) Run(ctx context.Context) (*Stats, error) {
	stats := NewStats()

	if !m.cfg.DryRun {
		if err := os.MkdirAll(m.cfg.OutputRoot, 0o755); err != nil {
			return nil, fmt.Errorf("create output root: %w", err)
		}
	}

	index, err := m.loadManifest(ctx)
	if err != nil {
		return nil, err
	}
	stats.ManifestEntries = index.Len()
	if skipped := index.Skipped(); skipped > 0 {
		stats.Warn(fmt.Sprintf("manifest: %d malformed lines skipped", skipped))
	}

	loader := articles.NewLoader(m.store, index, m.logger)
	loaded, err := loader.LoadAll(ctx, m.cfg.SourcePrefix)
	if err != nil {
		return stats, err
	}
	stats.Loaded = len(loaded.Records)
	for _, warn := range loaded.Warnings {
		stats.Warn(warn)
	}
	for _, itemErr := range loaded.Errors {
		stats.Error(itemErr.Error())
	}

	m.assignPaths(loaded.Records, stats)
	paths := m.buildPathLookup(loaded.Records, index)

	rewriter := rewrite.New(paths, m.logger)
	for _, rec := range loaded.Records {
		if err := ctx.Err(); err != nil {
			stats.Warn("run interrupted, partial results")
			return stats, err
		}
		if err := m.materialize(rec, rewriter); err != nil {
			stats.Error(fmt.Sprintf("%s: %v", rec.UID, err))
			continue
		}
		stats.Written++
	}

	if m.cfg.DownloadMedia {
		m.fetchReferencedMedia(ctx, loaded.Records, stats)
	}
	if err := ctx.Err(); err != nil {
		stats.Warn("run interrupted, partial results")
		return stats, err
	}

	if err := m.writeNavigation(loaded.Records, stats); err != nil {
		return nil, err
	}
	if err := m.writeIndexPage(loaded.Records); err != nil {
		stats.Error(fmt.Sprintf("index page: %v", err))
	}

	m.verifyOutput(stats)

	m.logger.Info("migration finished",
		"loaded", stats.Loaded,
		"written", stats.Written,
		"collisions", stats.Collisions,
		"errors", len(stats.Errors),
		"warnings", len(stats.Warnings),
	)
	return stats, nil
}

// loadManifest fetches the optional enrichment manifest from the store. Its
// absence is the documented degradation to metadata-only mode.
func (m *Migrator) loadManifest(ctx context.Context) (*manifest.Index, error) {
	key := m.cfg.SourcePrefix + "manifests/articles.jsonl"
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.logger.Warn("no article manifest, running metadata-only", "key", key)
			return manifest.NewIndex(), nil
		}
		return nil, fmt.Errorf("fetch manifest %q: %w", key, err)
	}
	return manifest.Load(strings.NewReader(string(raw))), nil
}

// assignPaths runs the two-phase path assignment: candidate paths computed
// per record, then claimed sequentially so collision detection sees every
// prior assignment.
func (m *Migrator) assignPaths(records []*articles.Record, stats *Stats) {
	assigner := resolve.NewAssigner()
	for _, rec := range records {
		candidate := resolve.Resolve(rec.Meta)
		assigned, collided := assigner.Assign(rec.UID, candidate)
		rec.OutputPath = assigned
		if collided {
			stats.Collisions++
			stats.Warn(fmt.Sprintf("path collision on %q, %s assigned %q", candidate, rec.UID, assigned))
		}
	}
}

// buildPathLookup registers only the paths that were actually assigned,
// keyed by the identifiers references use. This is what keeps rewriting
// fail-open: a lookup miss leaves the reference text alone.
func (m *Migrator) buildPathLookup(records []*articles.Record, index *manifest.Index) *rewrite.PathLookup {
	paths := rewrite.NewPathLookup()
	for _, rec := range records {
		pagePath := resolve.PagePath(rec.OutputPath)
		slug := pagePath[strings.LastIndex(pagePath, "/")+1:]
		paths.Register(manifest.ExtractNumericID(rec.UID), slug, pagePath)

		// the manifest entry may carry a numeric id and slug the uid does
		// not; Register skips empties and repeats
		entry, ok := index.LookupByID(rec.UID)
		if !ok {
			if numeric := manifest.ExtractNumericID(rec.UID); numeric != "" {
				entry, ok = index.LookupByNumericID(numeric)
			}
		}
		if !ok {
			entry, ok = index.LookupBySlug(slug)
		}
		if ok {
			paths.Register(manifest.ExtractNumericID(entry.ArticleID), entry.Slug, pagePath)
		}
	}
	return paths
}

// materialize rewrites, transforms, and writes one article.
func (m *Migrator) materialize(rec *articles.Record, rewriter *rewrite.Rewriter) error {
	body := rewriter.Rewrite(rec.Content, rec.Meta)
	body = transform.Components(body)

	fm := transform.Build(rec.Meta, body)
	header, err := fm.Render()
	if err != nil {
		return fmt.Errorf("render front matter: %w", err)
	}

	var page strings.Builder
	page.WriteString(header)
	page.Write(body)
	if faq := transform.FAQ(rec.Meta.SuggestedQueries); faq != "" {
		if !strings.HasSuffix(page.String(), "\n") {
			page.WriteString("\n")
		}
		page.WriteString("\n" + faq)
	}

	if m.cfg.DryRun {
		return nil
	}

	dest := filepath.Join(m.cfg.OutputRoot, filepath.FromSlash(rec.OutputPath))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte(page.String()), 0o644)
}

// fetchReferencedMedia reconciles every media id referenced by loaded
// articles into the local image tree, reusing the backfill machinery.
func (m *Migrator) fetchReferencedMedia(ctx context.Context, records []*articles.Record, stats *Stats) {
	var items []manifest.MediaItem
	seen := map[string]bool{}
	for _, rec := range records {
		for _, mediaID := range rec.Meta.MediaIDs {
			if mediaID == "" || seen[mediaID] {
				continue
			}
			seen[mediaID] = true
			items = append(items, manifest.MediaItem{MediaID: mediaID, SourceArticleID: rec.UID})
		}
	}
	if len(items) == 0 {
		return
	}

	reconciler := backfill.New(backfill.Config{
		ImagesRoot:  filepath.Join(m.cfg.OutputRoot, "images"),
		MediaPrefix: m.cfg.SourcePrefix + "media/",
		DryRun:      m.cfg.DryRun,
		Workers:     m.cfg.Workers,
	}, m.store, m.logger)

	summary, err := reconciler.Run(ctx, items)
	if err != nil {
		stats.Error(fmt.Sprintf("media fetch: %v", err))
		return
	}
	stats.MediaDownloaded = summary.Counts[backfill.StatusDownloaded] + summary.Counts[backfill.StatusWouldDownload]
	stats.MediaMissing = summary.Counts[backfill.StatusMissingS3]
	for _, res := range summary.Results {
		switch res.Status {
		case backfill.StatusMissingS3:
			stats.Warn(fmt.Sprintf("media %s: not found in store", res.MediaID))
		case backfill.StatusError:
			stats.Error(fmt.Sprintf("media %s: %s", res.MediaID, res.Detail))
		}
	}
}

// writeNavigation builds, post-processes, validates, and writes docs.json.
func (m *Migrator) writeNavigation(records []*articles.Record, stats *Stats) error {
	navManifest := nav.Build(m.cfg.SiteName, records)
	nav.Nest(navManifest)
	nav.Order(navManifest)
	nav.Format(navManifest)
	stats.NavTabs = len(navManifest.Navigation.Tabs)

	if m.cfg.DryRun {
		return nav.Validate(navManifest)
	}
	path := filepath.Join(m.cfg.OutputRoot, "docs.json")
	if err := nav.WriteFile(navManifest, path); err != nil {
		return fmt.Errorf("write navigation manifest: %w", err)
	}
	return nil
}

// writeIndexPage emits the landing page with one card per product unless a
// page already exists.
func (m *Migrator) writeIndexPage(records []*articles.Record) error {
	if m.cfg.DryRun {
		return nil
	}
	path := filepath.Join(m.cfg.OutputRoot, "index.mdx")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	fm := transform.FrontMatter{
		Title:       m.cfg.SiteName,
		Description: "Browse the documentation by product and topic.",
	}
	header, err := fm.Render()
	if err != nil {
		return err
	}

	// product -> first page, in assignment order
	firstPage := map[string]string{}
	var products []string
	for _, rec := range records {
		if rec.OutputPath == "" {
			continue
		}
		pagePath := resolve.PagePath(rec.OutputPath)
		product := pagePath[:strings.Index(pagePath+"/", "/")]
		if _, ok := firstPage[product]; !ok {
			firstPage[product] = pagePath
			products = append(products, product)
		}
	}
	sort.Strings(products)

	var page strings.Builder
	page.WriteString(header)
	page.WriteString("# " + m.cfg.SiteName + "\n\n")
	if len(products) > 0 {
		page.WriteString("<CardGroup cols={2}>\n")
		for _, product := range products {
			page.WriteString("  <Card title=\"" + nav.DisplayName(product) + "\" href=\"/" + firstPage[product] + "\">\n")
			page.WriteString("    Documentation for " + nav.DisplayName(product) + ".\n")
			page.WriteString("  </Card>\n")
		}
		page.WriteString("</CardGroup>\n")
	} else {
		page.WriteString("Use the tabs above to browse by product.\n")
	}
	return os.WriteFile(path, []byte(page.String()), 0o644)
}

// verifyOutput re-reads written pages and checks the invariants every page
// must satisfy: a front-matter block with non-empty title and description.
func (m *Migrator) verifyOutput(stats *Stats) {
	if m.cfg.DryRun {
		return
	}
	err := filepath.WalkDir(m.cfg.OutputRoot, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".mdx" {
			return nil
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		page := string(raw)
		if !strings.HasPrefix(page, "---\n") {
			stats.Error(fmt.Sprintf("%s: missing front matter", p))
			return nil
		}
		if !strings.Contains(page, "title:") || !strings.Contains(page, "description:") {
			stats.Error(fmt.Sprintf("%s: incomplete front matter", p))
		}
		stats.Verified++
		return nil
	})
	if err != nil {
		stats.Error(fmt.Sprintf("verification walk: %v", err))
	}
}
