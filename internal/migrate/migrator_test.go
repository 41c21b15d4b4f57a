package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-docmigrate/internal/store"
)

func seedExport(t *testing.T) *store.MemStore {
	t.Helper()
	mem := store.NewMemStore()

	mem.Put("export/manifests/articles.jsonl", []byte(strings.Join([]string{
		`{"article_id":"zendesk:radix:38790618700820","slug":"deal-page","title":"Deal Page","product":"radix","category":"deals"}`,
	}, "\n")))

	mem.Put("export/articles/radix-deal-page/metadata.json",
		[]byte(`{"title":"Deal Page","product":"radix","category":"deals","media_ids":["sha1:grid"]}`))
	mem.Put("export/articles/radix-deal-page/content.md",
		[]byte("# Deal Page\n\nThe deal page shows everything about one deal in a single view.\n\n![grid](kb://media/sha1:grid)\n"))

	mem.Put("export/articles/rediq-queue-setup/metadata.json",
		[]byte(`{"title":"Queue Setup","product":"rediq","category":"queues"}`))
	mem.Put("export/articles/rediq-queue-setup/content.md",
		[]byte("# Queue Setup\n\nQueues route work to the right team automatically every time.\n\nSee {{article:deal-page [38790618700820].md}}.\n"))

	mem.Put("export/media/grid.png", []byte("img-bytes"))

	return mem
}

func TestRunEndToEnd(t *testing.T) {
	mem := seedExport(t)
	out := t.TempDir()

	m := New(Config{
		SiteName:      "Example Docs",
		SourcePrefix:  "export/",
		OutputRoot:    out,
		DownloadMedia: true,
	}, mem, nil)

	stats, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Loaded != 2 || stats.Written != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(stats.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", stats.Errors)
	}

	// deal page materialized at its resolved path with front matter
	dealPage := filepath.Join(out, "radix", "deals", "deal-page.mdx")
	raw, err := os.ReadFile(dealPage)
	if err != nil {
		t.Fatalf("deal page missing: %v", err)
	}
	page := string(raw)
	if !strings.HasPrefix(page, "---\n") || !strings.Contains(page, "title: Deal Page") {
		t.Fatalf("front matter wrong:\n%s", page)
	}
	if !strings.Contains(page, "description:") {
		t.Fatalf("description missing:\n%s", page)
	}

	// media reference rewritten and frame-wrapped
	if !strings.Contains(page, `src="/images/radix/grid.png"`) {
		t.Fatalf("media reference not rewritten:\n%s", page)
	}

	// cross-reference resolved to the assigned page path
	queuePage, err := os.ReadFile(filepath.Join(out, "rediq", "queues", "queue-setup.mdx"))
	if err != nil {
		t.Fatalf("queue page missing: %v", err)
	}
	if !strings.Contains(string(queuePage), "[deal-page](radix/deals/deal-page)") {
		t.Fatalf("article reference not rewritten:\n%s", queuePage)
	}

	// referenced media downloaded into the namespace tree
	if _, err := os.Stat(filepath.Join(out, "images", "radix", "grid.png")); err != nil {
		t.Fatalf("media not downloaded: %v", err)
	}
	if stats.MediaDownloaded != 1 {
		t.Fatalf("expected 1 media fetch, got %+v", stats)
	}

	// navigation manifest written and valid
	if _, err := os.Stat(filepath.Join(out, "docs.json")); err != nil {
		t.Fatalf("docs.json missing: %v", err)
	}
	if stats.NavTabs != 2 {
		t.Fatalf("expected 2 tabs, got %d", stats.NavTabs)
	}

	// landing page
	if _, err := os.Stat(filepath.Join(out, "index.mdx")); err != nil {
		t.Fatalf("index.mdx missing: %v", err)
	}

	// verification pass saw every page
	if stats.Verified < 3 {
		t.Fatalf("expected at least 3 verified pages, got %d", stats.Verified)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	mem := seedExport(t)
	out := filepath.Join(t.TempDir(), "site")

	m := New(Config{
		SourcePrefix:  "export/",
		OutputRoot:    out,
		DownloadMedia: true,
		DryRun:        true,
	}, mem, nil)

	stats, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Written != 2 {
		t.Fatalf("dry run should still count pages, got %+v", stats)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("dry run must not create the output root")
	}
}

func TestRunWithoutManifest(t *testing.T) {
	mem := store.NewMemStore()
	mem.Put("export/articles/notes/content.md", []byte("# Release Notes\n\nEverything that changed this quarter, in one place.\n"))

	m := New(Config{SourcePrefix: "export/", OutputRoot: t.TempDir()}, mem, nil)
	stats, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("manifest absence must not fail the run: %v", err)
	}
	if stats.Loaded != 1 || stats.Written != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRunPathCollision(t *testing.T) {
	mem := store.NewMemStore()
	mem.Put("export/articles/a/metadata.json", []byte(`{"title":"FAQ","product":"radix"}`))
	mem.Put("export/articles/a/content.md", []byte("First FAQ body with enough text to describe.\n"))
	mem.Put("export/articles/b/metadata.json", []byte(`{"title":"FAQ","product":"radix"}`))
	mem.Put("export/articles/b/content.md", []byte("Second FAQ body with enough text to describe.\n"))

	out := t.TempDir()
	m := New(Config{SourcePrefix: "export/", OutputRoot: out}, mem, nil)
	stats, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Collisions != 1 {
		t.Fatalf("expected 1 collision, got %+v", stats)
	}

	var pages []string
	filepath.WalkDir(filepath.Join(out, "radix"), func(p string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			pages = append(pages, p)
		}
		return nil
	})
	if len(pages) != 2 {
		t.Fatalf("both colliding articles must be written: %v", pages)
	}
}

func TestRunResolvesManifestNumericID(t *testing.T) {
	mem := store.NewMemStore()
	mem.Put("export/manifests/articles.jsonl", []byte(
		`{"article_id":"zendesk:radix:38790618700820","slug":"deal-page","title":"Deal Page","product":"radix","category":"deals"}`))
	mem.Put("export/articles/radix-deal-page/metadata.json",
		[]byte(`{"title":"Deal Page","product":"radix","category":"deals"}`))
	mem.Put("export/articles/radix-deal-page/content.md",
		[]byte("# Deal Page\n\nEverything about one deal in a single view.\n"))
	mem.Put("export/articles/rediq-queue-setup/metadata.json",
		[]byte(`{"title":"Queue Setup","product":"rediq","category":"queues"}`))
	mem.Put("export/articles/rediq-queue-setup/content.md",
		[]byte("# Queue Setup\n\nQueues route work to the right team.\n\nSee {{article:old-name [38790618700820].md}}.\n"))

	out := t.TempDir()
	m := New(Config{SourcePrefix: "export/", OutputRoot: out}, mem, nil)
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// the uid carries no numeric id and the legacy slug is stale, so only
	// the manifest's numeric id can resolve the reference
	queuePage, err := os.ReadFile(filepath.Join(out, "rediq", "queues", "queue-setup.mdx"))
	if err != nil {
		t.Fatalf("queue page missing: %v", err)
	}
	if !strings.Contains(string(queuePage), "](radix/deals/deal-page)") {
		t.Fatalf("manifest numeric id not resolved:\n%s", queuePage)
	}
}

// interruptingStore cancels the run's context after the first article body
// is fetched, simulating a user interrupt mid-load.
type interruptingStore struct {
	*store.MemStore
	cancel context.CancelFunc
}

func (s *interruptingStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.MemStore.Get(ctx, key)
	if strings.HasSuffix(key, "content.md") {
		s.cancel()
	}
	return data, err
}

func TestRunInterruptedReturnsPartialStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mem := seedExport(t)

	m := New(Config{SourcePrefix: "export/", OutputRoot: t.TempDir()},
		&interruptingStore{MemStore: mem, cancel: cancel}, nil)

	stats, err := m.Run(ctx)
	if err == nil {
		t.Fatal("interrupted run must report the cancellation")
	}
	if stats == nil {
		t.Fatal("interrupted run must still return accumulated stats")
	}
	if stats.Loaded < 1 {
		t.Fatalf("counts gathered before the interrupt must survive: %+v", stats)
	}
	if stats.Written != 0 {
		t.Fatalf("no page should be written after the interrupt: %+v", stats)
	}
}

func TestStatsSummaryPreview(t *testing.T) {
	stats := NewStats()
	for i := 0; i < 8; i++ {
		stats.Warn("warning")
	}
	summary := stats.Summary()
	if !strings.Contains(summary, "and 3 more") {
		t.Fatalf("expected suppressed-count note:\n%s", summary)
	}
	if strings.Count(summary, "- warning") != 5 {
		t.Fatalf("expected 5 previewed warnings:\n%s", summary)
	}
}
