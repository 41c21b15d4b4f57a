package commands

import (
	"context"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-docmigrate/internal/migrate"
	"github.com/goliatone/go-docmigrate/internal/store"
)

func TestMigrateSiteValidate(t *testing.T) {
	msg := MigrateSite{OutputRoot: "/tmp/site"}
	if err := msg.Validate(); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}

	if err := (MigrateSite{}).Validate(); err == nil {
		t.Fatal("missing output root should fail validation")
	}
	if err := (MigrateSite{OutputRoot: "x", Workers: -1}).Validate(); err == nil {
		t.Fatal("negative workers should fail validation")
	}
}

func TestBackfillMediaValidate(t *testing.T) {
	msg := BackfillMedia{MediaManifestPath: "media.jsonl", ImagesRoot: "images"}
	if err := msg.Validate(); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}
	if err := (BackfillMedia{ImagesRoot: "images"}).Validate(); err == nil {
		t.Fatal("missing manifest path should fail validation")
	}
}

func TestHandlerRejectsInvalidMessage(t *testing.T) {
	handler := NewMigrateHandler(store.NewMemStore(), nil, nil)

	err := handler.Execute(context.Background(), MigrateSite{})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !goerrors.HasCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestHandlerTagsOperationInErrors(t *testing.T) {
	handler := NewMigrateHandler(store.NewMemStore(), nil, nil)

	err := handler.Execute(context.Background(), MigrateSite{})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(err.Error(), "migrate-site") {
		t.Fatalf("error should name the operation, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = handler.Execute(ctx, MigrateSite{OutputRoot: t.TempDir()})
	if err == nil {
		t.Fatal("expected cancellation failure")
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("canceled run should carry the command category, got %v", err)
	}
}

// haltingStore cancels the context once the first article body is read,
// so the run is interrupted after some counts have accumulated.
type haltingStore struct {
	*store.MemStore
	cancel context.CancelFunc
}

func (s *haltingStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.MemStore.Get(ctx, key)
	if strings.HasSuffix(key, "content.md") {
		s.cancel()
	}
	return data, err
}

func TestMigrateHandlerFlushesPartialStatsOnInterrupt(t *testing.T) {
	mem := store.NewMemStore()
	mem.Put("export/articles/notes/content.md", []byte("# Notes\n\nA body long enough for a description.\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got *migrate.Stats
	handler := NewMigrateHandler(&haltingStore{MemStore: mem, cancel: cancel}, nil,
		func(stats *migrate.Stats) { got = stats })

	err := handler.Execute(ctx, MigrateSite{
		SourcePrefix: "export/",
		OutputRoot:   t.TempDir(),
	})
	if err == nil {
		t.Fatal("interrupted run must surface the cancellation")
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if got == nil {
		t.Fatal("partial stats must still reach the summary callback")
	}
	if got.Loaded < 1 {
		t.Fatalf("counts from before the interrupt missing: %+v", got)
	}
}

func TestMigrateHandlerRuns(t *testing.T) {
	mem := store.NewMemStore()
	mem.Put("export/articles/notes/content.md", []byte("# Notes\n\nA body long enough for a description.\n"))

	var got *migrate.Stats
	handler := NewMigrateHandler(mem, nil, func(stats *migrate.Stats) { got = stats })

	err := handler.Execute(context.Background(), MigrateSite{
		SourcePrefix: "export/",
		OutputRoot:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got == nil || got.Written != 1 {
		t.Fatalf("stats callback not invoked or wrong: %+v", got)
	}
}

func TestBackfillHandlerMissingManifest(t *testing.T) {
	handler := NewBackfillHandler(store.NewMemStore(), nil, nil)

	err := handler.Execute(context.Background(), BackfillMedia{
		MediaManifestPath: "/does/not/exist.jsonl",
		ImagesRoot:        t.TempDir(),
	})
	if err == nil {
		t.Fatal("missing manifest file is a setup failure")
	}
}
