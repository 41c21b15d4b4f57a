package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMemStoreListSortedWithPrefix(t *testing.T) {
	mem := NewMemStore()
	mem.Put("export/articles/b.md", []byte("b"))
	mem.Put("export/articles/a.md", []byte("a"))
	mem.Put("export/media/x.png", []byte("x"))

	infos, err := mem.List(context.Background(), "export/articles/", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "export/articles/a.md" {
		t.Fatalf("unexpected listing: %+v", infos)
	}

	capped, _ := mem.List(context.Background(), "export/", 1)
	if len(capped) != 1 {
		t.Fatalf("max not applied: %+v", capped)
	}
}

func TestMemStoreGetMissing(t *testing.T) {
	mem := NewMemStore()
	_, err := mem.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	ok, err := mem.Head(context.Background(), "nope")
	if err != nil || ok {
		t.Fatalf("head on missing key: ok=%v err=%v", ok, err)
	}
}

func TestMemStoreDownload(t *testing.T) {
	mem := NewMemStore()
	mem.Put("media/grid.png", []byte("img"))

	dest := filepath.Join(t.TempDir(), "images", "radix", "grid.png")
	if err := mem.Download(context.Background(), "media/grid.png", dest); err != nil {
		t.Fatalf("download failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "img" {
		t.Fatalf("downloaded content wrong: %q %v", data, err)
	}
}
