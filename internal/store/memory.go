package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

// MemStore is an in-memory ObjectStore used by tests and offline dry runs.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ interfaces.ObjectStore = (*MemStore)(nil)

// NewMemStore builds an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{objects: map[string][]byte{}}
}

// Put stores an object under key.
func (m *MemStore) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
}

// List returns objects under prefix, sorted by key.
func (m *MemStore) List(ctx context.Context, prefix string, max int) ([]interfaces.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]interfaces.ObjectInfo, 0, len(m.objects))
	for key, data := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, interfaces.ObjectInfo{Key: key, Size: int64(len(data))})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	if max > 0 && len(infos) > max {
		infos = infos[:max]
	}
	return infos, nil
}

// Get fetches an object's bytes or ErrNotFound.
func (m *MemStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Head reports object existence.
func (m *MemStore) Head(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[key]
	return ok, nil
}

// Download writes the object to destPath.
func (m *MemStore) Download(ctx context.Context, key string, destPath string) error {
	data, err := m.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}
