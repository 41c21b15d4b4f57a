package interfaces

import "context"

// ObjectInfo describes a single object in the knowledge-base store.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStore is the read-only contract the migration tools expect from the
// knowledge-base blob store. Absence of an object is reported through
// store.ErrNotFound by Get and as (false, nil) by Head; it is a normal
// outcome, not a transient failure.
type ObjectStore interface {
	// List returns objects under the given key prefix, sorted by key. A max
	// of zero means no limit.
	List(ctx context.Context, prefix string, max int) ([]ObjectInfo, error)
	// Get fetches an object's bytes.
	Get(ctx context.Context, key string) ([]byte, error)
	// Head reports whether the object exists without fetching it.
	Head(ctx context.Context, key string) (bool, error)
	// Download materializes an object at destPath, creating parent
	// directories as needed.
	Download(ctx context.Context, key string, destPath string) error
}
