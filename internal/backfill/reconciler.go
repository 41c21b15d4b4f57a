// Package backfill reconciles the media manifest against the local image
// tree and the remote export store: every item ends up present under its
// namespace-correct subtree, or is reported with the reason it could not be.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-docmigrate/internal/logging"
	"github.com/goliatone/go-docmigrate/internal/manifest"
	"github.com/goliatone/go-docmigrate/internal/namespace"
	"github.com/goliatone/go-docmigrate/internal/store"
	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

// Status is the per-item reconciliation outcome.
type Status string

const (
	StatusExistsLocal         Status = "exists_local"
	StatusMoved               Status = "moved"
	StatusWouldMove           Status = "would_move"
	StatusDownloaded          Status = "downloaded"
	StatusWouldDownload       Status = "would_download"
	StatusMissingS3           Status = "missing_s3"
	StatusWrongNamespaceTaken Status = "exists_but_wrong_namespace"
	StatusSkipped             Status = "skipped"
	StatusError               Status = "error"
)

// preferredExtensions is the candidate priority order when a prefix listing
// returns several remote matches for one media id.
var preferredExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

// ItemResult records one item's outcome and the path it resolved to.
type ItemResult struct {
	MediaID string
	Status  Status
	Path    string
	Detail  string
}

// Summary aggregates a run. Results keeps per-item outcomes in completion
// order; Counts is the per-status tally.
type Summary struct {
	Counts  map[Status]int
	Results []ItemResult
}

// Config wires a reconciler.
type Config struct {
	// ImagesRoot is the local image tree, with one subtree per namespace.
	ImagesRoot string
	// MediaPrefix is the object-store prefix media keys live under.
	MediaPrefix string
	// DryRun reports would_move/would_download instead of mutating.
	DryRun bool
	// Workers bounds the concurrent item pool. Zero means 4.
	Workers int
}

// Reconciler processes media items independently and concurrently against
// a shared local tree and remote store.
type Reconciler struct {
	cfg    Config
	store  interfaces.ObjectStore
	logger interfaces.Logger
}

// New builds a reconciler. A nil store disables the remote probe: items not
// found locally report missing_s3.
func New(cfg Config, objects interfaces.ObjectStore, logger interfaces.Logger) *Reconciler {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Reconciler{cfg: cfg, store: objects, logger: logger}
}

// Run reconciles all items. Item failures land in the summary as error
// results; only context cancellation aborts the batch early.
func (r *Reconciler) Run(ctx context.Context, items []manifest.MediaItem) (*Summary, error) {
	summary := &Summary{Counts: map[Status]int{}}

	results := make(chan ItemResult, len(items))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range results {
			summary.Counts[res.Status]++
			summary.Results = append(summary.Results, res)
		}
	}()

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.Workers)
	for _, item := range items {
		item := item
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results <- r.reconcile(ctx, item)
			return nil
		})
	}

	err := group.Wait()
	close(results)
	<-done

	r.logger.Info("backfill finished", "items", len(items), "counts", summary.Counts)
	return summary, err
}

// reconcile handles one item end to end. Local search first, remote probe
// only when nothing local matched.
func (r *Reconciler) reconcile(ctx context.Context, item manifest.MediaItem) ItemResult {
	if strings.TrimSpace(item.MediaID) == "" {
		return ItemResult{Status: StatusSkipped, Detail: "empty media id"}
	}

	ns, inferred := namespace.Infer(item.SourceArticleID)
	if !inferred {
		r.logger.Warn("no namespace marker, defaulting",
			"media_id", item.MediaID,
			"source_article_id", item.SourceArticleID,
			"namespace", ns,
		)
	}

	matches, err := r.findLocal(item.MediaID)
	if err != nil {
		return ItemResult{MediaID: item.MediaID, Status: StatusError, Detail: err.Error()}
	}

	if len(matches) > 0 {
		return r.reconcileLocal(item, ns, matches)
	}
	return r.reconcileRemote(ctx, item, ns)
}

// reconcileLocal settles an item that already has at least one local file.
// Ambiguity tie-break: a namespace-correct match wins, then first-found.
func (r *Reconciler) reconcileLocal(item manifest.MediaItem, ns string, matches []string) ItemResult {
	nsRoot := filepath.Join(r.cfg.ImagesRoot, ns)
	for _, match := range matches {
		if within(nsRoot, match) {
			return ItemResult{MediaID: item.MediaID, Status: StatusExistsLocal, Path: match}
		}
	}

	src := matches[0]
	if len(matches) > 1 {
		r.logger.Warn("multiple local matches, using first",
			"media_id", item.MediaID, "matches", len(matches))
	}

	dest := filepath.Join(nsRoot, filepath.Base(src))
	if _, err := os.Stat(dest); err == nil {
		return ItemResult{MediaID: item.MediaID, Status: StatusWrongNamespaceTaken, Path: src,
			Detail: "destination already exists: " + dest}
	}

	if r.cfg.DryRun {
		return ItemResult{MediaID: item.MediaID, Status: StatusWouldMove, Path: dest, Detail: "from " + src}
	}
	if err := os.MkdirAll(nsRoot, 0o755); err != nil {
		return ItemResult{MediaID: item.MediaID, Status: StatusError, Detail: err.Error()}
	}
	if err := os.Rename(src, dest); err != nil {
		return ItemResult{MediaID: item.MediaID, Status: StatusError, Detail: err.Error()}
	}
	return ItemResult{MediaID: item.MediaID, Status: StatusMoved, Path: dest}
}

// reconcileRemote probes the object store: exact key, extension-hinted
// aliases, then a prefix listing. First success wins.
func (r *Reconciler) reconcileRemote(ctx context.Context, item manifest.MediaItem, ns string) ItemResult {
	if r.store == nil {
		return ItemResult{MediaID: item.MediaID, Status: StatusMissingS3, Detail: "no remote store configured"}
	}

	key, err := r.probeRemote(ctx, item)
	if err != nil {
		return ItemResult{MediaID: item.MediaID, Status: StatusError, Detail: err.Error()}
	}
	if key == "" {
		return ItemResult{MediaID: item.MediaID, Status: StatusMissingS3}
	}

	dest := filepath.Join(r.cfg.ImagesRoot, ns, path.Base(key))
	if r.cfg.DryRun {
		return ItemResult{MediaID: item.MediaID, Status: StatusWouldDownload, Path: dest, Detail: "from " + key}
	}
	if err := r.store.Download(ctx, key, dest); err != nil {
		return ItemResult{MediaID: item.MediaID, Status: StatusError, Detail: err.Error()}
	}
	return ItemResult{MediaID: item.MediaID, Status: StatusDownloaded, Path: dest}
}

func (r *Reconciler) probeRemote(ctx context.Context, item manifest.MediaItem) (string, error) {
	// remote keys never carry the content-hash scheme prefix
	exact := r.cfg.MediaPrefix + stripScheme(item.MediaID)
	ok, err := r.headIgnoringNotFound(ctx, exact)
	if err != nil {
		return "", err
	}
	if ok {
		return exact, nil
	}

	for _, ext := range extensionCandidates(item) {
		candidate := exact + ext
		ok, err := r.headIgnoringNotFound(ctx, candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}

	listed, err := r.store.List(ctx, exact, 25)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("prefix listing: %w", err)
	}
	if len(listed) == 0 {
		return "", nil
	}

	keys := make([]string, len(listed))
	for i, obj := range listed {
		keys[i] = obj.Key
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := extensionRank(keys[i]), extensionRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys[0], nil
}

func (r *Reconciler) headIgnoringNotFound(ctx context.Context, key string) (bool, error) {
	ok, err := r.store.Head(ctx, key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	return ok, nil
}

// extensionCandidates produces the hinted-extension keys to try, with
// jpg/jpeg treated as aliases of each other.
func extensionCandidates(item manifest.MediaItem) []string {
	if path.Ext(item.MediaID) != "" {
		return nil
	}

	hint := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(item.Ext)), ".")
	var exts []string
	switch hint {
	case "":
		exts = []string{"png", "jpg", "jpeg"}
	case "jpg":
		exts = []string{"jpg", "jpeg"}
	case "jpeg":
		exts = []string{"jpeg", "jpg"}
	default:
		exts = []string{hint}
	}

	out := make([]string, len(exts))
	for i, ext := range exts {
		out[i] = "." + ext
	}
	return out
}

func extensionRank(key string) int {
	ext := strings.ToLower(path.Ext(key))
	for i, preferred := range preferredExtensions {
		if ext == preferred {
			return i
		}
	}
	return len(preferredExtensions)
}

// findLocal scans the image tree for files matching the media id: by stem
// when the id carries no extension, by full name when it does. Full
// recursive scan, fine at migration-tool scale.
func (r *Reconciler) findLocal(mediaID string) ([]string, error) {
	wantName := localFilename(mediaID)
	wantStem := strings.TrimSuffix(wantName, filepath.Ext(wantName))
	matchByName := filepath.Ext(wantName) != ""

	var matches []string
	err := filepath.WalkDir(r.cfg.ImagesRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if matchByName {
			if name == wantName {
				matches = append(matches, p)
			}
			return nil
		}
		if strings.TrimSuffix(name, filepath.Ext(name)) == wantStem {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// localFilename strips a content-hash scheme prefix and any path component
// from a media id, leaving the filename to match locally.
func localFilename(mediaID string) string {
	return stripScheme(path.Base(strings.TrimSpace(mediaID)))
}

// stripScheme drops a leading "sha1:"-style prefix from a media id.
func stripScheme(id string) string {
	if idx := strings.Index(id, ":"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

// within reports whether p sits under root.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
