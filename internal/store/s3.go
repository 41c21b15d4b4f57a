package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

// ErrNotFound reports that the requested object does not exist. Callers
// treat it as a normal negative lookup, not a failure.
var ErrNotFound = errors.New("store: object not found")

const (
	opTimeout   = 30 * time.Second
	maxAttempts = 3
	retryDelay  = 500 * time.Millisecond
)

// S3Config describes the connection to the knowledge-base bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store adapts a minio client to the interfaces.ObjectStore contract.
// Every call carries a timeout and a bounded retry; not-found is never
// retried.
type S3Store struct {
	client *minio.Client
	bucket string
}

var _ interfaces.ObjectStore = (*S3Store)(nil)

// NewS3Store builds an S3-backed object store from the supplied config.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{
		client: client,
		bucket: bucket,
	}, nil
}

// List returns objects under prefix, sorted by key. A max of zero lists
// everything under the prefix.
func (s *S3Store) List(ctx context.Context, prefix string, max int) ([]interfaces.ObjectInfo, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("store is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}
	if max > 0 {
		opts.MaxKeys = max
	}

	infos := make([]interfaces.ObjectInfo, 0, 32)
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, obj.Err)
		}
		if obj.Key == "" {
			continue
		}
		infos = append(infos, interfaces.ObjectInfo{Key: obj.Key, Size: obj.Size})
		if max > 0 && len(infos) >= max {
			break
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Get fetches an object's bytes, returning ErrNotFound for missing keys.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("store is nil")
	}

	var data []byte
	err := s.retry(ctx, func(ctx context.Context) error {
		obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return err
		}
		defer obj.Close()

		read, err := io.ReadAll(obj)
		if err != nil {
			return err
		}
		data = read
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Head reports object existence. Missing keys yield (false, nil).
func (s *S3Store) Head(ctx context.Context, key string) (bool, error) {
	if s == nil || s.client == nil {
		return false, fmt.Errorf("store is nil")
	}

	err := s.retry(ctx, func(ctx context.Context) error {
		_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Download materializes the object at destPath.
func (s *S3Store) Download(ctx context.Context, key string, destPath string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("store is nil")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}

	return s.retry(ctx, func(ctx context.Context) error {
		return s.client.FGetObject(ctx, s.bucket, key, destPath, minio.GetObjectOptions{})
	})
}

// retry runs fn up to maxAttempts times with a fixed delay, translating
// not-found responses into ErrNotFound without retrying them.
func (s *S3Store) retry(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, opTimeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		if isNotFound(err) {
			return ErrNotFound
		}
		lastErr = err
	}
	return lastErr
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return resp.StatusCode == 404
}
