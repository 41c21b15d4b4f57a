// Package bootstrap shares the CLI plumbing: env loading, logger
// construction, and object-store wiring from flags and environment.
package bootstrap

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-docmigrate/internal/logging/gologger"
	"github.com/goliatone/go-docmigrate/internal/store"
	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

func init() {
	// optional .env for local runs; absence is the normal case
	_ = godotenv.Load()
}

// LogOptions come from the shared --log-level / --log-format / --verbose
// flags.
type LogOptions struct {
	Level   string
	Format  string
	Verbose bool
}

// Logger builds the CLI logger provider and returns the named module
// logger.
func Logger(opts LogOptions, module string) (interfaces.Logger, error) {
	level := opts.Level
	if opts.Verbose && level == "" {
		level = "debug"
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:  level,
		Format: opts.Format,
	})
	if err != nil {
		return nil, err
	}
	return provider.GetLogger(module), nil
}

// StoreOptions carry the object-store connection settings. Flags override
// the DOCMIGRATE_S3_* environment.
type StoreOptions struct {
	Endpoint string
	Bucket   string
	Region   string
}

// ObjectStore wires the S3-compatible store from options and environment.
func ObjectStore(opts StoreOptions) (interfaces.ObjectStore, error) {
	cfg := store.S3Config{
		Endpoint:  firstOf(opts.Endpoint, os.Getenv("DOCMIGRATE_S3_ENDPOINT")),
		AccessKey: os.Getenv("DOCMIGRATE_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("DOCMIGRATE_S3_SECRET_KEY"),
		Bucket:    firstOf(opts.Bucket, os.Getenv("DOCMIGRATE_S3_BUCKET")),
		Region:    firstOf(opts.Region, os.Getenv("DOCMIGRATE_S3_REGION")),
	}
	if secure := os.Getenv("DOCMIGRATE_S3_SECURE"); secure != "" {
		parsed, err := strconv.ParseBool(secure)
		if err != nil {
			return nil, fmt.Errorf("parse DOCMIGRATE_S3_SECURE: %w", err)
		}
		cfg.UseSSL = parsed
	}

	return store.NewS3Store(cfg)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
