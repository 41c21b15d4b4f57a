// Command migrate converts a knowledge-base export into the static docs
// site: pages, images, and navigation manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-docmigrate/cmd/internal/bootstrap"
	"github.com/goliatone/go-docmigrate/internal/commands"
	"github.com/goliatone/go-docmigrate/internal/migrate"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	siteName := fs.String("site-name", "Documentation", "Site name written into the navigation manifest")
	sourcePrefix := fs.String("source-prefix", "", "Object-store prefix the export lives under")
	output := fs.String("output", "docs", "Directory the site is written into")
	downloadMedia := fs.Bool("download-media", true, "Fetch media referenced by article metadata")
	dryRun := fs.Bool("dry-run", false, "Report without writing any files")
	workers := fs.Int("workers", 4, "Concurrent media download workers")
	endpoint := fs.String("s3-endpoint", "", "S3 endpoint (defaults to DOCMIGRATE_S3_ENDPOINT)")
	bucket := fs.String("s3-bucket", "", "S3 bucket (defaults to DOCMIGRATE_S3_BUCKET)")
	region := fs.String("s3-region", "", "S3 region (defaults to DOCMIGRATE_S3_REGION)")
	logLevel := fs.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "console", "Log format (console, json, pretty)")
	verbose := fs.Bool("verbose", false, "Shorthand for --log-level debug")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := bootstrap.Logger(bootstrap.LogOptions{
		Level:   *logLevel,
		Format:  *logFormat,
		Verbose: *verbose,
	}, "docmigrate.migrate")
	if err != nil {
		return err
	}

	objects, err := bootstrap.ObjectStore(bootstrap.StoreOptions{
		Endpoint: *endpoint,
		Bucket:   *bucket,
		Region:   *region,
	})
	if err != nil {
		return fmt.Errorf("connect object store: %w", err)
	}

	handler := commands.NewMigrateHandler(objects, logger, func(stats *migrate.Stats) {
		fmt.Fprint(os.Stdout, stats.Summary())
	})

	// interrupting the run still prints the counts accumulated so far
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	msg := commands.MigrateSite{
		SiteName:      *siteName,
		SourcePrefix:  *sourcePrefix,
		OutputRoot:    *output,
		DownloadMedia: *downloadMedia,
		DryRun:        *dryRun,
		Workers:       *workers,
	}
	if err := handler.Execute(ctx, msg); err != nil {
		return err
	}
	return nil
}
