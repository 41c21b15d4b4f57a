// Command backfill reconciles the media manifest against the local image
// tree, moving misplaced files and downloading missing ones from the
// export store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/goliatone/go-docmigrate/cmd/internal/bootstrap"
	"github.com/goliatone/go-docmigrate/internal/backfill"
	"github.com/goliatone/go-docmigrate/internal/commands"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("backfill: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("backfill", flag.ExitOnError)
	mediaManifest := fs.String("media-manifest", "media.jsonl", "Path to the media manifest")
	imagesRoot := fs.String("images", "docs/images", "Local image tree root")
	mediaPrefix := fs.String("media-prefix", "media/", "Object-store prefix media keys live under")
	dryRun := fs.Bool("dry-run", false, "Report without moving or downloading")
	workers := fs.Int("workers", 4, "Concurrent reconciliation workers")
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
	}, "docmigrate.backfill")
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

	handler := commands.NewBackfillHandler(objects, logger, printSummary)

	// interrupting the run still prints the per-status counts so far
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	msg := commands.BackfillMedia{
		MediaManifestPath: *mediaManifest,
		ImagesRoot:        *imagesRoot,
		MediaPrefix:       *mediaPrefix,
		DryRun:            *dryRun,
		Workers:           *workers,
	}
	if err := handler.Execute(ctx, msg); err != nil {
		return err
	}
	return nil
}

func printSummary(summary *backfill.Summary) {
	statuses := make([]string, 0, len(summary.Counts))
	for status := range summary.Counts {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)

	for _, status := range statuses {
		fmt.Fprintf(os.Stdout, "%-28s %d\n", status+":", summary.Counts[backfill.Status(status)])
	}
}
