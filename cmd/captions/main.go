// Command captions injects media-manifest captions into Frame blocks
// across a generated page tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-docmigrate/cmd/internal/bootstrap"
	"github.com/goliatone/go-docmigrate/internal/manifest"
	"github.com/goliatone/go-docmigrate/internal/repair"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("captions: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("captions", flag.ExitOnError)
	root := fs.String("root", "docs", "Generated page tree root")
	mediaManifest := fs.String("media-manifest", "media.jsonl", "Path to the media manifest")
	dryRun := fs.Bool("dry-run", false, "Report without writing")
	logLevel := fs.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "console", "Log format (console, json, pretty)")
	verbose := fs.Bool("verbose", false, "Shorthand for --log-level debug")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(*root); err != nil {
		return fmt.Errorf("page tree root: %w", err)
	}

	logger, err := bootstrap.Logger(bootstrap.LogOptions{
		Level:   *logLevel,
		Format:  *logFormat,
		Verbose: *verbose,
	}, "docmigrate.captions")
	if err != nil {
		return err
	}

	items, skipped, err := manifest.LoadMediaFile(*mediaManifest)
	if err != nil {
		return fmt.Errorf("load media manifest: %w", err)
	}
	if skipped > 0 {
		logger.Warn("media manifest lines skipped", "skipped", skipped)
	}

	stats, err := repair.AddCaptions(*root, manifest.Captions(items), *dryRun)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "files scanned:      %d\n", stats.FilesScanned)
	fmt.Fprintf(os.Stdout, "files changed:      %d\n", stats.FilesChanged)
	fmt.Fprintf(os.Stdout, "captions added:     %d\n", stats.CaptionsAdded)
	fmt.Fprintf(os.Stdout, "already captioned:  %d\n", stats.AlreadyCaptioned)
	return nil
}
