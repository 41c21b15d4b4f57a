// Command linkfix resolves residual kb://article links in a generated page
// tree to relative page paths, using the article manifest.
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
		log.Fatalf("linkfix: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("linkfix", flag.ExitOnError)
	root := fs.String("root", "docs", "Generated page tree root")
	manifestPath := fs.String("manifest", "articles.jsonl", "Path to the article manifest")
	reportPath := fs.String("report", "link_fix_report.txt", "Report file written at run end (empty disables)")
	dryRun := fs.Bool("dry-run", false, "Report without rewriting pages")
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
	}, "docmigrate.linkfix")
	if err != nil {
		return err
	}

	index, err := manifest.LoadFile(*manifestPath)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	fixer := repair.NewLinkFixer(*root, index, logger)
	stats, err := fixer.Run(*dryRun)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "files scanned:  %d\n", stats.FilesScanned)
	fmt.Fprintf(os.Stdout, "files changed:  %d\n", stats.FilesChanged)
	fmt.Fprintf(os.Stdout, "links fixed:    %d\n", stats.LinksFixed)
	if len(stats.UnmappedIDs) > 0 {
		fmt.Fprintf(os.Stdout, "unmapped ids (%d):\n", len(stats.UnmappedIDs))
		for _, id := range stats.UnmappedIDs {
			fmt.Fprintf(os.Stdout, "  - %s\n", id)
		}
	}
	if len(stats.UnfoundSlugs) > 0 {
		fmt.Fprintf(os.Stdout, "slugs without files (%d):\n", len(stats.UnfoundSlugs))
		for _, slug := range stats.UnfoundSlugs {
			fmt.Fprintf(os.Stdout, "  - %s\n", slug)
		}
	}

	if *reportPath != "" {
		if err := stats.WriteReport(*reportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stdout, "report written: %s\n", *reportPath)
	}
	return nil
}
