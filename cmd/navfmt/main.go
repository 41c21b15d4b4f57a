// Command navfmt post-processes an existing navigation manifest: nesting
// by section, priority ordering, and display-name formatting.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-docmigrate/cmd/internal/bootstrap"
	"github.com/goliatone/go-docmigrate/internal/nav"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("navfmt: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("navfmt", flag.ExitOnError)
	path := fs.String("manifest", "docs/docs.json", "Path to the navigation manifest")
	nest := fs.Bool("nest", true, "Nest pages into subgroups by section segment")
	order := fs.Bool("order", true, "Apply the page priority ordering")
	format := fs.Bool("format", true, "Normalize group display names")
	dryRun := fs.Bool("dry-run", false, "Validate and report without writing")
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
	}, "docmigrate.navfmt")
	if err != nil {
		return err
	}

	manifest, err := nav.LoadFile(*path)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	if *nest {
		nav.Nest(manifest)
	}
	if *order {
		nav.Order(manifest)
	}
	if *format {
		nav.Format(manifest)
	}

	if *dryRun {
		if err := nav.Validate(manifest); err != nil {
			return err
		}
		logger.Info("manifest valid, no changes written", "manifest", *path)
		return nil
	}

	if err := nav.WriteFile(manifest, *path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "navigation manifest updated: %s (%d tabs)\n", *path, len(manifest.Navigation.Tabs))
	return nil
}
