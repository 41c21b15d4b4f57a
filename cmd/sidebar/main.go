// Command sidebar audits page titles across a generated tree and writes
// shortened sidebarTitle entries where titles exceed the display budget.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-docmigrate/cmd/internal/bootstrap"
	"github.com/goliatone/go-docmigrate/internal/sidebar"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("sidebar: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("sidebar", flag.ExitOnError)
	root := fs.String("root", "docs", "Generated page tree root")
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
	}, "docmigrate.sidebar")
	if err != nil {
		return err
	}

	results, err := sidebar.Audit(*root, *dryRun)
	if err != nil {
		return err
	}

	for _, res := range results {
		logger.Debug("sidebar title", "path", res.Path, "title", res.Title, "sidebar_title", res.SidebarTitle)
		fmt.Fprintf(os.Stdout, "%s\n  %q -> %q\n", res.Path, res.Title, res.SidebarTitle)
	}
	fmt.Fprintf(os.Stdout, "pages shortened: %d\n", len(results))
	return nil
}
