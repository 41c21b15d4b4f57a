package commands

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MigrateSite requests a full export-to-site conversion.
type MigrateSite struct {
	SiteName      string
	SourcePrefix  string
	OutputRoot    string
	DownloadMedia bool
	DryRun        bool
	Workers       int
}

// Type identifies the message for routing and logging.
func (MigrateSite) Type() string { return "docmigrate.site.migrate" }

// Validate enforces the invariants a migration run cannot start without.
func (m MigrateSite) Validate() error {
	errs := validation.Errors{}

	if m.OutputRoot == "" {
		errs["output_root"] = validation.NewError("validation_required", "output root is required")
	}
	if m.Workers < 0 {
		errs["workers"] = validation.NewError("validation_min", "workers cannot be negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BackfillMedia requests a media reconciliation pass over the local image
// tree.
type BackfillMedia struct {
	MediaManifestPath string
	ImagesRoot        string
	MediaPrefix       string
	DryRun            bool
	Workers           int
}

// Type identifies the message for routing and logging.
func (BackfillMedia) Type() string { return "docmigrate.media.backfill" }

// Validate enforces the inputs a backfill run requires.
func (m BackfillMedia) Validate() error {
	errs := validation.Errors{}

	if m.MediaManifestPath == "" {
		errs["media_manifest_path"] = validation.NewError("validation_required", "media manifest path is required")
	}
	if m.ImagesRoot == "" {
		errs["images_root"] = validation.NewError("validation_required", "images root is required")
	}
	if m.Workers < 0 {
		errs["workers"] = validation.NewError("validation_min", "workers cannot be negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
