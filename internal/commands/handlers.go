package commands

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docmigrate/internal/backfill"
	"github.com/goliatone/go-docmigrate/internal/manifest"
	"github.com/goliatone/go-docmigrate/internal/migrate"
	"github.com/goliatone/go-docmigrate/pkg/interfaces"
)

// NewMigrateHandler wires the migration pipeline behind the command layer.
// onDone receives the run stats whenever the run produced any, including
// the partial counts of an interrupted run.
func NewMigrateHandler(objects interfaces.ObjectStore, logger interfaces.Logger, onDone func(*migrate.Stats)) *Handler[MigrateSite] {
	return NewHandler(func(ctx context.Context, msg MigrateSite) error {
		migrator := migrate.New(migrate.Config{
			SiteName:      msg.SiteName,
			SourcePrefix:  msg.SourcePrefix,
			OutputRoot:    msg.OutputRoot,
			DownloadMedia: msg.DownloadMedia,
			DryRun:        msg.DryRun,
			Workers:       msg.Workers,
		}, objects, logger)

		stats, err := migrator.Run(ctx)
		if stats != nil && onDone != nil {
			onDone(stats)
		}
		return err
	},
		WithLogger[MigrateSite](logger),
		WithOperation[MigrateSite]("migrate-site"),
	)
}

// NewBackfillHandler wires the media reconciler behind the command layer.
// onDone receives the per-status summary after the run, partial when the
// run was interrupted.
func NewBackfillHandler(objects interfaces.ObjectStore, logger interfaces.Logger, onDone func(*backfill.Summary)) *Handler[BackfillMedia] {
	return NewHandler(func(ctx context.Context, msg BackfillMedia) error {
		items, skipped, err := manifest.LoadMediaFile(msg.MediaManifestPath)
		if err != nil {
			return fmt.Errorf("load media manifest: %w", err)
		}
		if skipped > 0 && logger != nil {
			logger.Warn("media manifest lines skipped", "skipped", skipped)
		}

		reconciler := backfill.New(backfill.Config{
			ImagesRoot:  msg.ImagesRoot,
			MediaPrefix: msg.MediaPrefix,
			DryRun:      msg.DryRun,
			Workers:     msg.Workers,
		}, objects, logger)

		summary, err := reconciler.Run(ctx, items)
		if summary != nil && onDone != nil {
			onDone(summary)
		}
		return err
	},
		WithLogger[BackfillMedia](logger),
		WithOperation[BackfillMedia]("backfill-media"),
	)
}
