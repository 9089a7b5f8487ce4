// SPDX-License-Identifier: Apache-2.0

// Package client holds the single-run application around the orchestrator:
// it logs the invocation header with secrets masked, runs the one
// synchronize call, and reports the normalized summary.
package client

import (
	"context"

	"github.com/corelink-tools/symsync/internal/config"
	"github.com/corelink-tools/symsync/internal/errs"
	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/internal/service"
)

type App struct {
	orchestrator service.Orchestrator
	cfg          *config.SyncConfig
	log          *logger.Logger
}

func NewApp(orchestrator service.Orchestrator, cfg *config.SyncConfig, log *logger.Logger) *App {
	return &App{orchestrator: orchestrator, cfg: cfg, log: log}
}

// Run performs the invocation and reports its result. The returned error, if
// any, carries one of the four failure kinds for the caller's exit decision.
func (a *App) Run(ctx context.Context) error {
	a.log.Debug().
		Str("host", a.cfg.Connection.Host).
		Str("connection_type", string(a.cfg.Connection.Type)).
		Str("directory_type", string(a.cfg.Sync.DirectoryType)).
		Str("sync_mode", string(a.cfg.Sync.Mode)).
		Str("api_key", logger.Mask(a.cfg.Platform.APIKey)).
		Str("ssh_password", logger.Mask(a.cfg.Connection.SSHPassword)).
		Str("user_password", logger.Mask(a.cfg.Platform.UserPassword)).
		Bool("dry_run", a.cfg.Sync.DryRun).
		Msg("starting sync")

	outcome, err := a.orchestrator.Synchronize(ctx, a.cfg)
	if err != nil {
		a.log.Error().
			Str("kind", errs.KindOf(err).String()).
			Err(err).
			Msg("sync failed")
		return err
	}

	summary := service.Normalize(a.cfg.Sync.DirectoryType, outcome)
	if summary.TotalChanges == 0 {
		a.log.Info().Msg("no changes")
		return nil
	}

	a.log.Info().
		Int("deployed", summary.DeployedCount).
		Int("deleted", summary.DeletedCount).
		Int("installed", summary.InstalledCount).
		Int("uninstalled", summary.UninstalledCount).
		Int("total_changes", summary.TotalChanges).
		Strs("deployed_files", outcome.Deployed).
		Strs("deleted_files", outcome.Deleted).
		Strs("installed_files", outcome.Installed).
		Strs("uninstalled_files", outcome.Uninstalled).
		Msg("sync complete")

	return nil
}
