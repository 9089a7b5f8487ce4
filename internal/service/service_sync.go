// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"

	"github.com/corelink-tools/symsync/internal/config"
	"github.com/corelink-tools/symsync/internal/errs"
	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/internal/symitar"
	"github.com/corelink-tools/symsync/models"
)

type syncOrchestrator struct {
	license LicenseValidator
	dialer  Dialer
	log     *logger.Logger
}

// NewSyncOrchestrator wires the orchestrator with its collaborators.
func NewSyncOrchestrator(license LicenseValidator, dialer Dialer, log *logger.Logger) Orchestrator {
	return &syncOrchestrator{
		license: license,
		dialer:  dialer,
		log:     log,
	}
}

// Synchronize runs the invocation's single sync operation. Each step is a
// hard dependency on the previous one succeeding: license validation,
// directory resolution, transport dial, the synchronize call itself. The
// transport connection is torn down exactly once on every exit path; a
// teardown failure is logged as a warning and never masks the synchronize
// outcome.
func (s *syncOrchestrator) Synchronize(ctx context.Context, cfg *config.SyncConfig) (models.SyncOutcome, error) {
	if err := s.license.Validate(ctx, cfg.Platform.APIKey); err != nil {
		return models.SyncOutcome{}, err
	}

	dirCfg, err := symitar.Resolve(cfg.Sync.DirectoryType)
	if err != nil {
		return models.SyncOutcome{}, err
	}

	req := models.SyncRequest{
		Credentials: models.PlatformCredentials{
			SymNumber:    cfg.Platform.SymNumber,
			UserNumber:   cfg.Platform.UserNumber,
			UserPassword: cfg.Platform.UserPassword,
		},
		LocalPath:      symitar.ResolveLocalPath(cfg.Sync.DirectoryType, cfg.Sync.LocalDir),
		RemoteLocation: dirCfg.RemoteLocation,
		Mode:           cfg.Sync.Mode,
		InstallList:    symitar.ResolveInstallList(cfg.Sync.DirectoryType, cfg.Sync.InstallList),
		DryRun:         cfg.Sync.DryRun,
		ValidateIgnore: cfg.Sync.ValidateIgnore,
	}

	client, err := s.dialer.Dial(ctx, cfg)
	if err != nil {
		return models.SyncOutcome{}, err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			s.log.Warn().Err(cerr).Msg("transport teardown failed")
		}
	}()

	s.log.Info().
		Str("directory_type", dirCfg.DisplayName).
		Str("mode", string(req.Mode)).
		Bool("dry_run", req.DryRun).
		Msg("synchronizing")

	outcome, err := client.Synchronize(ctx, req)
	if err != nil {
		return models.SyncOutcome{}, categorize(err)
	}

	return outcome, nil
}

// categorize tags a transport failure with the sync kind unless it already
// carries a category. No further translation happens here.
func categorize(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.NewSync(err)
}
