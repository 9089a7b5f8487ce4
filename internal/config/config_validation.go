// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/corelink-tools/symsync/internal/errs"
	"github.com/corelink-tools/symsync/internal/symitar"
	"github.com/corelink-tools/symsync/models"
)

// validate checks that the merged and defaulted [SyncConfig] satisfies the
// invariants the orchestrator relies on. The https/app-port invariant is a
// configuration error here, never a runtime fallback.
//
// The license key is deliberately not checked: a missing key is an
// authentication failure raised by the license validator, not a
// configuration one.
func (cfg *SyncConfig) validate() error {
	if cfg.Connection.Host == "" {
		return errs.NewConfiguration("host is required")
	}

	if !cfg.Connection.Type.Valid() {
		return errs.NewConfiguration("unknown connection type %q, valid types: %s, %s",
			cfg.Connection.Type, models.ConnectionSSH, models.ConnectionHTTPS)
	}

	if cfg.Connection.Type == models.ConnectionHTTPS && cfg.Connection.AppPort <= 0 {
		return errs.NewConfiguration("connection type https requires a sym application port")
	}

	if cfg.Connection.Type == models.ConnectionSSH &&
		(cfg.Connection.SSHUsername == "" || cfg.Connection.SSHPassword == "") {
		return errs.NewConfiguration("connection type ssh requires ssh credentials")
	}

	if _, err := symitar.Resolve(cfg.Sync.DirectoryType); err != nil {
		return err
	}

	if !cfg.Sync.Mode.Valid() {
		return errs.NewConfiguration("unknown sync mode %q, valid modes: %s, %s, %s",
			cfg.Sync.Mode, models.ModePush, models.ModePull, models.ModeMirror)
	}

	return nil
}
