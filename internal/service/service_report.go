// SPDX-License-Identifier: Apache-2.0

package service

import (
	"github.com/corelink-tools/symsync/internal/symitar"
	"github.com/corelink-tools/symsync/models"
)

// Normalize converts a sync outcome into per-category counts. It is a pure
// function: calling it twice on the same inputs yields identical summaries.
//
// Install and uninstall counts are forced to zero for directory types
// without install support, independent of what the outcome contains — the
// transport already enforces this, but the aggregator does not trust it.
// TotalChanges sums deployed and deleted, plus the install counts only for
// install-supporting types.
func Normalize(t models.DirectoryType, outcome models.SyncOutcome) models.SyncSummary {
	summary := models.SyncSummary{
		DeployedCount: len(outcome.Deployed),
		DeletedCount:  len(outcome.Deleted),
	}

	if cfg, err := symitar.Resolve(t); err == nil && cfg.SupportsInstall {
		summary.InstalledCount = len(outcome.Installed)
		summary.UninstalledCount = len(outcome.Uninstalled)
	}

	summary.TotalChanges = summary.DeployedCount + summary.DeletedCount +
		summary.InstalledCount + summary.UninstalledCount

	return summary
}
