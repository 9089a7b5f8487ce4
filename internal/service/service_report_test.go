// SPDX-License-Identifier: Apache-2.0

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corelink-tools/symsync/models"
)

func TestNormalize_PowerOnsCountsInstalls(t *testing.T) {
	outcome := models.SyncOutcome{
		Deployed:    []string{"LOAN.CALC", "MEMBER.AUDIT"},
		Deleted:     []string{"OLD.SPEC"},
		Installed:   []string{"LOAN.CALC"},
		Uninstalled: []string{"OLD.SPEC", "STALE.SPEC"},
	}

	summary := Normalize(models.DirectoryPowerOns, outcome)

	assert.Equal(t, 2, summary.DeployedCount)
	assert.Equal(t, 1, summary.DeletedCount)
	assert.Equal(t, 1, summary.InstalledCount)
	assert.Equal(t, 2, summary.UninstalledCount)
	assert.Equal(t, 6, summary.TotalChanges)
}

func TestNormalize_NonInstallTypeZeroesInstallCounts(t *testing.T) {
	outcome := models.SyncOutcome{
		Deployed:    []string{"WELCOME.LTR", "RENEWAL.LTR"},
		Deleted:     []string{"OLD.LTR"},
		Installed:   []string{"WELCOME.LTR"},
		Uninstalled: []string{"OLD.LTR", "GONE.LTR"},
	}

	for _, dt := range []models.DirectoryType{
		models.DirectoryLetterFiles,
		models.DirectoryDataFiles,
		models.DirectoryHelpFiles,
	} {
		summary := Normalize(dt, outcome)

		assert.Equal(t, 0, summary.InstalledCount, dt)
		assert.Equal(t, 0, summary.UninstalledCount, dt)
		assert.Equal(t, 3, summary.TotalChanges, dt)
	}
}

func TestNormalize_EmptyOutcome(t *testing.T) {
	summary := Normalize(models.DirectoryPowerOns, models.SyncOutcome{})

	assert.Zero(t, summary.TotalChanges)
}

func TestNormalize_Idempotent(t *testing.T) {
	outcome := models.SyncOutcome{Deployed: []string{"A"}, Installed: []string{"A"}}

	first := Normalize(models.DirectoryPowerOns, outcome)
	second := Normalize(models.DirectoryPowerOns, outcome)

	assert.Equal(t, first, second)
}
