// SPDX-License-Identifier: Apache-2.0

// Package transport implements the two concrete sync clients symsync can
// speak through: an SSH/SFTP client and an HTTPS client against the host's
// file API. Both flavors share the same pure planning logic; only the file
// listing, transfer, and install mechanics differ.
package transport

import (
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/corelink-tools/symsync/models"
)

// fileMeta is the minimal per-file state used for comparison.
type fileMeta struct {
	Size    int64
	ModTime time.Time
}

// fileSet maps a remote-relative file name to its metadata.
type fileSet map[string]fileMeta

// syncPlan is the outcome of comparing the two sides before any mutation.
type syncPlan struct {
	// Transfer lists files to copy: local to remote for push and mirror,
	// remote to local for pull.
	Transfer []string
	// Delete lists remote files to remove. Only mirror populates it.
	Delete []string
}

// buildPlan compares the local and remote file sets under the given mode.
// Names matching an ignore pattern are excluded from comparison entirely.
// The returned lists are sorted so repeated runs over identical state produce
// identical plans.
func buildPlan(mode models.SyncMode, local, remote fileSet, ignore []string) (syncPlan, error) {
	var plan syncPlan

	src, dst := local, remote
	if mode == models.ModePull {
		src, dst = remote, local
	}

	for name, meta := range src {
		skip, err := ignored(name, ignore)
		if err != nil {
			return syncPlan{}, err
		}
		if skip {
			continue
		}

		other, exists := dst[name]
		if !exists || changed(meta, other) {
			plan.Transfer = append(plan.Transfer, name)
		}
	}

	if mode == models.ModeMirror {
		for name := range remote {
			skip, err := ignored(name, ignore)
			if err != nil {
				return syncPlan{}, err
			}
			if skip {
				continue
			}

			if _, exists := local[name]; !exists {
				plan.Delete = append(plan.Delete, name)
			}
		}
	}

	sort.Strings(plan.Transfer)
	sort.Strings(plan.Delete)
	return plan, nil
}

// changed reports whether the source file differs from its counterpart.
// Sizes are compared first; equal sizes fall back to second-granularity
// modification times because SFTP servers commonly truncate sub-second
// precision.
func changed(src, dst fileMeta) bool {
	if src.Size != dst.Size {
		return true
	}
	return src.ModTime.Truncate(time.Second).After(dst.ModTime.Truncate(time.Second))
}

func ignored(name string, patterns []string) (bool, error) {
	for _, p := range patterns {
		ok, err := path.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		if ok || p == name {
			return true, nil
		}
	}
	return false, nil
}

// powerOnLocation is the one remote location the platform implements
// install/uninstall commands for.
const powerOnLocation = "PowerOns"

// assembleOutcome maps a plan onto the four outcome lists. For the PowerOn
// location, installed is the requested install list restricted to files that
// exist in the source set, and every delete implies a preceding uninstall.
func assembleOutcome(plan syncPlan, remoteLocation string, installList []string, src fileSet) models.SyncOutcome {
	outcome := models.SyncOutcome{
		Deployed: plan.Transfer,
		Deleted:  plan.Delete,
	}

	if remoteLocation != powerOnLocation {
		return outcome
	}

	for _, name := range installList {
		if _, ok := src[name]; ok {
			outcome.Installed = append(outcome.Installed, name)
		}
	}
	outcome.Uninstalled = append(outcome.Uninstalled, plan.Delete...)

	return outcome
}
