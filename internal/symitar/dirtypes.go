// SPDX-License-Identifier: Apache-2.0

// Package symitar holds the static knowledge symsync has about the remote
// platform's directory layout: which directory types exist, where they live
// on the host, which local path they default to, and whether the platform
// supports install/uninstall semantics for them.
package symitar

import (
	"sort"
	"strings"

	"github.com/corelink-tools/symsync/internal/errs"
	"github.com/corelink-tools/symsync/models"
)

// DirectoryTypeConfig describes one synchronizable directory type.
type DirectoryTypeConfig struct {
	// DisplayName is the human-readable name used in reports.
	DisplayName string
	// RemoteLocation is the platform-side directory identifier.
	RemoteLocation string
	// DefaultLocalPath is used when the caller supplies no override.
	DefaultLocalPath string
	// SupportsInstall is true only for PowerOns; every other type has its
	// install/uninstall lists forced empty regardless of caller input.
	SupportsInstall bool
}

var directoryTypes = map[models.DirectoryType]DirectoryTypeConfig{
	models.DirectoryPowerOns: {
		DisplayName:      "PowerOns",
		RemoteLocation:   "PowerOns",
		DefaultLocalPath: "poweron",
		SupportsInstall:  true,
	},
	models.DirectoryLetterFiles: {
		DisplayName:      "Letter Files",
		RemoteLocation:   "LetterFiles",
		DefaultLocalPath: "letterfile",
	},
	models.DirectoryDataFiles: {
		DisplayName:      "Data Files",
		RemoteLocation:   "DataFiles",
		DefaultLocalPath: "datafile",
	},
	models.DirectoryHelpFiles: {
		DisplayName:      "Help Files",
		RemoteLocation:   "HelpFiles",
		DefaultLocalPath: "helpfile",
	},
}

// Resolve returns the configuration of the given directory type, or a
// configuration error listing the valid set when the type is unknown.
func Resolve(t models.DirectoryType) (DirectoryTypeConfig, error) {
	cfg, ok := directoryTypes[t]
	if !ok {
		return DirectoryTypeConfig{}, errs.NewConfiguration(
			"unknown directory type %q, valid types: %s", t, validTypeList())
	}
	return cfg, nil
}

// ResolveInstallList returns requested unchanged when the directory type
// supports install, and an empty list otherwise. Supplying an install list
// for a non-install type is not an error; the list is silently ignored.
func ResolveInstallList(t models.DirectoryType, requested []string) []string {
	if cfg, ok := directoryTypes[t]; ok && cfg.SupportsInstall {
		return requested
	}
	return nil
}

// ResolveLocalPath returns override when non-empty, else the directory
// type's default local path.
func ResolveLocalPath(t models.DirectoryType, override string) string {
	if override != "" {
		return override
	}
	return directoryTypes[t].DefaultLocalPath
}

// ValidTypes returns the known directory types in a stable order.
func ValidTypes() []models.DirectoryType {
	types := make([]models.DirectoryType, 0, len(directoryTypes))
	for t := range directoryTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func validTypeList() string {
	names := make([]string, 0, len(directoryTypes))
	for _, t := range ValidTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
