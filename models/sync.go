// SPDX-License-Identifier: Apache-2.0

// Package models contains the plain data structures shared between the
// configuration, transport, and service layers of symsync. The types here
// carry no behaviour beyond simple validity checks so that every layer can
// depend on them without import cycles.
package models

// DirectoryType identifies which class of Symitar-resident artifacts an
// invocation synchronizes. Exactly one directory type is handled per run.
type DirectoryType string

const (
	DirectoryPowerOns    DirectoryType = "powerOns"
	DirectoryLetterFiles DirectoryType = "letterFiles"
	DirectoryDataFiles   DirectoryType = "dataFiles"
	DirectoryHelpFiles   DirectoryType = "helpFiles"
)

// ConnectionType selects the transport used to reach the remote host.
type ConnectionType string

const (
	ConnectionSSH   ConnectionType = "ssh"
	ConnectionHTTPS ConnectionType = "https"
)

// Valid reports whether t is one of the supported connection types.
func (t ConnectionType) Valid() bool {
	return t == ConnectionSSH || t == ConnectionHTTPS
}

// SyncMode describes the direction and delete semantics of a run.
//
//   - ModePush uploads local-only and changed files without deleting
//     remote-only files.
//   - ModePull downloads remote-only and changed files to the local side.
//   - ModeMirror makes the remote side an exact copy of the local side,
//     deleting remote files that are absent locally.
type SyncMode string

const (
	ModePush   SyncMode = "push"
	ModePull   SyncMode = "pull"
	ModeMirror SyncMode = "mirror"
)

// Valid reports whether m is one of the supported sync modes.
func (m SyncMode) Valid() bool {
	return m == ModePush || m == ModePull || m == ModeMirror
}

// PlatformCredentials are the Symitar account credentials forwarded to the
// transport for operations that execute on the platform itself (for example
// PowerOn installs). symsync never interprets them.
type PlatformCredentials struct {
	// SymNumber is the three-digit Symitar account (sym) number.
	SymNumber string
	// UserNumber is the platform user number used for install commands.
	UserNumber string
	// UserPassword is the platform user password. Must never be logged
	// unmasked.
	UserPassword string
}

// SyncRequest is the transport-agnostic input of one synchronize call. The
// adapter layer translates it into each concrete client's calling convention.
type SyncRequest struct {
	Credentials    PlatformCredentials
	LocalPath      string
	RemoteLocation string
	Mode           SyncMode
	InstallList    []string
	DryRun         bool
	ValidateIgnore []string
}

// SyncOutcome is the normalized result of one synchronize call: four disjoint
// lists of remote-relative file names. Installed and Uninstalled stay empty
// for directory types that do not support install semantics.
type SyncOutcome struct {
	Deployed    []string
	Deleted     []string
	Installed   []string
	Uninstalled []string
}

// SyncSummary holds the per-category counts derived from a SyncOutcome.
// TotalChanges drives the "no changes" / "changes present" reporting branch.
type SyncSummary struct {
	DeployedCount    int
	DeletedCount     int
	InstalledCount   int
	UninstalledCount int
	TotalChanges     int
}
