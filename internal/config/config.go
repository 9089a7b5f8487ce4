// SPDX-License-Identifier: Apache-2.0

// Package config assembles the symsync configuration from environment
// variables, command-line flags, and an optional JSON file.
//
// The environment layer follows the GitHub Actions convention of INPUT_*
// variables so the binary can run unchanged as a composite action step;
// licensing settings use the SYMSYNC_LICENSE_* prefix because they are
// process-wide, not per-call inputs. Sources are merged in priority order
// (environment first, last non-zero value wins via mergo) and validated once
// at the end.
package config

import (
	"time"

	"github.com/corelink-tools/symsync/models"
)

// StructuredConfig is the top-level configuration container for symsync. It
// aggregates all sub-configurations and is populated by merging values from
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Connection holds everything needed to reach the remote host.
	Connection Connection `envPrefix:"INPUT_"`

	// Platform holds the Symitar account credentials and the license key.
	Platform Platform `envPrefix:"INPUT_"`

	// Sync holds the intent of this invocation: what to synchronize and how.
	Sync Sync `envPrefix:"INPUT_"`

	// License holds process-wide licensing endpoint settings.
	License License `envPrefix:"SYMSYNC_LICENSE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the SYMSYNC_CONFIG environment variable or the
	// -c / -config flag.
	JSONFilePath string `env:"SYMSYNC_CONFIG"`
}

// Connection identifies the remote host and the transport used to reach it.
type Connection struct {
	// Host is the remote core-banking host name or address.
	// Env: INPUT_HOST
	Host string `env:"HOST"`

	// Type selects the transport flavor: "ssh" or "https".
	// Env: INPUT_CONNECTION_TYPE
	Type models.ConnectionType `env:"CONNECTION_TYPE"`

	// AppPort is the application port the HTTPS transport connects to.
	// Required when Type is https; ignored for ssh.
	// Env: INPUT_SYM_APP_PORT
	AppPort int `env:"SYM_APP_PORT"`

	// SSHPort is the SSH port on the remote host. Defaults to 22.
	// Env: INPUT_SSH_PORT
	SSHPort int `env:"SSH_PORT"`

	// SSHUsername is the SSH login user.
	// Env: INPUT_SSH_USERNAME
	SSHUsername string `env:"SSH_USERNAME"`

	// SSHPassword is the SSH login password. Must never be logged unmasked.
	// Env: INPUT_SSH_PASSWORD
	SSHPassword string `env:"SSH_PASSWORD"`
}

// Platform holds the Symitar account credentials passed through to the
// transport, plus the symsync license key.
type Platform struct {
	// SymNumber is the Symitar account (sym) number.
	// Env: INPUT_SYM_NUMBER
	SymNumber string `env:"SYM_NUMBER"`

	// UserNumber is the platform user number used for install commands.
	// Env: INPUT_USER_NUMBER
	UserNumber string `env:"USER_NUMBER"`

	// UserPassword is the platform user password. Must never be logged
	// unmasked.
	// Env: INPUT_USER_PASSWORD
	UserPassword string `env:"USER_PASSWORD"`

	// APIKey is the symsync license key validated before any transport
	// connection is attempted.
	// Env: INPUT_API_KEY
	APIKey string `env:"API_KEY"`
}

// Sync describes what this invocation synchronizes and how.
type Sync struct {
	// DirectoryType selects which artifact directory to synchronize:
	// powerOns, letterFiles, dataFiles, or helpFiles.
	// Env: INPUT_DIRECTORY_TYPE
	DirectoryType models.DirectoryType `env:"DIRECTORY_TYPE"`

	// Mode is the sync direction: push, pull, or mirror. Defaults to push.
	// Env: INPUT_SYNC_MODE
	Mode models.SyncMode `env:"SYNC_MODE"`

	// DryRun computes and reports the same file lists as a real run without
	// mutating either side.
	// Env: INPUT_DRY_RUN
	DryRun bool `env:"DRY_RUN"`

	// Debug enables debug-level logging.
	// Env: INPUT_DEBUG
	Debug bool `env:"DEBUG"`

	// LocalDir overrides the directory type's default local path.
	// Env: INPUT_LOCAL_DIR
	LocalDir string `env:"LOCAL_DIR"`

	// InstallList names the PowerOn files to install after deployment.
	// Ignored for directory types without install support.
	// Env: INPUT_INSTALL_LIST (comma-separated)
	InstallList []string `env:"INSTALL_LIST" envSeparator:","`

	// ValidateIgnore lists file name patterns excluded from comparison.
	// Env: INPUT_VALIDATE_IGNORE (comma-separated)
	ValidateIgnore []string `env:"VALIDATE_IGNORE" envSeparator:","`
}

// License holds the process-wide licensing endpoint settings. They are
// injected into the validator at construction so tests can substitute values
// without touching shared process state.
type License struct {
	// StagePrefix is prepended to the licensing host name (e.g. "dev-").
	// Env: SYMSYNC_LICENSE_STAGE
	StagePrefix string `env:"STAGE"`

	// Sandbox routes validation to the sandbox licensing endpoint.
	// Env: SYMSYNC_LICENSE_SANDBOX
	Sandbox bool `env:"SANDBOX"`

	// Timeout bounds each individual validation attempt. Defaults to 10s.
	// Env: SYMSYNC_LICENSE_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// SyncConfig is the validated runtime view handed to the orchestrator. It is
// constructed once per invocation and immutable thereafter.
type SyncConfig struct {
	Connection Connection
	Platform   Platform
	Sync       Sync
	License    License
}

// GetSyncConfig loads, merges, defaults, and validates the symsync
// configuration from all available sources in priority order (last source
// wins for fields the earlier sources left empty):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *SyncConfig or a configuration error.
func GetSyncConfig() (*SyncConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	syncCfg := &SyncConfig{
		Connection: cfg.Connection,
		Platform:   cfg.Platform,
		Sync:       cfg.Sync,
		License:    cfg.License,
	}
	syncCfg.applyDefaults()

	return syncCfg, syncCfg.validate()
}

func (cfg *SyncConfig) applyDefaults() {
	if cfg.Connection.Type == "" {
		cfg.Connection.Type = models.ConnectionSSH
	}
	if cfg.Connection.SSHPort == 0 {
		cfg.Connection.SSHPort = 22
	}
	if cfg.Sync.Mode == "" {
		cfg.Sync.Mode = models.ModePush
	}
	if cfg.License.Timeout == 0 {
		cfg.License.Timeout = 10 * time.Second
	}
}
