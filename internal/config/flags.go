// SPDX-License-Identifier: Apache-2.0

package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/corelink-tools/symsync/models"
)

// ParseFlags parses all configuration flags from os.Args.
//
// Flags:
//
//	-host remote host name or address
//	-connection-type transport flavor (ssh or https)
//	-sym-app-port application port for the https transport
//	-ssh-port ssh port (default 22)
//	-ssh-username ssh login user
//	-ssh-password ssh login password
//	-sym-number Symitar account number
//	-user-number platform user number
//	-user-password platform user password
//	-api-key symsync license key
//	-directory-type directory type to synchronize
//	-sync-mode sync mode (push, pull, mirror)
//	-dry-run compute file lists without mutating either side
//	-debug enable debug logging
//	-local-dir local directory override
//	-install comma-separated PowerOn install list
//	-validate-ignore comma-separated ignore patterns
//	-license-timeout per-attempt license validation timeout
//	-c/-config json file path with configs
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(os.Args[1:])
}

func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("symsync", flag.ContinueOnError)

	var host, connectionType string
	var appPort, sshPort int
	var sshUsername, sshPassword string
	var symNumber, userNumber, userPassword, apiKey string
	var directoryType, syncMode string
	var dryRun, debug bool
	var localDir, installList, validateIgnore string
	var licenseTimeout time.Duration
	var jsonConfigPath string

	fs.StringVar(&host, "host", "", "Remote host name or address")
	fs.StringVar(&connectionType, "connection-type", "", "Transport flavor: ssh or https")
	fs.IntVar(&appPort, "sym-app-port", 0, "Application port for the https transport")
	fs.IntVar(&sshPort, "ssh-port", 0, "SSH port")
	fs.StringVar(&sshUsername, "ssh-username", "", "SSH login user")
	fs.StringVar(&sshPassword, "ssh-password", "", "SSH login password")
	fs.StringVar(&symNumber, "sym-number", "", "Symitar account number")
	fs.StringVar(&userNumber, "user-number", "", "Platform user number")
	fs.StringVar(&userPassword, "user-password", "", "Platform user password")
	fs.StringVar(&apiKey, "api-key", "", "symsync license key")
	fs.StringVar(&directoryType, "directory-type", "", "Directory type to synchronize")
	fs.StringVar(&syncMode, "sync-mode", "", "Sync mode: push, pull, or mirror")
	fs.BoolVar(&dryRun, "dry-run", false, "Compute file lists without mutating either side")
	fs.BoolVar(&debug, "debug", false, "Enable debug logging")
	fs.StringVar(&localDir, "local-dir", "", "Local directory override")
	fs.StringVar(&installList, "install", "", "Comma-separated PowerOn install list")
	fs.StringVar(&validateIgnore, "validate-ignore", "", "Comma-separated ignore patterns")
	fs.DurationVar(&licenseTimeout, "license-timeout", 0, "Per-attempt license validation timeout (e.g. 10s)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		Connection: Connection{
			Host:        host,
			Type:        models.ConnectionType(connectionType),
			AppPort:     appPort,
			SSHPort:     sshPort,
			SSHUsername: sshUsername,
			SSHPassword: sshPassword,
		},
		Platform: Platform{
			SymNumber:    symNumber,
			UserNumber:   userNumber,
			UserPassword: userPassword,
			APIKey:       apiKey,
		},
		Sync: Sync{
			DirectoryType:  models.DirectoryType(directoryType),
			Mode:           models.SyncMode(syncMode),
			DryRun:         dryRun,
			Debug:          debug,
			LocalDir:       localDir,
			InstallList:    splitList(installList),
			ValidateIgnore: splitList(validateIgnore),
		},
		License: License{
			Timeout: licenseTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// splitList splits a comma-separated flag value into trimmed entries,
// dropping empties so a trailing comma does not produce a phantom file name.
func splitList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
