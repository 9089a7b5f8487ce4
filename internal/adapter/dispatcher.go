// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"fmt"

	"github.com/corelink-tools/symsync/internal/config"
	"github.com/corelink-tools/symsync/internal/errs"
	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/internal/transport"
	"github.com/corelink-tools/symsync/models"
)

// Dispatcher maps the configured connection type onto a concrete, ready
// transport client. Flavor selection happens exactly once per invocation.
type Dispatcher struct {
	log *logger.Logger
}

func NewDispatcher(log *logger.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Dial validates the transport-relevant configuration and returns an open
// SyncClient for the configured flavor. For the SSH flavor the client is
// ready to use on return; for HTTPS no connection exists until the first
// request. Configuration errors are raised before any client is constructed.
func (d *Dispatcher) Dial(ctx context.Context, cfg *config.SyncConfig) (SyncClient, error) {
	sshCfg := transport.SSHConfig{
		Host:     cfg.Connection.Host,
		Port:     cfg.Connection.SSHPort,
		Username: cfg.Connection.SSHUsername,
		Password: cfg.Connection.SSHPassword,
	}

	switch cfg.Connection.Type {
	case models.ConnectionSSH:
		client, err := newSSHSyncClient(ctx, sshCfg, d.log)
		if err != nil {
			return nil, errs.NewSync(err)
		}
		return client, nil

	case models.ConnectionHTTPS:
		if cfg.Connection.AppPort <= 0 {
			return nil, errs.NewConfiguration("connection type https requires a sym application port")
		}
		httpsCfg := transport.HTTPSConfig{
			BaseURL: fmt.Sprintf("https://%s:%d", cfg.Connection.Host, cfg.Connection.AppPort),
			SSH:     sshCfg,
		}
		return newHTTPSSyncClient(httpsCfg, d.log), nil

	default:
		return nil, errs.NewConfiguration("unknown connection type %q, valid types: %s, %s",
			cfg.Connection.Type, models.ConnectionSSH, models.ConnectionHTTPS)
	}
}
