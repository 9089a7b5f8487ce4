// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"

	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/internal/transport"
	"github.com/corelink-tools/symsync/models"
)

// sshSyncClient adapts the SSH transport's positional calling convention to
// the normalized SyncClient shape.
type sshSyncClient struct {
	client *transport.SSHClient
}

// newSSHSyncClient starts the SSH dial and blocks until the client signals
// readiness or ctx is cancelled.
func newSSHSyncClient(ctx context.Context, cfg transport.SSHConfig, log *logger.Logger) (*sshSyncClient, error) {
	client := transport.NewSSHClient(cfg, log)

	select {
	case err := <-client.Ready():
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		_ = client.End()
		return nil, ctx.Err()
	}

	return &sshSyncClient{client: client}, nil
}

func (a *sshSyncClient) Synchronize(ctx context.Context, req models.SyncRequest) (models.SyncOutcome, error) {
	return a.client.SynchronizeFiles(
		ctx,
		req.Credentials,
		req.LocalPath,
		req.RemoteLocation,
		req.Mode,
		req.InstallList,
		req.DryRun,
		req.ValidateIgnore,
	)
}

func (a *sshSyncClient) Close() error {
	return a.client.End()
}
