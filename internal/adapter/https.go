// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"

	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/internal/transport"
	"github.com/corelink-tools/symsync/models"
)

// httpsSyncClient adapts the HTTPS transport's request-struct calling
// convention to the normalized SyncClient shape.
type httpsSyncClient struct {
	client *transport.HTTPSClient
}

func newHTTPSSyncClient(cfg transport.HTTPSConfig, log *logger.Logger) *httpsSyncClient {
	return &httpsSyncClient{client: transport.NewHTTPSClient(cfg, log)}
}

func (a *httpsSyncClient) Synchronize(ctx context.Context, req models.SyncRequest) (models.SyncOutcome, error) {
	return a.client.SynchronizeFiles(ctx, transport.HTTPSSyncRequest{
		Credentials:    req.Credentials,
		LocalPath:      req.LocalPath,
		RemoteLocation: req.RemoteLocation,
		Mode:           req.Mode,
		InstallList:    req.InstallList,
		DryRun:         req.DryRun,
		ValidateIgnore: req.ValidateIgnore,
	})
}

func (a *httpsSyncClient) Close() error {
	return a.client.End()
}
