// SPDX-License-Identifier: Apache-2.0

// Package adapter normalizes the two concrete transport flavors behind one
// [SyncClient] interface.
//
// The SSH and HTTPS clients in internal/transport expose different
// construction and call shapes (positional arguments plus an asynchronous
// readiness signal for SSH, a request struct for HTTPS). The adapters here
// translate the orchestrator's transport-agnostic [models.SyncRequest] into
// each flavor's convention; the [Dispatcher] selects the flavor once, at
// construction time, keyed on the configured connection type.
package adapter

import (
	"context"

	"github.com/corelink-tools/symsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/sync_client_mock.go -package=mock

// SyncClient is the orchestrator's view of an open transport connection.
// Implementations own exactly one underlying connection; Close must be
// idempotent-safe even after a failed Synchronize.
type SyncClient interface {
	// Synchronize performs the single sync operation of this invocation
	// and returns the four outcome file lists. It must not be called
	// again after it returns.
	Synchronize(ctx context.Context, req models.SyncRequest) (models.SyncOutcome, error)

	// Close tears down the underlying connection. Safe to call exactly
	// once per client, on every exit path.
	Close() error
}
