// SPDX-License-Identifier: Apache-2.0

// Package service contains the synchronization orchestrator and the result
// aggregator: the one externally callable operation of symsync and the pure
// function that turns its outcome into reportable counts.
package service

import (
	"context"

	"github.com/corelink-tools/symsync/internal/adapter"
	"github.com/corelink-tools/symsync/internal/config"
	"github.com/corelink-tools/symsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mocks.go -package=mock

// LicenseValidator checks the license/API key before any transport use.
type LicenseValidator interface {
	// Validate returns nil for a valid, entitled key. Failures carry an
	// authentication kind (bad key) or connection kind (endpoint
	// unreachable across all retries).
	Validate(ctx context.Context, apiKey string) error
}

// Dialer opens a ready transport client for the configured connection type.
type Dialer interface {
	Dial(ctx context.Context, cfg *config.SyncConfig) (adapter.SyncClient, error)
}

// Orchestrator is the single externally callable operation of symsync.
type Orchestrator interface {
	// Synchronize validates the license, resolves the directory
	// configuration, performs exactly one transport synchronize call with
	// guaranteed teardown, and returns the outcome verbatim.
	Synchronize(ctx context.Context, cfg *config.SyncConfig) (models.SyncOutcome, error)
}
