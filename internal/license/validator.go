// SPDX-License-Identifier: Apache-2.0

// Package license validates the symsync license/API key against the remote
// licensing authority before any transport connection is attempted.
//
// Validation is a pure function of the key: a GET request carrying the key in
// a header, classified into terminal authentication failures (bad key, no
// entitlement, malformed response) and retryable transport failures. Only the
// latter are retried, with exponential backoff, up to a fixed bound.
package license

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"github.com/corelink-tools/symsync/internal/errs"
	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/models"
)

const (
	// maxAttempts bounds the validation loop; authentication failures
	// short-circuit it regardless of the attempt count.
	maxAttempts = 3
	// baseDelay is the backoff before the second attempt; it doubles per
	// attempt up to delayCap.
	baseDelay = 500 * time.Millisecond
	delayCap  = 10 * time.Second

	defaultTimeout = 10 * time.Second

	licensePort = 443
	licensePath = "/v1/license"
	keyHeader   = "X-Api-Key"
)

// Config carries the process-wide licensing settings, injected explicitly so
// tests can substitute values without touching shared process state.
type Config struct {
	// StagePrefix is prepended to the licensing host (e.g. "dev-").
	StagePrefix string
	// Sandbox routes validation to the sandbox licensing endpoint.
	Sandbox bool
	// Timeout bounds each individual attempt. Defaults to 10s.
	Timeout time.Duration
	// BaseURL overrides the derived endpoint. Intended for tests.
	BaseURL string
}

// Validator checks license keys against the licensing endpoint.
type Validator struct {
	client  *resty.Client
	host    string
	timeout time.Duration
	log     *logger.Logger
}

// Host derives the licensing endpoint host from the stage prefix and the
// sandbox/production toggle.
func Host(stagePrefix string, sandbox bool) string {
	base := "license.symsynchq.com"
	if sandbox {
		base = "license.sandbox.symsynchq.com"
	}
	return stagePrefix + base
}

// New constructs a Validator for the given licensing settings.
func New(cfg Config, log *logger.Logger) *Validator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	host := Host(cfg.StagePrefix, cfg.Sandbox)
	baseURL := "https://" + host
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
		if u, err := url.Parse(baseURL); err == nil && u.Hostname() != "" {
			host = u.Hostname()
		}
	}

	return &Validator{
		client:  resty.New().SetBaseURL(baseURL),
		host:    host,
		timeout: cfg.Timeout,
		log:     log,
	}
}

// Validate checks the given license key against the licensing endpoint.
//
// An empty or whitespace-only key fails immediately with an authentication
// error and no network call. Authentication failures are terminal on the
// attempt that classifies them; transport failures are retried up to
// maxAttempts with exponential backoff (500ms, 1s, capped at 10s). When all
// attempts fail, the returned connection error wraps the last underlying
// failure together with the endpoint host and port.
func (v *Validator) Validate(ctx context.Context, apiKey string) error {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return errs.NewAuthentication("license key is empty", key, "")
	}

	backoff := retry.WithCappedDuration(delayCap, retry.NewExponential(baseDelay))
	backoff = retry.WithMaxRetries(maxAttempts-1, backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		aerr := v.attempt(ctx, key)
		if aerr == nil {
			return nil
		}
		if errs.IsKind(aerr, errs.KindAuthentication) {
			return aerr
		}

		v.log.Debug().Int("attempt", attempt).Err(aerr).Msg("license validation attempt failed")
		return retry.RetryableError(aerr)
	})
	if err == nil {
		return nil
	}

	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.NewConnection(v.host, licensePort, true, err)
}

// attempt performs one bounded GET against the licensing endpoint and
// classifies the response. The per-attempt timeout is always cancelled on
// return so no timer leaks across attempts.
func (v *Validator) attempt(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	resp, err := v.client.R().
		SetContext(ctx).
		SetHeader(keyHeader, key).
		Get(licensePath)
	if err != nil {
		return fmt.Errorf("license request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return errs.NewAuthentication(
			fmt.Sprintf("licensing endpoint returned status %d", resp.StatusCode()), key, v.host)
	}

	var body models.LicenseResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return errs.NewAuthentication("malformed licensing response", key, v.host)
	}
	if body.IsFound == nil || body.Subscriptions == nil {
		return errs.NewAuthentication("malformed licensing response", key, v.host)
	}
	if !*body.IsFound {
		return errs.NewAuthentication("license key is not recognized", key, v.host)
	}
	if len(*body.Subscriptions) == 0 {
		return errs.NewAuthentication("license has no active subscriptions", key, v.host)
	}

	return nil
}
