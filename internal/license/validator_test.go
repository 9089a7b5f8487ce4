// SPDX-License-Identifier: Apache-2.0

package license

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corelink-tools/symsync/internal/errs"
	"github.com/corelink-tools/symsync/internal/logger"
)

func newTestValidator(t *testing.T, serverURL string, timeout time.Duration) *Validator {
	t.Helper()
	return New(Config{BaseURL: serverURL, Timeout: timeout}, logger.Nop())
}

func validBody() string {
	return `{"isFound": true, "subscriptions": [{"id": "sub-1", "status": "active"}]}`
}

// ── key preconditions ───────────────────────────────────────────────────────

func TestValidate_EmptyKey_NoNetworkCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	v := newTestValidator(t, srv.URL, time.Second)

	for _, key := range []string{"", "   ", "\t\n"} {
		err := v.Validate(context.Background(), key)

		require.Error(t, err, "key %q", key)
		assert.True(t, errs.IsKind(err, errs.KindAuthentication))
	}
	assert.Equal(t, int32(0), calls.Load())
}

// ── terminal classification ─────────────────────────────────────────────────

func TestValidate_Unauthorized_SingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	v := newTestValidator(t, srv.URL, time.Second)
	err := v.Validate(context.Background(), "some-key")

	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindAuthentication))
	assert.Equal(t, int32(1), calls.Load())
}

func TestValidate_MalformedBody_SingleAttempt(t *testing.T) {
	cases := map[string]string{
		"not json":            `deploy ok`,
		"wrong isFound type":  `{"isFound": "yes", "subscriptions": []}`,
		"missing isFound":     `{"subscriptions": [{"id": "s", "status": "active"}]}`,
		"missing subs":        `{"isFound": true}`,
		"wrong subs type":     `{"isFound": true, "subscriptions": 7}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			v := newTestValidator(t, srv.URL, time.Second)
			err := v.Validate(context.Background(), "some-key")

			require.Error(t, err)
			assert.True(t, errs.IsKind(err, errs.KindAuthentication))
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestValidate_KeyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isFound": false, "subscriptions": []}`))
	}))
	defer srv.Close()

	v := newTestValidator(t, srv.URL, time.Second)
	err := v.Validate(context.Background(), "unknown-key")

	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindAuthentication))
}

func TestValidate_NoActiveSubscriptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isFound": true, "subscriptions": []}`))
	}))
	defer srv.Close()

	v := newTestValidator(t, srv.URL, time.Second)
	err := v.Validate(context.Background(), "expired-key")

	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindAuthentication))
}

// ── retry behaviour ─────────────────────────────────────────────────────────

func TestValidate_TransportFailures_ExhaustRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(300 * time.Millisecond) // outlive the per-attempt timeout
	}))
	defer srv.Close()

	v := newTestValidator(t, srv.URL, 50*time.Millisecond)
	err := v.Validate(context.Background(), "some-key")

	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindConnection), "got kind %s", errs.KindOf(err))
	assert.Equal(t, int32(maxAttempts), calls.Load())

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 443, e.Port)
	assert.True(t, e.Secure)
	assert.NotEmpty(t, e.Host)
	assert.Error(t, e.Unwrap())
}

func TestValidate_RecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(300 * time.Millisecond)
			return
		}
		assert.Equal(t, "good-key", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(validBody()))
	}))
	defer srv.Close()

	v := newTestValidator(t, srv.URL, 50*time.Millisecond)
	err := v.Validate(context.Background(), "good-key")

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestValidate_AuthFailureShortCircuitsMidLoop(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(300 * time.Millisecond)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	v := newTestValidator(t, srv.URL, 50*time.Millisecond)
	err := v.Validate(context.Background(), "some-key")

	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindAuthentication))
	assert.Equal(t, int32(2), calls.Load())
}

func TestValidate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, licensePath, r.URL.Path)
		assert.Equal(t, "good-key", r.Header.Get(keyHeader))
		_, _ = w.Write([]byte(validBody()))
	}))
	defer srv.Close()

	v := newTestValidator(t, srv.URL, time.Second)

	require.NoError(t, v.Validate(context.Background(), "good-key"))
}

// ── endpoint derivation ─────────────────────────────────────────────────────

func TestHost(t *testing.T) {
	assert.Equal(t, "license.symsynchq.com", Host("", false))
	assert.Equal(t, "license.sandbox.symsynchq.com", Host("", true))
	assert.Equal(t, "dev-license.symsynchq.com", Host("dev-", false))
	assert.Equal(t, "dev-license.sandbox.symsynchq.com", Host("dev-", true))
}
