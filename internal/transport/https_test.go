// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/models"
)

// fileAPI is an in-memory stand-in for the host's HTTPS file API.
type fileAPI struct {
	mu        sync.Mutex
	files     map[string]remoteEntry // keyed by location/name
	mutations int
}

type remoteEntry struct {
	body     []byte
	modified time.Time
}

func newFileAPI() *fileAPI {
	return &fileAPI{files: map[string]remoteEntry{}}
}

func (a *fileAPI) put(location, name, body string, modified time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[location+"/"+name] = remoteEntry{body: []byte(body), modified: modified}
}

func (a *fileAPI) names(location string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []string
	for key := range a.files {
		if strings.HasPrefix(key, location+"/") {
			out = append(out, strings.TrimPrefix(key, location+"/"))
		}
	}
	return out
}

func (a *fileAPI) mutationCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mutations
}

func (a *fileAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest, ok := strings.CutPrefix(r.URL.Path, "/v1/files/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	location, name, hasName := strings.Cut(rest, "/")
	if !hasName {
		a.serveListing(w, r, location)
		return
	}
	key := location + "/" + name

	switch r.Method {
	case http.MethodGet:
		entry, found := a.files[key]
		if !found {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(entry.body)
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a.files[key] = remoteEntry{body: body, modified: time.Now()}
		a.mutations++
	case http.MethodDelete:
		if _, found := a.files[key]; !found {
			http.NotFound(w, r)
			return
		}
		delete(a.files, key)
		a.mutations++
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *fileAPI) serveListing(w http.ResponseWriter, r *http.Request, location string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var listing []remoteFileInfo
	for key, entry := range a.files {
		if strings.HasPrefix(key, location+"/") {
			listing = append(listing, remoteFileInfo{
				Name:     strings.TrimPrefix(key, location+"/"),
				Size:     int64(len(entry.body)),
				Modified: entry.modified,
			})
		}
	}
	if listing == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listing)
}

func newAPIClient(t *testing.T, api *fileAPI) (*HTTPSClient, func()) {
	t.Helper()
	srv := httptest.NewServer(api)
	cli := NewHTTPSClient(HTTPSConfig{BaseURL: srv.URL}, logger.Nop())
	return cli, srv.Close
}

func writeLocalFile(t *testing.T, dir, name, body string, modified time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.Chtimes(path, modified, modified))
}

func testCreds() models.PlatformCredentials {
	return models.PlatformCredentials{SymNumber: "000", UserNumber: "101", UserPassword: "pw"}
}

func TestHTTPSSynchronize_PushUploadsNewAndChanged(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	local := t.TempDir()
	writeLocalFile(t, local, "WELCOME.LTR", "Dear member", now)
	writeLocalFile(t, local, "RENEWAL.LTR", "updated body", now)
	writeLocalFile(t, local, "STATIC.LTR", "same", now.Add(-time.Hour))

	api := newFileAPI()
	api.put("LetterFiles", "RENEWAL.LTR", "old body", now.Add(-time.Hour))
	api.put("LetterFiles", "STATIC.LTR", "same", now.Add(-time.Hour))

	cli, stop := newAPIClient(t, api)
	defer stop()

	outcome, err := cli.SynchronizeFiles(context.Background(), HTTPSSyncRequest{
		Credentials:    testCreds(),
		LocalPath:      local,
		RemoteLocation: "LetterFiles",
		Mode:           models.ModePush,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"RENEWAL.LTR", "WELCOME.LTR"}, outcome.Deployed)
	assert.Empty(t, outcome.Deleted)
	assert.ElementsMatch(t, []string{"WELCOME.LTR", "RENEWAL.LTR", "STATIC.LTR"}, api.names("LetterFiles"))
}

func TestHTTPSSynchronize_DryRunMutatesNothing(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	local := t.TempDir()
	writeLocalFile(t, local, "NEW.DAT", "fresh", now)

	api := newFileAPI()
	api.put("DataFiles", "STALE.DAT", "stale", now.Add(-time.Hour))

	cli, stop := newAPIClient(t, api)
	defer stop()

	outcome, err := cli.SynchronizeFiles(context.Background(), HTTPSSyncRequest{
		Credentials:    testCreds(),
		LocalPath:      local,
		RemoteLocation: "DataFiles",
		Mode:           models.ModeMirror,
		DryRun:         true,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"NEW.DAT"}, outcome.Deployed)
	assert.Equal(t, []string{"STALE.DAT"}, outcome.Deleted)
	assert.Equal(t, 0, api.mutationCount(), "dry run must not touch the remote side")
	assert.ElementsMatch(t, []string{"STALE.DAT"}, api.names("DataFiles"))
}

func TestHTTPSSynchronize_MirrorDeletesRemoteOnly(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	local := t.TempDir()
	writeLocalFile(t, local, "KEEP.HLP", "keep", now.Add(-time.Hour))

	api := newFileAPI()
	api.put("HelpFiles", "KEEP.HLP", "keep", now.Add(-time.Hour))
	api.put("HelpFiles", "ORPHAN.HLP", "orphan", now.Add(-time.Hour))

	cli, stop := newAPIClient(t, api)
	defer stop()

	outcome, err := cli.SynchronizeFiles(context.Background(), HTTPSSyncRequest{
		Credentials:    testCreds(),
		LocalPath:      local,
		RemoteLocation: "HelpFiles",
		Mode:           models.ModeMirror,
	})

	require.NoError(t, err)
	assert.Empty(t, outcome.Deployed)
	assert.Equal(t, []string{"ORPHAN.HLP"}, outcome.Deleted)
	assert.ElementsMatch(t, []string{"KEEP.HLP"}, api.names("HelpFiles"))
}

func TestHTTPSSynchronize_PullDownloads(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	local := t.TempDir()

	api := newFileAPI()
	api.put("LetterFiles", "WELCOME.LTR", "Dear member", now)

	cli, stop := newAPIClient(t, api)
	defer stop()

	outcome, err := cli.SynchronizeFiles(context.Background(), HTTPSSyncRequest{
		Credentials:    testCreds(),
		LocalPath:      local,
		RemoteLocation: "LetterFiles",
		Mode:           models.ModePull,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"WELCOME.LTR"}, outcome.Deployed)

	body, err := os.ReadFile(filepath.Join(local, "WELCOME.LTR"))
	require.NoError(t, err)
	assert.Equal(t, "Dear member", string(body))
}

func TestHTTPSSynchronize_MissingRemoteLocationTreatedAsEmpty(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	local := t.TempDir()
	writeLocalFile(t, local, "FIRST.LTR", "first deploy", now)

	cli, stop := newAPIClient(t, newFileAPI())
	defer stop()

	outcome, err := cli.SynchronizeFiles(context.Background(), HTTPSSyncRequest{
		Credentials:    testCreds(),
		LocalPath:      local,
		RemoteLocation: "LetterFiles",
		Mode:           models.ModePush,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"FIRST.LTR"}, outcome.Deployed)
}

func TestHTTPSSynchronize_ServerErrorSurfaces(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	local := t.TempDir()
	writeLocalFile(t, local, "ANY.LTR", "body", now)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "core offline", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cli := NewHTTPSClient(HTTPSConfig{BaseURL: srv.URL}, logger.Nop())
	_, err := cli.SynchronizeFiles(context.Background(), HTTPSSyncRequest{
		Credentials:    testCreds(),
		LocalPath:      local,
		RemoteLocation: "LetterFiles",
		Mode:           models.ModePush,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")
	assert.Contains(t, err.Error(), "core offline")
}

func TestHTTPSEnd_NoTunnelOpened(t *testing.T) {
	cli := NewHTTPSClient(HTTPSConfig{BaseURL: "https://unused.invalid"}, logger.Nop())

	require.NoError(t, cli.End())
	require.NoError(t, cli.End())
}
