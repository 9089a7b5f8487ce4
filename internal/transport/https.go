// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/models"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPSConfig carries the parameters for the HTTPS file-API client. The SSH
// settings are required because PowerOn install and uninstall commands are
// not exposed over the file API and tunnel over SSH instead.
type HTTPSConfig struct {
	// BaseURL is the API root, e.g. "https://host:port".
	BaseURL string
	// Timeout bounds each individual API request. Defaults to 30s.
	Timeout time.Duration
	// SSH is the tunnel used for install operations.
	SSH SSHConfig
}

// HTTPSSyncRequest bundles the inputs of one synchronize call. Unlike the SSH
// flavor's positional signature, the HTTPS flavor takes a single request
// value.
type HTTPSSyncRequest struct {
	Credentials    models.PlatformCredentials
	LocalPath      string
	RemoteLocation string
	Mode           models.SyncMode
	InstallList    []string
	DryRun         bool
	ValidateIgnore []string
}

// remoteFileInfo is one entry of the file API's directory listing.
type remoteFileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// HTTPSClient synchronizes files through the host's HTTPS file API,
// tunnelling PowerOn install commands over SSH.
type HTTPSClient struct {
	client *resty.Client
	sshCfg SSHConfig
	log    *logger.Logger

	tunnelMu sync.Mutex
	tunnel   *SSHClient
}

// NewHTTPSClient constructs a client rooted at cfg.BaseURL. No connection is
// made until the first call.
func NewHTTPSClient(cfg HTTPSConfig, log *logger.Logger) *HTTPSClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &HTTPSClient{client: cli, sshCfg: cfg.SSH, log: log}
}

// SynchronizeFiles compares the local directory with the remote location and
// applies the requested sync mode through the file API. With DryRun set it
// returns the same file lists a real run would produce without mutating
// either side.
func (c *HTTPSClient) SynchronizeFiles(ctx context.Context, req HTTPSSyncRequest) (models.SyncOutcome, error) {
	local, err := localFiles(req.LocalPath)
	if err != nil {
		return models.SyncOutcome{}, err
	}
	remote, err := c.listRemote(ctx, req)
	if err != nil {
		return models.SyncOutcome{}, err
	}

	plan, err := buildPlan(req.Mode, local, remote, req.ValidateIgnore)
	if err != nil {
		return models.SyncOutcome{}, err
	}

	src := local
	if req.Mode == models.ModePull {
		src = remote
	}
	outcome := assembleOutcome(plan, req.RemoteLocation, req.InstallList, src)

	if req.DryRun {
		return outcome, nil
	}

	if err := c.execute(ctx, req, plan, outcome); err != nil {
		return models.SyncOutcome{}, err
	}

	return outcome, nil
}

func (c *HTTPSClient) execute(ctx context.Context, req HTTPSSyncRequest, plan syncPlan, outcome models.SyncOutcome) error {
	switch req.Mode {
	case models.ModePush, models.ModeMirror:
		for _, name := range plan.Transfer {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.uploadFile(ctx, req, name); err != nil {
				return err
			}
		}
	case models.ModePull:
		for _, name := range plan.Transfer {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.downloadFile(ctx, req, name); err != nil {
				return err
			}
		}
	}

	for _, name := range outcome.Uninstalled {
		if err := c.runTunnelled(ctx, req.Credentials, "uninstall", req.RemoteLocation, name); err != nil {
			return err
		}
	}
	for _, name := range plan.Delete {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.deleteFile(ctx, req, name); err != nil {
			return err
		}
	}
	for _, name := range outcome.Installed {
		if err := c.runTunnelled(ctx, req.Credentials, "install", req.RemoteLocation, name); err != nil {
			return err
		}
	}

	return nil
}

func (c *HTTPSClient) listRemote(ctx context.Context, req HTTPSSyncRequest) (fileSet, error) {
	var listing []remoteFileInfo
	resp, err := c.authedRequest(ctx, req.Credentials).
		SetResult(&listing).
		Get("/v1/files/" + req.RemoteLocation)
	if err != nil {
		return nil, fmt.Errorf("list remote files: %w", err)
	}
	// A location that was never deployed to does not exist yet.
	if resp.StatusCode() == http.StatusNotFound {
		return fileSet{}, nil
	}
	if err = statusErr(resp); err != nil {
		return nil, fmt.Errorf("list remote files: %w", err)
	}

	set := make(fileSet, len(listing))
	for _, f := range listing {
		set[f.Name] = fileMeta{Size: f.Size, ModTime: f.Modified}
	}
	return set, nil
}

func (c *HTTPSClient) uploadFile(ctx context.Context, req HTTPSSyncRequest, name string) error {
	body, err := os.ReadFile(filepath.Join(req.LocalPath, name))
	if err != nil {
		return fmt.Errorf("read local file %s: %w", name, err)
	}

	resp, err := c.authedRequest(ctx, req.Credentials).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(body).
		Put("/v1/files/" + req.RemoteLocation + "/" + name)
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	if err = statusErr(resp); err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	return nil
}

func (c *HTTPSClient) downloadFile(ctx context.Context, req HTTPSSyncRequest, name string) error {
	resp, err := c.authedRequest(ctx, req.Credentials).
		Get("/v1/files/" + req.RemoteLocation + "/" + name)
	if err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}
	if err = statusErr(resp); err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}

	if err = os.MkdirAll(req.LocalPath, 0o755); err != nil {
		return fmt.Errorf("create local dir: %w", err)
	}
	if err = os.WriteFile(filepath.Join(req.LocalPath, name), resp.Body(), 0o644); err != nil {
		return fmt.Errorf("write local file %s: %w", name, err)
	}
	return nil
}

func (c *HTTPSClient) deleteFile(ctx context.Context, req HTTPSSyncRequest, name string) error {
	resp, err := c.authedRequest(ctx, req.Credentials).
		Delete("/v1/files/" + req.RemoteLocation + "/" + name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if err = statusErr(resp); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// runTunnelled executes a PowerOn install command over the SSH tunnel,
// dialling it on first use.
func (c *HTTPSClient) runTunnelled(ctx context.Context, creds models.PlatformCredentials, verb, remoteLocation, name string) error {
	tunnel, err := c.ensureTunnel(ctx)
	if err != nil {
		return err
	}
	return tunnel.runInstallCommand(creds, verb, remoteRoot+"/"+remoteLocation, name)
}

func (c *HTTPSClient) ensureTunnel(ctx context.Context) (*SSHClient, error) {
	c.tunnelMu.Lock()
	defer c.tunnelMu.Unlock()

	if c.tunnel != nil {
		return c.tunnel, nil
	}

	tunnel := NewSSHClient(c.sshCfg, c.log)
	select {
	case err := <-tunnel.Ready():
		if err != nil {
			return nil, fmt.Errorf("install tunnel: %w", err)
		}
	case <-ctx.Done():
		_ = tunnel.End()
		return nil, ctx.Err()
	}

	c.tunnel = tunnel
	return tunnel, nil
}

// End tears down the install tunnel if one was opened. The HTTP side holds no
// persistent connection. Safe to call more than once.
func (c *HTTPSClient) End() error {
	c.tunnelMu.Lock()
	defer c.tunnelMu.Unlock()

	if c.tunnel == nil {
		return nil
	}
	return c.tunnel.End()
}

func (c *HTTPSClient) authedRequest(ctx context.Context, creds models.PlatformCredentials) *resty.Request {
	return c.client.R().
		SetContext(ctx).
		SetHeader("X-Sym-Number", creds.SymNumber).
		SetHeader("X-User-Number", creds.UserNumber).
		SetHeader("X-User-Password", creds.UserPassword)
}

func statusErr(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
