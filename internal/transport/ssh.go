// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/corelink-tools/symsync/internal/logger"
	"github.com/corelink-tools/symsync/models"
)

// remoteRoot is the directory on the host under which all synchronizable
// locations live.
const remoteRoot = "/SYM"

const defaultDialTimeout = 10 * time.Second

// SSHConfig carries the parameters for one SSH connection.
type SSHConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// Timeout bounds the TCP dial and SSH handshake. Defaults to 10s.
	Timeout time.Duration
}

// SSHClient synchronizes files over an SSH session with SFTP for transfer
// and remote platform commands for PowerOn install/uninstall.
//
// Construction is asynchronous: NewSSHClient returns immediately and dials in
// the background; callers must receive from Ready before issuing any call.
type SSHClient struct {
	cfg SSHConfig
	log *logger.Logger

	ready chan error
	conn  *ssh.Client
	sftp  *sftp.Client

	closeOnce sync.Once
	closeErr  error
}

// NewSSHClient starts dialing the host and returns a client whose readiness
// is signalled on Ready.
func NewSSHClient(cfg SSHConfig, log *logger.Logger) *SSHClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultDialTimeout
	}

	c := &SSHClient{
		cfg:   cfg,
		log:   log,
		ready: make(chan error, 1),
	}
	go c.dial()
	return c
}

func (c *SSHClient) dial() {
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	sshCfg := &ssh.ClientConfig{
		User:            c.cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(c.cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.cfg.Timeout,
	}

	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		c.ready <- fmt.Errorf("ssh dial %s: %w", addr, err)
		return
	}

	sftpClient, err := sftp.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		c.ready <- fmt.Errorf("sftp session on %s: %w", addr, err)
		return
	}

	c.conn = conn
	c.sftp = sftpClient
	c.log.Debug().Str("addr", addr).Msg("ssh connection established")
	c.ready <- nil
}

// Ready delivers exactly one value: nil once the connection and SFTP session
// are usable, or the dial error.
func (c *SSHClient) Ready() <-chan error {
	return c.ready
}

// SynchronizeFiles compares the local directory with the remote location and
// applies the given sync mode. With dryRun set it returns the same file lists
// a real run would produce without mutating either side.
func (c *SSHClient) SynchronizeFiles(
	ctx context.Context,
	creds models.PlatformCredentials,
	localPath, remoteLocation string,
	mode models.SyncMode,
	installList []string,
	dryRun bool,
	validateIgnore []string,
) (models.SyncOutcome, error) {
	if c.sftp == nil {
		return models.SyncOutcome{}, errors.New("ssh client is not ready")
	}

	remoteDir := path.Join(remoteRoot, remoteLocation)

	local, err := localFiles(localPath)
	if err != nil {
		return models.SyncOutcome{}, err
	}
	remote, err := c.remoteFiles(remoteDir)
	if err != nil {
		return models.SyncOutcome{}, err
	}

	plan, err := buildPlan(mode, local, remote, validateIgnore)
	if err != nil {
		return models.SyncOutcome{}, err
	}

	src := local
	if mode == models.ModePull {
		src = remote
	}
	outcome := assembleOutcome(plan, remoteLocation, installList, src)

	if dryRun {
		return outcome, nil
	}

	if err := c.execute(ctx, creds, plan, outcome, localPath, remoteDir, mode); err != nil {
		return models.SyncOutcome{}, err
	}

	return outcome, nil
}

func (c *SSHClient) execute(
	ctx context.Context,
	creds models.PlatformCredentials,
	plan syncPlan,
	outcome models.SyncOutcome,
	localPath, remoteDir string,
	mode models.SyncMode,
) error {
	switch mode {
	case models.ModePush, models.ModeMirror:
		if len(plan.Transfer) > 0 {
			if err := c.sftp.MkdirAll(remoteDir); err != nil {
				return fmt.Errorf("create remote dir %s: %w", remoteDir, err)
			}
		}
		for _, name := range plan.Transfer {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.upload(filepath.Join(localPath, name), path.Join(remoteDir, name)); err != nil {
				return err
			}
		}
	case models.ModePull:
		for _, name := range plan.Transfer {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.download(path.Join(remoteDir, name), filepath.Join(localPath, name)); err != nil {
				return err
			}
		}
	}

	// Installed files must be uninstalled before the platform lets go of
	// the underlying specfile, so uninstalls precede removal.
	for _, name := range outcome.Uninstalled {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.runInstallCommand(creds, "uninstall", remoteDir, name); err != nil {
			return err
		}
	}
	for _, name := range plan.Delete {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.sftp.Remove(path.Join(remoteDir, name)); err != nil {
			return fmt.Errorf("remove remote file %s: %w", name, err)
		}
	}

	for _, name := range outcome.Installed {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.runInstallCommand(creds, "install", remoteDir, name); err != nil {
			return err
		}
	}

	return nil
}

func (c *SSHClient) upload(localFile, remoteFile string) error {
	src, err := os.Open(localFile)
	if err != nil {
		return fmt.Errorf("open local file: %w", err)
	}
	defer src.Close()

	stat, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat local file: %w", err)
	}

	dst, err := c.sftp.Create(remoteFile)
	if err != nil {
		return fmt.Errorf("create remote file %s: %w", remoteFile, err)
	}
	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("upload %s: %w", remoteFile, err)
	}
	if err = dst.Close(); err != nil {
		return fmt.Errorf("close remote file %s: %w", remoteFile, err)
	}

	// Keep remote mtimes aligned with local so later comparisons are stable.
	if err = c.sftp.Chtimes(remoteFile, time.Now(), stat.ModTime()); err != nil {
		return fmt.Errorf("set remote mtime %s: %w", remoteFile, err)
	}
	return nil
}

func (c *SSHClient) download(remoteFile, localFile string) error {
	src, err := c.sftp.Open(remoteFile)
	if err != nil {
		return fmt.Errorf("open remote file %s: %w", remoteFile, err)
	}
	defer src.Close()

	stat, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat remote file %s: %w", remoteFile, err)
	}

	if err = os.MkdirAll(filepath.Dir(localFile), 0o755); err != nil {
		return fmt.Errorf("create local dir: %w", err)
	}
	dst, err := os.Create(localFile)
	if err != nil {
		return fmt.Errorf("create local file: %w", err)
	}
	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("download %s: %w", remoteFile, err)
	}
	if err = dst.Close(); err != nil {
		return fmt.Errorf("close local file: %w", err)
	}

	if err = os.Chtimes(localFile, time.Now(), stat.ModTime()); err != nil {
		return fmt.Errorf("set local mtime: %w", err)
	}
	return nil
}

// runInstallCommand executes the platform's install utility over an SSH
// session. The platform user password is piped on stdin so it never appears
// in the remote process list.
func (c *SSHClient) runInstallCommand(creds models.PlatformCredentials, verb, remoteDir, name string) error {
	session, err := c.conn.NewSession()
	if err != nil {
		return fmt.Errorf("ssh session: %w", err)
	}
	defer session.Close()

	cmd := fmt.Sprintf("symctl poweron %s --sym %s --user %s --stdin-password %s",
		verb, creds.SymNumber, creds.UserNumber, path.Join(remoteDir, name))
	session.Stdin = strings.NewReader(creds.UserPassword + "\n")

	out, err := session.CombinedOutput(cmd)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", verb, name, err, string(out))
	}

	c.log.Debug().Str("file", name).Str("verb", verb).Msg("platform command completed")
	return nil
}

// End tears the connection down. It is idempotent and safe to call after a
// prior failure or before the dial completed.
func (c *SSHClient) End() error {
	c.closeOnce.Do(func() {
		if c.sftp != nil {
			c.closeErr = c.sftp.Close()
		}
		if c.conn != nil {
			if err := c.conn.Close(); err != nil && c.closeErr == nil {
				c.closeErr = err
			}
		}
	})
	return c.closeErr
}

// localFiles lists the regular files directly inside dir. Synchronizable
// directories are flat on the platform, so subdirectories are skipped.
func localFiles(dir string) (fileSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileSet{}, nil
		}
		return nil, fmt.Errorf("read local dir %s: %w", dir, err)
	}

	set := make(fileSet, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat local file %s: %w", entry.Name(), err)
		}
		set[entry.Name()] = fileMeta{Size: info.Size(), ModTime: info.ModTime()}
	}
	return set, nil
}

func (c *SSHClient) remoteFiles(dir string) (fileSet, error) {
	entries, err := c.sftp.ReadDir(dir)
	if err != nil {
		// A location that was never deployed to does not exist yet.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return fileSet{}, nil
		}
		return nil, fmt.Errorf("read remote dir %s: %w", dir, err)
	}

	set := make(fileSet, len(entries))
	for _, info := range entries {
		if info.IsDir() {
			continue
		}
		set[info.Name()] = fileMeta{Size: info.Size(), ModTime: info.ModTime()}
	}
	return set, nil
}
