// Package git publishes the generated site by committing it to the
// repository it lives in.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LockFile is created in the work tree while a publish is in progress.
const LockFile = ".valog.lock"

// Client wraps git command execution with a file-based lock so two
// scheduled runs never commit at the same time.
type Client struct {
	WorkDir  string
	Logger   *slog.Logger
	lockPath string
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		WorkDir:  workDir,
		Logger:   logger,
		lockPath: LockFile,
	}
}

// Lock acquires the file lock, retrying until ctx is done.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock %s: %w", fullLockPath, ctx.Err())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Run executes a raw git command in the working directory.
// It does not take the lock; callers that mutate the repository do.
func (c *Client) Run(args ...string) (string, error) {
	c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// Init initializes a new git repository if one doesn't exist.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// Add stages files, including deletions under the given paths.
func (c *Client) Add(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--all", "--"}, paths...)
	_, err := c.Run(args...)
	return err
}

// Commit records the staged changes.
func (c *Client) Commit(msg string) error {
	_, err := c.Run("commit", "-m", msg)
	return err
}

// Push sends the current branch to its upstream.
func (c *Client) Push() error {
	_, err := c.Run("push")
	return err
}

// Status returns the porcelain status of the given paths (all when empty).
func (c *Client) Status(paths ...string) (string, error) {
	args := []string{"status", "--porcelain"}
	if len(paths) > 0 {
		args = append(append(args, "--"), paths...)
	}
	return c.Run(args...)
}

// HasChanges reports whether any of the paths differ from HEAD, untracked
// files included.
func (c *Client) HasChanges(paths ...string) (bool, error) {
	out, err := c.Status(paths...)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// PublishResult describes what Publish did.
type PublishResult struct {
	Committed bool
	Pushed    bool
}

// Publish stages paths and commits them with msg when something changed,
// then pushes if asked. Nothing is committed for an unchanged site.
func (c *Client) Publish(ctx context.Context, msg string, push bool, paths ...string) (PublishResult, error) {
	var res PublishResult

	unlock, err := c.Lock(ctx)
	if err != nil {
		return res, err
	}
	defer unlock()

	changed, err := c.HasChanges(paths...)
	if err != nil {
		return res, err
	}
	if !changed {
		c.Logger.Info("site unchanged, nothing to commit")
		return res, nil
	}

	if err := c.Add(paths...); err != nil {
		return res, err
	}
	if err := c.Commit(msg); err != nil {
		return res, err
	}
	res.Committed = true
	c.Logger.Info("committed site", "paths", paths)

	if push {
		if err := c.Push(); err != nil {
			return res, err
		}
		res.Pushed = true
		c.Logger.Info("pushed site")
	}
	return res, nil
}
