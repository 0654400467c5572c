// Package git publishes the mirror working directory by shelling out to the
// git command.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	customerrors "github.com/boatyardx/bitnami-helm-repo/pkg/errors"
)

// Client provides the git operations needed to publish a mirror run
type Client interface {
	// AddAll stages every change in the working directory
	AddAll(ctx context.Context) error
	// HasChanges reports whether the staged tree differs from HEAD
	HasChanges(ctx context.Context) (bool, error)
	// Commit records the staged changes with the given message
	Commit(ctx context.Context, message string) error
	// Push publishes the branch to the remote
	Push(ctx context.Context, remote, branch string) error
}

// ShellClient implements Client by running the git command in a fixed
// working directory
type ShellClient struct {
	workDir string
	logger  *zap.Logger
}

// NewShellClient creates a git client for the given working directory. It
// fails with a dependency error when the git binary is not on the PATH, so
// the run aborts before any fetch work is wasted.
func NewShellClient(workDir string, logger *zap.Logger) (*ShellClient, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, customerrors.NewDependencyError("git",
			"install git and make sure it is on your PATH", err)
	}
	return &ShellClient{
		workDir: workDir,
		logger:  logger,
	}, nil
}

// AddAll stages all working directory changes
func (c *ShellClient) AddAll(ctx context.Context) error {
	if err := c.run(ctx, "add", "."); err != nil {
		return customerrors.NewGitError("add", err)
	}
	return nil
}

// HasChanges compares the index against HEAD. Exit code 1 from diff-index
// means the tree is dirty; anything above that is a real failure.
func (c *ShellClient) HasChanges(ctx context.Context) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", c.workDir, "diff-index", "--quiet", "HEAD")
	err := cmd.Run()
	if err == nil {
		return false, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, customerrors.NewGitError("diff-index", err)
}

// Commit records the staged changes
func (c *ShellClient) Commit(ctx context.Context, message string) error {
	if err := c.run(ctx, "commit", "-m", message); err != nil {
		return customerrors.NewGitError("commit", err)
	}
	c.logger.Info("committed changes", zap.String("message", message))
	return nil
}

// Push publishes the branch to the remote
func (c *ShellClient) Push(ctx context.Context, remote, branch string) error {
	if err := c.run(ctx, "push", remote, branch); err != nil {
		return customerrors.NewGitError("push", err)
	}
	c.logger.Info("pushed changes",
		zap.String("remote", remote),
		zap.String("branch", branch))
	return nil
}

// run executes a git subcommand and returns an error carrying its combined
// output on failure
func (c *ShellClient) run(ctx context.Context, args ...string) error {
	fullArgs := append([]string{"-C", c.workDir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	c.logger.Debug("running git", zap.Strings("args", args))

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
