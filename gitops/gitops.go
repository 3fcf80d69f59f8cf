// Package gitops wraps the git and gh command-line tools for automated
// test-generation workflows: inspecting working-tree state, staging filtered
// file sets, and publishing commits and pull requests annotated with the
// coverage statistics the analysis core emits.
package gitops

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds each git/gh invocation.
const DefaultTimeout = 5 * time.Second

// Tools runs git operations scoped to one repository root.
type Tools struct {
	repoRoot string
	timeout  time.Duration
}

// New creates a Tools bound to the given repository root.
func New(repoRoot string) *Tools {
	return NewWithTimeout(repoRoot, DefaultTimeout)
}

// NewWithTimeout creates a Tools with a custom per-command timeout.
func NewWithTimeout(repoRoot string, timeout time.Duration) *Tools {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tools{repoRoot: repoRoot, timeout: timeout}
}

// IsRepository reports whether the root is inside a git work tree.
func (t *Tools) IsRepository(ctx context.Context) bool {
	_, err := t.git(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the checked-out branch name, or "unknown" when HEAD
// cannot be resolved (fresh repository, detached state mid-operation).
func (t *Tools) CurrentBranch(ctx context.Context) string {
	out, err := t.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(out)
}

// git runs one git command under the repo root with the configured timeout.
func (t *Tools) git(ctx context.Context, args ...string) (string, error) {
	return t.run(ctx, "git", args...)
}

// gh runs one GitHub CLI command under the repo root.
func (t *Tools) gh(ctx context.Context, args ...string) (string, error) {
	return t.run(ctx, "gh", args...)
}

func (t *Tools) run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = t.repoRoot

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s %s timed out after %s", name, strings.Join(args, " "), t.timeout)
		}
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s %s: %s", name, args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s %s: %w", name, args[0], err)
	}
	return string(out), nil
}
