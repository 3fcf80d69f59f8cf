package gitops

import (
	"context"
	"fmt"
	"strings"
)

// CommitResult reports the outcome of a Commit call.
type CommitResult struct {
	Success    bool   `json:"success"`
	CommitHash string `json:"commit_hash,omitempty"`
	Message    string `json:"message"`
}

// PushResult reports the outcome of a Push call.
type PushResult struct {
	Success bool   `json:"success"`
	Remote  string `json:"remote"`
	Branch  string `json:"branch"`
	Message string `json:"message"`
}

// Commit creates a commit from staged changes. When stats is non-nil the
// message gets a standardized coverage block appended.
func (t *Tools) Commit(ctx context.Context, message string, stats *CoverageStats) *CommitResult {
	full := message + stats.CommitSuffix()

	if _, err := t.git(ctx, "commit", "-m", full); err != nil {
		return &CommitResult{Success: false, Message: fmt.Sprintf("commit failed: %v", err)}
	}

	out, err := t.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return &CommitResult{Success: false, Message: fmt.Sprintf("commit succeeded but HEAD unreadable: %v", err)}
	}

	hash := strings.TrimSpace(out)
	if len(hash) > 7 {
		hash = hash[:7]
	}
	return &CommitResult{
		Success:    true,
		CommitHash: hash,
		Message:    fmt.Sprintf("Committed with hash %s", hash),
	}
}

// Push pushes a branch to the remote with upstream configuration. An empty
// branch defaults to the current one. "Everything up-to-date" is a success.
func (t *Tools) Push(ctx context.Context, remote, branch string) *PushResult {
	if remote == "" {
		remote = "origin"
	}
	if branch == "" {
		branch = t.CurrentBranch(ctx)
	}

	if _, err := t.git(ctx, "push", "-u", remote, branch); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "everything up-to-date") {
			return &PushResult{
				Success: true,
				Remote:  remote,
				Branch:  branch,
				Message: fmt.Sprintf("Everything up-to-date on %s/%s", remote, branch),
			}
		}
		return &PushResult{Success: false, Message: fmt.Sprintf("push failed: %v", err)}
	}

	return &PushResult{
		Success: true,
		Remote:  remote,
		Branch:  branch,
		Message: fmt.Sprintf("Pushed to %s/%s", remote, branch),
	}
}
