package gitops

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// PullRequestResult reports the outcome of a PullRequest call.
type PullRequestResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Number  int    `json:"number,omitempty"`
	Message string `json:"message"`
}

// PullRequest opens a pull request against the base branch using the gh CLI.
// When stats is non-nil the body gets a coverage section appended. Creating
// a PR from the base branch itself is refused.
func (t *Tools) PullRequest(ctx context.Context, base, title, body string, stats *CoverageStats) *PullRequestResult {
	if base == "" {
		base = "main"
	}

	if _, err := t.gh(ctx, "--version"); err != nil {
		return &PullRequestResult{
			Success: false,
			Message: "GitHub CLI (gh) not installed or not authenticated; see https://cli.github.com",
		}
	}

	branch := t.CurrentBranch(ctx)
	if branch == base {
		return &PullRequestResult{
			Success: false,
			Message: fmt.Sprintf("cannot create PR: already on base branch %s", base),
		}
	}

	fullBody := body + stats.PRSection()

	out, err := t.gh(ctx, "pr", "create", "--base", base, "--title", title, "--body", fullBody)
	if err != nil {
		return &PullRequestResult{Success: false, Message: fmt.Sprintf("PR creation failed: %v", err)}
	}

	url := strings.TrimSpace(out)
	return &PullRequestResult{
		Success: true,
		URL:     url,
		Number:  prNumberFromURL(url),
		Message: fmt.Sprintf("PR created: %s", url),
	}
}

// prNumberFromURL extracts the PR number from a GitHub pull URL, or 0.
func prNumberFromURL(url string) int {
	_, tail, found := strings.Cut(url, "/pull/")
	if !found {
		return 0
	}
	if i := strings.IndexFunc(tail, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		tail = tail[:i]
	}
	n, err := strconv.Atoi(tail)
	if err != nil {
		return 0
	}
	return n
}
