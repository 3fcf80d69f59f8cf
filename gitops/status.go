package gitops

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GitStatus is a working-tree snapshot.
type GitStatus struct {
	IsClean       bool     `json:"is_clean"`
	CurrentBranch string   `json:"current_branch"`
	CommitsAhead  int      `json:"commits_ahead"`
	Staged        []string `json:"staged_changes"`
	Unstaged      []string `json:"unstaged_changes"`
	Untracked     []string `json:"untracked_files"`
	Conflicts     []string `json:"conflicts"`
}

// conflictCodes are the porcelain two-letter codes marking merge conflicts.
var conflictCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true, "UA": true, "AA": true, "UU": true,
}

// Status reports the detailed state of the repository. It fails when the
// root is not a git repository; a missing upstream only zeroes CommitsAhead.
func (t *Tools) Status(ctx context.Context) (*GitStatus, error) {
	if !t.IsRepository(ctx) {
		return nil, fmt.Errorf("%s is not a git repository", t.repoRoot)
	}

	branch := t.CurrentBranch(ctx)

	ahead := 0
	if out, err := t.git(ctx, "rev-list", "--count", "origin/"+branch+"..HEAD"); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(out)); err == nil {
			ahead = n
		}
	}

	out, err := t.git(ctx, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status failed: %w", err)
	}

	status := parsePorcelain(out)
	status.CurrentBranch = branch
	status.CommitsAhead = ahead
	status.IsClean = len(status.Staged) == 0 &&
		len(status.Unstaged) == 0 &&
		len(status.Conflicts) == 0 &&
		ahead == 0
	return status, nil
}

// parsePorcelain splits `git status --porcelain` output into staged,
// unstaged, untracked and conflicted file lists.
func parsePorcelain(out string) *GitStatus {
	status := &GitStatus{}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len(line) < 4 {
			continue
		}
		code := line[:2]
		name := line[3:]

		if code == "??" {
			status.Untracked = append(status.Untracked, name)
			continue
		}
		if conflictCodes[code] {
			status.Conflicts = append(status.Conflicts, name)
			continue
		}
		if code[0] != ' ' {
			status.Staged = append(status.Staged, name)
		}
		if code[1] != ' ' {
			status.Unstaged = append(status.Unstaged, name)
		}
	}
	return status
}
