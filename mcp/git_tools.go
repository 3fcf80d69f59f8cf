package mcp

import (
	"context"
	"encoding/json"

	"github.com/oxhq/covgen/gitops"
)

// gitTools builds a gitops handle for the requested repository, falling back
// to the configured default path.
func (s *StdioServer) gitTools(repoPath string) *gitops.Tools {
	if repoPath == "" {
		repoPath = s.config.RepoPath
	}
	if repoPath == "" {
		repoPath = "."
	}
	return gitops.NewWithTimeout(repoPath, s.config.GitTimeout)
}

// handleGitStatusTool reports repository cleanliness and pending changes.
func (s *StdioServer) handleGitStatusTool(params json.RawMessage) (any, error) {
	var args struct {
		RepoPath string `json:"repo_path"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, WrapError(InvalidParams, "Invalid status parameters", err)
	}

	// Git failures are data, not protocol errors: the client decides how to
	// react to a missing repository or a failed command.
	status, err := s.gitTools(args.RepoPath).Status(context.Background())
	if err != nil {
		return map[string]any{
			"success": false,
			"error":   err.Error(),
		}, nil
	}

	return map[string]any{
		"success":          true,
		"is_clean":         status.IsClean,
		"current_branch":   status.CurrentBranch,
		"staged_changes":   status.Staged,
		"unstaged_changes": status.Unstaged,
		"untracked_files":  status.Untracked,
		"conflicts":        status.Conflicts,
		"commits_ahead":    status.CommitsAhead,
	}, nil
}

// handleGitAddAllTool stages all changes minus excluded build artifacts.
func (s *StdioServer) handleGitAddAllTool(params json.RawMessage) (any, error) {
	var args struct {
		RepoPath string `json:"repo_path"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, WrapError(InvalidParams, "Invalid staging parameters", err)
	}

	return s.gitTools(args.RepoPath).AddAll(context.Background(), nil), nil
}

// handleGitCommitTool commits staged changes, optionally annotated with
// coverage statistics.
func (s *StdioServer) handleGitCommitTool(params json.RawMessage) (any, error) {
	var args struct {
		RepoPath      string               `json:"repo_path"`
		Message       string               `json:"message"`
		CoverageStats *gitops.CoverageStats `json:"coverage_stats"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, WrapError(InvalidParams, "Invalid commit parameters", err)
	}
	if args.Message == "" {
		return nil, NewMCPError(InvalidParams, "message is required")
	}

	return s.gitTools(args.RepoPath).Commit(context.Background(), args.Message, args.CoverageStats), nil
}

// handleGitPushTool pushes the branch to the remote.
func (s *StdioServer) handleGitPushTool(params json.RawMessage) (any, error) {
	var args struct {
		RepoPath string `json:"repo_path"`
		Remote   string `json:"remote"`
		Branch   string `json:"branch"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, WrapError(InvalidParams, "Invalid push parameters", err)
	}

	return s.gitTools(args.RepoPath).Push(context.Background(), args.Remote, args.Branch), nil
}

// handleGitPullRequestTool opens a PR via the gh CLI.
func (s *StdioServer) handleGitPullRequestTool(params json.RawMessage) (any, error) {
	var args struct {
		RepoPath      string               `json:"repo_path"`
		Base          string               `json:"base"`
		Title         string               `json:"title"`
		Body          string               `json:"body"`
		CoverageStats *gitops.CoverageStats `json:"coverage_stats"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, WrapError(InvalidParams, "Invalid pull request parameters", err)
	}
	if args.Title == "" {
		return nil, NewMCPError(InvalidParams, "title is required")
	}

	return s.gitTools(args.RepoPath).PullRequest(
		context.Background(), args.Base, args.Title, args.Body, args.CoverageStats), nil
}
