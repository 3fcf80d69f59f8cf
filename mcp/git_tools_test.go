package mcp

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}
	return dir
}

func TestGitStatusToolNotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	server := newTestServer(t)

	result, err := callTool(t, server, "git_status", map[string]any{
		"repo_path": t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Status should fail as data, not protocol error: %v", err)
	}
	if result["success"] != false {
		t.Error("Expected success=false outside a repository")
	}
	if msg, _ := result["error"].(string); !strings.Contains(msg, "not a git repository") {
		t.Errorf("Unexpected error message: %v", result["error"])
	}
}

func TestGitAddAllAndStatusTools(t *testing.T) {
	server := newTestServer(t)
	repo := setupTestRepo(t)

	if err := os.WriteFile(filepath.Join(repo, "Widget.java"), []byte("class Widget {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(repo, "Widget.class"), []byte{0xCA, 0xFE}, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := callTool(t, server, "git_add_all", map[string]any{"repo_path": repo})
	if err != nil {
		t.Fatalf("git_add_all failed: %v", err)
	}

	if result["success"] != true {
		t.Fatalf("Staging failed: %v", result["message"])
	}
	if result["files_staged"].(float64) != 1 {
		t.Errorf("Expected 1 staged file, got %v", result["files_staged"])
	}

	status, err := callTool(t, server, "git_status", map[string]any{"repo_path": repo})
	if err != nil {
		t.Fatalf("git_status failed: %v", err)
	}
	if status["is_clean"] != false {
		t.Error("Repo with staged changes should not be clean")
	}
}

func TestGitCommitToolRequiresMessage(t *testing.T) {
	server := newTestServer(t)

	_, err := callTool(t, server, "git_commit", map[string]any{"repo_path": "."})
	if code := mcpCode(t, err); code != InvalidParams {
		t.Errorf("Expected InvalidParams, got %d", code)
	}
}

func TestGitCommitToolWithStats(t *testing.T) {
	server := newTestServer(t)
	repo := setupTestRepo(t)

	if err := os.WriteFile(filepath.Join(repo, "a.txt"), []byte("hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := callTool(t, server, "git_add_all", map[string]any{"repo_path": repo}); err != nil {
		t.Fatalf("Staging failed: %v", err)
	}

	result, err := callTool(t, server, "git_commit", map[string]any{
		"repo_path": repo,
		"message":   "Add generated tests",
		"coverage_stats": map[string]any{
			"line_coverage":   82.5,
			"tests_generated": 6,
		},
	})
	if err != nil {
		t.Fatalf("git_commit failed: %v", err)
	}

	if result["success"] != true {
		t.Fatalf("Commit failed: %v", result["message"])
	}
	if hash := result["commit_hash"].(string); len(hash) != 7 {
		t.Errorf("Expected short hash, got %q", hash)
	}

	show := exec.Command("git", "log", "-1", "--format=%B")
	show.Dir = repo
	out, err := show.Output()
	if err != nil {
		t.Fatalf("git log failed: %v", err)
	}
	msg := string(out)
	if !strings.Contains(msg, "Coverage Update:") || !strings.Contains(msg, "Line Coverage: 82.50%") {
		t.Errorf("Commit message missing stats block:\n%s", msg)
	}
}

func TestGitPullRequestToolRequiresTitle(t *testing.T) {
	server := newTestServer(t)

	_, err := callTool(t, server, "git_pull_request", map[string]any{"repo_path": "."})
	if code := mcpCode(t, err); code != InvalidParams {
		t.Errorf("Expected InvalidParams, got %d", code)
	}
}
