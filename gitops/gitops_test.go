package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePorcelain(t *testing.T) {
	out := "M  staged.go\n" +
		" M unstaged.go\n" +
		"MM both.go\n" +
		"?? fresh.txt\n" +
		"UU conflicted.go\n"

	status := parsePorcelain(out)

	assert.Equal(t, []string{"staged.go", "both.go"}, status.Staged)
	assert.Equal(t, []string{"unstaged.go", "both.go"}, status.Unstaged)
	assert.Equal(t, []string{"fresh.txt"}, status.Untracked)
	assert.Equal(t, []string{"conflicted.go"}, status.Conflicts)
}

func TestParsePorcelainEmpty(t *testing.T) {
	status := parsePorcelain("")

	assert.Empty(t, status.Staged)
	assert.Empty(t, status.Unstaged)
	assert.Empty(t, status.Untracked)
	assert.Empty(t, status.Conflicts)
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		path    string
		exclude bool
	}{
		{"src/main/java/Widget.java", false},
		{"Widget.class", true},
		{"src/main/Widget.class", true},
		{"app.jar", true},
		{"target/classes/Widget.class", true},
		{"build/output.txt", true},
		{"module/build/output.txt", true},
		{"node_modules/pkg/index.js", true},
		{"debug.log", true},
		{"src/test/WidgetTest.java", false},
		{"buildinfo.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.exclude, excluded(tt.path, DefaultExcludePatterns))
		})
	}
}

func TestCoverageStatsCommitSuffix(t *testing.T) {
	line := 75.5
	tests := 12
	stats := &CoverageStats{LineCoverage: &line, TestsGenerated: &tests}

	suffix := stats.CommitSuffix()
	assert.Contains(t, suffix, "Coverage Update:")
	assert.Contains(t, suffix, "- Line Coverage: 75.50%")
	assert.Contains(t, suffix, "- Tests Generated: 12")
	assert.NotContains(t, suffix, "Branch Coverage")

	var nilStats *CoverageStats
	assert.Empty(t, nilStats.CommitSuffix())
}

func TestCoverageStatsPRSection(t *testing.T) {
	branch := 60.0
	improvement := 4.25
	stats := &CoverageStats{BranchCoverage: &branch, CoverageImprovement: &improvement}

	section := stats.PRSection()
	assert.Contains(t, section, "## Coverage Improvements")
	assert.Contains(t, section, "- Branch Coverage: 60.00%")
	assert.Contains(t, section, "- Coverage Improvement: +4.25%")

	var nilStats *CoverageStats
	assert.Empty(t, nilStats.PRSection())
}

func TestPRNumberFromURL(t *testing.T) {
	assert.Equal(t, 42, prNumberFromURL("https://github.com/acme/widget/pull/42"))
	assert.Equal(t, 7, prNumberFromURL("https://github.com/acme/widget/pull/7\n"))
	assert.Zero(t, prNumberFromURL("https://github.com/acme/widget"))
	assert.Zero(t, prNumberFromURL(""))
}

// setupRepo initializes a throwaway git repository, or skips when git is not
// installed.
func setupRepo(t *testing.T) (*Tools, string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	tools := New(dir)
	ctx := context.Background()

	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
	} {
		_, err := tools.git(ctx, args...)
		require.NoError(t, err)
	}
	return tools, dir
}

func TestStatusNotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	tools := New(t.TempDir())
	_, err := tools.Status(context.Background())
	assert.Error(t, err)
}

func TestAddAllAndCommit(t *testing.T) {
	tools, dir := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Widget.java"), []byte("class Widget {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Widget.class"), []byte{0xCA, 0xFE}, 0o644))

	staged := tools.AddAll(ctx, nil)
	require.True(t, staged.Success, staged.Message)
	assert.Equal(t, 1, staged.FilesStaged)
	assert.Equal(t, []string{"Widget.java"}, staged.StagedFiles)

	line := 60.0
	commit := tools.Commit(ctx, "add widget", &CoverageStats{LineCoverage: &line})
	require.True(t, commit.Success, commit.Message)
	assert.Len(t, commit.CommitHash, 7)

	status, err := tools.Status(ctx)
	require.NoError(t, err)
	assert.Empty(t, status.Staged)
	assert.Equal(t, []string{"Widget.class"}, status.Untracked)
}
