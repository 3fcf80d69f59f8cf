package gitops

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludePatterns filters build artifacts and tooling caches out of
// automated staging. Directory patterns end with a slash; the rest are globs
// matched against the file path and its basename.
var DefaultExcludePatterns = []string{
	"*.class",
	"*.jar",
	"target/",
	"build/",
	"dist/",
	"out/",
	".gradle/",
	"node_modules/",
	"*.log",
}

// StageResult reports the outcome of an AddAll call.
type StageResult struct {
	Success     bool     `json:"success"`
	FilesStaged int      `json:"files_staged"`
	StagedFiles []string `json:"staged_files"`
	Message     string   `json:"message"`
}

// AddAll stages every changed or untracked file that does not match the
// exclusion patterns. A nil pattern list means DefaultExcludePatterns.
func (t *Tools) AddAll(ctx context.Context, excludePatterns []string) *StageResult {
	if excludePatterns == nil {
		excludePatterns = DefaultExcludePatterns
	}

	out, err := t.git(ctx, "status", "--porcelain")
	if err != nil {
		return &StageResult{Success: false, Message: fmt.Sprintf("failed to stage changes: %v", err)}
	}

	var toAdd []string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len(line) < 4 {
			continue
		}
		name := line[3:]
		if !excluded(name, excludePatterns) {
			toAdd = append(toAdd, name)
		}
	}

	for _, name := range toAdd {
		if _, err := t.git(ctx, "add", name); err != nil {
			return &StageResult{Success: false, Message: fmt.Sprintf("failed to stage %s: %v", name, err)}
		}
	}

	return &StageResult{
		Success:     true,
		FilesStaged: len(toAdd),
		StagedFiles: toAdd,
		Message:     fmt.Sprintf("Staged %d files", len(toAdd)),
	}
}

// excluded reports whether a path matches any exclusion pattern. Patterns
// ending in "/" exclude whole directory trees; other patterns are doublestar
// globs tried against the full path, any sub-path, and the basename.
func excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") {
			dir := strings.TrimSuffix(pattern, "/")
			if path == dir || strings.HasPrefix(path, pattern) || strings.Contains(path, "/"+pattern) {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
		if ok, _ := doublestar.Match("**/"+pattern, path); ok {
			return true
		}
	}
	return false
}
