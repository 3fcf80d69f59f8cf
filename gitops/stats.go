package gitops

import (
	"fmt"
	"strings"
)

// CoverageStats is the payload the analysis core hands to VCS automation.
// Pointer fields keep "not provided" distinct from zero: only present
// metrics appear in commit and pull-request annotations.
type CoverageStats struct {
	LineCoverage        *float64 `json:"line_coverage,omitempty"`
	BranchCoverage      *float64 `json:"branch_coverage,omitempty"`
	TestsGenerated      *int     `json:"tests_generated,omitempty"`
	CoverageGap         *float64 `json:"coverage_gap,omitempty"`
	CoverageImprovement *float64 `json:"coverage_improvement,omitempty"`
}

// CommitSuffix renders the stats block appended to commit messages, or ""
// when the receiver is nil.
func (s *CoverageStats) CommitSuffix() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nCoverage Update:")
	if s.LineCoverage != nil {
		fmt.Fprintf(&b, "\n- Line Coverage: %.2f%%", *s.LineCoverage)
	}
	if s.BranchCoverage != nil {
		fmt.Fprintf(&b, "\n- Branch Coverage: %.2f%%", *s.BranchCoverage)
	}
	if s.TestsGenerated != nil {
		fmt.Fprintf(&b, "\n- Tests Generated: %d", *s.TestsGenerated)
	}
	if s.CoverageGap != nil {
		fmt.Fprintf(&b, "\n- Coverage Gap: %.2f%%", *s.CoverageGap)
	}
	return b.String()
}

// PRSection renders the stats section appended to pull-request bodies, or
// "" when the receiver is nil.
func (s *CoverageStats) PRSection() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n## Coverage Improvements\n")
	if s.LineCoverage != nil {
		fmt.Fprintf(&b, "- Line Coverage: %.2f%%\n", *s.LineCoverage)
	}
	if s.BranchCoverage != nil {
		fmt.Fprintf(&b, "- Branch Coverage: %.2f%%\n", *s.BranchCoverage)
	}
	if s.TestsGenerated != nil {
		fmt.Fprintf(&b, "- Tests Generated: %d\n", *s.TestsGenerated)
	}
	if s.CoverageImprovement != nil {
		fmt.Fprintf(&b, "- Coverage Improvement: +%.2f%%\n", *s.CoverageImprovement)
	}
	return b.String()
}
