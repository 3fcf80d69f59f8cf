package jacoco

// CoverageGap is one method (or class) with incomplete line coverage.
// Gaps are immutable once built: the parser is their only producer.
type CoverageGap struct {
	// ClassName is the fully-qualified class name with dots as separators,
	// e.g. "com.acme.Widget".
	ClassName string `json:"class_name"`

	// MethodName is the bare method name concatenated with its raw JVM type
	// descriptor, e.g. "render()V". Empty for class-level gaps.
	MethodName string `json:"method_name"`

	// PackageName is the dotted package, empty for the default package.
	PackageName string `json:"package_name"`

	// LineCoverage and BranchCoverage are percentages in [0,100]. A method
	// without branches has 0 branch coverage.
	LineCoverage   float64 `json:"line_coverage"`
	BranchCoverage float64 `json:"branch_coverage"`

	// UncoveredLines lists 1-based line numbers with zero covered
	// instructions, in document order. May be empty even below 100% line
	// coverage when only instruction-level counters disagree.
	UncoveredLines []int `json:"uncovered_lines"`
}

// CoverageReport is the aggregate result of one parse. Gaps are sorted by
// ascending line coverage; equal-coverage gaps keep traversal order.
type CoverageReport struct {
	TotalLineCoverage   float64       `json:"total_line_coverage"`
	TotalBranchCoverage float64       `json:"total_branch_coverage"`
	Gaps                []CoverageGap `json:"gaps"`
}
