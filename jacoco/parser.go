package jacoco

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrReportUnreadable marks a report source that cannot be opened or is not
// well-formed XML. No partial report is ever returned alongside it.
var ErrReportUnreadable = errors.New("coverage report unreadable")

// ParseFile opens and parses a JaCoCo XML report from disk.
func ParseFile(path string) (*CoverageReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReportUnreadable, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a JaCoCo XML report and extracts coverage gaps and totals.
//
// Every method with line coverage strictly below 100% becomes a gap. The
// report totals start as the maximum class-level percentage seen, then
// report-level LINE/BRANCH counters override them when present. Gaps are
// returned sorted by ascending line coverage with a stable order.
func Parse(r io.Reader) (*CoverageReport, error) {
	var doc Report
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReportUnreadable, err)
	}

	var (
		gaps        []CoverageGap
		totalLine   float64
		totalBranch float64
	)

	for _, pkg := range collectPackages(&doc) {
		for _, cls := range pkg.Classes {
			fullClass := strings.ReplaceAll(pkg.Name+"."+cls.Name, "/", ".")

			for _, m := range cls.Methods {
				lineCov := coveragePercent(m.Counters, CounterLine)
				branchCov := coveragePercent(m.Counters, CounterBranch)
				if lineCov >= 100 {
					continue
				}
				gaps = append(gaps, CoverageGap{
					ClassName:      fullClass,
					MethodName:     m.Name + m.Desc,
					PackageName:    strings.ReplaceAll(pkg.Name, "/", "."),
					LineCoverage:   lineCov,
					BranchCoverage: branchCov,
					UncoveredLines: uncoveredLines(m.Lines),
				})
			}

			// Class-level coverage feeds the running totals. The total is the
			// best class percentage observed, not a weighted average; kept for
			// compatibility with existing consumers.
			if cov := coveragePercent(cls.Counters, CounterLine); cov > totalLine {
				totalLine = cov
			}
			if cov := coveragePercent(cls.Counters, CounterBranch); cov > totalBranch {
				totalBranch = cov
			}
		}
	}

	// Report-level summary counters take final precedence.
	for _, c := range doc.Counters {
		total := int(c.Covered) + int(c.Missed)
		if total == 0 {
			continue
		}
		pct := float64(c.Covered) / float64(total) * 100
		switch c.Type {
		case CounterLine:
			totalLine = pct
		case CounterBranch:
			totalBranch = pct
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].LineCoverage < gaps[j].LineCoverage
	})

	return &CoverageReport{
		TotalLineCoverage:   totalLine,
		TotalBranchCoverage: totalBranch,
		Gaps:                gaps,
	}, nil
}

// collectPackages flattens the package list, including packages nested in
// groups of aggregate reports, in document order.
func collectPackages(doc *Report) []Package {
	pkgs := append([]Package(nil), doc.Packages...)
	var walk func(groups []Group)
	walk = func(groups []Group) {
		for _, g := range groups {
			pkgs = append(pkgs, g.Packages...)
			walk(g.Groups)
		}
	}
	walk(doc.Groups)
	return pkgs
}

// coveragePercent computes covered/(covered+missed)*100 for the first counter
// of the given kind. A missing counter or an empty one yields 0, never NaN.
func coveragePercent(counters []Counter, kind string) float64 {
	for _, c := range counters {
		if c.Type != kind {
			continue
		}
		total := int(c.Covered) + int(c.Missed)
		if total == 0 {
			return 0
		}
		return float64(c.Covered) / float64(total) * 100
	}
	return 0
}

// uncoveredLines returns the line numbers whose covered-instruction count is
// exactly 0, in document order.
func uncoveredLines(lines []Line) []int {
	var uncovered []int
	for _, l := range lines {
		if l.Ci == 0 {
			uncovered = append(uncovered, int(l.Nr))
		}
	}
	return uncovered
}
