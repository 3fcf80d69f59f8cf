package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/covgen/generator"
	"github.com/oxhq/covgen/jacoco"
	"github.com/oxhq/covgen/models"
)

// loadReport validates the path argument and parses the report, mapping
// failures to domain error codes.
func loadReport(reportPath string) (*jacoco.CoverageReport, error) {
	if reportPath == "" {
		return nil, NewMCPError(InvalidParams, "report_path is required")
	}

	if _, err := os.Stat(reportPath); err != nil {
		return nil, NewMCPError(ReportNotFound,
			fmt.Sprintf("Coverage report not found: %s", reportPath))
	}

	report, err := jacoco.ParseFile(reportPath)
	if err != nil {
		return nil, WrapError(ReportUnreadable, "Failed to parse coverage report", err)
	}
	return report, nil
}

// handleParseReportTool parses a JaCoCo report and returns totals plus the
// worst coverage gaps.
func (s *StdioServer) handleParseReportTool(params json.RawMessage) (any, error) {
	var args struct {
		ReportPath string `json:"report_path"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, WrapError(InvalidParams, "Invalid parse parameters", err)
	}

	start := time.Now()
	report, err := loadReport(args.ReportPath)
	if err != nil {
		return nil, err
	}

	// Return top 20 gaps with the first 5 uncovered lines each
	gapsData := make([]map[string]any, 0, 20)
	for _, gap := range report.Gaps {
		if len(gapsData) == 20 {
			break
		}
		gapsData = append(gapsData, map[string]any{
			"class_name":      gap.ClassName,
			"method_name":     gap.MethodName,
			"line_coverage":   round2(gap.LineCoverage),
			"branch_coverage": round2(gap.BranchCoverage),
			"uncovered_lines": headLines(gap.UncoveredLines, 5),
		})
	}

	s.recordParseRun(args.ReportPath, report, time.Since(start))
	s.LogInfo("Coverage report parsed", LogData{
		"report_path": args.ReportPath,
		"total_gaps":  len(report.Gaps),
	})

	return map[string]any{
		"success":               true,
		"total_line_coverage":   round2(report.TotalLineCoverage),
		"total_branch_coverage": round2(report.TotalBranchCoverage),
		"total_gaps":            len(report.Gaps),
		"top_gaps":              gapsData,
	}, nil
}

// handleGenerateTestsTool generates test scaffolds for the report's gaps.
func (s *StdioServer) handleGenerateTestsTool(params json.RawMessage) (any, error) {
	var args struct {
		ReportPath     string `json:"report_path"`
		MaxTestsPerGap int    `json:"max_tests_per_gap"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, WrapError(InvalidParams, "Invalid generate parameters", err)
	}
	if args.MaxTestsPerGap == 0 {
		args.MaxTestsPerGap = 3
	}

	report, err := loadReport(args.ReportPath)
	if err != nil {
		return nil, err
	}

	tests := generator.GenerateTests(report.Gaps, args.MaxTestsPerGap)

	// Return the first 10 generated tests
	testsData := make([]map[string]any, 0, 10)
	for _, test := range tests {
		if len(testsData) == 10 {
			break
		}
		testsData = append(testsData, map[string]any{
			"test_class":    test.ClassName,
			"test_method":   test.MethodName,
			"target_class":  test.TargetClass,
			"target_method": test.TargetMethod,
			"test_code":     test.Code,
		})
	}

	s.recordGenerationRun(args.ReportPath, args.MaxTestsPerGap, tests)

	return map[string]any{
		"success":         true,
		"tests_generated": len(tests),
		"tests":           testsData,
	}, nil
}

// handleCoverageSummaryTool returns aggregate coverage plus the top N gaps.
func (s *StdioServer) handleCoverageSummaryTool(params json.RawMessage) (any, error) {
	var args struct {
		ReportPath string `json:"report_path"`
		TopN       int    `json:"top_n"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, WrapError(InvalidParams, "Invalid summary parameters", err)
	}
	if args.TopN == 0 {
		args.TopN = 10
	}

	report, err := loadReport(args.ReportPath)
	if err != nil {
		return nil, err
	}

	gapsData := make([]map[string]any, 0, args.TopN)
	for _, gap := range report.Gaps {
		if len(gapsData) == args.TopN {
			break
		}
		gapsData = append(gapsData, map[string]any{
			"class_name":              gap.ClassName,
			"method_name":             gap.MethodName,
			"line_coverage_percent":   round2(gap.LineCoverage),
			"branch_coverage_percent": round2(gap.BranchCoverage),
		})
	}

	return map[string]any{
		"success": true,
		"summary": map[string]any{
			"total_line_coverage":     round2(report.TotalLineCoverage),
			"total_branch_coverage":   round2(report.TotalBranchCoverage),
			"coverage_gap":            round2(100 - report.TotalLineCoverage),
			"total_methods_with_gaps": len(report.Gaps),
		},
		"top_uncovered_methods": gapsData,
	}, nil
}

// handleWriteTestFileTool assembles a full test file for the class with the
// worst coverage and writes it to output_path. The response carries a unified
// diff against the file's previous content when it existed.
func (s *StdioServer) handleWriteTestFileTool(params json.RawMessage) (any, error) {
	var args struct {
		ReportPath     string `json:"report_path"`
		OutputPath     string `json:"output_path"`
		MaxTestsPerGap int    `json:"max_tests_per_gap"`
	}
	if err := json.Unmarshal(params, &args); err != nil {
		return nil, WrapError(InvalidParams, "Invalid write parameters", err)
	}
	if args.OutputPath == "" {
		return nil, NewMCPError(InvalidParams, "output_path is required")
	}
	if args.MaxTestsPerGap == 0 {
		args.MaxTestsPerGap = 3
	}

	report, err := loadReport(args.ReportPath)
	if err != nil {
		return nil, err
	}
	if len(report.Gaps) == 0 {
		return nil, NewMCPError(GenerationFailed, "Report has no coverage gaps to target")
	}

	tests := generator.GenerateTests(report.Gaps, args.MaxTestsPerGap)

	// Gaps are sorted worst first; collect the tests aimed at that class.
	target := report.Gaps[0]
	var classTests []generator.GeneratedTest
	for _, test := range tests {
		if test.TargetClass == target.ClassName {
			classTests = append(classTests, test)
		}
	}
	if len(classTests) == 0 {
		return nil, NewMCPError(GenerationFailed,
			fmt.Sprintf("No tests generated for %s", target.ClassName))
	}

	testClassName := classTests[0].ClassName
	content := generator.FormatTestFile(testClassName, target.PackageName, classTests)

	previous := ""
	if existing, err := os.ReadFile(args.OutputPath); err == nil {
		previous = string(existing)
	}

	if dir := filepath.Dir(args.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapError(WriteFailed, "Failed to create output directory", err)
		}
	}
	if err := os.WriteFile(args.OutputPath, []byte(content), 0o644); err != nil {
		return nil, WrapError(WriteFailed, "Failed to write test file", err)
	}

	s.LogInfo("Test file written", LogData{
		"output_path": args.OutputPath,
		"test_class":  testClassName,
	})

	return map[string]any{
		"success":       true,
		"output_path":   args.OutputPath,
		"test_class":    testClassName,
		"package":       target.PackageName,
		"target_class":  target.ClassName,
		"tests_written": len(classTests),
		"diff":          generator.UnifiedDiff(previous, content, args.OutputPath),
	}, nil
}

// headLines returns at most n leading entries, never nil.
func headLines(lines []int, n int) []int {
	if len(lines) < n {
		n = len(lines)
	}
	out := make([]int, n)
	copy(out, lines[:n])
	return out
}

// recordParseRun persists a parse run when a session is active. Failures are
// logged and otherwise ignored; persistence never blocks a tool response.
func (s *StdioServer) recordParseRun(path string, report *jacoco.CoverageReport, dur time.Duration) {
	if s.db == nil || s.session == nil {
		return
	}

	run := &models.ParseRun{
		ID:                  generateID("prs"),
		SessionID:           s.session.ID,
		ReportPath:          path,
		TotalLineCoverage:   round2(report.TotalLineCoverage),
		TotalBranchCoverage: round2(report.TotalBranchCoverage),
		GapCount:            len(report.Gaps),
		DurationMs:          dur.Milliseconds(),
	}
	if err := s.db.Create(run).Error; err != nil {
		s.debugLog("Failed to record parse run: %v", err)
		return
	}
	if err := s.db.Model(s.session).
		Update("parse_count", gorm.Expr("parse_count + 1")).Error; err != nil {
		s.debugLog("Failed to bump parse count: %v", err)
	}
}

// recordGenerationRun persists a generation run when a session is active.
func (s *StdioServer) recordGenerationRun(path string, maxPerGap int, tests []generator.GeneratedTest) {
	if s.db == nil || s.session == nil {
		return
	}

	seen := make(map[string]bool)
	var classes []string
	for _, t := range tests {
		if !seen[t.ClassName] {
			seen[t.ClassName] = true
			classes = append(classes, t.ClassName)
		}
	}
	classJSON, err := json.Marshal(classes)
	if err != nil {
		s.debugLog("Failed to encode test classes: %v", err)
		classJSON = []byte("[]")
	}

	run := &models.GenerationRun{
		ID:             generateID("gen"),
		SessionID:      s.session.ID,
		ReportPath:     path,
		MaxTestsPerGap: maxPerGap,
		TestsGenerated: len(tests),
		TestClasses:    datatypes.JSON(classJSON),
	}
	if err := s.db.Create(run).Error; err != nil {
		s.debugLog("Failed to record generation run: %v", err)
		return
	}
	if err := s.db.Model(s.session).
		Update("generate_count", gorm.Expr("generate_count + 1")).Error; err != nil {
		s.debugLog("Failed to bump generate count: %v", err)
	}
}
