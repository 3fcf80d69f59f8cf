// Package generator synthesizes JUnit test scaffolds for coverage gaps and
// assembles them into complete test files. Generation is deterministic and
// total: any well-formed gap list, including an empty one, produces output.
package generator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/oxhq/covgen/jacoco"
)

// maxGapsConsidered caps how many gaps one generation pass targets,
// protecting against unbounded output on large reports.
const maxGapsConsidered = 10

// GeneratedTest is one synthesized test case.
type GeneratedTest struct {
	// ClassName is the test class, e.g. "WidgetTest".
	ClassName string `json:"class_name"`

	// MethodName is the unique test method name, e.g. "testRender_Case1".
	MethodName string `json:"method_name"`

	// Code is the literal test source text for this case.
	Code string `json:"code"`

	// TargetClass and TargetMethod link back to the originating gap.
	TargetClass  string `json:"target_class"`
	TargetMethod string `json:"target_method"`
}

// GenerateTests produces test cases for the first 10 gaps in the given order.
// Each gap gets maxTestsPerGap cases; the result holds exactly
// min(10, len(gaps)) * maxTestsPerGap entries.
func GenerateTests(gaps []jacoco.CoverageGap, maxTestsPerGap int) []GeneratedTest {
	var tests []GeneratedTest
	for i, gap := range gaps {
		if i >= maxGapsConsidered {
			break
		}
		tests = append(tests, testsForGap(gap, maxTestsPerGap)...)
	}
	return tests
}

func testsForGap(gap jacoco.CoverageGap, numTests int) []GeneratedTest {
	testClass := TestClassName(gap.ClassName)
	bare := bareMethodName(gap.MethodName)

	tests := make([]GeneratedTest, 0, max(numTests, 0))
	for i := 0; i < numTests; i++ {
		tests = append(tests, GeneratedTest{
			ClassName:    testClass,
			MethodName:   fmt.Sprintf("test%s_Case%d", capitalize(bare), i+1),
			Code:         caseBody(gap, i),
			TargetClass:  gap.ClassName,
			TargetMethod: gap.MethodName,
		})
	}
	return tests
}

// TestClassName derives the test class name from a fully-qualified target
// class: the simple name suffixed with "Test".
func TestClassName(targetClass string) string {
	return simpleName(targetClass) + "Test"
}

// simpleName returns the last dotted segment of a qualified class name.
func simpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// bareMethodName strips the JVM type descriptor from a method signature:
// everything from the first '(' onward.
func bareMethodName(signature string) string {
	if i := strings.Index(signature, "("); i >= 0 {
		return signature[:i]
	}
	return signature
}

// capitalize upper-cases the first rune only; the rest is untouched.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
