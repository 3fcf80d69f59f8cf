package generator

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// FormatTestFile assembles generated tests into one complete JUnit 5 test
// file. Tests are de-duplicated by method name keeping the last occurrence,
// iterated in first-insertion order, and joined with one blank line. An empty
// test list yields a syntactically valid file with an empty body region.
func FormatTestFile(testClassName, packageName string, tests []GeneratedTest) string {
	order := make([]string, 0, len(tests))
	byName := make(map[string]GeneratedTest, len(tests))
	for _, t := range tests {
		if _, seen := byName[t.MethodName]; !seen {
			order = append(order, t.MethodName)
		}
		byName[t.MethodName] = t
	}

	bodies := make([]string, 0, len(order))
	for _, name := range order {
		bodies = append(bodies, byName[name].Code)
	}

	return fmt.Sprintf(`package %[1]s.test;

import org.junit.jupiter.api.Test;
import org.junit.jupiter.api.BeforeEach;
import static org.junit.jupiter.api.Assertions.*;
import %[1]s.*;

public class %[2]s {

    private Object instance;

    @BeforeEach
    public void setUp() {
        // Initialize test fixtures
    }

%[3]s
}
`, packageName, testClassName, strings.Join(bodies, "\n\n"))
}

// UnifiedDiff renders a unified diff between the previous and new content of
// a file, or "" when they are identical.
func UnifiedDiff(original, modified, path string) string {
	if original == modified {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s\n@@ changes @@\n%d bytes -> %d bytes",
			path, path, len(original), len(modified))
	}
	return text
}
