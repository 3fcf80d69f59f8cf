package generator

import (
	"fmt"

	"github.com/oxhq/covgen/jacoco"
)

// caseVariant selects one of the fixed test-body shapes. The dispatch is a
// closed enumeration so that adding a fourth shape is a one-line change.
type caseVariant int

const (
	// variantReflexive constructs the target, calls the method, and asserts
	// reflexive equality on the instance.
	variantReflexive caseVariant = iota

	// variantNoThrow asserts the method call does not raise.
	variantNoThrow

	// variantTypeCheck calls the method and asserts the instance is still
	// non-null and of the target type.
	variantTypeCheck
)

// variantFor maps a case index to its body shape. Indexes beyond the third
// case reuse the type-check shape; only the test method name stays unique.
func variantFor(index int) caseVariant {
	switch index {
	case 0:
		return variantReflexive
	case 1:
		return variantNoThrow
	default:
		return variantTypeCheck
	}
}

// caseBody renders the test source for one (gap, case index) pair. The
// scaffolds are deliberately shallow smoke tests: the report carries no
// parameter or value information, so the method is exercised once at
// default-constructor granularity.
func caseBody(gap jacoco.CoverageGap, index int) string {
	method := bareMethodName(gap.MethodName)
	simple := simpleName(gap.ClassName)

	switch variantFor(index) {
	case variantReflexive:
		return fmt.Sprintf(`    @Test
    public void test%[1]sCase1() {
        %[2]s instance = new %[2]s();
        assertNotNull(instance);

        instance.%[3]s();

        assertEquals(instance, instance);
    }`, capitalize(method), simple, method)

	case variantNoThrow:
		return fmt.Sprintf(`    @Test
    public void test%[1]sCase2() {
        %[2]s instance = new %[2]s();

        assertDoesNotThrow(() -> {
            instance.%[3]s();
        });

        assertNotNull(instance);
    }`, capitalize(method), simple, method)

	default:
		return fmt.Sprintf(`    @Test
    public void test%[1]sCase3() {
        %[2]s instance = new %[2]s();
        instance.%[3]s();

        Object result = instance;
        assertNotNull(result);
        assertTrue(result instanceof %[2]s);
    }`, capitalize(method), simple, method)
	}
}
