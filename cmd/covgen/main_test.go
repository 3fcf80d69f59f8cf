package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fixtureXML = `<?xml version="1.0" encoding="UTF-8"?>
<report name="acme">
  <package name="com/acme">
    <class name="Widget" sourcefilename="Widget.java">
      <method name="render" desc="()V" line="10">
        <counter type="LINE" missed="2" covered="3"/>
      </method>
      <counter type="LINE" missed="2" covered="3"/>
    </class>
  </package>
</report>`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jacoco.xml")
	if err := os.WriteFile(path, []byte(fixtureXML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := rootCommand()

	for _, want := range []string{"serve", "report", "generate"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Missing subcommand: %s", want)
		}
	}
}

func TestReportCommand(t *testing.T) {
	out, err := runCommand(t, "report", writeFixture(t))
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	if !strings.Contains(out, "Line coverage:   60.00%") {
		t.Errorf("Missing total coverage in output:\n%s", out)
	}
	if !strings.Contains(out, "com.acme.Widget.render()V") {
		t.Errorf("Missing gap listing in output:\n%s", out)
	}
}

func TestReportCommandMissingFile(t *testing.T) {
	_, err := runCommand(t, "report", filepath.Join(t.TempDir(), "absent.xml"))
	if err == nil {
		t.Fatal("Expected error for missing report")
	}
}

func TestGenerateCommandToStdout(t *testing.T) {
	out, err := runCommand(t, "generate", writeFixture(t))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.Contains(out, "package com.acme.test;") {
		t.Errorf("Missing package declaration:\n%s", out)
	}
	if !strings.Contains(out, "public class WidgetTest {") {
		t.Errorf("Missing test class:\n%s", out)
	}
	if !strings.Contains(out, "testRender_Case1") {
		t.Errorf("Missing generated test method:\n%s", out)
	}
}

func TestGenerateCommandToFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "WidgetTest.java")

	out, err := runCommand(t, "generate", writeFixture(t), "--out", output, "--diff")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	content, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if !strings.Contains(string(content), "WidgetTest") {
		t.Error("Output file missing test class")
	}
	if !strings.Contains(out, "Wrote 3 tests") {
		t.Errorf("Missing summary line:\n%s", out)
	}
	if !strings.Contains(out, "+package com.acme.test;") {
		t.Errorf("Missing diff output:\n%s", out)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("COVGEN_TEST_STR", "value")
	if envOr("COVGEN_TEST_STR", "fallback") != "value" {
		t.Error("envOr should prefer the environment")
	}
	if envOr("COVGEN_TEST_UNSET", "fallback") != "fallback" {
		t.Error("envOr should fall back when unset")
	}

	t.Setenv("COVGEN_TEST_DUR", "30s")
	if envDurationOr("COVGEN_TEST_DUR", time.Second) != 30*time.Second {
		t.Error("envDurationOr should parse durations")
	}
	t.Setenv("COVGEN_TEST_DUR", "bogus")
	if envDurationOr("COVGEN_TEST_DUR", time.Second) != time.Second {
		t.Error("envDurationOr should fall back on parse errors")
	}

	t.Setenv("COVGEN_TEST_BOOL", "true")
	if !envBool("COVGEN_TEST_BOOL") {
		t.Error("envBool should parse true")
	}
	t.Setenv("COVGEN_TEST_BOOL", "nope")
	if envBool("COVGEN_TEST_BOOL") {
		t.Error("envBool should fall back to false")
	}
}
