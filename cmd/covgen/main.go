package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oxhq/covgen/generator"
	"github.com/oxhq/covgen/jacoco"
	"github.com/oxhq/covgen/mcp"
)

func main() {
	// Local overrides for development; missing file is fine
	godotenv.Load()

	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "covgen",
		Short: "JaCoCo coverage analysis and JUnit test scaffolding",
		Long: "covgen parses JaCoCo XML coverage reports, surfaces the methods with " +
			"the weakest line coverage, and scaffolds JUnit 5 tests to close the gaps. " +
			"It runs standalone or as an MCP server over stdio.",
	}

	rootCmd.AddCommand(serveCommand(), reportCommand(), generateCommand())
	return rootCmd
}

func serveCommand() *cobra.Command {
	var (
		dbURL      string
		repoPath   string
		gitTimeout time.Duration
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := mcp.Config{
				DatabaseURL: dbURL,
				RepoPath:    repoPath,
				GitTimeout:  gitTimeout,
				Debug:       debug,
			}

			server, err := mcp.NewStdioServer(config)
			if err != nil {
				return fmt.Errorf("server setup failed: %w", err)
			}
			defer server.Close()

			return server.Start()
		},
	}

	defaults := mcp.DefaultConfig()
	cmd.Flags().StringVar(&dbURL, "db", envOr("COVGEN_DB", defaults.DatabaseURL),
		`database path or libsql URL, "skip" disables persistence`)
	cmd.Flags().StringVar(&repoPath, "repo", envOr("COVGEN_REPO", defaults.RepoPath),
		"default repository for git tools")
	cmd.Flags().DurationVar(&gitTimeout, "git-timeout",
		envDurationOr("COVGEN_GIT_TIMEOUT", defaults.GitTimeout),
		"per-command timeout for git and gh")
	cmd.Flags().BoolVar(&debug, "debug", envBool("COVGEN_DEBUG"),
		"log protocol traffic to stderr")
	return cmd
}

func reportCommand() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "report <jacoco.xml>",
		Short: "Summarize a coverage report and its worst gaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := jacoco.ParseFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Line coverage:   %.2f%%\n", report.TotalLineCoverage)
			fmt.Fprintf(out, "Branch coverage: %.2f%%\n", report.TotalBranchCoverage)
			fmt.Fprintf(out, "Methods with gaps: %d\n", len(report.Gaps))

			if len(report.Gaps) == 0 {
				return nil
			}
			fmt.Fprintf(out, "\nWorst gaps:\n")
			for i, gap := range report.Gaps {
				if i == topN {
					break
				}
				fmt.Fprintf(out, "  %2d. %s.%s  line %.2f%%  branch %.2f%%\n",
					i+1, gap.ClassName, gap.MethodName,
					gap.LineCoverage, gap.BranchCoverage)
				if len(gap.UncoveredLines) > 0 {
					fmt.Fprintf(out, "      uncovered lines: %v\n", gap.UncoveredLines)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", 10, "number of gaps to show")
	return cmd
}

func generateCommand() *cobra.Command {
	var (
		outputPath string
		maxPerGap  int
		showDiff   bool
	)

	cmd := &cobra.Command{
		Use:   "generate <jacoco.xml>",
		Short: "Generate a JUnit test file for the worst-covered class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := jacoco.ParseFile(args[0])
			if err != nil {
				return err
			}
			if len(report.Gaps) == 0 {
				return fmt.Errorf("report has no coverage gaps to target")
			}

			tests := generator.GenerateTests(report.Gaps, maxPerGap)

			target := report.Gaps[0]
			var classTests []generator.GeneratedTest
			for _, test := range tests {
				if test.TargetClass == target.ClassName {
					classTests = append(classTests, test)
				}
			}
			if len(classTests) == 0 {
				return fmt.Errorf("no tests generated for %s", target.ClassName)
			}

			content := generator.FormatTestFile(
				classTests[0].ClassName, target.PackageName, classTests)

			out := cmd.OutOrStdout()
			if outputPath == "" {
				fmt.Fprint(out, content)
				return nil
			}

			previous := ""
			if existing, err := os.ReadFile(outputPath); err == nil {
				previous = string(existing)
			}
			if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outputPath, err)
			}

			fmt.Fprintf(out, "Wrote %d tests for %s to %s\n",
				len(classTests), target.ClassName, outputPath)
			if showDiff {
				if diff := generator.UnifiedDiff(previous, content, outputPath); diff != "" {
					fmt.Fprint(out, diff)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&maxPerGap, "max-per-gap", 3, "tests to generate per coverage gap")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "show a unified diff against the previous file")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
