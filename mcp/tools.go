package mcp

// ToolDefinition describes a tool for the client
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// GetToolDefinitions returns all available tool definitions
func GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "parse_jacoco_report",
			Description: "Parse a JaCoCo XML coverage report and extract coverage gaps",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"report_path": map[string]any{
						"type":        "string",
						"description": "Path to the JaCoCo XML report file",
					},
				},
				"required": []string{"report_path"},
			},
		},
		{
			Name:        "generate_tests",
			Description: "Generate Java tests to cover uncovered code paths",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"report_path": map[string]any{
						"type":        "string",
						"description": "Path to the JaCoCo XML report file",
					},
					"max_tests_per_gap": map[string]any{
						"type":        "integer",
						"description": "Maximum number of tests to generate per coverage gap",
						"default":     3,
					},
				},
				"required": []string{"report_path"},
			},
		},
		{
			Name:        "get_coverage_summary",
			Description: "Get a summary of coverage and top uncovered areas",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"report_path": map[string]any{
						"type":        "string",
						"description": "Path to the JaCoCo XML report file",
					},
					"top_n": map[string]any{
						"type":        "integer",
						"description": "Number of top gaps to return",
						"default":     10,
					},
				},
				"required": []string{"report_path"},
			},
		},
		{
			Name:        "write_test_file",
			Description: "Generate a complete JUnit test file for the class with the lowest coverage and write it to disk",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"report_path": map[string]any{
						"type":        "string",
						"description": "Path to the JaCoCo XML report file",
					},
					"output_path": map[string]any{
						"type":        "string",
						"description": "Where to write the assembled test file",
					},
					"max_tests_per_gap": map[string]any{
						"type":        "integer",
						"description": "Maximum number of tests to generate per coverage gap",
						"default":     3,
					},
				},
				"required": []string{"report_path", "output_path"},
			},
		},
		{
			Name:        "git_status",
			Description: "Check git repository status: clean status, staged changes, conflicts",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"repo_path": map[string]any{
						"type":        "string",
						"description": "Path to git repository",
						"default":     ".",
					},
				},
			},
		},
		{
			Name:        "git_add_all",
			Description: "Stage all changes with intelligent filtering (excludes build artifacts)",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"repo_path": map[string]any{
						"type":        "string",
						"description": "Path to git repository",
						"default":     ".",
					},
				},
			},
		},
		{
			Name:        "git_commit",
			Description: "Create commit with standardized message including coverage statistics",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"repo_path": map[string]any{
						"type":        "string",
						"description": "Path to git repository",
						"default":     ".",
					},
					"message": map[string]any{
						"type":        "string",
						"description": "Commit message",
					},
					"coverage_stats": map[string]any{
						"type":        "object",
						"description": "Coverage metrics (line_coverage, branch_coverage, tests_generated)",
					},
				},
				"required": []string{"message"},
			},
		},
		{
			Name:        "git_push",
			Description: "Push to remote with upstream configuration",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"repo_path": map[string]any{
						"type":        "string",
						"description": "Path to git repository",
						"default":     ".",
					},
					"remote": map[string]any{
						"type":        "string",
						"description": "Remote name",
						"default":     "origin",
					},
					"branch": map[string]any{
						"type":        "string",
						"description": "Branch to push (default: current branch)",
					},
				},
			},
		},
		{
			Name:        "git_pull_request",
			Description: "Create pull request (requires gh CLI installed and authenticated)",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"repo_path": map[string]any{
						"type":        "string",
						"description": "Path to git repository",
						"default":     ".",
					},
					"base": map[string]any{
						"type":        "string",
						"description": "Base branch for PR",
						"default":     "main",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "PR title",
					},
					"body": map[string]any{
						"type":        "string",
						"description": "PR description",
					},
					"coverage_stats": map[string]any{
						"type":        "object",
						"description": "Coverage metrics to include in PR",
					},
				},
				"required": []string{"title"},
			},
		},
	}
}

// registerBuiltinTools registers all built-in tool handlers
func (s *StdioServer) registerBuiltinTools() {
	// Coverage tools
	s.RegisterTool("parse_jacoco_report", s.handleParseReportTool)
	s.RegisterTool("generate_tests", s.handleGenerateTestsTool)
	s.RegisterTool("get_coverage_summary", s.handleCoverageSummaryTool)
	s.RegisterTool("write_test_file", s.handleWriteTestFileTool)

	// Git automation tools
	s.RegisterTool("git_status", s.handleGitStatusTool)
	s.RegisterTool("git_add_all", s.handleGitAddAllTool)
	s.RegisterTool("git_commit", s.handleGitCommitTool)
	s.RegisterTool("git_push", s.handleGitPushTool)
	s.RegisterTool("git_pull_request", s.handleGitPullRequestTool)
}
