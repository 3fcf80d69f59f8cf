package mcp

import "time"

// Config holds the MCP server configuration
type Config struct {
	// Database. Empty or "skip" disables persistence.
	DatabaseURL string

	// Default repository for git tools when a call omits repo_path.
	RepoPath string

	// Per-command timeout for git and gh invocations.
	GitTimeout time.Duration

	// Debug enables logging to stderr.
	Debug bool
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		DatabaseURL: "covgen.db",
		RepoPath:    ".",
		GitTimeout:  5 * time.Second,
		Debug:       false,
	}
}
