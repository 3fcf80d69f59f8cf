package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/oxhq/covgen/models"
)

func newTestServer(t *testing.T) *StdioServer {
	t.Helper()
	config := DefaultConfig()
	config.DatabaseURL = "skip"

	server, err := NewStdioServer(config)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	// Keep info-level notifications off the test output
	server.logLevel = LogLevelError
	return server
}

// TestNewStdioServer tests server creation
func TestNewStdioServer(t *testing.T) {
	server := newTestServer(t)

	if server.config.DatabaseURL != "skip" {
		t.Error("Config not set properly")
	}

	if server.db != nil {
		t.Error("Database should be skipped")
	}

	defs := GetToolDefinitions()
	if len(server.tools) != len(defs) {
		t.Errorf("Expected %d registered tools, got %d", len(defs), len(server.tools))
	}
	for _, def := range defs {
		if _, ok := server.tools[def.Name]; !ok {
			t.Errorf("Tool %s defined but not registered", def.Name)
		}
	}
}

// TestNewStdioServerWithDatabase tests server creation with database
func TestNewStdioServerWithDatabase(t *testing.T) {
	config := DefaultConfig()
	config.DatabaseURL = ":memory:"

	server, err := NewStdioServer(config)
	if err != nil {
		t.Fatalf("Failed to create server with database: %v", err)
	}
	defer server.Close()

	if server.db == nil {
		t.Fatal("Database should be initialized")
	}
	if server.session == nil {
		t.Fatal("Session should be created")
	}

	var session models.Session
	if err := server.db.First(&session, "id = ?", server.session.ID).Error; err != nil {
		t.Fatalf("Session not persisted: %v", err)
	}
}

func TestHandleInitialize(t *testing.T) {
	server := newTestServer(t)

	params, _ := json.Marshal(map[string]any{
		"protocolVersion": "2024-11-05",
		"clientInfo":      map[string]any{"name": "test-client", "version": "1.0"},
	})
	resp := server.handleRequest(Request{
		JSONRPC: JSONRPCVersion,
		ID:      1,
		Method:  "initialize",
		Params:  params,
	})

	if resp.Error != nil {
		t.Fatalf("Initialize failed: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("Result should be a map, got %T", resp.Result)
	}
	info, ok := result["serverInfo"].(map[string]any)
	if !ok {
		t.Fatal("Missing serverInfo")
	}
	if info["name"] != "covgen" {
		t.Errorf("Unexpected server name: %v", info["name"])
	}
}

func TestHandlePing(t *testing.T) {
	server := newTestServer(t)

	resp := server.handleRequest(Request{JSONRPC: JSONRPCVersion, ID: 7, Method: "ping"})
	if resp.Error != nil {
		t.Fatalf("Ping failed: %v", resp.Error)
	}
	if resp.ID != 7 {
		t.Errorf("Response ID mismatch: %v", resp.ID)
	}
}

func TestHandleListTools(t *testing.T) {
	server := newTestServer(t)

	resp := server.handleRequest(Request{JSONRPC: JSONRPCVersion, ID: 2, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("tools/list failed: %v", resp.Error)
	}

	result := resp.Result.(map[string]any)
	tools, ok := result["tools"].([]ToolDefinition)
	if !ok {
		t.Fatalf("Unexpected tools payload type: %T", result["tools"])
	}
	if len(tools) != 9 {
		t.Errorf("Expected 9 tools, got %d", len(tools))
	}

	names := make(map[string]bool)
	for _, tool := range tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"parse_jacoco_report", "generate_tests", "get_coverage_summary",
		"write_test_file", "git_status", "git_add_all", "git_commit",
		"git_push", "git_pull_request",
	} {
		if !names[want] {
			t.Errorf("Missing tool definition: %s", want)
		}
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	server := newTestServer(t)

	resp := server.handleRequest(Request{JSONRPC: JSONRPCVersion, ID: 3, Method: "bogus/method"})
	if resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != MethodNotFound {
		t.Errorf("Expected MethodNotFound, got %d", resp.Error.Code)
	}
}

func TestHandleCallUnknownTool(t *testing.T) {
	server := newTestServer(t)

	params, _ := json.Marshal(map[string]any{"name": "nope", "arguments": map[string]any{}})
	resp := server.handleRequest(Request{
		JSONRPC: JSONRPCVersion, ID: 4, Method: "tools/call", Params: params,
	})
	if resp.Error == nil || resp.Error.Code != MethodNotFound {
		t.Fatalf("Expected MethodNotFound for unknown tool, got %+v", resp.Error)
	}
}

func TestHandleCallToolInvalidParams(t *testing.T) {
	server := newTestServer(t)

	resp := server.handleRequest(Request{
		JSONRPC: JSONRPCVersion, ID: 5, Method: "tools/call",
		Params: json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != InvalidParams {
		t.Fatalf("Expected InvalidParams, got %+v", resp.Error)
	}
}

func TestHandleInitializedNotification(t *testing.T) {
	server := newTestServer(t)

	resp := server.handleRequest(Request{JSONRPC: JSONRPCVersion, Method: "initialized"})
	if resp.Result != nil || resp.Error != nil {
		t.Error("Notification should produce an empty response")
	}
}

func TestSendResponseWritesSingleLine(t *testing.T) {
	server := newTestServer(t)

	var buf bytes.Buffer
	server.writer = bufio.NewWriter(&buf)

	server.sendResponse(SuccessResponse(1, map[string]any{"ok": true}))

	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Error("Response should end with a newline")
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("Response should be a single line, got %q", out)
	}

	var resp Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if resp.JSONRPC != JSONRPCVersion {
		t.Errorf("Missing jsonrpc version in %q", out)
	}
}

func TestRegisterToolOverride(t *testing.T) {
	server := newTestServer(t)

	server.RegisterTool("custom", func(params json.RawMessage) (any, error) {
		return map[string]any{"custom": true}, nil
	})

	params, _ := json.Marshal(map[string]any{"name": "custom"})
	resp := server.handleRequest(Request{
		JSONRPC: JSONRPCVersion, ID: 6, Method: "tools/call", Params: params,
	})
	if resp.Error != nil {
		t.Fatalf("Custom tool call failed: %v", resp.Error)
	}
	if result := resp.Result.(map[string]any); result["custom"] != true {
		t.Errorf("Unexpected custom tool result: %v", result)
	}
}

func TestCloseEndsSession(t *testing.T) {
	config := DefaultConfig()
	config.DatabaseURL = ":memory:"

	server, err := NewStdioServer(config)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	// Grab a handle before Close shuts the pool down
	db := server.db
	sessionID := server.session.ID

	var session models.Session
	if err := db.First(&session, "id = ?", sessionID).Error; err != nil {
		t.Fatalf("Session lookup failed: %v", err)
	}
	if session.EndedAt != nil {
		t.Error("Session should still be open")
	}

	if err := server.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
