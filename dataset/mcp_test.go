package dataset

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/axground/axtree"
)

var testMCPImpl = &mcp.Implementation{Name: "axground-test", Version: "0.1.0"}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	tools := &MCPTools{Pipeline: axtree.New(axtree.Config{})}
	srv := mcp.NewServer(testMCPImpl, nil)
	tools.Register(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if result.IsError {
		t.Fatalf("CallTool(%s) returned a tool error: %+v", name, result.Content)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_Roles(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "axground_roles", map[string]any{})

	var resp struct {
		Roles []string `json:"roles"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Roles) == 0 {
		t.Fatal("expected a non-empty role vocabulary")
	}
	seen := map[string]bool{}
	for _, r := range resp.Roles {
		seen[r] = true
	}
	for _, want := range []string{"button", "link", "checkbox", "desktop"} {
		if !seen[want] {
			t.Errorf("missing role %q", want)
		}
	}
}

func TestMCP_Filter(t *testing.T) {
	session := mcpSession(t)

	root := t.TempDir()
	dir, err := WritePage(root, &Page{ID: "example_com", Tree: testTree()})
	if err != nil {
		t.Fatalf("WritePage: %v", err)
	}

	text := mcpCallTool(t, session, "axground_filter", map[string]any{"dir": dir})

	var report Report
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", report.SampleCount)
	}
	if report.ImageFilename != CroppedScreenshotFilename {
		t.Errorf("ImageFilename = %q, want default %q", report.ImageFilename, CroppedScreenshotFilename)
	}
	if _, err := LoadReport(filepath.Join(dir, FilteredFilename)); err != nil {
		t.Errorf("filtered.json not written: %v", err)
	}
}

func TestMCP_Clean(t *testing.T) {
	session := mcpSession(t)

	root := t.TempDir()
	writeTestPage(t, root, "kept_com", 2, true)
	writeTestPage(t, root, "empty_com", 0, true)

	text := mcpCallTool(t, session, "axground_clean", map[string]any{"root": root})

	var resp struct {
		Removed []string `json:"removed"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Removed) != 1 || resp.Removed[0] != "empty_com" {
		t.Errorf("removed = %v, want [empty_com]", resp.Removed)
	}
}

func TestMCP_FilterBadDir(t *testing.T) {
	session := mcpSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "axground_filter",
		Arguments: map[string]any{"dir": filepath.Join(t.TempDir(), "missing")},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected a tool error for a missing page directory")
	}
}
