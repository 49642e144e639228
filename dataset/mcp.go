package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/axground/axtree"
)

// MCPTools exposes the dataset operations as MCP tools so agents can
// filter captures, package benchmarks and prune empty pages without
// shelling out to the CLI.
type MCPTools struct {
	Pipeline *axtree.Pipeline
	Logger   *slog.Logger
}

// Register registers all dataset tools on an MCP server.
func (t *MCPTools) Register(srv *mcp.Server) {
	if t.Logger == nil {
		t.Logger = slog.Default()
	}
	t.registerFilterTool(srv)
	t.registerBuildTool(srv)
	t.registerCleanTool(srv)
	t.registerRolesTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// Handlers return tool errors via SetError, not as a Go error: a non-nil
// error from the handler is a JSON-RPC protocol error.
func toolError(err error) (*mcp.CallToolResult, error) {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res, nil
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

// --- filter ---

type filterReq struct {
	Dir   string `json:"dir"`
	Image string `json:"image"`
}

func (t *MCPTools) registerFilterTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "axground_filter",
		Description: "Run the grounding pipeline over a page directory's ui_tree.json and write filtered.json.",
		InputSchema: inputSchema(map[string]any{
			"dir":   map[string]any{"type": "string", "description": "Page directory holding ui_tree.json"},
			"image": map[string]any{"type": "string", "description": "Image filename the report refers to (default screenshot_cropped.png)"},
		}, []string{"dir"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r filterReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return toolError(fmt.Errorf("axground_filter: invalid arguments: %w", err))
		}
		if r.Image == "" {
			r.Image = CroppedScreenshotFilename
		}
		report, err := FilterDir(t.Pipeline, r.Dir, r.Image)
		if err != nil {
			return toolError(err)
		}
		t.Logger.Info("filtered page", "dir", r.Dir, "samples", report.SampleCount)
		return toolJSON(report)
	})
}

// --- build ---

type buildReq struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (t *MCPTools) registerBuildTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "axground_build",
		Description: "Package filtered page directories into a benchmark: images/ plus test.jsonl.",
		InputSchema: inputSchema(map[string]any{
			"source": map[string]any{"type": "string", "description": "Dataset root holding page directories"},
			"target": map[string]any{"type": "string", "description": "Benchmark output directory"},
		}, []string{"source", "target"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r buildReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return toolError(fmt.Errorf("axground_build: invalid arguments: %w", err))
		}
		count, err := BuildBenchmark(r.Source, r.Target, t.Logger)
		if err != nil {
			return toolError(err)
		}
		return toolJSON(map[string]any{"pages": count, "target": r.Target})
	})
}

// --- clean ---

type cleanReq struct {
	Root string `json:"root"`
}

func (t *MCPTools) registerCleanTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "axground_clean",
		Description: "Remove page directories whose report holds no samples.",
		InputSchema: inputSchema(map[string]any{
			"root": map[string]any{"type": "string", "description": "Dataset root to prune"},
		}, []string{"root"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r cleanReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return toolError(fmt.Errorf("axground_clean: invalid arguments: %w", err))
		}
		removed, err := CleanEmpty(r.Root)
		if err != nil {
			return toolError(err)
		}
		t.Logger.Info("cleaned dataset", "root", r.Root, "removed", len(removed))
		return toolJSON(map[string]any{"removed": removed})
	})
}

// --- roles ---

func (t *MCPTools) registerRolesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "axground_roles",
		Description: "List the canonical element role vocabulary.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolJSON(map[string]any{"roles": axtree.CanonicalRoles()})
	})
}
