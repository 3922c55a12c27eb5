package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"linefix/internal/artifact"
	mcpserver "linefix/internal/mcp"
	"linefix/internal/patch"
	"linefix/internal/store"
)

func newTestServer(t *testing.T) *mcpserver.Server {
	t.Helper()
	root := t.TempDir()
	st, err := store.Open(filepath.Join(root, ".linefix", "index.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if _, err := st.SaveBug(&patch.BugRecord{
		Project: "proj",
		BugID:   "1",
		SingleLineChange: patch.SingleLineChange{
			File:        "pkg/core.py",
			DeletedLine: "return x - 1",
			AddedLine:   "return x + 1",
		},
	}); err != nil {
		t.Fatalf("SaveBug: %v", err)
	}

	return mcpserver.NewServer(st, artifact.Layout{Root: root})
}

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpserver.Server) *sdkmcp.ClientSession {
	t.Helper()
	t1, t2 := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer.Connect(ctx, t1, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	return session
}

func callTool(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any) map[string]any {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if res.IsError {
		for _, c := range res.Content {
			if tc, ok := c.(*sdkmcp.TextContent); ok {
				t.Fatalf("CallTool(%s) returned error: %s", name, tc.Text)
			}
		}
		t.Fatalf("CallTool(%s) returned error", name)
	}
	result := make(map[string]any)
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			if err := json.Unmarshal([]byte(tc.Text), &result); err != nil {
				t.Fatalf("unmarshal tool result: %v (text: %s)", err, tc.Text)
			}
			return result
		}
	}
	t.Fatalf("no text content in tool result")
	return nil
}

func TestServer_ToolDiscovery(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	want := map[string]bool{
		"lookup_bug":       false,
		"check_fix":        false,
		"evaluate_outputs": false,
	}
	for _, tool := range tools.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("tool %q not found in ListTools", name)
		}
	}
}

func TestServer_LookupBug(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	res := callTool(t, ctx, session, "lookup_bug", map[string]any{
		"project": "proj", "bug_id": "1",
	})
	if res["found"] != true {
		t.Fatalf("expected found=true, got %v", res)
	}
	record, ok := res["record"].(map[string]any)
	if !ok {
		t.Fatalf("missing record: %v", res)
	}
	change := record["single_line_change"].(map[string]any)
	if change["added"] != "return x + 1" {
		t.Errorf("unexpected record: %v", record)
	}

	res = callTool(t, ctx, session, "lookup_bug", map[string]any{
		"project": "proj", "bug_id": "404",
	})
	if res["found"] != false {
		t.Errorf("expected found=false for unknown bug, got %v", res)
	}
}

func TestServer_CheckFix(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	res := callTool(t, ctx, session, "check_fix", map[string]any{
		"generated": "```python\nreturn x + 1\n```",
		"expected":  "return x + 1",
	})
	if res["correct"] != true {
		t.Errorf("expected correct verdict, got %v", res)
	}
	if res["normalized_generated"] != "return x + 1" {
		t.Errorf("normalized_generated = %v", res["normalized_generated"])
	}

	res = callTool(t, ctx, session, "check_fix", map[string]any{
		"generated": "return x - 1",
		"expected":  "return x + 1",
	})
	if res["correct"] != false {
		t.Errorf("expected incorrect verdict, got %v", res)
	}
	if res["divergences"] == nil {
		t.Errorf("expected divergences for a near miss, got %v", res)
	}
}

func TestServer_EvaluateOutputs_EmptyWorkspace(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	res := callTool(t, ctx, session, "evaluate_outputs", map[string]any{})
	if res["evaluated"] != float64(0) || res["skipped"] != float64(0) {
		t.Errorf("expected empty evaluation, got %v", res)
	}
}
