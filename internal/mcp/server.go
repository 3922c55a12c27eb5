// Package mcp exposes the mined corpus and the fix checker as MCP tools, so
// an agent can look up bugs, test candidate fixes, and re-run the aggregation
// without shelling out.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"linefix/internal/artifact"
	"linefix/internal/evaluate"
	"linefix/internal/match"
	"linefix/internal/patch"
	"linefix/internal/store"
)

// Server wraps the MCP SDK server around the bug index and workspace layout.
type Server struct {
	MCPServer *sdkmcp.Server

	store  store.Store
	layout artifact.Layout
}

// NewServer creates an MCP server with bug lookup, fix checking, and
// evaluation tools.
func NewServer(st store.Store, layout artifact.Layout) *Server {
	s := &Server{store: st, layout: layout}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "linefix", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP over the given transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context, t sdkmcp.Transport) error {
	return s.MCPServer.Run(ctx, t)
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "lookup_bug",
		Description: "Look up a mined single-line bug by project and bug id. Returns the full record: changed functions, buggy line locations, and the expected fix.",
	}, s.handleLookupBug)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "check_fix",
		Description: "Check whether a candidate fix matches the expected line. Returns the verdict, both normalized forms, and where they diverge.",
	}, s.handleCheckFix)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "evaluate_outputs",
		Description: "Score every generated output in the workspace against the mined expected fixes and return the aggregate report.",
	}, s.handleEvaluateOutputs)
}

// --- Tool input/output types ---

type lookupBugInput struct {
	Project string `json:"project" jsonschema:"project name (GitHub owner/repo short name)"`
	BugID   string `json:"bug_id" jsonschema:"numeric bug id within the project"`
}

type lookupBugOutput struct {
	Found  bool             `json:"found"`
	Record *patch.BugRecord `json:"record,omitempty"`
}

type checkFixInput struct {
	Generated string `json:"generated" jsonschema:"candidate fix, raw model output is fine"`
	Expected  string `json:"expected" jsonschema:"expected fixed line"`
}

type checkFixOutput struct {
	Correct             bool               `json:"correct"`
	NormalizedGenerated string             `json:"normalized_generated"`
	NormalizedExpected  string             `json:"normalized_expected"`
	Divergences         []match.Divergence `json:"divergences,omitempty"`
}

type evaluateOutputsInput struct {
	// no parameters; the workspace root is fixed at server start
}

type evaluateOutputsOutput struct {
	Evaluated int                                            `json:"evaluated"`
	Skipped   int                                            `json:"skipped"`
	Aggregate map[string]map[string]evaluate.AggregateReport `json:"aggregate"`
}

// --- Tool handlers ---

func (s *Server) handleLookupBug(ctx context.Context, _ *sdkmcp.CallToolRequest, input lookupBugInput) (*sdkmcp.CallToolResult, lookupBugOutput, error) {
	if input.Project == "" || input.BugID == "" {
		return nil, lookupBugOutput{}, fmt.Errorf("project and bug_id are required")
	}
	row, err := s.store.GetBug(input.Project, input.BugID)
	if err != nil {
		return nil, lookupBugOutput{}, err
	}
	if row == nil {
		return nil, lookupBugOutput{Found: false}, nil
	}
	return nil, lookupBugOutput{Found: true, Record: row.Record}, nil
}

func (s *Server) handleCheckFix(ctx context.Context, _ *sdkmcp.CallToolRequest, input checkFixInput) (*sdkmcp.CallToolResult, checkFixOutput, error) {
	if input.Expected == "" {
		return nil, checkFixOutput{}, fmt.Errorf("expected is required")
	}
	out := checkFixOutput{
		Correct:             match.IsCorrect(input.Generated, input.Expected),
		NormalizedGenerated: match.Normalize(input.Generated),
		NormalizedExpected:  match.Normalize(input.Expected),
	}
	if !out.Correct {
		out.Divergences = match.Explain(input.Generated, input.Expected)
	}
	return nil, out, nil
}

func (s *Server) handleEvaluateOutputs(ctx context.Context, _ *sdkmcp.CallToolRequest, _ evaluateOutputsInput) (*sdkmcp.CallToolResult, evaluateOutputsOutput, error) {
	sum, err := evaluate.EvaluateOutputs(s.layout)
	if err != nil {
		return nil, evaluateOutputsOutput{}, err
	}
	return nil, evaluateOutputsOutput{
		Evaluated: len(sum.Results),
		Skipped:   len(sum.Skips),
		Aggregate: sum.Aggregate,
	}, nil
}
