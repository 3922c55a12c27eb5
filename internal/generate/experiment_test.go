package generate

import (
	"context"
	"strings"
	"testing"

	"linefix/internal/artifact"
	"linefix/internal/heuristics"
	"linefix/internal/patch"
	"linefix/internal/prompt"
)

type echoRunner struct{}

func (echoRunner) Generate(ctx context.Context, p string) (string, error) {
	return "fixed: " + p[:20], nil
}

func testBug() *patch.BugRecord {
	return &patch.BugRecord{
		Project: "proj",
		BugID:   "3",
		SingleLineChange: patch.SingleLineChange{
			File:        "pkg/core.py",
			DeletedLine: "return x - 1",
			AddedLine:   "return x + 1",
		},
		Files: []patch.FileChange{{
			Path:               "pkg/core.py",
			FileName:           "core.py",
			BuggyLineLocations: []int{2},
			ChangedFunctions: []patch.FunctionChange{{
				Name:   "add",
				Before: "def add(a, b):\n    return x - 1",
				After:  "def add(a, b):\n    return x + 1",
			}},
		}},
	}
}

func TestFunctionCode(t *testing.T) {
	code, line, err := FunctionCode(testBug())
	if err != nil {
		t.Fatalf("FunctionCode: %v", err)
	}
	if !strings.HasPrefix(code, "def add") || line != 2 {
		t.Errorf("got code %q line %d", code, line)
	}

	bare := testBug()
	bare.Files[0].ChangedFunctions = nil
	if _, _, err := FunctionCode(bare); err == nil {
		t.Error("expected error for record without changed functions")
	}
}

func TestRunBaseline(t *testing.T) {
	l := artifact.Layout{Root: t.TempDir()}
	path, err := RunBaseline(context.Background(), echoRunner{}, l, testBug(), Options{Samples: 2, Workers: 1})
	if err != nil {
		t.Fatalf("RunBaseline: %v", err)
	}

	got, err := artifact.ReadJSON[BaselineOutput](path)
	if err != nil || got == nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !got.BaselineOnly || got.Project != "proj" || got.BugID != "3" {
		t.Errorf("unexpected header: %+v", got)
	}
	if len(got.Outputs) != len(prompt.BaselineStyles) {
		t.Fatalf("got %d styles, want %d", len(got.Outputs), len(prompt.BaselineStyles))
	}
	for _, style := range prompt.BaselineStyles {
		if len(got.Outputs[style]) != 2 {
			t.Errorf("style %s: got %d samples, want 2", style, len(got.Outputs[style]))
		}
	}
}

func TestRunHeuristic(t *testing.T) {
	l := artifact.Layout{Root: t.TempDir()}
	h := heuristics.Result{
		OriginalBug: *testBug(),
		Heuristic:   heuristics.Value{Name: heuristics.CFNModified, Value: []string{"add"}},
	}

	path, err := RunHeuristic(context.Background(), echoRunner{}, l, h, Options{Samples: 2, Workers: 1})
	if err != nil {
		t.Fatalf("RunHeuristic: %v", err)
	}
	if !strings.Contains(path, "cfn-modified") {
		t.Errorf("output path %s not under heuristic type dir", path)
	}

	got, err := artifact.ReadJSON[HeuristicOutput](path)
	if err != nil || got == nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Heuristic.Type != "cfn-modified" || got.Heuristic.Name != heuristics.CFNModified {
		t.Errorf("heuristic info: %+v", got.Heuristic)
	}
	if len(got.Outputs) != 2 {
		t.Errorf("got %d samples, want 2", len(got.Outputs))
	}
	if got.OriginalBug.BugID != "3" {
		t.Errorf("original bug not carried: %+v", got.OriginalBug)
	}
}
