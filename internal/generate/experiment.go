package generate

import (
	"context"
	"fmt"
	"strings"

	"linefix/internal/artifact"
	"linefix/internal/heuristics"
	"linefix/internal/patch"
	"linefix/internal/prompt"
)

// Options bound one generation run.
type Options struct {
	Samples int
	Workers int
}

// BaselineOutput is the artifact written for one bug under
// outputs/baseline/<project>/: every prompt style's samples in one file.
type BaselineOutput struct {
	Project      string              `json:"project"`
	BugID        string              `json:"bug_id"`
	BaselineOnly bool                `json:"baseline_only"`
	Outputs      map[string][]string `json:"outputs"`
}

// HeuristicInfo names the localization hint an output was generated with.
type HeuristicInfo struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Value []string `json:"value"`
}

// HeuristicOutput is the artifact written for one bug under
// outputs/heuristics/<type>/<project>/.
type HeuristicOutput struct {
	Project     string          `json:"project"`
	BugID       string          `json:"bug_id"`
	Heuristic   HeuristicInfo   `json:"heuristic"`
	OriginalBug patch.BugRecord `json:"original_bug"`
	Outputs     []string        `json:"outputs"`
}

// FunctionCode picks the prompt inputs out of a bug record: the pre-fix body
// of the first changed function and the first buggy line location. Records
// mined without a named function cannot be prompted and are skipped.
func FunctionCode(bug *patch.BugRecord) (string, int, error) {
	if len(bug.Files) == 0 {
		return "", 0, fmt.Errorf("bug %s/%s: no files", bug.Project, bug.BugID)
	}
	file := bug.Files[0]
	if len(file.ChangedFunctions) == 0 {
		return "", 0, fmt.Errorf("bug %s/%s: no changed functions", bug.Project, bug.BugID)
	}
	code := file.ChangedFunctions[0].Before
	if code == "" {
		return "", 0, fmt.Errorf("bug %s/%s: empty function body", bug.Project, bug.BugID)
	}
	if len(file.BuggyLineLocations) == 0 {
		return "", 0, fmt.Errorf("bug %s/%s: no buggy line locations", bug.Project, bug.BugID)
	}
	return code, file.BuggyLineLocations[0], nil
}

// RunBaseline samples the model once per prompt style for one bug and writes
// the combined output artifact. Returns the written path.
func RunBaseline(ctx context.Context, r Runner, l artifact.Layout, bug *patch.BugRecord, opts Options) (string, error) {
	funcCode, buggyLine, err := FunctionCode(bug)
	if err != nil {
		return "", err
	}

	outputs := make(map[string][]string, len(prompt.BaselineStyles))
	for _, style := range prompt.BaselineStyles {
		p, err := prompt.Baseline(style, funcCode, buggyLine)
		if err != nil {
			return "", fmt.Errorf("bug %s/%s: %w", bug.Project, bug.BugID, err)
		}
		samples, err := Sample(ctx, r, p, opts.Samples, opts.Workers)
		if err != nil {
			return "", err
		}
		outputs[style] = samples
	}

	path := l.OutputFile("baseline", "", bug.Project, bug.BugID)
	out := BaselineOutput{
		Project:      bug.Project,
		BugID:        bug.BugID,
		BaselineOnly: true,
		Outputs:      outputs,
	}
	if err := artifact.WriteJSON(path, out); err != nil {
		return "", err
	}
	return path, nil
}

// RunHeuristic samples the model once for one extracted heuristic and writes
// the output artifact under the heuristic's type directory. Returns the
// written path.
func RunHeuristic(ctx context.Context, r Runner, l artifact.Layout, h heuristics.Result, opts Options) (string, error) {
	bug := h.OriginalBug
	if len(bug.Files) == 0 {
		return "", fmt.Errorf("bug %s/%s: no files", bug.Project, bug.BugID)
	}
	buggyLine := 0
	if locs := bug.Files[0].BuggyLineLocations; len(locs) > 0 {
		buggyLine = locs[0]
	}

	p, err := prompt.Heuristic(prompt.HeuristicInput{
		Name:        h.Heuristic.Name,
		Values:      h.Heuristic.Value,
		BuggyLine:   buggyLine,
		DeletedLine: bug.SingleLineChange.DeletedLine,
		AddedLine:   bug.SingleLineChange.AddedLine,
	})
	if err != nil {
		return "", fmt.Errorf("bug %s/%s: %w", bug.Project, bug.BugID, err)
	}

	samples, err := Sample(ctx, r, p, opts.Samples, opts.Workers)
	if err != nil {
		return "", err
	}

	path := l.OutputFile("heuristics", h.Heuristic.Name, bug.Project, bug.BugID)
	out := HeuristicOutput{
		Project: bug.Project,
		BugID:   bug.BugID,
		Heuristic: HeuristicInfo{
			Name:  h.Heuristic.Name,
			Type:  strings.ToLower(h.Heuristic.Name),
			Value: h.Heuristic.Value,
		},
		OriginalBug: bug,
		Outputs:     samples,
	}
	if err := artifact.WriteJSON(path, out); err != nil {
		return "", err
	}
	return path, nil
}
