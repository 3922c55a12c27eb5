package evaluate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"linefix/internal/artifact"
	"linefix/internal/generate"
	"linefix/internal/logging"
)

// Skip records one output file that could not be scored and why. Skipped
// files never fail the run.
type Skip struct {
	Path   string
	Reason string
}

// RunSummary is everything one evaluation pass produced.
type RunSummary struct {
	Results   []BugResult
	Skips     []Skip
	Aggregate map[string]map[string]AggregateReport
}

// baselineResult is the per-bug artifact for a baseline run: one result per
// prompt style.
type baselineResult struct {
	Project     string                      `json:"project"`
	BugID       string                      `json:"bug_id"`
	Experiment  string                      `json:"experiment"`
	ExpectedFix string                      `json:"expected_fix"`
	Results     map[string]ExperimentResult `json:"results"`
}

// heuristicResult is the per-bug artifact for a heuristic run.
type heuristicResult struct {
	Project     string                 `json:"project"`
	BugID       string                 `json:"bug_id"`
	Experiment  string                 `json:"experiment"`
	Heuristic   generate.HeuristicInfo `json:"heuristic"`
	ExpectedFix string                 `json:"expected_fix"`
	Results     ExperimentResult       `json:"results"`
}

// EvaluateOutputs scores every output artifact under the layout root against
// the expected fix in the corresponding bug record, writes per-bug result
// artifacts plus the aggregate, and returns the summary. A broken or
// incomplete output file is skipped, not fatal.
func EvaluateOutputs(l artifact.Layout) (*RunSummary, error) {
	logger := logging.New("evaluate")
	sum := &RunSummary{}

	baselineDir := filepath.Join(l.Root, "outputs", "baseline")
	err := artifact.Walk(baselineDir, func(project, path string) error {
		results, err := evalBaselineFile(l, path)
		if err != nil {
			logger.Warn("skipping output", "path", path, "error", err)
			sum.Skips = append(sum.Skips, Skip{Path: path, Reason: err.Error()})
			return nil
		}
		sum.Results = append(sum.Results, results...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, expType := range heuristicTypes(filepath.Join(l.Root, "outputs", "heuristics")) {
		dir := filepath.Join(l.Root, "outputs", "heuristics", expType)
		err := artifact.Walk(dir, func(project, path string) error {
			result, err := evalHeuristicFile(l, path, expType)
			if err != nil {
				logger.Warn("skipping output", "path", path, "error", err)
				sum.Skips = append(sum.Skips, Skip{Path: path, Reason: err.Error()})
				return nil
			}
			sum.Results = append(sum.Results, *result)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sum.Aggregate = Aggregate(sum.Results)
	if len(sum.Results) > 0 {
		if err := artifact.WriteJSON(l.AggregateFile(), sum.Aggregate); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// expectedFix loads the mined record for an output file and returns the
// added line samples are scored against.
func expectedFix(l artifact.Layout, project, bugID string) (string, error) {
	rec, err := artifact.ReadJSON[recordEnvelope](l.BugFile(project, bugID))
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", fmt.Errorf("bug data not found for %s/bug_%s", project, bugID)
	}
	if rec.SingleLineChange.Added == "" {
		return "", fmt.Errorf("no expected fix for %s/bug_%s", project, bugID)
	}
	return rec.SingleLineChange.Added, nil
}

// recordEnvelope reads just the scoring-relevant corner of a bug artifact.
type recordEnvelope struct {
	SingleLineChange struct {
		Added string `json:"added"`
	} `json:"single_line_change"`
}

func evalBaselineFile(l artifact.Layout, path string) ([]BugResult, error) {
	out, err := artifact.ReadJSON[generate.BaselineOutput](path)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Outputs) == 0 {
		return nil, fmt.Errorf("no outputs in %s", filepath.Base(path))
	}

	expected, err := expectedFix(l, out.Project, out.BugID)
	if err != nil {
		return nil, err
	}

	styles := make([]string, 0, len(out.Outputs))
	for s := range out.Outputs {
		styles = append(styles, s)
	}
	sort.Strings(styles)

	perStyle := make(map[string]ExperimentResult, len(styles))
	var results []BugResult
	for _, style := range styles {
		samples := out.Outputs[style]
		if len(samples) == 0 {
			continue
		}
		r := Score(samples, expected)
		perStyle[style] = r
		results = append(results, BugResult{
			Project:     out.Project,
			BugID:       out.BugID,
			Experiment:  "baseline",
			Style:       style,
			ExpectedFix: expected,
			Result:      r,
		})
	}

	art := baselineResult{
		Project:     out.Project,
		BugID:       out.BugID,
		Experiment:  "baseline",
		ExpectedFix: expected,
		Results:     perStyle,
	}
	if err := artifact.WriteJSON(l.ResultFile("baseline", out.Project, out.BugID), art); err != nil {
		return nil, err
	}
	return results, nil
}

func evalHeuristicFile(l artifact.Layout, path, expType string) (*BugResult, error) {
	out, err := artifact.ReadJSON[generate.HeuristicOutput](path)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Outputs) == 0 {
		return nil, fmt.Errorf("no outputs in %s", filepath.Base(path))
	}

	expected, err := expectedFix(l, out.Project, out.BugID)
	if err != nil {
		return nil, err
	}

	r := Score(out.Outputs, expected)
	art := heuristicResult{
		Project:     out.Project,
		BugID:       out.BugID,
		Experiment:  expType,
		Heuristic:   out.Heuristic,
		ExpectedFix: expected,
		Results:     r,
	}
	if err := artifact.WriteJSON(l.ResultFile(expType, out.Project, out.BugID), art); err != nil {
		return nil, err
	}

	return &BugResult{
		Project:     out.Project,
		BugID:       out.BugID,
		Experiment:  expType,
		ExpectedFix: expected,
		Result:      r,
	}, nil
}

// heuristicTypes lists the experiment subdirectories present under the
// heuristics outputs root, sorted.
func heuristicTypes(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var types []string
	for _, e := range entries {
		if e.IsDir() {
			types = append(types, e.Name())
		}
	}
	sort.Strings(types)
	return types
}
