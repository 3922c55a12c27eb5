// Package evaluate turns per-sample verdicts into per-bug and dataset-level
// statistics.
package evaluate

// ExperimentResult is the per-(bug, style) outcome: one verdict per sample,
// in sample order, plus the derived counters.
type ExperimentResult struct {
	TotalSamples      int     `json:"total_samples"`
	CorrectSamples    int     `json:"correct_samples"`
	Accuracy          float64 `json:"accuracy"`
	IndividualResults []bool  `json:"individual_results"`
}

// BugResult keys one ExperimentResult by bug, experiment and style. For flat
// (heuristic) experiments, Style is empty.
type BugResult struct {
	Project     string           `json:"project"`
	BugID       string           `json:"bug_id"`
	Experiment  string           `json:"experiment"`
	Style       string           `json:"style,omitempty"`
	ExpectedFix string           `json:"expected_fix"`
	Result      ExperimentResult `json:"result"`
}

// AggregateReport is the dataset-level roll-up for one (experiment, style)
// group. OverallAccuracy is sample-weighted: a bug with more samples
// contributes proportionally more. All ratios are 0 when the denominator is 0.
type AggregateReport struct {
	TotalBugs                 int     `json:"total_bugs"`
	TotalSamples              int     `json:"total_samples"`
	TotalCorrect              int     `json:"total_correct"`
	OverallAccuracy           float64 `json:"overall_accuracy"`
	BugsWithAtLeastOneCorrect int     `json:"bugs_with_at_least_one_correct"`
	BugsSolvedRate            float64 `json:"bugs_solved_rate"`
}
