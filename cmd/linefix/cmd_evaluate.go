package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"linefix/internal/artifact"
	"linefix/internal/evaluate"
	"linefix/internal/report"
	"linefix/internal/store"
)

var evaluateFlags struct {
	workspaceDir string
	format       string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score generated outputs against the expected fixes",
	Long: `Scores every output under outputs/ against the mined expected fix, writes
per-bug result artifacts and results/aggregated_results.json, records the
scores in the SQLite index, and prints the dataset-level report.`,
	RunE: runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVar(&evaluateFlags.workspaceDir, "workspace", "", "Workspace directory (default from config)")
	f.StringVar(&evaluateFlags.format, "format", "ascii", "Report format: ascii or markdown")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode, err := report.ParseMode(evaluateFlags.format)
	if err != nil {
		return err
	}
	layout := artifact.Layout{Root: firstNonEmpty(evaluateFlags.workspaceDir, cfg.WorkspaceDir)}

	sum, err := evaluate.EvaluateOutputs(layout)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	for _, r := range sum.Results {
		if _, err := st.SaveResult(&store.ResultRow{
			Project:    r.Project,
			BugID:      r.BugID,
			Experiment: r.Experiment,
			Style:      r.Style,
			Samples:    r.Result.TotalSamples,
			Correct:    r.Result.CorrectSamples,
			Accuracy:   r.Result.Accuracy,
		}); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if len(sum.Results) == 0 {
		fmt.Fprintln(out, "No outputs to evaluate. Run 'linefix generate' first.")
		return nil
	}

	fmt.Fprintln(out, report.Render(sum.Aggregate, mode))
	fmt.Fprintf(out, "\nEvaluated %d results (%d skipped). Aggregate written to %s\n",
		len(sum.Results), len(sum.Skips), layout.AggregateFile())
	for _, s := range sum.Skips {
		fmt.Fprintf(out, "  skipped %s: %s\n", s.Path, s.Reason)
	}
	return nil
}
