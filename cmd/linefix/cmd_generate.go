package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"linefix/internal/artifact"
	"linefix/internal/generate"
	"linefix/internal/heuristics"
	"linefix/internal/logging"
	"linefix/internal/patch"
)

var generateFlags struct {
	workspaceDir string
	model        string
	samples      int
	workers      int
	experiment   string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Sample the model for repair candidates",
	Long: `Builds prompts for every mined bug and samples a local ollama model.

--experiment baseline prompts each bug in three styles (Instruction,
InstructionLabel, InstructionMask) from the buggy function body.
--experiment heuristics prompts from the extracted localization hints
under heuristics/; run 'linefix extract' first.

Outputs land under outputs/, one JSON file per bug. Bugs whose records
cannot be prompted (no named function) are skipped.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateFlags.workspaceDir, "workspace", "", "Workspace directory (default from config)")
	f.StringVar(&generateFlags.model, "model", "", "Ollama model (default from config)")
	f.IntVar(&generateFlags.samples, "samples", 0, "Samples per prompt (default from config)")
	f.IntVar(&generateFlags.workers, "workers", 0, "Concurrent generations (default from config)")
	f.StringVar(&generateFlags.experiment, "experiment", "baseline", "Experiment to run: baseline or heuristics")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	layout := artifact.Layout{Root: firstNonEmpty(generateFlags.workspaceDir, cfg.WorkspaceDir)}

	runner := generate.NewOllamaRunner(firstNonEmpty(generateFlags.model, cfg.Model))
	runner.Timeout = cfg.Timeout.Std()
	runner.MaxRetries = cfg.Retries

	opts := generate.Options{Samples: cfg.Samples, Workers: cfg.Workers}
	if generateFlags.samples > 0 {
		opts.Samples = generateFlags.samples
	}
	if generateFlags.workers > 0 {
		opts.Workers = generateFlags.workers
	}

	switch generateFlags.experiment {
	case "baseline":
		return generateBaseline(cmd, runner, layout, opts)
	case "heuristics":
		return generateHeuristics(cmd, runner, layout, opts)
	default:
		return fmt.Errorf("unknown experiment %q (want baseline or heuristics)", generateFlags.experiment)
	}
}

func generateBaseline(cmd *cobra.Command, runner generate.Runner, layout artifact.Layout, opts generate.Options) error {
	logger := logging.New("generate")
	ctx := cmd.Context()

	done, failed := 0, 0
	err := artifact.Walk(filepath.Join(layout.Root, "data"), func(project, path string) error {
		bug, err := artifact.ReadJSON[patch.BugRecord](path)
		if err != nil || bug == nil {
			logger.Warn("skipping unreadable record", "path", path, "error", err)
			failed++
			return nil
		}
		out, err := generate.RunBaseline(ctx, runner, layout, bug, opts)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			logger.Warn("generation failed", "project", bug.Project, "bug", bug.BugID, "error", err)
			failed++
			return nil
		}
		logger.Info("generated", "project", bug.Project, "bug", bug.BugID, "output", out)
		done++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated baseline outputs for %d bugs (%d failed)\n", done, failed)
	return nil
}

func generateHeuristics(cmd *cobra.Command, runner generate.Runner, layout artifact.Layout, opts generate.Options) error {
	logger := logging.New("generate")
	ctx := cmd.Context()

	done, failed := 0, 0
	for _, name := range heuristics.Names {
		dir := filepath.Join(layout.Root, "heuristics", strings.ToLower(name))
		err := artifact.Walk(dir, func(project, path string) error {
			h, err := artifact.ReadJSON[heuristics.Result](path)
			if err != nil || h == nil {
				logger.Warn("skipping unreadable heuristic", "path", path, "error", err)
				failed++
				return nil
			}
			out, err := generate.RunHeuristic(ctx, runner, layout, *h, opts)
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				logger.Warn("generation failed", "path", path, "error", err)
				failed++
				return nil
			}
			logger.Info("generated", "heuristic", name, "output", out)
			done++
			return nil
		})
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated heuristic outputs for %d files (%d failed)\n", done, failed)
	return nil
}
