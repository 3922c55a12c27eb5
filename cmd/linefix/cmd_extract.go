package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"linefix/internal/artifact"
	"linefix/internal/heuristics"
	"linefix/internal/logging"
	"linefix/internal/patch"
)

var extractFlags struct {
	workspaceDir string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract localization heuristics via the GitHub API",
	Long: `For every mined bug under data/, fetches the fixing commit's file list and
the buggy file's source from GitHub, scans the source for function spans,
and writes FLN-all, FN-all, and CFN-modified heuristic artifacts under
heuristics/<type>/<project>/.

Set GITHUB_TOKEN (or github_token in the config) to raise the rate limit.
Bugs that fail to extract are reported and skipped.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractFlags.workspaceDir, "workspace", "", "Workspace directory (default from config)")
}

func runExtract(cmd *cobra.Command, _ []string) error {
	logger := logging.New("extract")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	layout := artifact.Layout{Root: firstNonEmpty(extractFlags.workspaceDir, cfg.WorkspaceDir)}

	client, err := heuristics.NewGitHubClient(cfg.GitHubToken,
		heuristics.WithTimeout(cfg.Timeout.Std()),
		heuristics.WithLogger(logging.New("github")),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	extracted, failed := 0, 0
	err = artifact.Walk(filepath.Join(layout.Root, "data"), func(project, path string) error {
		bug, err := artifact.ReadJSON[patch.BugRecord](path)
		if err != nil || bug == nil {
			logger.Warn("skipping unreadable record", "path", path, "error", err)
			failed++
			return nil
		}

		results, err := heuristics.Extract(ctx, client, *bug)
		if err != nil {
			logger.Warn("extraction failed", "project", bug.Project, "bug", bug.BugID, "error", err)
			failed++
			return nil
		}

		for name, res := range results {
			out := layout.HeuristicFile(name, bug.Project, bug.BugID)
			if err := artifact.WriteJSON(out, res); err != nil {
				return err
			}
		}
		logger.Info("extracted heuristics", "project", bug.Project, "bug", bug.BugID)
		extracted++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extracted heuristics for %d bugs (%d failed)\n", extracted, failed)
	return nil
}
