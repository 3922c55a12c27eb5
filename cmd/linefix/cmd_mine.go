package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"linefix/internal/artifact"
	"linefix/internal/corpus"
	"linefix/internal/logging"
	"linefix/internal/store"
)

var mineFlags struct {
	corpusDir string
	outDir    string
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine single-line bugs from a project corpus",
	Long: `Walks projects/<name>/bugs/<id> under the corpus directory, parses each
bug.info and bug_patch.txt, keeps the bugs whose patch changes exactly one
code line in one non-test Python file, and writes one JSON record per bug
under data/<project>/. Mined bugs are also indexed in the SQLite store.`,
	RunE: runMine,
}

func init() {
	f := mineCmd.Flags()
	f.StringVar(&mineFlags.corpusDir, "corpus", "", "Corpus directory (default from config)")
	f.StringVar(&mineFlags.outDir, "out", "", "Workspace directory for data/ (default from config)")
}

func runMine(cmd *cobra.Command, _ []string) error {
	logger := logging.New("mine")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	corpusDir := firstNonEmpty(mineFlags.corpusDir, cfg.CorpusDir)
	layout := artifact.Layout{Root: firstNonEmpty(mineFlags.outDir, cfg.WorkspaceDir)}

	result, err := corpus.New(corpusDir).Mine()
	if err != nil {
		return fmt.Errorf("mine corpus: %w", err)
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	for i := range result.Records {
		rec := &result.Records[i]
		if err := artifact.WriteJSON(layout.BugFile(rec.Project, rec.BugID), rec); err != nil {
			return err
		}
		if _, err := st.SaveBug(rec); err != nil {
			return err
		}
		logger.Info("mined bug", "project", rec.Project, "bug", rec.BugID,
			"file", rec.SingleLineChange.File)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Mined %d single-line bugs (%d skipped)\n", len(result.Records), len(result.Skips))
	for _, s := range result.Skips {
		fmt.Fprintf(out, "  skipped %s/bug_%s: %s\n", s.Project, s.BugID, s.Reason)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
