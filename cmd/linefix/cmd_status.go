package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"linefix/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show counts of mined bugs and stored results",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	bugs, err := st.CountBugs()
	if err != nil {
		return err
	}
	results, err := st.CountResults()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Store:   %s\n", cfg.StorePath)
	fmt.Fprintf(out, "Bugs:    %d\n", bugs)
	fmt.Fprintf(out, "Results: %d\n", results)
	if bugs == 0 {
		fmt.Fprintln(out, "Run 'linefix mine' to index a corpus.")
	}
	return nil
}
