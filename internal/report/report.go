// Package report renders dataset-level evaluation summaries and persists
// the aggregate artifact.
package report

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"linefix/internal/artifact"
	"linefix/internal/evaluate"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps a --format flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "ascii":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return ASCII, fmt.Errorf("unknown format %q (want ascii or markdown)", s)
	}
}

// Render lays out one table over the aggregated reports: a row per
// experiment/style pair, in sorted order, with styleless experiments shown
// as a single row.
func Render(agg map[string]map[string]evaluate.AggregateReport, mode Mode) string {
	w := table.NewWriter()
	if mode == ASCII {
		w.SetStyle(table.StyleLight)
	}

	w.AppendHeader(table.Row{"Experiment", "Style", "Bugs", "Samples", "Correct", "Accuracy", "Solved"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	experiments := make([]string, 0, len(agg))
	for name := range agg {
		experiments = append(experiments, name)
	}
	sort.Strings(experiments)

	for _, exp := range experiments {
		styles := make([]string, 0, len(agg[exp]))
		for s := range agg[exp] {
			styles = append(styles, s)
		}
		sort.Strings(styles)

		for _, style := range styles {
			r := agg[exp][style]
			shown := style
			if shown == "" {
				shown = "-"
			}
			w.AppendRow(table.Row{
				exp, shown,
				r.TotalBugs, r.TotalSamples, r.TotalCorrect,
				fmt.Sprintf("%.3f", r.OverallAccuracy),
				fmt.Sprintf("%.3f", r.BugsSolvedRate),
			})
		}
	}

	if mode == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// WriteAggregate persists the aggregate artifact at
// results/aggregated_results.json under the layout root.
func WriteAggregate(l artifact.Layout, agg map[string]map[string]evaluate.AggregateReport) (string, error) {
	path := l.AggregateFile()
	if err := artifact.WriteJSON(path, agg); err != nil {
		return "", err
	}
	return path, nil
}
