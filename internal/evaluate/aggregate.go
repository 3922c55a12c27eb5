package evaluate

// Aggregate folds per-bug results into one AggregateReport per
// (experiment, style) group. Baseline-type experiments carry a style label on
// each BugResult and therefore nest one level deeper; flat experiments group
// under the empty style key. Bugs with no outputs for a style never reach
// this function — they are skipped upstream, not zero-filled.
func Aggregate(results []BugResult) map[string]map[string]AggregateReport {
	grouped := make(map[string]map[string][]BugResult)
	for _, r := range results {
		byStyle, ok := grouped[r.Experiment]
		if !ok {
			byStyle = make(map[string][]BugResult)
			grouped[r.Experiment] = byStyle
		}
		byStyle[r.Style] = append(byStyle[r.Style], r)
	}

	out := make(map[string]map[string]AggregateReport, len(grouped))
	for experiment, byStyle := range grouped {
		reports := make(map[string]AggregateReport, len(byStyle))
		for style, group := range byStyle {
			reports[style] = rollUp(group)
		}
		out[experiment] = reports
	}
	return out
}

func rollUp(group []BugResult) AggregateReport {
	rep := AggregateReport{TotalBugs: len(group)}
	for _, r := range group {
		rep.TotalSamples += r.Result.TotalSamples
		rep.TotalCorrect += r.Result.CorrectSamples
		if r.Result.CorrectSamples > 0 {
			rep.BugsWithAtLeastOneCorrect++
		}
	}
	rep.OverallAccuracy = safeRatio(rep.TotalCorrect, rep.TotalSamples)
	rep.BugsSolvedRate = safeRatio(rep.BugsWithAtLeastOneCorrect, rep.TotalBugs)
	return rep
}
