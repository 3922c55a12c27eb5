package evaluate

import "linefix/internal/match"

// Score checks every sample against the expected fix and returns the
// per-style counters. Sample order is preserved in IndividualResults.
// Error sentinel strings from the generation layer are compared like any
// other candidate and simply fail the equivalence check.
func Score(samples []string, expected string) ExperimentResult {
	verdicts := make([]bool, len(samples))
	correct := 0
	for i, s := range samples {
		if match.IsCorrect(s, expected) {
			verdicts[i] = true
			correct++
		}
	}
	return ExperimentResult{
		TotalSamples:      len(samples),
		CorrectSamples:    correct,
		Accuracy:          safeRatio(correct, len(samples)),
		IndividualResults: verdicts,
	}
}

// safeRatio returns num/denom, or 0 when denom is 0.
func safeRatio(num, denom int) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
