package prompt

import (
	"fmt"
	"strings"
)

// Heuristic names, as stored in heuristic artifacts.
const (
	HeuristicCFNModified = "CFN-modified" // functions whose span covers a buggy line
	HeuristicFLNAll      = "FLN-all"      // all files changed by the fix commit
	HeuristicFNAll       = "FN-all"       // all function names in the buggy file
)

// fnAllDisplayLimit caps how many function names the FN-all prompt lists.
const fnAllDisplayLimit = 10

const heuristicTaskTmpl = `{{.Context}}

Task: Fix the bug by providing the corrected line of code.
Return ONLY the fixed line, without explanations.`

type heuristicTaskParams struct {
	Context string
}

// HeuristicInput carries everything a heuristic prompt needs from the bug
// record and the extracted hint.
type HeuristicInput struct {
	Name        string   // heuristic name (CFN-modified, FLN-all, FN-all)
	Values      []string // the hint: function names or file names
	BuggyLine   int      // first buggy line location, 1-based
	DeletedLine string
	AddedLine   string
}

// Heuristic builds a prompt that narrows the model's search space with the
// given localization hint. Unknown heuristic names fall back to a bare
// location context.
func Heuristic(in HeuristicInput) (string, error) {
	location := fmt.Sprintf("Bug Location: Line %d\nDeleted Line: %s\nAdded Line: %s",
		in.BuggyLine, in.DeletedLine, in.AddedLine)

	var context string
	switch in.Name {
	case HeuristicCFNModified:
		context = fmt.Sprintf(
			"You are analyzing a bug in the following function(s): %s\n\n%s\n\nThe bug is in one of these functions. Analyze the change and fix the bug.",
			strings.Join(in.Values, ", "), location)
	case HeuristicFLNAll:
		context = fmt.Sprintf(
			"You are analyzing a bug in the following file(s):\n%s\n\n%s\n\nThe bug is in one of these files. Analyze the change and provide the fix.",
			bulleted(in.Values), location)
	case HeuristicFNAll:
		shown := in.Values
		var more string
		if len(shown) > fnAllDisplayLimit {
			more = fmt.Sprintf("\n... and %d more functions", len(shown)-fnAllDisplayLimit)
			shown = shown[:fnAllDisplayLimit]
		}
		context = fmt.Sprintf(
			"You are analyzing a bug that may involve these related functions:\n%s%s\n\n%s\n\nAnalyze the bug and provide the correct fix.",
			bulleted(shown), more, location)
	default:
		context = location
	}

	return fill("heuristic", heuristicTaskTmpl, heuristicTaskParams{Context: context})
}

func bulleted(items []string) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = "- " + it
	}
	return strings.Join(out, "\n")
}
