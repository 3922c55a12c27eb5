// Package match decides whether a generated code sample counts as a correct
// fix for a mined bug. Correctness is a fuzzy string equivalence over
// normalized forms; generated code is never executed.
package match

import (
	"regexp"
	"strings"
)

var (
	openFenceRE = regexp.MustCompile(`(?m)^` + "```" + `python\s*`)
	bareFenceRE = regexp.MustCompile(`(?m)^` + "```" + `\s*`)
)

// Normalize canonicalizes a code snippet for comparison: code-fence markers
// are stripped, everything from the first comment marker on is dropped, and
// whitespace runs (including newlines) collapse to single spaces.
// Normalize is idempotent.
func Normalize(code string) string {
	code = openFenceRE.ReplaceAllString(code, "")
	code = bareFenceRE.ReplaceAllString(code, "")
	code = strings.TrimSpace(code)

	if idx := strings.Index(code, "#"); idx >= 0 {
		code = strings.TrimSpace(code[:idx])
	}

	return strings.Join(strings.Fields(code), " ")
}
