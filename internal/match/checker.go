package match

import "strings"

// IsCorrect reports whether a generated snippet counts as matching the
// expected fix. The relaxations are OR'd in order:
//
//  1. normalized equality,
//  2. the normalized expected fix appears as a substring of the normalized
//     generation — one-directional on purpose, so a generation that wraps the
//     fix in surrounding context still matches while a shorter-than-expected
//     generation never does,
//  3. equality after folding double quotes to single quotes, since quote
//     style carries no meaning for this comparison.
//
// The containment relaxation can accept a very short, generic expected line
// (e.g. "pass") that incidentally appears inside an unrelated generation;
// that precision risk is accepted rather than guarded against.
func IsCorrect(generated, expected string) bool {
	gen := Normalize(generated)
	exp := Normalize(expected)

	if gen == exp {
		return true
	}
	if strings.Contains(gen, exp) {
		return true
	}

	genFolded := strings.ReplaceAll(gen, `"`, "'")
	expFolded := strings.ReplaceAll(exp, `"`, "'")
	return genFolded == expFolded
}
