package match

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Divergence is one differing span between the normalized generated and
// expected forms, reported for near-miss diagnostics.
type Divergence struct {
	Kind string `json:"kind"` // "missing" (in expected, absent from generation) or "extra"
	Text string `json:"text"`
}

// Explain diffs the normalized forms of a failed sample against the expected
// fix and returns the differing spans. An empty result means the normalized
// forms are identical (the sample matched, or differed only pre-normalization).
func Explain(generated, expected string) []Divergence {
	gen := Normalize(generated)
	exp := Normalize(expected)
	if gen == exp {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(exp, gen, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var out []Divergence
	for _, d := range diffs {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			out = append(out, Divergence{Kind: "missing", Text: text})
		case diffmatchpatch.DiffInsert:
			out = append(out, Divergence{Kind: "extra", Text: text})
		}
	}
	return out
}
