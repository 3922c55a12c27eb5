package heuristics

import (
	"regexp"
	"sort"
	"strings"
)

var pyDefRE = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+(\w+)\s*\(`)

// FunctionSpan is a Python function located by line scanning: its name and
// the 1-based inclusive line range of its body.
type FunctionSpan struct {
	Name  string
	Start int
	End   int
}

// ScanFunctions finds every function definition in Python source, nested
// ones included. A function's span runs from its def line to the last
// non-blank line indented deeper than the def. Tabs count as single
// characters; mixed-indent files may scan slightly off, which only widens
// or narrows spans at their blank edges.
func ScanFunctions(source string) []FunctionSpan {
	lines := strings.Split(source, "\n")

	type openDef struct {
		name   string
		indent int
		start  int
	}
	var stack []openDef
	var spans []FunctionSpan

	closeDeeper := func(indent, lastLine int) {
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			spans = append(spans, FunctionSpan{Name: top.name, Start: top.start, End: lastLine})
		}
	}

	lastCode := 0
	for i, line := range lines {
		lineno := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		// Any statement at or above an open def's indent ends that def.
		closeDeeper(indent, lastCode)
		if m := pyDefRE.FindStringSubmatch(line); m != nil {
			stack = append(stack, openDef{name: m[2], indent: indent, start: lineno})
		}
		lastCode = lineno
	}
	closeDeeper(0, lastCode)

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// Covers reports whether any of the lines falls inside the span.
func (s FunctionSpan) Covers(lines []int) bool {
	for _, l := range lines {
		if s.Start <= l && l <= s.End {
			return true
		}
	}
	return false
}
