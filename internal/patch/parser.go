package patch

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// fileMarkerRE matches the "diff --git a/<path> b/<path>" line and captures
	// the post-image path.
	fileMarkerRE = regexp.MustCompile(`^diff --git a/.* b/(.+)$`)

	// hunkHeaderRE matches "@@ -<old>[,<count>] +<new>[,<count>] @@<context>".
	hunkHeaderRE = regexp.MustCompile(`^@@\s+-(\d+)(?:,\d+)?\s+\+(\d+)(?:,\d+)?\s+@@(.*)$`)

	// defRE extracts the function name from a hunk-header context line.
	defRE = regexp.MustCompile(`def\s+(\w+)\s*\(`)
)

// funcState accumulates the before/after body of the currently open function
// during a file-block scan. A nil name means no function is open and hunk
// lines are not attributed to any function.
type funcState struct {
	name   string
	open   bool
	before []string
	after  []string
}

// commit closes out the open function, appending it to the file's changed
// functions if it accumulated any content.
func (fs *funcState) commit(fc *FileChange) {
	if fs.open && fs.name != "" && (len(fs.before) > 0 || len(fs.after) > 0) {
		fc.ChangedFunctions = append(fc.ChangedFunctions, FunctionChange{
			Name:   fs.name,
			Before: strings.Join(fs.before, "\n"),
			After:  strings.Join(fs.after, "\n"),
		})
	}
	*fs = funcState{}
}

// ParsePatch scans unified-diff text and returns one FileChange per modified
// .py file, in encounter order. Input without any qualifying file marker
// yields an empty (nil) slice, not an error. Malformed hunk headers are
// skipped and scanning continues.
func ParsePatch(text string) []FileChange {
	lines := strings.Split(text, "\n")

	var files []FileChange
	var cur *FileChange
	var fs funcState

	closeFile := func() {
		if cur == nil {
			return
		}
		fs.commit(cur)
		cur.BuggyLineLocations = dedupSorted(cur.BuggyLineLocations)
		files = append(files, *cur)
		cur = nil
	}

	for _, line := range lines {
		if m := fileMarkerRE.FindStringSubmatch(line); m != nil {
			closeFile()
			filePath := m[1]
			if !strings.HasSuffix(filePath, ".py") {
				continue
			}
			cur = &FileChange{Path: filePath, FileName: path.Base(filePath)}
			continue
		}
		if cur == nil {
			continue
		}

		if strings.HasPrefix(line, "@@") {
			m := hunkHeaderRE.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			oldStart, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			context := strings.TrimSpace(m[3])

			if strings.Contains(context, "def ") {
				fs.commit(cur)
				if fm := defRE.FindStringSubmatch(context); fm != nil {
					fs = funcState{name: fm[1], open: true}
				}
			}
			cur.BuggyLineLocations = append(cur.BuggyLineLocations, oldStart)
			continue
		}

		switch {
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			if fs.open {
				fs.before = append(fs.before, line[1:])
			}
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			if fs.open {
				fs.after = append(fs.after, line[1:])
			}
		case strings.HasPrefix(line, " "):
			if fs.open {
				fs.before = append(fs.before, line[1:])
				fs.after = append(fs.after, line[1:])
			}
		}
	}
	closeFile()

	return files
}

// dedupSorted returns the distinct values of locs in ascending order.
func dedupSorted(locs []int) []int {
	if len(locs) == 0 {
		return locs
	}
	seen := make(map[int]bool, len(locs))
	var out []int
	for _, l := range locs {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Ints(out)
	return out
}
