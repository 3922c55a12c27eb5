package patch

import "strings"

// isCodeLine reports whether a line is a code line: non-empty after trimming
// and not a comment.
func isCodeLine(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return false
	}
	return !strings.HasPrefix(stripped, "#")
}

// ClassifySingleLine decides whether raw diff text is a single-line bug.
// A patch qualifies when it touches exactly one non-test .py file and its
// total code-line delta across the whole diff is exactly one removed and one
// added line. The count is deliberately diff-global, not per-hunk: a patch
// touching one file across multiple hunks still qualifies if the totals are
// 1/1. Returned lines are trimmed of surrounding whitespace only.
func ClassifySingleLine(text string) (*SingleLineChange, bool) {
	if text == "" {
		return nil, false
	}
	lines := strings.Split(text, "\n")

	var changedFiles []string
	seen := make(map[string]bool)
	for _, line := range lines {
		m := fileMarkerRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		filePath := m[1]
		if seen[filePath] {
			continue
		}
		if strings.HasSuffix(filePath, ".py") && !strings.Contains(strings.ToLower(filePath), "test") {
			seen[filePath] = true
			changedFiles = append(changedFiles, filePath)
		}
	}
	if len(changedFiles) != 1 {
		return nil, false
	}

	var deleted, added []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			if code := line[1:]; isCodeLine(code) {
				deleted = append(deleted, strings.TrimSpace(code))
			}
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			if code := line[1:]; isCodeLine(code) {
				added = append(added, strings.TrimSpace(code))
			}
		}
	}

	if len(deleted) != 1 || len(added) != 1 {
		return nil, false
	}
	return &SingleLineChange{
		File:        changedFiles[0],
		DeletedLine: deleted[0],
		AddedLine:   added[0],
	}, true
}
