package patch

import "fmt"

// SingleLineChange is the before/after pair for a patch that qualifies as a
// single-line bug: exactly one code line removed and one added in exactly one
// non-test Python file.
type SingleLineChange struct {
	File        string `json:"file"`
	DeletedLine string `json:"deleted"`
	AddedLine   string `json:"added"`
}

// BugDescription carries opaque passthrough metadata from the bug.info file.
// Fields are not validated beyond presence of the commit ids.
type BugDescription struct {
	PythonVersion string `json:"python_version"`
	BuggyCommitID string `json:"buggy_commit_id"`
	FixedCommitID string `json:"fixed_commit_id"`
	TestFile      string `json:"test_file"`
	SourceURL     string `json:"source_url"`
}

// FunctionChange is one function whose body overlaps a diff hunk. Before and
// after are reconstructed from context plus removed/added lines, in original
// order.
type FunctionChange struct {
	Name   string `json:"buggy_function_name"`
	Before string `json:"function_before"`
	After  string `json:"function_after"`
}

// FileChange is one modified file within a patch. Only .py files are retained
// by the parser. BuggyLineLocations holds the old-start line of every hunk,
// deduplicated and sorted ascending.
type FileChange struct {
	Path               string           `json:"buggy_file_path"`
	FileName           string           `json:"buggy_file_name"`
	BuggyLineLocations []int            `json:"buggy_line_locations"`
	ChangedFunctions   []FunctionChange `json:"changed_functions"`
}

// BugRecord is the canonical unit of work: one mined single-line bug.
// Built once per patch and immutable thereafter.
type BugRecord struct {
	Project          string           `json:"project"`
	BugID            string           `json:"bug_id"`
	SingleLineChange SingleLineChange `json:"single_line_change"`
	Description      BugDescription   `json:"bug_description"`
	Files            []FileChange     `json:"files"`
}

// MissingFieldError reports a required field absent at record construction.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("bug record: missing required field %q", e.Field)
}
