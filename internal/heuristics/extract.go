package heuristics

import (
	"context"
	"fmt"

	"linefix/internal/patch"
)

// Heuristic names. The values double as output directory names (lowercased).
const (
	FLNAll      = "FLN-all"      // files touched by the fixing commit
	FNAll       = "FN-all"       // every function in the buggy file
	CFNModified = "CFN-modified" // functions covering a buggy line
)

// Names lists all heuristic types in extraction order.
var Names = []string{FLNAll, FNAll, CFNModified}

// Result is one extracted heuristic for one bug, persisted alongside the
// record that produced it.
type Result struct {
	OriginalBug patch.BugRecord `json:"original_bug"`
	Heuristic   Value           `json:"heuristic"`
}

// Value is the heuristic payload: a named list of localization hints.
type Value struct {
	Name  string   `json:"name"`
	Value []string `json:"value"`
}

// Extract derives all three heuristics for a bug from its fixing commit.
// The bug's project name is used as both GitHub owner and repository, which
// holds for the mined corpus. The map is keyed by heuristic name.
func Extract(ctx context.Context, client *GitHubClient, bug patch.BugRecord) (map[string]Result, error) {
	if len(bug.Files) == 0 {
		return nil, fmt.Errorf("extract %s/bug_%s: record has no files", bug.Project, bug.BugID)
	}
	fixSHA := bug.Description.FixedCommitID
	if fixSHA == "" {
		return nil, fmt.Errorf("extract %s/bug_%s: record has no fixed commit id", bug.Project, bug.BugID)
	}

	owner, repo := bug.Project, bug.Project
	file := bug.Files[0]

	flnAll, err := client.CommitFiles(ctx, owner, repo, fixSHA)
	if err != nil {
		return nil, fmt.Errorf("extract %s/bug_%s: %w", bug.Project, bug.BugID, err)
	}

	source, err := client.FileAtCommit(ctx, owner, repo, file.Path, fixSHA)
	if err != nil {
		return nil, fmt.Errorf("extract %s/bug_%s: %w", bug.Project, bug.BugID, err)
	}

	spans := ScanFunctions(source)
	fnAll := make([]string, 0, len(spans))
	var cfnModified []string
	for _, s := range spans {
		fnAll = append(fnAll, s.Name)
		if s.Covers(file.BuggyLineLocations) {
			cfnModified = append(cfnModified, s.Name)
		}
	}

	out := make(map[string]Result, len(Names))
	for name, value := range map[string][]string{
		FLNAll:      flnAll,
		FNAll:       fnAll,
		CFNModified: cfnModified,
	} {
		out[name] = Result{
			OriginalBug: bug,
			Heuristic:   Value{Name: name, Value: value},
		}
	}
	return out, nil
}
