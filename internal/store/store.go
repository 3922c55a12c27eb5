// Package store is the SQLite index over the workspace: which bugs were
// mined, and which evaluation results exist per experiment. The JSON
// artifacts on disk stay authoritative; the index makes status and report
// queries cheap.
package store

import "linefix/internal/patch"

// BugRow is one mined bug as indexed. Record holds the full BugRecord; the
// scalar columns exist for querying.
type BugRow struct {
	ID        int64
	Project   string
	BugID     string
	FilePath  string
	Record    *patch.BugRecord
	CreatedAt string
}

// ResultRow is one scored experiment run for one bug.
type ResultRow struct {
	ID         int64
	Project    string
	BugID      string
	Experiment string
	Style      string
	Samples    int
	Correct    int
	Accuracy   float64
	CreatedAt  string
}

// Store indexes mined bugs and evaluation results.
type Store interface {
	// Bugs
	SaveBug(rec *patch.BugRecord) (int64, error)
	GetBug(project, bugID string) (*BugRow, error)
	ListBugs() ([]*BugRow, error)
	CountBugs() (int, error)
	// Results
	SaveResult(row *ResultRow) (int64, error)
	ListResultsByExperiment(experiment string) ([]*ResultRow, error)
	CountResults() (int, error)

	Close() error
}
