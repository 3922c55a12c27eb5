package store

import (
	"path/filepath"
	"testing"

	"linefix/internal/patch"
)

func testRecord(project, bugID string) *patch.BugRecord {
	return &patch.BugRecord{
		Project: project,
		BugID:   bugID,
		SingleLineChange: patch.SingleLineChange{
			File:        "pkg/core.py",
			DeletedLine: "return x - 1",
			AddedLine:   "return x + 1",
		},
		Description: patch.BugDescription{FixedCommitID: "fix1"},
		Files: []patch.FileChange{{
			Path:               "pkg/core.py",
			FileName:           "core.py",
			BuggyLineLocations: []int{10},
		}},
	}
}

func TestSqlStore_Bugs(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), ".linefix", "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.SaveBug(testRecord("proj", "1")); err != nil {
		t.Fatalf("SaveBug: %v", err)
	}
	if _, err := s.SaveBug(testRecord("proj", "2")); err != nil {
		t.Fatalf("SaveBug: %v", err)
	}

	got, err := s.GetBug("proj", "1")
	if err != nil {
		t.Fatalf("GetBug: %v", err)
	}
	if got == nil || got.Record == nil {
		t.Fatal("GetBug returned nil row")
	}
	if got.FilePath != "pkg/core.py" || got.Record.SingleLineChange.AddedLine != "return x + 1" {
		t.Errorf("unexpected row: %+v record %+v", got, got.Record)
	}

	missing, err := s.GetBug("proj", "99")
	if err != nil {
		t.Fatalf("GetBug missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing bug, got %+v", missing)
	}

	// saving the same bug again replaces, not duplicates
	rec := testRecord("proj", "1")
	rec.SingleLineChange.AddedLine = "return x + 2"
	if _, err := s.SaveBug(rec); err != nil {
		t.Fatalf("SaveBug upsert: %v", err)
	}
	n, err := s.CountBugs()
	if err != nil || n != 2 {
		t.Fatalf("CountBugs: got %d err %v, want 2", n, err)
	}
	got, err = s.GetBug("proj", "1")
	if err != nil || got.Record.SingleLineChange.AddedLine != "return x + 2" {
		t.Errorf("upsert not applied: %+v err %v", got.Record, err)
	}

	all, err := s.ListBugs()
	if err != nil || len(all) != 2 {
		t.Fatalf("ListBugs: got %d err %v", len(all), err)
	}
	if all[0].BugID != "1" || all[1].BugID != "2" {
		t.Errorf("ListBugs order: %s, %s", all[0].BugID, all[1].BugID)
	}
}

func TestSqlStore_Results(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	rows := []*ResultRow{
		{Project: "proj", BugID: "1", Experiment: "baseline", Style: "instruction", Samples: 3, Correct: 2, Accuracy: 2.0 / 3},
		{Project: "proj", BugID: "1", Experiment: "baseline", Style: "instructionmask", Samples: 3, Correct: 0, Accuracy: 0},
		{Project: "proj", BugID: "1", Experiment: "cfn-modified", Samples: 3, Correct: 3, Accuracy: 1},
	}
	for _, r := range rows {
		if _, err := s.SaveResult(r); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	baseline, err := s.ListResultsByExperiment("baseline")
	if err != nil {
		t.Fatalf("ListResultsByExperiment: %v", err)
	}
	if len(baseline) != 2 {
		t.Fatalf("got %d baseline rows, want 2", len(baseline))
	}
	if baseline[0].Style != "instruction" || baseline[1].Style != "instructionmask" {
		t.Errorf("style order: %s, %s", baseline[0].Style, baseline[1].Style)
	}

	// re-scoring the same run replaces the row
	if _, err := s.SaveResult(&ResultRow{
		Project: "proj", BugID: "1", Experiment: "baseline", Style: "instruction",
		Samples: 3, Correct: 3, Accuracy: 1,
	}); err != nil {
		t.Fatalf("SaveResult upsert: %v", err)
	}
	n, err := s.CountResults()
	if err != nil || n != 3 {
		t.Fatalf("CountResults: got %d err %v, want 3", n, err)
	}
	baseline, _ = s.ListResultsByExperiment("baseline")
	if baseline[0].Correct != 3 {
		t.Errorf("upsert not applied: %+v", baseline[0])
	}
}

func TestSqlStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.SaveBug(testRecord("proj", "1")); err != nil {
		t.Fatalf("SaveBug: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	n, err := s2.CountBugs()
	if err != nil || n != 1 {
		t.Fatalf("CountBugs after reopen: got %d err %v", n, err)
	}
}
