package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"linefix/internal/patch"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = schemaVersionV1

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

var _ Store = (*SqlStore)(nil)

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. .linefix) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableCount == 0 {
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}

	var v int
	err = s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != currentSchemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SqlStore) Close() error { return s.db.Close() }

// SaveBug upserts a mined bug. Re-mining the same corpus replaces the stored
// record rather than erroring.
func (s *SqlStore) SaveBug(rec *patch.BugRecord) (int64, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshal bug record: %w", err)
	}
	filePath := ""
	if len(rec.Files) > 0 {
		filePath = rec.Files[0].Path
	}
	res, err := s.db.Exec(`
		INSERT INTO bugs(project, bug_id, file_path, record, created_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(project, bug_id) DO UPDATE SET
			file_path = excluded.file_path,
			record    = excluded.record`,
		rec.Project, rec.BugID, filePath, raw, nowUTC())
	if err != nil {
		return 0, fmt.Errorf("save bug %s/%s: %w", rec.Project, rec.BugID, err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// GetBug returns the indexed bug or nil when no row matches.
func (s *SqlStore) GetBug(project, bugID string) (*BugRow, error) {
	row := s.db.QueryRow(`
		SELECT id, project, bug_id, file_path, record, created_at
		FROM bugs WHERE project = ? AND bug_id = ?`, project, bugID)
	b, err := scanBug(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// ListBugs returns every indexed bug ordered by project then bug id.
func (s *SqlStore) ListBugs() ([]*BugRow, error) {
	rows, err := s.db.Query(`
		SELECT id, project, bug_id, file_path, record, created_at
		FROM bugs ORDER BY project, bug_id`)
	if err != nil {
		return nil, fmt.Errorf("list bugs: %w", err)
	}
	defer rows.Close()

	var out []*BugRow
	for rows.Next() {
		b, err := scanBug(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CountBugs returns the number of indexed bugs.
func (s *SqlStore) CountBugs() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM bugs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count bugs: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBug(r rowScanner) (*BugRow, error) {
	var b BugRow
	var filePath sql.NullString
	var raw []byte
	if err := r.Scan(&b.ID, &b.Project, &b.BugID, &filePath, &raw, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan bug: %w", err)
	}
	if filePath.Valid {
		b.FilePath = filePath.String
	}
	var rec patch.BugRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal bug record: %w", err)
	}
	b.Record = &rec
	return &b, nil
}

// SaveResult upserts one experiment result for one bug. Re-evaluating
// replaces the previous score for the same (bug, experiment, style).
func (s *SqlStore) SaveResult(row *ResultRow) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO results(project, bug_id, experiment, style, samples, correct, accuracy, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project, bug_id, experiment, style) DO UPDATE SET
			samples  = excluded.samples,
			correct  = excluded.correct,
			accuracy = excluded.accuracy`,
		row.Project, row.BugID, row.Experiment, row.Style,
		row.Samples, row.Correct, row.Accuracy, nowUTC())
	if err != nil {
		return 0, fmt.Errorf("save result %s/%s %s: %w", row.Project, row.BugID, row.Experiment, err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// ListResultsByExperiment returns all result rows for one experiment,
// ordered by style, project, bug id.
func (s *SqlStore) ListResultsByExperiment(experiment string) ([]*ResultRow, error) {
	rows, err := s.db.Query(`
		SELECT id, project, bug_id, experiment, style, samples, correct, accuracy, created_at
		FROM results WHERE experiment = ?
		ORDER BY style, project, bug_id`, experiment)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []*ResultRow
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.ID, &r.Project, &r.BugID, &r.Experiment, &r.Style,
			&r.Samples, &r.Correct, &r.Accuracy, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// CountResults returns the number of stored result rows.
func (s *SqlStore) CountResults() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}
