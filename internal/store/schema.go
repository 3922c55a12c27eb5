package store

// schemaVersionV1 is the current schema.
const schemaVersionV1 = 1

// schemaV1 indexes mined bugs and per-experiment results. The record column
// carries the full bug JSON so lookups need no artifact read.
var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS bugs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	project    TEXT NOT NULL,
	bug_id     TEXT NOT NULL,
	file_path  TEXT,
	record     BLOB NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(project, bug_id)
);

CREATE TABLE IF NOT EXISTS results (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	project    TEXT NOT NULL,
	bug_id     TEXT NOT NULL,
	experiment TEXT NOT NULL,
	style      TEXT NOT NULL DEFAULT '',
	samples    INTEGER NOT NULL,
	correct    INTEGER NOT NULL,
	accuracy   REAL NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(project, bug_id, experiment, style)
);

CREATE INDEX IF NOT EXISTS idx_results_experiment ON results(experiment);
`
