package main

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// EngineRun is one row of the engine run history, as shown in the
// frontend's diagnostics panel.
type EngineRun struct {
	ID        int64      `json:"id"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
	PID       int        `json:"pid"`
	Binary    string     `json:"binary"`
	ExitCode  *int       `json:"exitCode"`
	Reason    string     `json:"reason"`
}

// RunHistory persists one record per engine run so crashes that happened
// while the user was not looking remain visible after a restart.
type RunHistory struct {
	db *sql.DB
}

// OpenRunHistory opens (and if needed bootstraps) the history database.
func OpenRunHistory(path string) (*RunHistory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS engine_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			pid INTEGER NOT NULL DEFAULT 0,
			binary TEXT NOT NULL,
			exit_code INTEGER,
			reason TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_engine_runs_started ON engine_runs(started_at DESC);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Keep 90 days of history
	if _, err := db.Exec("DELETE FROM engine_runs WHERE started_at < DATETIME('now', '-90 days')"); err != nil {
		Log.Error("failed to prune old engine runs", "error", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		Log.Error("failed to enable WAL mode", "error", err)
	}

	return &RunHistory{db: db}, nil
}

// RecordStart inserts a row for a freshly spawned engine and returns its id.
func (h *RunHistory) RecordStart(pid int, binary string) (int64, error) {
	res, err := h.db.Exec(
		"INSERT INTO engine_runs (pid, binary) VALUES (?, ?)",
		pid, binary,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordExit closes out a run. exitCode may be nil when the engine was
// killed before reporting one; reason is free text ("window closed",
// "crashed", ...).
func (h *RunHistory) RecordExit(runID int64, exitCode *int, reason string) error {
	_, err := h.db.Exec(
		"UPDATE engine_runs SET ended_at = CURRENT_TIMESTAMP, exit_code = ?, reason = ? WHERE id = ?",
		exitCode, reason, runID,
	)
	return err
}

// Recent returns the most recent runs, newest first.
func (h *RunHistory) Recent(limit int) ([]EngineRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.Query(`
		SELECT id, started_at, ended_at, pid, binary, exit_code, reason
		FROM engine_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []EngineRun
	for rows.Next() {
		var r EngineRun
		var ended sql.NullTime
		var code sql.NullInt64
		if err := rows.Scan(&r.ID, &r.StartedAt, &ended, &r.PID, &r.Binary, &code, &r.Reason); err != nil {
			return nil, err
		}
		if ended.Valid {
			t := ended.Time
			r.EndedAt = &t
		}
		if code.Valid {
			c := int(code.Int64)
			r.ExitCode = &c
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (h *RunHistory) Close() error {
	return h.db.Close()
}
