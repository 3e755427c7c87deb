package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run represents a row in the parse_runs table
type Run struct {
	ID        string `json:"id"`
	File      string `json:"file"` // source path, or "-" for stdin
	Ops       int    `json:"ops"`
	Warnings  int    `json:"warnings"`
	Errors    int    `json:"errors"`
	Duration  int64  `json:"duration_ms"`
	CreatedAt int64  `json:"created_at"` // Unix millis
}

// RecordRun inserts one completed parse run. A missing ID or timestamp is
// filled in.
func (d *DB) RecordRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixMilli()
	}

	_, err := d.conn.Exec(
		`INSERT INTO parse_runs (id, file, ops, warnings, errors, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.File, run.Ops, run.Warnings, run.Errors, run.Duration, run.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return run.ID, nil
}

// RecentRuns returns the most recent runs, newest first.
func (d *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.conn.Query(
		`SELECT id, file, ops, warnings, errors, duration_ms, created_at
		 FROM parse_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.File, &r.Ops, &r.Warnings, &r.Errors, &r.Duration, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
