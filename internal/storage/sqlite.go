// Package storage persists the precipitation report log.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lyndonwx/dashboard-service/internal/domain"

	_ "modernc.org/sqlite"
)

// ReportStore is the interface the server uses to persist reports.
type ReportStore interface {
	SaveReport(ctx context.Context, r domain.PrecipReport) error
	UpdateStatus(ctx context.Context, id, status string) error
	ListReports(ctx context.Context, limit int) ([]domain.PrecipReport, error)
	Close() error
}

// SQLiteStore implements ReportStore on the pure-Go sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	station TEXT NOT NULL,
	report_date TEXT NOT NULL,
	gauge_catch TEXT,
	snowfall_amount TEXT,
	snowfall_swe TEXT,
	snowpack_depth TEXT,
	snowpack_swe TEXT,
	notes TEXT,
	status TEXT NOT NULL,
	submitted_at TEXT NOT NULL
);`

// NewSQLite opens (or creates) the report log at path and applies the schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open report log: %w", err)
	}

	// WAL keeps single-row writes from blocking the list queries.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply report schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveReport upserts a report by its deterministic ID, so resubmitting the
// same observation is idempotent.
func (s *SQLiteStore) SaveReport(ctx context.Context, r domain.PrecipReport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports
			(id, station, report_date, gauge_catch, snowfall_amount, snowfall_swe,
			 snowpack_depth, snowpack_swe, notes, status, submitted_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, submitted_at = excluded.submitted_at`,
		r.ID, r.Station, r.ReportDate.UTC().Format(time.RFC3339),
		r.GaugeCatch, r.SnowfallAmount, r.SnowfallSWE,
		r.SnowpackDepth, r.SnowpackSWE, r.AdditionalNotes,
		r.Status, r.SubmittedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save report %s: %w", r.ID, err)
	}
	return nil
}

// UpdateStatus records the outcome of a relay attempt.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reports SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update report %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update report %s: not found", id)
	}
	return nil
}

// ListReports returns the most recent reports, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]domain.PrecipReport, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, station, report_date, gauge_catch, snowfall_amount, snowfall_swe,
		        snowpack_depth, snowpack_swe, notes, status, submitted_at
		 FROM reports ORDER BY submitted_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.PrecipReport, 0, limit)
	for rows.Next() {
		var r domain.PrecipReport
		var reportDate, submittedAt string
		if err := rows.Scan(&r.ID, &r.Station, &reportDate,
			&r.GaugeCatch, &r.SnowfallAmount, &r.SnowfallSWE,
			&r.SnowpackDepth, &r.SnowpackSWE, &r.AdditionalNotes,
			&r.Status, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if r.ReportDate, err = time.Parse(time.RFC3339, reportDate); err != nil {
			return nil, fmt.Errorf("parse report date for %s: %w", r.ID, err)
		}
		if r.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt); err != nil {
			return nil, fmt.Errorf("parse submitted_at for %s: %w", r.ID, err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
