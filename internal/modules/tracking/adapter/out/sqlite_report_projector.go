package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"irctrack/internal/modules/tracking/domain"
	trackingout "irctrack/internal/modules/tracking/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteReportProjector keeps the latest reconciled report per request in a
// local table for offline queries.
type SQLiteReportProjector struct {
	db *sql.DB
}

func NewSQLiteReportProjector(dbPath string) (trackingout.ReportProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteReportProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (p *SQLiteReportProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS request_reports (
  request_id TEXT PRIMARY KEY,
  service TEXT NOT NULL,
  category TEXT NOT NULL,
  status TEXT NOT NULL,
  stored_status TEXT NOT NULL,
  percentage REAL NOT NULL,
  completed REAL NOT NULL,
  expected REAL NOT NULL,
  label TEXT NOT NULL,
  sessions_performed INTEGER NOT NULL,
  sessions_planned INTEGER NOT NULL,
  last_performed TEXT,
  next_planned TEXT,
  days_since_activity INTEGER NOT NULL,
  overdue INTEGER NOT NULL,
  needs_attention INTEGER NOT NULL
);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create request_reports table: %w", err)
	}
	return nil
}

func (p *SQLiteReportProjector) Reset(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM request_reports`); err != nil {
		return fmt.Errorf("reset request_reports: %w", err)
	}
	return nil
}

func (p *SQLiteReportProjector) UpsertReport(ctx context.Context, r domain.Report) error {
	const stmt = `
INSERT INTO request_reports (request_id, service, category, status, stored_status, percentage, completed, expected, label,
  sessions_performed, sessions_planned, last_performed, next_planned, days_since_activity, overdue, needs_attention)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(request_id) DO UPDATE SET
  service=excluded.service,
  category=excluded.category,
  status=excluded.status,
  stored_status=excluded.stored_status,
  percentage=excluded.percentage,
  completed=excluded.completed,
  expected=excluded.expected,
  label=excluded.label,
  sessions_performed=excluded.sessions_performed,
  sessions_planned=excluded.sessions_planned,
  last_performed=excluded.last_performed,
  next_planned=excluded.next_planned,
  days_since_activity=excluded.days_since_activity,
  overdue=excluded.overdue,
  needs_attention=excluded.needs_attention;
`
	_, err := p.db.ExecContext(ctx, stmt,
		r.RequestID,
		r.Service,
		string(r.Category),
		string(r.Status),
		string(r.StoredStatus),
		r.Percentage,
		r.CompletedCount,
		r.ExpectedCount,
		r.Label,
		r.SessionsPerformed,
		r.SessionsPlanned,
		domain.FormatDate(r.LastPerformedDate),
		domain.FormatDate(r.NextPlannedDate),
		r.DaysSinceActivity,
		boolInt(r.Overdue),
		boolInt(r.NeedsAttention),
	)
	if err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

// Count returns how many reports are stored.
func (p *SQLiteReportProjector) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM request_reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count request_reports: %w", err)
	}
	return n, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
