// Package storage keeps a local history of report runs in SQLite. The
// history backs the duplicate-run guard and makes past runs inspectable
// without reading the spreadsheet back.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// Run kinds recorded in history.
const (
	KindDailyReport     = "daily-report"
	KindDashboardUpdate = "dashboard-update"
)

// Run is one recorded report run.
type Run struct {
	ID         int64
	Kind       string
	ReportDate string
	Revenue    decimal.Decimal
	CreatedAt  time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordRun stores a finished run and returns its row ID.
func (r *Repository) RecordRun(ctx context.Context, kind, reportDate string, revenue decimal.Decimal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO report_runs (kind, report_date, revenue) VALUES (?, ?, ?)`,
		kind, reportDate, revenue.String())
	if err != nil {
		return 0, fmt.Errorf("insert report run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Recorded report run",
		"id", id, "kind", kind, "report_date", reportDate)
	return id, nil
}

// HasRun reports whether a run of the given kind was already recorded for
// the report date.
func (r *Repository) HasRun(ctx context.Context, kind, reportDate string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM report_runs WHERE kind = ? AND report_date = ?`,
		kind, reportDate).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count report runs: %w", err)
	}
	return count > 0, nil
}

// RecentRuns returns the newest runs of a kind, most recent first.
func (r *Repository) RecentRuns(ctx context.Context, kind string, limit int) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, report_date, revenue, created_at
		 FROM report_runs WHERE kind = ?
		 ORDER BY id DESC LIMIT ?`,
		kind, limit)
	if err != nil {
		return nil, fmt.Errorf("query report runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			revenue string
		)
		if err := rows.Scan(&run.ID, &run.Kind, &run.ReportDate, &revenue, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}
		amount, err := decimal.NewFromString(revenue)
		if err != nil {
			return nil, fmt.Errorf("parse stored revenue %q: %w", revenue, err)
		}
		run.Revenue = amount
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report runs: %w", err)
	}
	return runs, nil
}
