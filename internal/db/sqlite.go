package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/ats-scorer/internal/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id           TEXT PRIMARY KEY,
	job_title    TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT '',
	ats          INTEGER NOT NULL,
	job_fit      INTEGER NOT NULL,
	overall      INTEGER NOT NULL,
	report       TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
`

// sqliteTimeFormat is fixed-width so created_at sorts lexically.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z"

var _ Store = (*SQLite)(nil)

// SQLite stores analysis history in a local file
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the history database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveAnalysis stores a report and returns its ID
func (s *SQLite) SaveAnalysis(ctx context.Context, report *types.Report) (uuid.UUID, error) {
	body, err := prepareReport(report)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, job_title, company_name, ats, job_fit, overall, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET report = excluded.report`,
		report.ID.String(), report.JobTitle, report.CompanyName,
		report.Scores.ATS, report.Scores.JobFit, report.Scores.Overall,
		string(body), report.CreatedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return report.ID, nil
}

// GetAnalysis retrieves a stored report by ID
func (s *SQLite) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM analyses WHERE id = ?`, id.String()).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return decodeReport([]byte(body))
}

// ListAnalyses retrieves the most recent analyses
func (s *SQLite) ListAnalyses(ctx context.Context, limit int) ([]types.AnalysisSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_title, company_name, ats, job_fit, overall, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT ?`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	summaries := []types.AnalysisSummary{}
	for rows.Next() {
		var (
			sum       types.AnalysisSummary
			id        string
			createdAt string
		)
		if err := rows.Scan(&id, &sum.JobTitle, &sum.CompanyName, &sum.ATS, &sum.JobFit, &sum.Overall, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt analysis id %q: %w", id, err)
		}
		if sum.CreatedAt, err = time.Parse(sqliteTimeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("corrupt timestamp for %s: %w", id, err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return summaries, nil
}
