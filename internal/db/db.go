package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/ats-scorer/internal/types"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id           UUID PRIMARY KEY,
	job_title    TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT '',
	ats          INTEGER NOT NULL,
	job_fit      INTEGER NOT NULL,
	overall      INTEGER NOT NULL,
	report       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
`

var _ Store = (*Postgres)(nil)

// Postgres wraps a PostgreSQL connection pool
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// EnsureSchema creates the analyses table if it does not exist
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// SaveAnalysis stores a report and returns its ID
func (p *Postgres) SaveAnalysis(ctx context.Context, report *types.Report) (uuid.UUID, error) {
	body, err := prepareReport(report)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO analyses (id, job_title, company_name, ats, job_fit, overall, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET report = $7`,
		report.ID, report.JobTitle, report.CompanyName,
		report.Scores.ATS, report.Scores.JobFit, report.Scores.Overall,
		body, report.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return report.ID, nil
}

// GetAnalysis retrieves a stored report by ID
func (p *Postgres) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	var body []byte
	err := p.pool.QueryRow(ctx, `SELECT report FROM analyses WHERE id = $1`, id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return decodeReport(body)
}

// ListAnalyses retrieves the most recent analyses
func (p *Postgres) ListAnalyses(ctx context.Context, limit int) ([]types.AnalysisSummary, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, job_title, company_name, ats, job_fit, overall, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT $1`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	summaries := []types.AnalysisSummary{}
	for rows.Next() {
		var s types.AnalysisSummary
		if err := rows.Scan(&s.ID, &s.JobTitle, &s.CompanyName, &s.ATS, &s.JobFit, &s.Overall, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return summaries, nil
}
