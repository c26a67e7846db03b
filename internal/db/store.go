// Package db provides analysis history storage backed by PostgreSQL or SQLite.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ats-scorer/internal/types"
)

// ErrNotFound is returned when an analysis does not exist
var ErrNotFound = errors.New("analysis not found")

// Listing limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Store persists analysis reports
type Store interface {
	SaveAnalysis(ctx context.Context, report *types.Report) (uuid.UUID, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (*types.Report, error)
	ListAnalyses(ctx context.Context, limit int) ([]types.AnalysisSummary, error)
	Close() error
}

// normalizeLimit clamps a requested list size into [1, MaxListLimit].
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// prepareReport assigns an ID if needed and returns the JSON body.
func prepareReport(report *types.Report) ([]byte, error) {
	if report == nil {
		return nil, errors.New("report is nil")
	}
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return body, nil
}

func decodeReport(body []byte) (*types.Report, error) {
	var report types.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}
