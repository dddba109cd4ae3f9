package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kamilpajak/designlens/pkg/models"
)

// Analysis is a stored design system document.
type Analysis struct {
	ID         uuid.UUID
	URL        string
	Incomplete bool
	Document   json.RawMessage
	CreatedAt  time.Time
}

const analysisColumns = `id, url, incomplete, document, created_at`

func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	err := row.Scan(&a.ID, &a.URL, &a.Incomplete, &a.Document, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAnalysis stores a completed (or partial) document.
func (db *DB) CreateAnalysis(ctx context.Context, doc *models.Document) (*Analysis, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO analyses (url, incomplete, document)
		 VALUES ($1, $2, $3)
		 RETURNING `+analysisColumns,
		doc.URL, doc.Incomplete, docJSON,
	)
	return scanAnalysis(row)
}

// GetAnalysisByID retrieves an analysis by ID.
func (db *DB) GetAnalysisByID(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`,
		id,
	)
	return scanAnalysis(row)
}

// LatestAnalysisByURL retrieves the most recent analysis for a URL.
func (db *DB) LatestAnalysisByURL(ctx context.Context, url string) (*Analysis, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analyses
		 WHERE url = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		url,
	)
	return scanAnalysis(row)
}

// ListAnalyses returns stored analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+analysisColumns+` FROM analyses
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.URL, &a.Incomplete, &a.Document, &a.CreatedAt); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// DeleteAnalysis deletes an analysis and its variation reports.
func (db *DB) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM analyses WHERE id = $1`,
		id,
	)
	return err
}
