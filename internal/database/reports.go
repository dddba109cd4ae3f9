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

// Report kinds distinguish layout variations from style restylings.
const (
	ReportKindPattern = "pattern"
	ReportKindStyle   = "style"
)

// VariationReport is a stored regeneration loop audit trail.
type VariationReport struct {
	ID         uuid.UUID
	AnalysisID uuid.UUID
	Kind       string
	Label      string
	State      models.LoopState
	BestEffort bool
	Report     json.RawMessage
	CreatedAt  time.Time
}

const reportColumns = `id, analysis_id, kind, label, state, best_effort, report, created_at`

func scanReport(row pgx.Row) (*VariationReport, error) {
	var r VariationReport
	err := row.Scan(&r.ID, &r.AnalysisID, &r.Kind, &r.Label, &r.State, &r.BestEffort, &r.Report, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateVariationReport stores the audit trail of one regeneration run.
// Label identifies the pattern or preset the run was for.
func (db *DB) CreateVariationReport(ctx context.Context, analysisID uuid.UUID, kind, label string, report *models.RegenerationReport) (*VariationReport, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO variation_reports (analysis_id, kind, label, state, best_effort, report)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+reportColumns,
		analysisID, kind, label, report.State, report.BestEffort, reportJSON,
	)
	return scanReport(row)
}

// GetVariationReportByID retrieves a report by ID.
func (db *DB) GetVariationReportByID(ctx context.Context, id uuid.UUID) (*VariationReport, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM variation_reports WHERE id = $1`,
		id,
	)
	return scanReport(row)
}

// ListVariationReports returns the reports stored for an analysis,
// newest first.
func (db *DB) ListVariationReports(ctx context.Context, analysisID uuid.UUID) ([]VariationReport, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+reportColumns+` FROM variation_reports
		 WHERE analysis_id = $1
		 ORDER BY created_at DESC`,
		analysisID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []VariationReport
	for rows.Next() {
		var r VariationReport
		if err := rows.Scan(&r.ID, &r.AnalysisID, &r.Kind, &r.Label, &r.State, &r.BestEffort, &r.Report, &r.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
