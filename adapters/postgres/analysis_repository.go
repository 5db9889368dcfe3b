package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"statviz/domain/core"
	"statviz/models"
	"statviz/ports"
)

// analysisRepository implements the AnalysisRepository interface
type analysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &analysisRepository{db: db}
}

// Create inserts a new analysis record into the database
func (r *analysisRepository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	query := `INSERT INTO analyses (
		id, dataset_name, entry_point, options, result, subtitle, status, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.DatasetName, record.EntryPoint, record.Options,
		record.Result, record.Subtitle, record.Status, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis record: %w", err)
	}
	return nil
}

// GetByID retrieves an analysis record by its ID
func (r *analysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	query := `SELECT id, dataset_name, entry_point, options, result,
		COALESCE(subtitle, '') as subtitle, status, created_at
	FROM analyses WHERE id = $1`

	var record models.AnalysisRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}
	return &record, nil
}

// List retrieves analysis records, newest first
func (r *analysisRepository) List(ctx context.Context, limit, offset int) ([]*models.AnalysisRecord, error) {
	query := `SELECT id, dataset_name, entry_point, options, result,
		COALESCE(subtitle, '') as subtitle, status, created_at
	FROM analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	records := []*models.AnalysisRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return records, nil
}

// Delete removes an analysis record
func (r *analysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return core.ErrAnalysisNotFound
	}
	return nil
}
