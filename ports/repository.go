package ports

import (
	"context"

	"github.com/google/uuid"

	"statviz/models"
)

// AnalysisRepository persists analysis runs.
type AnalysisRepository interface {
	Create(ctx context.Context, record *models.AnalysisRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error)
	List(ctx context.Context, limit, offset int) ([]*models.AnalysisRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
