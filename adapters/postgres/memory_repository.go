package postgres

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"statviz/domain/core"
	"statviz/models"
	"statviz/ports"
)

// memoryRepository keeps analysis records in memory. Used when no database
// is configured and in tests.
type memoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.AnalysisRecord
}

// NewMemoryRepository creates an in-memory analysis repository
func NewMemoryRepository() ports.AnalysisRepository {
	return &memoryRepository{records: make(map[uuid.UUID]*models.AnalysisRecord)}
}

func (r *memoryRepository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, core.ErrAnalysisNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *memoryRepository) List(ctx context.Context, limit, offset int) ([]*models.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*models.AnalysisRecord, 0, len(r.records))
	for _, record := range r.records {
		copied := *record
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return []*models.AnalysisRecord{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return core.ErrAnalysisNotFound
	}
	delete(r.records, id)
	return nil
}
