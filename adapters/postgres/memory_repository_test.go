package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statviz/domain/core"
	"statviz/models"
)

func seedRecords(t *testing.T, repo interface {
	Create(context.Context, *models.AnalysisRecord) error
}, n int) []*models.AnalysisRecord {
	t.Helper()
	records := make([]*models.AnalysisRecord, n)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		rec := models.NewAnalysisRecord("trial", "between")
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(context.Background(), rec))
		records[i] = rec
	}
	return records
}

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	rec := models.NewAnalysisRecord("trial", "between")
	rec.Subtitle = "t Welch(10.00) = 2.00, p = 0.073, n = 12"

	require.NoError(t, repo.Create(context.Background(), rec))

	got, err := repo.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Subtitle, got.Subtitle)

	// The stored copy is insulated from later mutation of the original.
	rec.Subtitle = "changed"
	got, err = repo.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", got.Subtitle)
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	records := seedRecords(t, repo, 5)

	got, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)
	// Last seeded record has the latest timestamp.
	assert.Equal(t, records[4].ID, got[0].ID)
	assert.Equal(t, records[0].ID, got[4].ID)
}

func TestMemoryRepository_ListPagination(t *testing.T) {
	repo := NewMemoryRepository()
	seedRecords(t, repo, 5)

	page, err := repo.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = repo.List(context.Background(), 2, 4)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	page, err = repo.List(context.Background(), 2, 99)
	require.NoError(t, err)
	assert.Empty(t, page)

	// Nonpositive limit returns everything.
	page, err = repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, 5)
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	records := seedRecords(t, repo, 2)

	require.NoError(t, repo.Delete(context.Background(), records[0].ID))

	_, err := repo.GetByID(context.Background(), records[0].ID)
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))

	err = repo.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}
