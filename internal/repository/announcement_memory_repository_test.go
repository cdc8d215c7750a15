package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ack-board/internal/models"
)

func TestMemoryAnnouncementRepositoryCreatePrependsWithNextID(t *testing.T) {
	repo := NewMemoryAnnouncementRepository(DefaultSeed(time.Now()))

	ann := &models.Announcement{Title: "Fire Drill", Text: "Leave by the east stairs", TotalEmployees: 4}
	require.NoError(t, repo.Create(context.Background(), ann))
	assert.Equal(t, int64(4), ann.ID)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, []int64{4, 1, 2, 3}, []int64{list[0].ID, list[1].ID, list[2].ID, list[3].ID})
	assert.False(t, list[0].CreatedAt.IsZero())
}

func TestMemoryAnnouncementRepositoryOrdersSeedNewestFirst(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := NewMemoryAnnouncementRepository([]models.Announcement{
		{ID: 1, Text: "a", TotalEmployees: 1, AcknowledgedBy: []string{}, CreatedAt: at.Add(-time.Hour)},
		{ID: 2, Text: "b", TotalEmployees: 1, AcknowledgedBy: []string{}, CreatedAt: at},
		{ID: 3, Text: "c", TotalEmployees: 1, AcknowledgedBy: []string{}, CreatedAt: at},
	})

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestMemoryAnnouncementRepositoryListReturnsCopies(t *testing.T) {
	repo := NewMemoryAnnouncementRepository(DefaultSeed(time.Now()))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	list[1].AcknowledgedBy[0] = "Mallory"

	again, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", again.AcknowledgedBy[0])
}

func TestMemoryAnnouncementRepositoryAddAcknowledgment(t *testing.T) {
	repo := NewMemoryAnnouncementRepository(DefaultSeed(time.Now()))
	ctx := context.Background()

	changed, err := repo.AddAcknowledgment(ctx, 1, "Marvin Trujillo")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.AddAcknowledgment(ctx, 1, "Marvin Trujillo")
	require.NoError(t, err)
	assert.False(t, changed)

	ann, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Marvin Trujillo"}, ann.AcknowledgedBy)

	_, err = repo.AddAcknowledgment(ctx, 2, "Marvin Trujillo")
	assert.ErrorIs(t, err, ErrAnnouncementComplete)

	_, err = repo.AddAcknowledgment(ctx, 42, "Marvin Trujillo")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMemoryAnnouncementRepositoryConcurrentAcknowledgmentsNeverExceedTotal(t *testing.T) {
	repo := NewMemoryAnnouncementRepository([]models.Announcement{{ID: 1, Title: "T", Text: "x", TotalEmployees: 2, AcknowledgedBy: []string{}}})
	names := []string{"A", "B", "C", "D", "E", "F"}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			_, _ = repo.AddAcknowledgment(context.Background(), 1, n)
		}(name)
	}
	wg.Wait()

	ann, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, ann.AcknowledgedCount())
	assert.True(t, ann.IsPrevious())
}
