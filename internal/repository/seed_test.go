package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ack-board/internal/models"
)

func TestDefaultSeedClassification(t *testing.T) {
	seed := DefaultSeed(time.Now())
	current, previous := models.Partition(seed)
	require.Len(t, current, 1)
	assert.Equal(t, "Safety Notice", current[0].Title)
	require.Len(t, previous, 2)
	assert.Equal(t, int64(2), previous[0].ID)
	assert.Equal(t, 8, previous[1].AcknowledgedCount())
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	doc := `announcements:
  - id: 10
    title: Parking
    text: Lot B is closed on Monday.
    total_employees: 3
    acknowledged_by: [Gabriel Navar]
  - id: 11
    title: Lunch
    text: Pizza on Friday.
    total_employees: 1
    acknowledged_by: [Waylon Cargile]
    created_at: 2026-01-05T10:00:00Z
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	seed, err := LoadSeedFile(path, now)
	require.NoError(t, err)
	require.Len(t, seed, 2)
	assert.Equal(t, now, seed[0].CreatedAt)
	assert.True(t, seed[0].IsCurrent())
	assert.True(t, seed[1].IsPrevious())
	assert.Equal(t, 2026, seed[1].CreatedAt.Year())
}

func TestParseSeedRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"missing id":        "announcements:\n  - title: x\n    text: y\n    total_employees: 1\n",
		"zero total":        "announcements:\n  - id: 1\n    text: y\n    total_employees: 0\n",
		"duplicate ack":     "announcements:\n  - id: 1\n    text: y\n    total_employees: 3\n    acknowledged_by: [A, A]\n",
		"over acknowledged": "announcements:\n  - id: 1\n    text: y\n    total_employees: 1\n    acknowledged_by: [A, B]\n",
		"duplicate id":      "announcements:\n  - id: 1\n    text: y\n    total_employees: 1\n  - id: 1\n    text: z\n    total_employees: 1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeed([]byte(doc), time.Now())
			assert.Error(t, err)
		})
	}
}
