package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcknowledgmentIsIdempotent(t *testing.T) {
	ann := Announcement{ID: 1, Text: "Safety", TotalEmployees: 4, AcknowledgedBy: []string{}}

	next, changed := ann.WithAcknowledgment("A")
	require.True(t, changed)
	assert.Equal(t, 1, next.AcknowledgedCount())
	assert.Equal(t, []string{"A"}, next.AcknowledgedBy)
	assert.Empty(t, ann.AcknowledgedBy, "input must not be mutated")

	again, changed := next.WithAcknowledgment("A")
	assert.False(t, changed)
	assert.Equal(t, 1, again.AcknowledgedCount())
	assert.Equal(t, len(again.AcknowledgedBy), again.AcknowledgedCount())
}

func TestStatusIsDerivedFromCount(t *testing.T) {
	ann := Announcement{TotalEmployees: 2}
	assert.Equal(t, AnnouncementStatusCurrent, ann.Status())

	ann, _ = ann.WithAcknowledgment("A")
	assert.True(t, ann.IsCurrent())
	assert.InDelta(t, 50, ann.ProgressPercentage(), 0.001)

	ann, _ = ann.WithAcknowledgment("B")
	assert.True(t, ann.IsPrevious())
	assert.Equal(t, AnnouncementStatusPrevious, ann.Status())
	assert.InDelta(t, 100, ann.ProgressPercentage(), 0.001)
}

func TestPartitionPreservesOrder(t *testing.T) {
	full := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	list := []Announcement{
		{ID: 4, TotalEmployees: 4},
		{ID: 3, TotalEmployees: 8, AcknowledgedBy: full},
		{ID: 2, TotalEmployees: 4, AcknowledgedBy: []string{"A"}},
		{ID: 1, TotalEmployees: 8, AcknowledgedBy: full},
	}
	current, previous := Partition(list)
	require.Len(t, current, 2)
	require.Len(t, previous, 2)
	assert.Equal(t, int64(4), current[0].ID)
	assert.Equal(t, int64(2), current[1].ID)
	assert.Equal(t, int64(3), previous[0].ID)
	assert.Equal(t, int64(1), previous[1].ID)
}

func TestSortNewestFirstBreaksTiesByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	list := []Announcement{
		{ID: 1, CreatedAt: at.Add(-time.Hour)},
		{ID: 2, CreatedAt: at},
		{ID: 3, CreatedAt: at},
	}
	SortNewestFirst(list)
	assert.Equal(t, []int64{3, 2, 1}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestNextAnnouncementIDIsFresh(t *testing.T) {
	assert.Equal(t, int64(1), NextAnnouncementID(nil))
	assert.Equal(t, int64(8), NextAnnouncementID([]Announcement{{ID: 3}, {ID: 7}, {ID: 1}}))
}

func TestNewAnnouncementUsesFallbackTitle(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ann := NewAnnouncement(9, "   ", "  Fire drill at noon ", nil, 4, "Announcement", now)
	assert.Equal(t, "Announcement", ann.Title)
	assert.Equal(t, "Fire drill at noon", ann.Text)
	assert.Equal(t, 0, ann.AcknowledgedCount())
	assert.NotNil(t, ann.AcknowledgedBy)
	assert.Equal(t, now, ann.CreatedAt)
}

func TestCloneDetachesSliceAndImage(t *testing.T) {
	image := "a.png"
	ann := Announcement{AcknowledgedBy: []string{"A"}, Image: &image}
	clone := ann.Clone()
	clone.AcknowledgedBy[0] = "B"
	*clone.Image = "b.png"
	assert.Equal(t, "A", ann.AcknowledgedBy[0])
	assert.Equal(t, "a.png", *ann.Image)
}

func TestRosterPending(t *testing.T) {
	roster := Roster{"A", "B", "C", "D"}
	ann := Announcement{AcknowledgedBy: []string{"C", "A"}}
	assert.Equal(t, []string{"B", "D"}, roster.Pending(ann))
	assert.True(t, roster.Contains("D"))
	assert.False(t, roster.Contains("E"))
}
