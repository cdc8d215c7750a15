package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ack-board/internal/dto"
	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/internal/repository"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
)

func intPtr(v int) *int { return &v }

func TestSnapshotPartitionsSeedBoard(t *testing.T) {
	f := newBoardFixture(t, repository.DefaultSeed(time.Now()))
	sid := f.openSession(t)

	snapshot, err := f.board.Snapshot(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, sid, snapshot.SessionID)
	assert.Equal(t, testRoster, snapshot.Roster)
	require.Len(t, snapshot.Current, 1)
	assert.Equal(t, "Safety Notice", snapshot.Current[0].Title)
	assert.Equal(t, testRoster, snapshot.Current[0].AvailableEmployees)
	assert.Nil(t, snapshot.Current[0].SelectedEmployee)
	assert.False(t, snapshot.Current[0].CanAcknowledge)
	assert.Equal(t, 2, snapshot.Previous.Size)
	assert.True(t, snapshot.Previous.Navigable)
	assert.Equal(t, models.DialogClosed, snapshot.Dialog.State)
	assert.Nil(t, snapshot.Dialog.Draft)
}

func TestSnapshotUnknownSession(t *testing.T) {
	f := newBoardFixture(t, nil)
	_, err := f.board.Snapshot(context.Background(), "nope")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSelectThenAcknowledgeKeepsSelection(t *testing.T) {
	f := newBoardFixture(t, singleAnnouncement(4))
	ctx := context.Background()
	sid := f.openSession(t)

	snapshot, err := f.board.SelectEmployee(ctx, sid, 1, dto.SelectEmployeeRequest{Employee: "Marvin Trujillo"})
	require.NoError(t, err)
	require.NotNil(t, snapshot.Current[0].SelectedEmployee)
	assert.Equal(t, "Marvin Trujillo", *snapshot.Current[0].SelectedEmployee)
	assert.True(t, snapshot.Current[0].CanAcknowledge)

	snapshot, changed, err := f.board.Acknowledge(ctx, sid, 1, dto.AcknowledgeRequest{})
	require.NoError(t, err)
	assert.True(t, changed)
	current := snapshot.Current[0]
	assert.Equal(t, 1, current.AcknowledgedCount)
	assert.True(t, current.SelectionLocked)
	assert.False(t, current.CanAcknowledge)
	assert.Equal(t, "Marvin Trujillo", *current.SelectedEmployee)
	assert.NotContains(t, current.AvailableEmployees, "Marvin Trujillo")

	_, err = f.board.SelectEmployee(ctx, sid, 1, dto.SelectEmployeeRequest{Employee: "Gabriel Navar"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, changed, err = f.board.Acknowledge(ctx, sid, 1, dto.AcknowledgeRequest{})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestAcknowledgeWithoutSelectionIsRejected(t *testing.T) {
	f := newBoardFixture(t, singleAnnouncement(4))
	sid := f.openSession(t)

	_, _, err := f.board.Acknowledge(context.Background(), sid, 1, dto.AcknowledgeRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "select an employee first", appErrors.FromError(err).Message)
}

func TestSelectEmployeeRejectsInvalidChoices(t *testing.T) {
	f := newBoardFixture(t, repository.DefaultSeed(time.Now()))
	ctx := context.Background()
	sid := f.openSession(t)

	_, err := f.board.SelectEmployee(ctx, sid, 1, dto.SelectEmployeeRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.board.SelectEmployee(ctx, sid, 1, dto.SelectEmployeeRequest{Employee: "John Smith"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.board.SelectEmployee(ctx, sid, 2, dto.SelectEmployeeRequest{Employee: "Gabriel Navar"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = f.board.SelectEmployee(ctx, sid, 42, dto.SelectEmployeeRequest{Employee: "Gabriel Navar"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAcknowledgingLastEmployeeMovesToCarousel(t *testing.T) {
	f := newBoardFixture(t, singleAnnouncement(4, "Gabriel Navar", "Waylon Cargile", "Marvin Trujillo"))
	sid := f.openSession(t)

	snapshot, changed, err := f.board.Acknowledge(context.Background(), sid, 1, dto.AcknowledgeRequest{Employee: "Matheu Shepherd"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, snapshot.Current)
	require.Equal(t, 1, snapshot.Previous.Size)
	assert.False(t, snapshot.Previous.Navigable)
	assert.Equal(t, 4, snapshot.Previous.Items[0].AcknowledgedCount)
}

func TestCarouselCyclicClosure(t *testing.T) {
	seed := []models.Announcement{}
	for i := int64(1); i <= 5; i++ {
		seed = append(seed, models.Announcement{ID: i, Text: "done", TotalEmployees: 1, AcknowledgedBy: []string{"Gabriel Navar"}})
	}
	f := newBoardFixture(t, seed)
	ctx := context.Background()
	sid := f.openSession(t)

	_, err := f.board.CarouselJump(ctx, sid, dto.CarouselJumpRequest{Index: intPtr(2)})
	require.NoError(t, err)

	var snapshot *dto.BoardSnapshot
	for i := 0; i < 5; i++ {
		snapshot, err = f.board.CarouselAdvance(ctx, sid)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, snapshot.Previous.Index)

	snapshot, err = f.board.CarouselRetreat(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Previous.Index)

	_, err = f.board.CarouselJump(ctx, sid, dto.CarouselJumpRequest{Index: intPtr(0)})
	require.NoError(t, err)
	snapshot, err = f.board.CarouselRetreat(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 4, snapshot.Previous.Index)
}

func TestCarouselJumpValidatesIndex(t *testing.T) {
	f := newBoardFixture(t, repository.DefaultSeed(time.Now()))
	ctx := context.Background()
	sid := f.openSession(t)

	_, err := f.board.CarouselJump(ctx, sid, dto.CarouselJumpRequest{Index: intPtr(2)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = f.board.CarouselJump(ctx, sid, dto.CarouselJumpRequest{Index: intPtr(-1)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = f.board.CarouselJump(ctx, sid, dto.CarouselJumpRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestCarouselJumpWithoutPreviousAnnouncements(t *testing.T) {
	f := newBoardFixture(t, singleAnnouncement(4))
	ctx := context.Background()
	sid := f.openSession(t)

	_, err := f.board.CarouselJump(ctx, sid, dto.CarouselJumpRequest{Index: intPtr(0)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "no previous announcements", appErrors.FromError(err).Message)
}

func TestCarouselInertWithSingleItem(t *testing.T) {
	f := newBoardFixture(t, singleAnnouncement(1, "Gabriel Navar"))
	ctx := context.Background()
	sid := f.openSession(t)

	snapshot, err := f.board.CarouselAdvance(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Previous.Index)
	assert.False(t, snapshot.Previous.Navigable)

	snapshot, err = f.board.CarouselRetreat(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Previous.Index)
}
