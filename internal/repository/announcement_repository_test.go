package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ack-board/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var announcementColumns = []string{"id", "title", "text", "image", "total_employees", "created_at"}

func TestAnnouncementRepositoryListAttachesAcknowledgments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM announcements ORDER BY created_at DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(announcementColumns).
			AddRow(int64(4), "Fire Drill", "Leave by the east stairs", "abc.png", 4, now).
			AddRow(int64(1), "Safety Notice", "Be kind", nil, 4, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM announcement_acknowledgments")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"announcement_id", "employee"}).
			AddRow(int64(4), "Marvin Trujillo").
			AddRow(int64(4), "Gabriel Navar"))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(4), list[0].ID)
	require.NotNil(t, list[0].Image)
	assert.Equal(t, "abc.png", *list[0].Image)
	assert.Equal(t, []string{"Marvin Trujillo", "Gabriel Navar"}, list[0].AcknowledgedBy)
	assert.Nil(t, list[1].Image)
	assert.Equal(t, []string{}, list[1].AcknowledgedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryGetByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM announcements WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO announcements").
		WithArgs("Fire Drill", "Leave by the east stairs", nil, 4, created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	ann := &models.Announcement{Title: "Fire Drill", Text: "Leave by the east stairs", TotalEmployees: 4, CreatedAt: created}
	require.NoError(t, repo.Create(context.Background(), ann))
	assert.Equal(t, int64(7), ann.ID)
	assert.Equal(t, []string{}, ann.AcknowledgedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryAddAcknowledgment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_employees FROM announcements WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"total_employees"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("FROM announcement_acknowledgments WHERE announcement_id = $1")).
		WithArgs(int64(1), "Marvin Trujillo").
		WillReturnRows(sqlmock.NewRows([]string{"count", "existing"}).AddRow(0, false))
	mock.ExpectExec("INSERT INTO announcement_acknowledgments").
		WithArgs(int64(1), "Marvin Trujillo").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	changed, err := repo.AddAcknowledgment(context.Background(), 1, "Marvin Trujillo")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryAddAcknowledgmentIsIdempotent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"total_employees"}).AddRow(4))
	mock.ExpectQuery("FROM announcement_acknowledgments").
		WithArgs(int64(1), "Marvin Trujillo").
		WillReturnRows(sqlmock.NewRows([]string{"count", "existing"}).AddRow(1, true))
	mock.ExpectRollback()

	changed, err := repo.AddAcknowledgment(context.Background(), 1, "Marvin Trujillo")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryAddAcknowledgmentRejectsComplete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"total_employees"}).AddRow(8))
	mock.ExpectQuery("FROM announcement_acknowledgments").
		WithArgs(int64(2), "Gabriel Navar").
		WillReturnRows(sqlmock.NewRows([]string{"count", "existing"}).AddRow(8, false))
	mock.ExpectRollback()

	_, err := repo.AddAcknowledgment(context.Background(), 2, "Gabriel Navar")
	assert.ErrorIs(t, err, ErrAnnouncementComplete)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositorySeedIfEmptySkipsPopulatedTable(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM announcements")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	seeded, err := repo.SeedIfEmpty(context.Background(), DefaultSeed(time.Now()))
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositorySeedIfEmptyInsertsRowsAndAcknowledgments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	seed := []models.Announcement{{
		ID:             5,
		Title:          "Policy Update",
		Text:           "Read the handbook",
		TotalEmployees: 2,
		AcknowledgedBy: []string{"John Smith"},
		CreatedAt:      time.Now(),
	}}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM announcements")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO announcements").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO announcement_acknowledgments").
		WithArgs(int64(5), "John Smith").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("setval").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	seeded, err := repo.SeedIfEmpty(context.Background(), seed)
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}
