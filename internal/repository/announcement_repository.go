package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/ack-board/internal/models"
)

const announcementSchema = `
CREATE TABLE IF NOT EXISTS announcements (
	id              BIGSERIAL PRIMARY KEY,
	title           TEXT        NOT NULL,
	text            TEXT        NOT NULL,
	image           TEXT,
	total_employees INTEGER     NOT NULL CHECK (total_employees > 0),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS announcement_acknowledgments (
	seq             BIGSERIAL PRIMARY KEY,
	announcement_id BIGINT      NOT NULL REFERENCES announcements(id),
	employee        TEXT        NOT NULL,
	acknowledged_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (announcement_id, employee)
);`

// AnnouncementRepository persists announcements and their acknowledgments in PostgreSQL.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// EnsureSchema creates the tables when missing.
func (r *AnnouncementRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, announcementSchema); err != nil {
		return fmt.Errorf("ensure announcement schema: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts seed announcements with their ids and acknowledgments when the table is empty.
func (r *AnnouncementRepository) SeedIfEmpty(ctx context.Context, seed []models.Announcement) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM announcements"); err != nil {
		return false, fmt.Errorf("count announcements: %w", err)
	}
	if count > 0 || len(seed) == 0 {
		return false, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	for _, ann := range seed {
		if ann.CreatedAt.IsZero() {
			ann.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO announcements (id, title, text, image, total_employees, created_at)
VALUES (:id, :title, :text, :image, :total_employees, :created_at)`, ann); err != nil {
			return false, fmt.Errorf("seed announcement %d: %w", ann.ID, err)
		}
		for _, employee := range ann.AcknowledgedBy {
			if _, err := tx.ExecContext(ctx, `INSERT INTO announcement_acknowledgments (announcement_id, employee) VALUES ($1, $2)`, ann.ID, employee); err != nil {
				return false, fmt.Errorf("seed acknowledgment %d: %w", ann.ID, err)
			}
		}
	}
	if _, err := tx.ExecContext(ctx, `SELECT setval(pg_get_serial_sequence('announcements', 'id'), (SELECT MAX(id) FROM announcements))`); err != nil {
		return false, fmt.Errorf("advance announcement sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed tx: %w", err)
	}
	return true, nil
}

// List returns announcements newest first, the higher id first on equal timestamps.
func (r *AnnouncementRepository) List(ctx context.Context) ([]models.Announcement, error) {
	const query = `SELECT id, title, text, image, total_employees, created_at
FROM announcements ORDER BY created_at DESC, id DESC`
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	if len(announcements) == 0 {
		return []models.Announcement{}, nil
	}
	ids := make([]int64, len(announcements))
	for i := range announcements {
		ids[i] = announcements[i].ID
	}
	acks, err := r.acknowledgments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range announcements {
		announcements[i].AcknowledgedBy = acks[announcements[i].ID]
		if announcements[i].AcknowledgedBy == nil {
			announcements[i].AcknowledgedBy = []string{}
		}
	}
	return announcements, nil
}

// GetByID returns an announcement by identifier.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	const query = `SELECT id, title, text, image, total_employees, created_at FROM announcements WHERE id = $1`
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	acks, err := r.acknowledgments(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	announcement.AcknowledgedBy = acks[id]
	if announcement.AcknowledgedBy == nil {
		announcement.AcknowledgedBy = []string{}
	}
	return &announcement, nil
}

// Create inserts a new announcement and assigns its id.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO announcements (title, text, image, total_employees, created_at)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		announcement.Title,
		announcement.Text,
		announcement.Image,
		announcement.TotalEmployees,
		announcement.CreatedAt,
	).Scan(&announcement.ID); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	if announcement.AcknowledgedBy == nil {
		announcement.AcknowledgedBy = []string{}
	}
	return nil
}

// AddAcknowledgment records employee against the announcement. The announcement row is
// locked so concurrent acknowledgments cannot exceed total_employees.
func (r *AnnouncementRepository) AddAcknowledgment(ctx context.Context, id int64, employee string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin acknowledgment tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var total int
	if err := tx.GetContext(ctx, &total, `SELECT total_employees FROM announcements WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, sql.ErrNoRows
		}
		return false, fmt.Errorf("lock announcement: %w", err)
	}
	var state struct {
		Count    int  `db:"count"`
		Existing bool `db:"existing"`
	}
	if err := tx.GetContext(ctx, &state, `SELECT COUNT(*) AS count, COALESCE(BOOL_OR(employee = $2), FALSE) AS existing
FROM announcement_acknowledgments WHERE announcement_id = $1`, id, employee); err != nil {
		return false, fmt.Errorf("load acknowledgments: %w", err)
	}
	if state.Existing {
		return false, nil
	}
	if state.Count >= total {
		return false, ErrAnnouncementComplete
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO announcement_acknowledgments (announcement_id, employee) VALUES ($1, $2)
ON CONFLICT (announcement_id, employee) DO NOTHING`, id, employee); err != nil {
		return false, fmt.Errorf("insert acknowledgment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit acknowledgment tx: %w", err)
	}
	return true, nil
}

func (r *AnnouncementRepository) acknowledgments(ctx context.Context, ids []int64) (map[int64][]string, error) {
	const query = `SELECT announcement_id, employee FROM announcement_acknowledgments
WHERE announcement_id = ANY($1) ORDER BY seq ASC`
	var rows []struct {
		AnnouncementID int64  `db:"announcement_id"`
		Employee       string `db:"employee"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list acknowledgments: %w", err)
	}
	out := make(map[int64][]string, len(ids))
	for _, row := range rows {
		out[row.AnnouncementID] = append(out[row.AnnouncementID], row.Employee)
	}
	return out, nil
}
