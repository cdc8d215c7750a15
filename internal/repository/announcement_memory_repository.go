package repository

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/noah-isme/ack-board/internal/models"
)

// MemoryAnnouncementRepository keeps announcements in process, newest first.
type MemoryAnnouncementRepository struct {
	mu    sync.RWMutex
	items []models.Announcement
	now   func() time.Time
}

// NewMemoryAnnouncementRepository creates a store holding a copy of seed, newest first.
func NewMemoryAnnouncementRepository(seed []models.Announcement) *MemoryAnnouncementRepository {
	items := make([]models.Announcement, 0, len(seed))
	for _, ann := range seed {
		items = append(items, ann.Clone())
	}
	models.SortNewestFirst(items)
	return &MemoryAnnouncementRepository{items: items, now: time.Now}
}

// List returns copies of every announcement.
func (r *MemoryAnnouncementRepository) List(ctx context.Context) ([]models.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Announcement, 0, len(r.items))
	for _, ann := range r.items {
		out = append(out, ann.Clone())
	}
	return out, nil
}

// GetByID returns sql.ErrNoRows for unknown ids, matching the PostgreSQL store.
func (r *MemoryAnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, sql.ErrNoRows
	}
	ann := r.items[idx].Clone()
	return &ann, nil
}

// Create assigns the next id and inserts the announcement in newest-first order.
func (r *MemoryAnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	announcement.ID = models.NextAnnouncementID(r.items)
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = r.now().UTC()
	}
	if announcement.AcknowledgedBy == nil {
		announcement.AcknowledgedBy = []string{}
	}
	r.items = append([]models.Announcement{announcement.Clone()}, r.items...)
	models.SortNewestFirst(r.items)
	return nil
}

// AddAcknowledgment appends employee unless already present. It refuses to push the
// count past the eligible total.
func (r *MemoryAnnouncementRepository) AddAcknowledgment(ctx context.Context, id int64, employee string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return false, sql.ErrNoRows
	}
	current := r.items[idx]
	if current.HasAcknowledged(employee) {
		return false, nil
	}
	if current.IsPrevious() {
		return false, ErrAnnouncementComplete
	}
	next, changed := current.WithAcknowledgment(employee)
	r.items[idx] = next
	return changed, nil
}

func (r *MemoryAnnouncementRepository) indexOf(id int64) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
