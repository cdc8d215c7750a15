package repository

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/ack-board/internal/models"
)

// SessionRepository keeps board sessions in memory. Sessions are per-client UI state
// and never outlive the process.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.BoardSession
	now      func() time.Time
}

// NewSessionRepository creates an empty session store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: map[string]*models.BoardSession{}, now: time.Now}
}

// Create stores a fresh session under id.
func (r *SessionRepository) Create(ctx context.Context, id string) (*models.BoardSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := models.NewBoardSession(id, r.now().UTC())
	r.sessions[id] = session
	return session.Clone(), nil
}

// Get returns a copy of the session and marks it as seen.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.BoardSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.LastSeenAt = r.now().UTC()
	return session.Clone(), nil
}

// Update applies fn to the stored session under the store lock. Changes are discarded
// when fn returns an error.
func (r *SessionRepository) Update(ctx context.Context, id string, fn func(*models.BoardSession) error) (*models.BoardSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	working := session.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.LastSeenAt = r.now().UTC()
	r.sessions[id] = working
	return working.Clone(), nil
}

// Delete drops the session.
func (r *SessionRepository) Delete(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Prune removes sessions idle for longer than ttl and returns them.
func (r *SessionRepository) Prune(ctx context.Context, ttl time.Duration) []*models.BoardSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-ttl)
	var removed []*models.BoardSession
	for id, session := range r.sessions {
		if session.LastSeenAt.Before(cutoff) {
			removed = append(removed, session.Clone())
			delete(r.sessions, id)
		}
	}
	return removed
}

// DraftImages lists the stored image names referenced by live drafts.
func (r *SessionRepository) DraftImages(ctx context.Context) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0)
	for _, session := range r.sessions {
		if image := session.Dialog.Draft.Image; image != nil {
			names = append(names, image.Name)
		}
	}
	return names
}

// Count returns the number of live sessions.
func (r *SessionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
