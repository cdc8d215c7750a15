package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/internal/repository"
	"github.com/noah-isme/ack-board/pkg/jobs"
	"github.com/noah-isme/ack-board/pkg/storage"
)

var testRoster = []string{"Gabriel Navar", "Waylon Cargile", "Marvin Trujillo", "Matheu Shepherd"}

const testCreatorSecret = "letmein"

type recordingQueue struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) last() jobs.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.jobs[len(q.jobs)-1]
}

type boardFixture struct {
	announcementRepo *repository.MemoryAnnouncementRepository
	sessionRepo      *repository.SessionRepository
	storage          *storage.LocalStorage
	dir              string
	images           *ImageService
	announcements    *AnnouncementService
	board            *BoardService
	creation         *CreationService
	sessions         *SessionService
	worker           *SubmissionWorker
	queue            *recordingQueue
}

func newBoardFixture(t *testing.T, seed []models.Announcement) *boardFixture {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	f := &boardFixture{
		announcementRepo: repository.NewMemoryAnnouncementRepository(seed),
		sessionRepo:      repository.NewSessionRepository(),
		storage:          store,
		dir:              dir,
		queue:            &recordingQueue{},
	}
	f.images = NewImageService(store, storage.NewSignedURLSigner("image-secret", time.Hour), ImageServiceConfig{BaseURL: "/api/v1/images"}, nil, nil)
	f.announcements = NewAnnouncementService(f.announcementRepo, AnnouncementServiceConfig{Roster: testRoster, FallbackTitle: "Announcement"}, nil, f.images, nil, nil)
	f.board = NewBoardService(f.sessionRepo, f.announcements, f.images, nil, nil)
	f.creation = NewCreationService(f.sessionRepo, NewSharedSecretChecker(testCreatorSecret), f.images, f.queue, nil, nil, nil)
	f.sessions = NewSessionService(f.sessionRepo, f.images, SessionServiceConfig{Secret: "session-secret", TTL: time.Hour}, nil, nil)
	f.worker = NewSubmissionWorker(f.sessionRepo, f.announcements, 0, nil, nil)
	return f
}

func (f *boardFixture) openSession(t *testing.T) string {
	t.Helper()
	session, _, _, err := f.sessions.Open(context.Background())
	require.NoError(t, err)
	return session.ID
}

func (f *boardFixture) storageDir(t *testing.T) string {
	t.Helper()
	return f.dir
}

func singleAnnouncement(total int, acked ...string) []models.Announcement {
	return []models.Announcement{{
		ID:             1,
		Title:          "Safety Notice",
		Text:           "Do not be mean to sparrow",
		TotalEmployees: total,
		AcknowledgedBy: append([]string{}, acked...),
		CreatedAt:      time.Now().UTC(),
	}}
}
