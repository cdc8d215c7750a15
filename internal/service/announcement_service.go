package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ack-board/internal/dto"
	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/internal/repository"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
)

const announcementsCacheKey = "announcements"

// Acknowledgment outcomes recorded in metrics.
const (
	ackOutcomeRecorded  = "recorded"
	ackOutcomeDuplicate = "duplicate"
	ackOutcomeRejected  = "rejected"
)

type announcementStore interface {
	List(ctx context.Context) ([]models.Announcement, error)
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	AddAcknowledgment(ctx context.Context, id int64, employee string) (bool, error)
}

type imagePreviewer interface {
	PreviewURL(ref string) *string
}

// AnnouncementServiceConfig holds announcement defaults.
type AnnouncementServiceConfig struct {
	Roster                []string
	DefaultTotalEmployees int
	FallbackTitle         string
}

// AnnouncementService owns the shared announcement list and the acknowledgment transition.
type AnnouncementService struct {
	repo          announcementStore
	roster        models.Roster
	defaultTotal  int
	fallbackTitle string
	cache         *CacheService
	images        imagePreviewer
	metrics       *MetricsService
	logger        *zap.Logger
	now           func() time.Time

	// generation advances on every write so a List that loaded before the write
	// does not repopulate the cache with the stale list.
	generation atomic.Uint64
}

// NewAnnouncementService constructs the service. A non-positive default total falls back to the roster size.
func NewAnnouncementService(repo announcementStore, cfg AnnouncementServiceConfig, cache *CacheService, images imagePreviewer, metrics *MetricsService, logger *zap.Logger) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	total := cfg.DefaultTotalEmployees
	if total <= 0 {
		total = len(cfg.Roster)
	}
	if total <= 0 {
		total = 1
	}
	fallback := strings.TrimSpace(cfg.FallbackTitle)
	if fallback == "" {
		fallback = "Announcement"
	}
	return &AnnouncementService{
		repo:          repo,
		roster:        models.Roster(append([]string(nil), cfg.Roster...)),
		defaultTotal:  total,
		fallbackTitle: fallback,
		cache:         cache,
		images:        images,
		metrics:       metrics,
		logger:        logger,
		now:           time.Now,
	}
}

// Roster returns a copy of the employee roster.
func (s *AnnouncementService) Roster() models.Roster {
	return append(models.Roster(nil), s.roster...)
}

// List returns every announcement, newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	var cached []models.Announcement
	if s.cache.Get(ctx, announcementsCacheKey, &cached) {
		s.recordCounts(cached)
		return cached, nil
	}
	generation := s.generation.Load()
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	s.recordCounts(list)
	if s.generation.Load() == generation {
		s.cache.Set(ctx, announcementsCacheKey, list)
		if s.generation.Load() != generation {
			s.cache.Invalidate(ctx, announcementsCacheKey)
		}
	}
	return list, nil
}

func (s *AnnouncementService) recordCounts(list []models.Announcement) {
	current, previous := models.Partition(list)
	s.metrics.SetAnnouncementCounts(len(current), len(previous))
}

// invalidate drops the cached list. The generation must advance before the delete.
func (s *AnnouncementService) invalidate(ctx context.Context) {
	s.generation.Add(1)
	s.cache.Invalidate(ctx, announcementsCacheKey)
}

// Get returns one announcement.
func (s *AnnouncementService) Get(ctx context.Context, id int64) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	return announcement, nil
}

// Acknowledge records employee against announcement id. Repeating an acknowledgment
// changes nothing and reports changed=false.
func (s *AnnouncementService) Acknowledge(ctx context.Context, id int64, employee string) (*models.Announcement, bool, error) {
	employee = strings.TrimSpace(employee)
	if employee == "" {
		s.metrics.RecordAcknowledgment(ackOutcomeRejected)
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "select an employee first")
	}
	if !s.roster.Contains(employee) {
		s.metrics.RecordAcknowledgment(ackOutcomeRejected)
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "employee is not on the roster")
	}

	changed, err := s.repo.AddAcknowledgment(ctx, id, employee)
	if err != nil {
		s.metrics.RecordAcknowledgment(ackOutcomeRejected)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		case errors.Is(err, repository.ErrAnnouncementComplete):
			return nil, false, appErrors.Clone(appErrors.ErrConflict, "announcement is already fully acknowledged")
		default:
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record acknowledgment")
		}
	}

	if changed {
		s.invalidate(ctx)
		s.metrics.RecordAcknowledgment(ackOutcomeRecorded)
		s.logger.Info("announcement acknowledged", zap.Int64("announcement_id", id), zap.String("employee", employee))
	} else {
		s.metrics.RecordAcknowledgment(ackOutcomeDuplicate)
	}

	announcement, err := s.Get(ctx, id)
	if err != nil {
		return nil, changed, err
	}
	if changed && announcement.IsPrevious() {
		s.logger.Info("announcement fully acknowledged", zap.Int64("announcement_id", id))
	}
	return announcement, changed, nil
}

// Create publishes a draft as a new announcement at the head of the list.
func (s *AnnouncementService) Create(ctx context.Context, draft models.Draft) (*models.Announcement, error) {
	if strings.TrimSpace(draft.Text) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "announcement text is required")
	}
	var image *string
	if draft.Image != nil && draft.Image.Name != "" {
		name := draft.Image.Name
		image = &name
	}
	announcement := models.NewAnnouncement(0, draft.Title, draft.Text, image, s.defaultTotal, s.fallbackTitle, s.now())
	if err := s.repo.Create(ctx, &announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	s.invalidate(ctx)
	s.metrics.RecordAnnouncementCreated()
	s.logger.Info("announcement created", zap.Int64("announcement_id", announcement.ID), zap.String("title", announcement.Title))
	return &announcement, nil
}

// View resolves the derived fields of an announcement for rendering.
func (s *AnnouncementService) View(announcement models.Announcement) dto.AnnouncementView {
	view := dto.AnnouncementView{
		ID:                 announcement.ID,
		Title:              announcement.Title,
		Text:               announcement.Text,
		TotalEmployees:     announcement.TotalEmployees,
		AcknowledgedCount:  announcement.AcknowledgedCount(),
		AcknowledgedBy:     append([]string{}, announcement.AcknowledgedBy...),
		ProgressPercentage: announcement.ProgressPercentage(),
		Status:             announcement.Status(),
		CreatedAt:          announcement.CreatedAt,
	}
	if announcement.Image != nil && s.images != nil {
		view.ImageURL = s.images.PreviewURL(*announcement.Image)
	}
	return view
}

// Views maps View over a list.
func (s *AnnouncementService) Views(list []models.Announcement) []dto.AnnouncementView {
	views := make([]dto.AnnouncementView, 0, len(list))
	for _, announcement := range list {
		views = append(views, s.View(announcement))
	}
	return views
}

// ImageReferences lists the stored image names referenced by announcements.
func (s *AnnouncementService) ImageReferences(ctx context.Context) ([]string, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0)
	for _, announcement := range list {
		if announcement.Image != nil {
			names = append(names, *announcement.Image)
		}
	}
	return names, nil
}
