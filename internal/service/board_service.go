package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ack-board/internal/dto"
	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/internal/repository"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
)

type boardAnnouncements interface {
	List(ctx context.Context) ([]models.Announcement, error)
	Get(ctx context.Context, id int64) (*models.Announcement, error)
	Acknowledge(ctx context.Context, id int64, employee string) (*models.Announcement, bool, error)
	View(announcement models.Announcement) dto.AnnouncementView
	Roster() models.Roster
}

// BoardService assembles board snapshots and applies the per-session transitions:
// employee selection, acknowledgment and carousel navigation.
type BoardService struct {
	sessions      sessionStore
	announcements boardAnnouncements
	images        imagePreviewer
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewBoardService constructs the service.
func NewBoardService(sessions sessionStore, announcements boardAnnouncements, images imagePreviewer, validate *validator.Validate, logger *zap.Logger) *BoardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{sessions: sessions, announcements: announcements, images: images, validator: validate, logger: logger}
}

// Snapshot renders the board for a session.
func (s *BoardService) Snapshot(ctx context.Context, sessionID string) (*dto.BoardSnapshot, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	return s.Render(ctx, session)
}

// Render builds the snapshot for an already loaded session.
func (s *BoardService) Render(ctx context.Context, session *models.BoardSession) (*dto.BoardSnapshot, error) {
	list, err := s.announcements.List(ctx)
	if err != nil {
		return nil, err
	}
	roster := s.announcements.Roster()
	current, previous := models.Partition(list)

	currentViews := make([]dto.CurrentAnnouncementView, 0, len(current))
	for _, announcement := range current {
		view := dto.CurrentAnnouncementView{
			AnnouncementView:   s.announcements.View(announcement),
			AvailableEmployees: roster.Pending(announcement),
		}
		if selected, ok := session.Selections[announcement.ID]; ok {
			name := selected
			view.SelectedEmployee = &name
			view.SelectionLocked = announcement.HasAcknowledged(selected)
			view.CanAcknowledge = !view.SelectionLocked
		}
		currentViews = append(currentViews, view)
	}

	items := make([]dto.AnnouncementView, 0, len(previous))
	for _, announcement := range previous {
		items = append(items, s.announcements.View(announcement))
	}

	return &dto.BoardSnapshot{
		SessionID: session.ID,
		Roster:    roster,
		Current:   currentViews,
		Previous: dto.CarouselView{
			Index:     models.CarouselClamp(session.CarouselIndex, len(previous)),
			Size:      len(previous),
			Navigable: models.CarouselNavigable(len(previous)),
			Items:     items,
		},
		Dialog: s.dialogView(session.Dialog),
	}, nil
}

// SelectEmployee records which employee is about to acknowledge an announcement.
func (s *BoardService) SelectEmployee(ctx context.Context, sessionID string, id int64, req dto.SelectEmployeeRequest) (*dto.BoardSnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}
	employee := strings.TrimSpace(req.Employee)
	if !s.announcements.Roster().Contains(employee) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee is not on the roster")
	}
	announcement, err := s.announcements.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if announcement.IsPrevious() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "announcement is already fully acknowledged")
	}
	if announcement.HasAcknowledged(employee) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee already acknowledged this announcement")
	}

	session, err := s.sessions.Update(ctx, sessionID, func(session *models.BoardSession) error {
		if selected, ok := session.Selections[id]; ok && announcement.HasAcknowledged(selected) {
			return appErrors.Clone(appErrors.ErrConflict, "selection is locked after acknowledgment")
		}
		session.Selections[id] = employee
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	s.logger.Debug("employee selected", zap.String("session_id", sessionID), zap.Int64("announcement_id", id), zap.String("employee", employee))
	return s.Render(ctx, session)
}

// Acknowledge acknowledges an announcement for the named employee, or for the
// session's selection when no name is given. The selection is kept afterwards.
func (s *BoardService) Acknowledge(ctx context.Context, sessionID string, id int64, req dto.AcknowledgeRequest) (*dto.BoardSnapshot, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid acknowledgment payload")
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, false, sessionError(err)
	}
	employee := strings.TrimSpace(req.Employee)
	if employee == "" {
		employee = session.Selections[id]
	}
	if employee == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "select an employee first")
	}

	_, changed, err := s.announcements.Acknowledge(ctx, id, employee)
	if err != nil {
		return nil, false, err
	}

	session, err = s.sessions.Update(ctx, sessionID, func(session *models.BoardSession) error {
		session.Selections[id] = employee
		return nil
	})
	if err != nil {
		return nil, changed, sessionError(err)
	}
	snapshot, err := s.Render(ctx, session)
	return snapshot, changed, err
}

// CarouselAdvance moves the previous-announcements cursor forward, wrapping.
func (s *BoardService) CarouselAdvance(ctx context.Context, sessionID string) (*dto.BoardSnapshot, error) {
	return s.moveCarousel(ctx, sessionID, func(index, n int) (int, error) {
		return models.CarouselAdvance(index, n), nil
	})
}

// CarouselRetreat moves the cursor backward, wrapping.
func (s *BoardService) CarouselRetreat(ctx context.Context, sessionID string) (*dto.BoardSnapshot, error) {
	return s.moveCarousel(ctx, sessionID, func(index, n int) (int, error) {
		return models.CarouselRetreat(index, n), nil
	})
}

// CarouselJump sets the cursor to a specific slide.
func (s *BoardService) CarouselJump(ctx context.Context, sessionID string, req dto.CarouselJumpRequest) (*dto.BoardSnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid carousel payload")
	}
	target := *req.Index
	return s.moveCarousel(ctx, sessionID, func(index, n int) (int, error) {
		if n == 0 {
			return index, appErrors.Clone(appErrors.ErrValidation, "no previous announcements")
		}
		if !models.CarouselValidIndex(target, n) {
			return index, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("carousel index must be between 0 and %d", n-1))
		}
		return target, nil
	})
}

func (s *BoardService) moveCarousel(ctx context.Context, sessionID string, move func(index, n int) (int, error)) (*dto.BoardSnapshot, error) {
	list, err := s.announcements.List(ctx)
	if err != nil {
		return nil, err
	}
	_, previous := models.Partition(list)
	n := len(previous)

	session, err := s.sessions.Update(ctx, sessionID, func(session *models.BoardSession) error {
		next, err := move(session.CarouselIndex, n)
		if err != nil {
			return err
		}
		session.CarouselIndex = next
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	return s.Render(ctx, session)
}

func (s *BoardService) dialogView(dialog models.CreationDialog) dto.DialogView {
	view := dto.DialogView{
		State:             dialog.State,
		Authenticated:     dialog.Authenticated,
		PasswordRejected:  dialog.PasswordRejected,
		ValidationMessage: dialog.ValidationMessage,
		SubmissionID:      dialog.SubmissionID,
	}
	if dialog.State != models.DialogFormOpen && dialog.State != models.DialogSubmitting {
		return view
	}
	draft := &dto.DraftView{Title: dialog.Draft.Title, Text: dialog.Draft.Text}
	if image := dialog.Draft.Image; image != nil {
		if s.images != nil {
			draft.ImagePreviewURL = s.images.PreviewURL(image.Name)
		}
		filename := image.Filename
		draft.ImageFilename = &filename
	}
	view.Draft = draft
	return view
}

// sessionError maps store errors; typed errors from update callbacks pass through.
func sessionError(err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
}
