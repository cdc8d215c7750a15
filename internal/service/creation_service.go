package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ack-board/internal/dto"
	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/internal/repository"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
	"github.com/noah-isme/ack-board/pkg/jobs"
)

// SubmissionJobType tags queued draft submissions.
const SubmissionJobType = "announcement.submit"

// Submission outcomes recorded in metrics.
const (
	submissionQueued    = "queued"
	submissionPublished = "published"
	submissionFailed    = "failed"
)

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type draftImages interface {
	Store(ctx context.Context, upload ImageUpload) (*models.ImageAttachment, error)
	Delete(ctx context.Context, name string)
}

type announcementCreator interface {
	Create(ctx context.Context, draft models.Draft) (*models.Announcement, error)
}

// SubmissionPayload is carried by a queued submission job.
type SubmissionPayload struct {
	SessionID    string
	SubmissionID string
	Draft        models.Draft
}

// CreationService drives the password-gated creation dialog of a session.
type CreationService struct {
	sessions  sessionStore
	checker   CredentialChecker
	images    draftImages
	queue     jobDispatcher
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewCreationService constructs the service.
func NewCreationService(sessions sessionStore, checker CredentialChecker, images draftImages, queue jobDispatcher, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CreationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreationService{
		sessions:  sessions,
		checker:   checker,
		images:    images,
		queue:     queue,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// Open moves a closed dialog to the password gate. Opening an open dialog changes nothing.
func (s *CreationService) Open(ctx context.Context, sessionID string) (*models.BoardSession, error) {
	return s.update(ctx, sessionID, func(session *models.BoardSession) error {
		if session.Dialog.State == models.DialogClosed {
			session.Dialog = models.CreationDialog{State: models.DialogPasswordGate}
		}
		return nil
	})
}

// SubmitPassword unlocks the form when the secret matches. A mismatch keeps the
// gate up with the rejection flag set and returns ErrPasswordRejected.
func (s *CreationService) SubmitPassword(ctx context.Context, sessionID string, req dto.PasswordRequest) (*models.BoardSession, error) {
	current, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	if current.Dialog.State != models.DialogPasswordGate {
		return nil, appErrors.Clone(appErrors.ErrConflict, "password is not being requested")
	}

	ok, err := s.checker.Check(ctx, req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check password")
	}

	session, err := s.update(ctx, sessionID, func(session *models.BoardSession) error {
		if session.Dialog.State != models.DialogPasswordGate {
			return appErrors.Clone(appErrors.ErrConflict, "password is not being requested")
		}
		if !ok {
			session.Dialog.PasswordRejected = true
			return nil
		}
		session.Dialog = models.CreationDialog{State: models.DialogFormOpen, Authenticated: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		s.metrics.RecordPasswordRejected()
		s.logger.Info("creation password rejected", zap.String("session_id", sessionID))
		return session, appErrors.ErrPasswordRejected
	}
	s.logger.Info("creation form unlocked", zap.String("session_id", sessionID))
	return session, nil
}

// UpdateDraft applies a partial title/text update.
func (s *CreationService) UpdateDraft(ctx context.Context, sessionID string, req dto.UpdateDraftRequest) (*models.BoardSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}
	return s.update(ctx, sessionID, func(session *models.BoardSession) error {
		if err := requireFormOpen(session); err != nil {
			return err
		}
		if req.Title != nil {
			session.Dialog.Draft.Title = *req.Title
		}
		if req.Text != nil {
			session.Dialog.Draft.Text = *req.Text
			if strings.TrimSpace(*req.Text) != "" {
				session.Dialog.ValidationMessage = ""
			}
		}
		return nil
	})
}

// AttachImage stores an upload and attaches it to the draft, replacing any earlier image.
func (s *CreationService) AttachImage(ctx context.Context, sessionID string, upload ImageUpload) (*models.BoardSession, error) {
	current, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	if err := requireFormOpen(current); err != nil {
		return nil, err
	}

	attachment, err := s.images.Store(ctx, upload)
	if err != nil {
		return nil, err
	}

	var replaced string
	session, err := s.update(ctx, sessionID, func(session *models.BoardSession) error {
		if err := requireFormOpen(session); err != nil {
			return err
		}
		if session.Dialog.Draft.Image != nil {
			replaced = session.Dialog.Draft.Image.Name
		}
		session.Dialog.Draft.Image = attachment
		return nil
	})
	if err != nil {
		s.images.Delete(ctx, attachment.Name)
		return nil, err
	}
	if replaced != "" {
		s.images.Delete(ctx, replaced)
	}
	return session, nil
}

// RemoveImage clears the draft image and deletes the stored file; title and text stay.
func (s *CreationService) RemoveImage(ctx context.Context, sessionID string) (*models.BoardSession, error) {
	var removed string
	session, err := s.update(ctx, sessionID, func(session *models.BoardSession) error {
		if err := requireFormOpen(session); err != nil {
			return err
		}
		if session.Dialog.Draft.Image != nil {
			removed = session.Dialog.Draft.Image.Name
		}
		session.Dialog.Draft.Image = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.images.Delete(ctx, removed)
	return session, nil
}

// Submit validates the draft and queues it for publishing. Blank text keeps the form
// open with a validation message.
func (s *CreationService) Submit(ctx context.Context, sessionID string) (*models.BoardSession, string, error) {
	submissionID := uuid.NewString()
	var draft models.Draft
	rejected := false

	session, err := s.update(ctx, sessionID, func(session *models.BoardSession) error {
		switch session.Dialog.State {
		case models.DialogSubmitting:
			return appErrors.ErrSubmitInProgress
		case models.DialogFormOpen:
		default:
			return appErrors.Clone(appErrors.ErrConflict, "dialog is not open")
		}
		if strings.TrimSpace(session.Dialog.Draft.Text) == "" {
			session.Dialog.ValidationMessage = "Please enter announcement text"
			rejected = true
			return nil
		}
		session.Dialog.ValidationMessage = ""
		session.Dialog.State = models.DialogSubmitting
		session.Dialog.SubmissionID = submissionID
		draft = session.Dialog.Draft
		if draft.Image != nil {
			image := *draft.Image
			draft.Image = &image
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if rejected {
		return session, "", appErrors.Clone(appErrors.ErrValidation, "announcement text is required")
	}

	job := jobs.Job{
		ID:      submissionID,
		Type:    SubmissionJobType,
		Payload: SubmissionPayload{SessionID: sessionID, SubmissionID: submissionID, Draft: draft},
	}
	if err := s.queue.Enqueue(job); err != nil {
		if _, rollbackErr := s.update(ctx, sessionID, func(session *models.BoardSession) error {
			if session.Dialog.SubmissionID == submissionID {
				session.Dialog.State = models.DialogFormOpen
				session.Dialog.SubmissionID = ""
			}
			return nil
		}); rollbackErr != nil {
			s.logger.Warn("failed to reopen form after enqueue failure", zap.String("session_id", sessionID), zap.Error(rollbackErr))
		}
		s.metrics.RecordSubmission(submissionFailed)
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue submission")
	}

	s.metrics.RecordSubmission(submissionQueued)
	s.logger.Info("announcement submission queued", zap.String("session_id", sessionID), zap.String("submission_id", submissionID))
	return session, submissionID, nil
}

// Cancel closes the dialog from any state, discarding the draft and authentication.
// A pending submission still publishes, so its image is left in place.
func (s *CreationService) Cancel(ctx context.Context, sessionID string) (*models.BoardSession, error) {
	var discarded string
	session, err := s.update(ctx, sessionID, func(session *models.BoardSession) error {
		if session.Dialog.State != models.DialogSubmitting && session.Dialog.Draft.Image != nil {
			discarded = session.Dialog.Draft.Image.Name
		}
		session.Dialog.Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.images.Delete(ctx, discarded)
	return session, nil
}

func (s *CreationService) update(ctx context.Context, sessionID string, fn func(*models.BoardSession) error) (*models.BoardSession, error) {
	session, err := s.sessions.Update(ctx, sessionID, fn)
	if err != nil {
		return nil, sessionError(err)
	}
	return session, nil
}

func requireFormOpen(session *models.BoardSession) error {
	switch session.Dialog.State {
	case models.DialogFormOpen:
		return nil
	case models.DialogSubmitting:
		return appErrors.ErrSubmitInProgress
	default:
		return appErrors.Clone(appErrors.ErrConflict, "dialog is not open")
	}
}

// SubmissionWorker publishes queued drafts after the configured delay.
type SubmissionWorker struct {
	sessions      sessionStore
	announcements announcementCreator
	delay         time.Duration
	metrics       *MetricsService
	logger        *zap.Logger
}

// NewSubmissionWorker constructs a worker.
func NewSubmissionWorker(sessions sessionStore, announcements announcementCreator, delay time.Duration, metrics *MetricsService, logger *zap.Logger) *SubmissionWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay < 0 {
		delay = 0
	}
	return &SubmissionWorker{sessions: sessions, announcements: announcements, delay: delay, metrics: metrics, logger: logger}
}

// Handle processes a queue job. Failures are permanent: the form is reopened with a
// message rather than retried.
func (w *SubmissionWorker) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(SubmissionPayload)
	if !ok {
		return jobs.Permanent(fmt.Errorf("unexpected payload %T", job.Payload))
	}

	if w.delay > 0 {
		timer := time.NewTimer(w.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	announcement, err := w.announcements.Create(ctx, payload.Draft)
	if err != nil {
		w.metrics.RecordSubmission(submissionFailed)
		w.finish(ctx, payload, func(dialog *models.CreationDialog) {
			dialog.State = models.DialogFormOpen
			dialog.SubmissionID = ""
			dialog.ValidationMessage = "Could not publish the announcement, please try again"
		})
		return jobs.Permanent(err)
	}

	w.metrics.RecordSubmission(submissionPublished)
	w.finish(ctx, payload, func(dialog *models.CreationDialog) {
		dialog.Reset()
	})
	w.logger.Info("announcement published",
		zap.String("session_id", payload.SessionID),
		zap.String("submission_id", payload.SubmissionID),
		zap.Int64("announcement_id", announcement.ID),
	)
	return nil
}

// finish updates the dialog only if it still belongs to this submission.
func (w *SubmissionWorker) finish(ctx context.Context, payload SubmissionPayload, apply func(*models.CreationDialog)) {
	_, err := w.sessions.Update(ctx, payload.SessionID, func(session *models.BoardSession) error {
		if session.Dialog.State == models.DialogSubmitting && session.Dialog.SubmissionID == payload.SubmissionID {
			apply(&session.Dialog)
		}
		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		w.logger.Warn("failed to settle submission dialog", zap.String("session_id", payload.SessionID), zap.Error(err))
	}
}
