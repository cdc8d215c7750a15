package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ack-board/internal/dto"
	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/internal/service"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
	"github.com/noah-isme/ack-board/pkg/response"
)

const imageFormField = "image"

type creationService interface {
	Open(ctx context.Context, sessionID string) (*models.BoardSession, error)
	SubmitPassword(ctx context.Context, sessionID string, req dto.PasswordRequest) (*models.BoardSession, error)
	UpdateDraft(ctx context.Context, sessionID string, req dto.UpdateDraftRequest) (*models.BoardSession, error)
	AttachImage(ctx context.Context, sessionID string, upload service.ImageUpload) (*models.BoardSession, error)
	RemoveImage(ctx context.Context, sessionID string) (*models.BoardSession, error)
	Submit(ctx context.Context, sessionID string) (*models.BoardSession, string, error)
	Cancel(ctx context.Context, sessionID string) (*models.BoardSession, error)
}

// CreationHandler exposes the password-gated creation dialog.
type CreationHandler struct {
	service creationService
	board   boardRenderer
}

// NewCreationHandler builds a new handler.
func NewCreationHandler(service creationService, board boardRenderer) *CreationHandler {
	return &CreationHandler{service: service, board: board}
}

// Open godoc
// @Summary Open the creation dialog
// @Tags Creation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Router /board/dialog/open [post]
func (h *CreationHandler) Open(c *gin.Context) {
	session, err := h.service.Open(c.Request.Context(), sessionFromContext(c))
	h.respond(c, session, err)
}

// SubmitPassword godoc
// @Summary Unlock the creation form
// @Description A wrong password returns PASSWORD_REJECTED together with the snapshot showing the rejection.
// @Tags Creation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PasswordRequest true "Shared secret"
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Failure 400 {object} response.Envelope{data=dto.BoardSnapshot}
// @Failure 409 {object} response.Envelope
// @Router /board/dialog/password [post]
func (h *CreationHandler) SubmitPassword(c *gin.Context) {
	var req dto.PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}
	session, err := h.service.SubmitPassword(c.Request.Context(), sessionFromContext(c), req)
	h.respond(c, session, err)
}

// UpdateDraft godoc
// @Summary Update draft title or text
// @Tags Creation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UpdateDraftRequest true "Draft fields"
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Failure 409 {object} response.Envelope
// @Router /board/dialog/draft [patch]
func (h *CreationHandler) UpdateDraft(c *gin.Context) {
	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}
	session, err := h.service.UpdateDraft(c.Request.Context(), sessionFromContext(c), req)
	h.respond(c, session, err)
}

// UploadImage godoc
// @Summary Attach an image to the draft
// @Tags Creation
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Failure 400 {object} response.Envelope
// @Router /board/dialog/image [post]
func (h *CreationHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile(imageFormField)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "image file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable image upload"))
		return
	}
	defer file.Close()

	session, err := h.service.AttachImage(c.Request.Context(), sessionFromContext(c), service.ImageUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   file,
	})
	h.respond(c, session, err)
}

// RemoveImage godoc
// @Summary Remove the draft image
// @Tags Creation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Router /board/dialog/image [delete]
func (h *CreationHandler) RemoveImage(c *gin.Context) {
	session, err := h.service.RemoveImage(c.Request.Context(), sessionFromContext(c))
	h.respond(c, session, err)
}

// Submit godoc
// @Summary Publish the draft
// @Description Queues the draft; the dialog closes once the announcement is published.
// @Tags Creation
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope{data=dto.SubmissionAccepted}
// @Failure 400 {object} response.Envelope{data=dto.BoardSnapshot}
// @Failure 409 {object} response.Envelope
// @Router /board/dialog/submit [post]
func (h *CreationHandler) Submit(c *gin.Context) {
	session, submissionID, err := h.service.Submit(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		h.respond(c, session, err)
		return
	}
	snapshot, err := h.board.Render(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, dto.SubmissionAccepted{SubmissionID: submissionID, Board: *snapshot})
}

// Cancel godoc
// @Summary Close the creation dialog
// @Tags Creation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Router /board/dialog/cancel [post]
func (h *CreationHandler) Cancel(c *gin.Context) {
	session, err := h.service.Cancel(c.Request.Context(), sessionFromContext(c))
	h.respond(c, session, err)
}

// respond renders the snapshot; rejected transitions that still changed visible state
// carry the snapshot alongside the error.
func (h *CreationHandler) respond(c *gin.Context, session *models.BoardSession, err error) {
	if session == nil {
		if err == nil {
			err = errors.New("transition returned no session")
		}
		response.Error(c, err)
		return
	}
	snapshot, renderErr := h.board.Render(c.Request.Context(), session)
	if renderErr != nil {
		response.Error(c, renderErr)
		return
	}
	if err != nil {
		response.ErrorWithData(c, err, snapshot)
		return
	}
	response.JSON(c, http.StatusOK, snapshot)
}
