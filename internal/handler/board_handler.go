package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ack-board/internal/dto"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
	"github.com/noah-isme/ack-board/pkg/response"
)

type boardService interface {
	Snapshot(ctx context.Context, sessionID string) (*dto.BoardSnapshot, error)
	SelectEmployee(ctx context.Context, sessionID string, id int64, req dto.SelectEmployeeRequest) (*dto.BoardSnapshot, error)
	Acknowledge(ctx context.Context, sessionID string, id int64, req dto.AcknowledgeRequest) (*dto.BoardSnapshot, bool, error)
	CarouselAdvance(ctx context.Context, sessionID string) (*dto.BoardSnapshot, error)
	CarouselRetreat(ctx context.Context, sessionID string) (*dto.BoardSnapshot, error)
	CarouselJump(ctx context.Context, sessionID string, req dto.CarouselJumpRequest) (*dto.BoardSnapshot, error)
}

// BoardHandler exposes the per-session board transitions.
type BoardHandler struct {
	service boardService
}

// NewBoardHandler builds a new handler.
func NewBoardHandler(service boardService) *BoardHandler {
	return &BoardHandler{service: service}
}

// Snapshot godoc
// @Summary Current board snapshot
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Failure 401 {object} response.Envelope
// @Router /board [get]
func (h *BoardHandler) Snapshot(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot)
}

// SelectEmployee godoc
// @Summary Choose the employee about to acknowledge
// @Tags Board
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Param payload body dto.SelectEmployeeRequest true "Employee"
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /board/announcements/{id}/selection [put]
func (h *BoardHandler) SelectEmployee(c *gin.Context) {
	id, err := announcementIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SelectEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	snapshot, err := h.service.SelectEmployee(c.Request.Context(), sessionFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot)
}

// Acknowledge godoc
// @Summary Acknowledge an announcement
// @Description Uses the session selection when no employee is named. Repeating an acknowledgment is a no-op.
// @Tags Board
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Param payload body dto.AcknowledgeRequest false "Employee override"
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /board/announcements/{id}/acknowledge [post]
func (h *BoardHandler) Acknowledge(c *gin.Context) {
	id, err := announcementIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AcknowledgeRequest
	if err := bindOptionalJSON(c, &req, "invalid acknowledgment payload"); err != nil {
		response.Error(c, err)
		return
	}
	snapshot, changed, err := h.service.Acknowledge(c.Request.Context(), sessionFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, map[string]interface{}{"changed": changed})
}

// CarouselAdvance godoc
// @Summary Next previous-announcement slide
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Router /board/carousel/advance [post]
func (h *BoardHandler) CarouselAdvance(c *gin.Context) {
	snapshot, err := h.service.CarouselAdvance(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot)
}

// CarouselRetreat godoc
// @Summary Previous previous-announcement slide
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Router /board/carousel/retreat [post]
func (h *BoardHandler) CarouselRetreat(c *gin.Context) {
	snapshot, err := h.service.CarouselRetreat(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot)
}

// CarouselJump godoc
// @Summary Jump to a carousel slide
// @Tags Board
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CarouselJumpRequest true "Slide index"
// @Success 200 {object} response.Envelope{data=dto.BoardSnapshot}
// @Failure 400 {object} response.Envelope
// @Router /board/carousel/jump [post]
func (h *BoardHandler) CarouselJump(c *gin.Context) {
	var req dto.CarouselJumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid carousel payload"))
		return
	}
	snapshot, err := h.service.CarouselJump(c.Request.Context(), sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot)
}
