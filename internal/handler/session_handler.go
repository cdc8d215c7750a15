package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ack-board/internal/dto"
	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/pkg/response"
)

type sessionOpener interface {
	Open(ctx context.Context) (*models.BoardSession, string, time.Time, error)
}

type boardRenderer interface {
	Render(ctx context.Context, session *models.BoardSession) (*dto.BoardSnapshot, error)
}

// SessionHandler opens board sessions.
type SessionHandler struct {
	sessions sessionOpener
	board    boardRenderer
}

// NewSessionHandler builds a new handler.
func NewSessionHandler(sessions sessionOpener, board boardRenderer) *SessionHandler {
	return &SessionHandler{sessions: sessions, board: board}
}

// Create godoc
// @Summary Open a board session
// @Description Returns a bearer token for the board endpoints and the initial snapshot.
// @Tags Sessions
// @Produce json
// @Success 201 {object} response.Envelope{data=dto.SessionResponse}
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	session, token, expiresAt, err := h.sessions.Open(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	snapshot, err := h.board.Render(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.SessionResponse{Token: token, ExpiresAt: expiresAt, Board: *snapshot})
}
