package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/ack-board/pkg/errors"
	"github.com/noah-isme/ack-board/pkg/logger"
	"github.com/noah-isme/ack-board/pkg/response"
)

// SessionAuthenticator resolves a bearer token to a live board session id.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// Session protects board routes by requiring a valid session token.
func Session(auth SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "session token required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		sessionID, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(logger.SessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID returns the session id stored by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(logger.SessionIDKey)
}
