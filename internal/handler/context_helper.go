package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ack-board/internal/middleware"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
)

func sessionFromContext(c *gin.Context) string {
	return middleware.SessionID(c)
}

func announcementIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "announcement id must be a positive integer")
	}
	return id, nil
}

// bindOptionalJSON binds a JSON body when one was sent; an empty body leaves dest untouched.
func bindOptionalJSON(c *gin.Context, dest interface{}, message string) error {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
	}
	return nil
}
