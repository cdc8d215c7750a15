package handler

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ack-board/pkg/response"
)

type imageOpener interface {
	Open(ctx context.Context, name, token string) (*os.File, error)
}

// ImageHandler serves stored images behind signed links.
type ImageHandler struct {
	images imageOpener
}

// NewImageHandler builds a new handler.
func NewImageHandler(images imageOpener) *ImageHandler {
	return &ImageHandler{images: images}
}

// Serve godoc
// @Summary Fetch a stored image
// @Tags Images
// @Produce image/png
// @Produce image/jpeg
// @Param name path string true "Stored image name"
// @Param token query string true "Signed token from the preview URL"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /images/{name} [get]
func (h *ImageHandler) Serve(c *gin.Context) {
	file, err := h.images.Open(c.Request.Context(), c.Param("name"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Header("X-Content-Type-Options", "nosniff")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}
