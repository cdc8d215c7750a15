package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ack-board/internal/dto"
	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/internal/service"
	"github.com/noah-isme/ack-board/pkg/response"
)

type announcementService interface {
	List(ctx context.Context) ([]models.Announcement, error)
	Get(ctx context.Context, id int64) (*models.Announcement, error)
	View(announcement models.Announcement) dto.AnnouncementView
	Views(list []models.Announcement) []dto.AnnouncementView
	Roster() models.Roster
}

type reportService interface {
	Report(ctx context.Context, id int64, format string) (*service.ReportFile, error)
}

// AnnouncementHandler exposes read access to the shared announcement list.
type AnnouncementHandler struct {
	service announcementService
	reports reportService
}

// NewAnnouncementHandler builds a new handler.
func NewAnnouncementHandler(service announcementService, reports reportService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service, reports: reports}
}

// List godoc
// @Summary List announcements
// @Description Newest first, with derived count, progress and status.
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Envelope{data=[]dto.AnnouncementView}
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	current, previous := models.Partition(list)
	response.JSON(c, http.StatusOK, h.service.Views(list), map[string]interface{}{
		"total":    len(list),
		"current":  len(current),
		"previous": len(previous),
	})
}

// Get godoc
// @Summary Get an announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope{data=dto.AnnouncementView}
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	id, err := announcementIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	announcement, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.View(*announcement))
}

// Report godoc
// @Summary Download an acknowledgment report
// @Tags Announcements
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Announcement ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id}/report [get]
func (h *AnnouncementHandler) Report(c *gin.Context) {
	id, err := announcementIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Report(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}

// Roster godoc
// @Summary Employee roster
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Envelope{data=[]string}
// @Router /roster [get]
func (h *AnnouncementHandler) Roster(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Roster())
}
