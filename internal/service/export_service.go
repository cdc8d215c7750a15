package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ack-board/internal/models"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
	"github.com/noah-isme/ack-board/pkg/export"
)

// Report formats.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

// Acknowledgment statuses in reports.
const (
	reportStatusAcknowledged = "ACKNOWLEDGED"
	reportStatusPending      = "PENDING"
)

type announcementReader interface {
	Get(ctx context.Context, id int64) (*models.Announcement, error)
	Roster() models.Roster
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ReportFile is a rendered acknowledgment report.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders acknowledgment reports for a single announcement.
type ExportService struct {
	announcements announcementReader
	renderers     map[string]datasetRenderer
	logger        *zap.Logger
	now           func() time.Time
}

// NewExportService constructs the service with the CSV and PDF renderers.
func NewExportService(announcements announcementReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		announcements: announcements,
		renderers: map[string]datasetRenderer{
			ReportFormatCSV: export.NewCSVExporter(),
			ReportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Report renders who acknowledged announcement id and who is still pending.
func (s *ExportService) Report(ctx context.Context, id int64, format string) (*ReportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ReportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}

	announcement, err := s.announcements.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := renderer.Render(s.dataset(*announcement))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.logger.Debug("acknowledgment report rendered", zap.Int64("announcement_id", id), zap.String("format", format), zap.Int("bytes", len(content)))
	return &ReportFile{
		Filename:    fmt.Sprintf("announcement-%d-acknowledgments.%s", id, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// Acknowledgers come first in acknowledgment order, then roster members still pending.
func (s *ExportService) dataset(announcement models.Announcement) export.Dataset {
	rows := make([][]string, 0, len(announcement.AcknowledgedBy)+len(s.announcements.Roster()))
	for i, employee := range announcement.AcknowledgedBy {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), employee, reportStatusAcknowledged})
	}
	if announcement.IsCurrent() {
		for _, employee := range s.announcements.Roster().Pending(announcement) {
			rows = append(rows, []string{"", employee, reportStatusPending})
		}
	}
	return export.Dataset{
		Title: announcement.Title,
		Summary: []string{
			fmt.Sprintf("Status: %s", announcement.Status()),
			fmt.Sprintf("Acknowledged: %d of %d (%.0f%%)", announcement.AcknowledgedCount(), announcement.TotalEmployees, announcement.ProgressPercentage()),
			fmt.Sprintf("Generated: %s", s.now().UTC().Format(time.RFC3339)),
		},
		Headers: []string{"#", "Employee", "Status"},
		Rows:    rows,
	}
}
