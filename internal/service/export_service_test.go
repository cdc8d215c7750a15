package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/ack-board/pkg/errors"
)

func TestReportListsAcknowledgedThenPending(t *testing.T) {
	f := newBoardFixture(t, singleAnnouncement(4, "Waylon Cargile"))
	svc := NewExportService(f.announcements, nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }

	report, err := svc.Report(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "announcement-1-acknowledgments.csv", report.Filename)
	assert.Contains(t, report.ContentType, "text/csv")

	records, err := csv.NewReader(bytes.NewReader(report.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"#", "Employee", "Status"}, records[0])
	assert.Equal(t, []string{"1", "Waylon Cargile", "ACKNOWLEDGED"}, records[1])
	assert.Equal(t, []string{"", "Gabriel Navar", "PENDING"}, records[2])
	assert.Equal(t, "Matheu Shepherd", records[4][1])
}

func TestReportPDFAndErrors(t *testing.T) {
	f := newBoardFixture(t, singleAnnouncement(1, "John Smith"))
	svc := NewExportService(f.announcements, nil)
	ctx := context.Background()

	report, err := svc.Report(ctx, 1, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, bytes.HasPrefix(report.Content, []byte("%PDF")))

	_, err = svc.Report(ctx, 1, "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Report(ctx, 9, "csv")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
