package dto

import (
	"time"

	"github.com/noah-isme/ack-board/internal/models"
)

// AnnouncementView is an announcement with its derived fields resolved for rendering.
type AnnouncementView struct {
	ID                 int64                     `json:"id"`
	Title              string                    `json:"title"`
	Text               string                    `json:"text"`
	ImageURL           *string                   `json:"image_url,omitempty"`
	TotalEmployees     int                       `json:"total_employees"`
	AcknowledgedCount  int                       `json:"acknowledged_count"`
	AcknowledgedBy     []string                  `json:"acknowledged_by"`
	ProgressPercentage float64                   `json:"progress_percentage"`
	Status             models.AnnouncementStatus `json:"status"`
	CreatedAt          time.Time                 `json:"created_at"`
}

// CurrentAnnouncementView adds the acknowledgment controls shown for current announcements.
type CurrentAnnouncementView struct {
	AnnouncementView
	AvailableEmployees []string `json:"available_employees"`
	SelectedEmployee   *string  `json:"selected_employee,omitempty"`
	SelectionLocked    bool     `json:"selection_locked"`
	CanAcknowledge     bool     `json:"can_acknowledge"`
}

// CarouselView describes the previous-announcements carousel.
type CarouselView struct {
	Index     int                `json:"index"`
	Size      int                `json:"size"`
	Navigable bool               `json:"navigable"`
	Items     []AnnouncementView `json:"items"`
}

// DraftView is the creation draft as the client sees it.
type DraftView struct {
	Title           string  `json:"title"`
	Text            string  `json:"text"`
	ImagePreviewURL *string `json:"image_preview_url,omitempty"`
	ImageFilename   *string `json:"image_filename,omitempty"`
}

// DialogView is the creation dialog state.
type DialogView struct {
	State             models.DialogState `json:"state"`
	Authenticated     bool               `json:"authenticated"`
	PasswordRejected  bool               `json:"password_rejected"`
	ValidationMessage string             `json:"validation_message,omitempty"`
	Draft             *DraftView         `json:"draft,omitempty"`
	SubmissionID      string             `json:"submission_id,omitempty"`
}

// BoardSnapshot is the immutable view handed to the client after every transition.
type BoardSnapshot struct {
	SessionID string                    `json:"session_id"`
	Roster    []string                  `json:"roster"`
	Current   []CurrentAnnouncementView `json:"current"`
	Previous  CarouselView              `json:"previous"`
	Dialog    DialogView                `json:"dialog"`
}

// SessionResponse is returned when a board session is opened.
type SessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Board     BoardSnapshot `json:"board"`
}

// SelectEmployeeRequest chooses the employee about to acknowledge.
type SelectEmployeeRequest struct {
	Employee string `json:"employee" validate:"required,max=200"`
}

// AcknowledgeRequest optionally names the employee; the session selection is used otherwise.
type AcknowledgeRequest struct {
	Employee string `json:"employee" validate:"omitempty,max=200"`
}

// CarouselJumpRequest sets the carousel cursor directly.
type CarouselJumpRequest struct {
	Index *int `json:"index" validate:"required"`
}

// PasswordRequest carries the shared secret for the creation dialog.
type PasswordRequest struct {
	Password string `json:"password"`
}

// UpdateDraftRequest is a partial draft update; nil fields are left unchanged.
type UpdateDraftRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
	Text  *string `json:"text" validate:"omitempty,max=10000"`
}

// SubmissionAccepted is returned when a draft was queued for publishing.
type SubmissionAccepted struct {
	SubmissionID string        `json:"submission_id"`
	Board        BoardSnapshot `json:"board"`
}
