package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DialogState enumerates the creation dialog states.
type DialogState string

const (
	DialogClosed       DialogState = "CLOSED"
	DialogPasswordGate DialogState = "PASSWORD_GATE"
	DialogFormOpen     DialogState = "FORM_OPEN"
	DialogSubmitting   DialogState = "SUBMITTING"
)

// ImageAttachment references a stored draft image.
type ImageAttachment struct {
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Filename  string    `json:"filename"`
	StoredAt  time.Time `json:"stored_at"`
}

// Draft is the in-progress announcement composed in the creation dialog.
type Draft struct {
	Title string           `json:"title"`
	Text  string           `json:"text"`
	Image *ImageAttachment `json:"image,omitempty"`
}

// CreationDialog holds the creation flow for one session.
type CreationDialog struct {
	State             DialogState `json:"state"`
	Authenticated     bool        `json:"authenticated"`
	PasswordRejected  bool        `json:"password_rejected"`
	ValidationMessage string      `json:"validation_message,omitempty"`
	Draft             Draft       `json:"draft"`
	SubmissionID      string      `json:"submission_id,omitempty"`
}

// Reset discards every draft field and returns the dialog to CLOSED.
func (d *CreationDialog) Reset() {
	*d = CreationDialog{State: DialogClosed}
}

// BoardSession is the per-client UI state: selection map, carousel cursor and dialog.
type BoardSession struct {
	ID            string           `json:"id"`
	Selections    map[int64]string `json:"selections"`
	CarouselIndex int              `json:"carousel_index"`
	Dialog        CreationDialog   `json:"dialog"`
	CreatedAt     time.Time        `json:"created_at"`
	LastSeenAt    time.Time        `json:"last_seen_at"`
}

// NewBoardSession returns a session with a closed dialog and no selections.
func NewBoardSession(id string, now time.Time) *BoardSession {
	return &BoardSession{
		ID:         id,
		Selections: map[int64]string{},
		Dialog:     CreationDialog{State: DialogClosed},
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

// Clone deep-copies the session for handing out as a snapshot.
func (s *BoardSession) Clone() *BoardSession {
	out := *s
	out.Selections = make(map[int64]string, len(s.Selections))
	for k, v := range s.Selections {
		out.Selections[k] = v
	}
	if s.Dialog.Draft.Image != nil {
		image := *s.Dialog.Draft.Image
		out.Dialog.Draft.Image = &image
	}
	return &out
}

// SessionClaims are carried by board session tokens.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
