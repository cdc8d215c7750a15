package models

import (
	"sort"
	"strings"
	"time"
)

// AnnouncementStatus is the derived completion state of an announcement.
type AnnouncementStatus string

const (
	AnnouncementStatusCurrent  AnnouncementStatus = "CURRENT"
	AnnouncementStatusPrevious AnnouncementStatus = "PREVIOUS"
)

// Announcement is a record that every eligible employee must acknowledge.
// Count and status are derived from AcknowledgedBy and never stored.
type Announcement struct {
	ID             int64     `db:"id" json:"id" yaml:"id"`
	Title          string    `db:"title" json:"title" yaml:"title"`
	Text           string    `db:"text" json:"text" yaml:"text"`
	Image          *string   `db:"image" json:"image,omitempty" yaml:"image,omitempty"`
	TotalEmployees int       `db:"total_employees" json:"total_employees" yaml:"total_employees"`
	AcknowledgedBy []string  `db:"-" json:"acknowledged_by" yaml:"acknowledged_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
}

// AcknowledgedCount is the number of employees who acknowledged.
func (a Announcement) AcknowledgedCount() int {
	return len(a.AcknowledgedBy)
}

// IsCurrent reports whether some eligible employee has yet to acknowledge.
func (a Announcement) IsCurrent() bool {
	return a.AcknowledgedCount() < a.TotalEmployees
}

// IsPrevious reports whether every eligible employee acknowledged.
func (a Announcement) IsPrevious() bool {
	return !a.IsCurrent()
}

// Status returns the derived classification.
func (a Announcement) Status() AnnouncementStatus {
	if a.IsCurrent() {
		return AnnouncementStatusCurrent
	}
	return AnnouncementStatusPrevious
}

// ProgressPercentage is the acknowledged share in [0,100].
func (a Announcement) ProgressPercentage() float64 {
	if a.TotalEmployees <= 0 {
		return 100
	}
	pct := float64(a.AcknowledgedCount()) / float64(a.TotalEmployees) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// HasAcknowledged reports whether employee is in the acknowledged set.
func (a Announcement) HasAcknowledged(employee string) bool {
	for _, name := range a.AcknowledgedBy {
		if name == employee {
			return true
		}
	}
	return false
}

// WithAcknowledgment returns a copy with employee appended. The bool is false when
// the employee had already acknowledged and nothing changed.
func (a Announcement) WithAcknowledgment(employee string) (Announcement, bool) {
	if a.HasAcknowledged(employee) {
		return a, false
	}
	next := a.Clone()
	next.AcknowledgedBy = append(next.AcknowledgedBy, employee)
	return next, true
}

// Clone deep-copies the slice and pointer fields.
func (a Announcement) Clone() Announcement {
	out := a
	out.AcknowledgedBy = append([]string(nil), a.AcknowledgedBy...)
	if a.Image != nil {
		image := *a.Image
		out.Image = &image
	}
	return out
}

// Partition splits announcements into current and previous, preserving order.
func Partition(list []Announcement) (current, previous []Announcement) {
	current = make([]Announcement, 0, len(list))
	previous = make([]Announcement, 0, len(list))
	for _, ann := range list {
		if ann.IsCurrent() {
			current = append(current, ann)
		} else {
			previous = append(previous, ann)
		}
	}
	return current, previous
}

// SortNewestFirst orders list by creation time descending, breaking ties by id descending.
func SortNewestFirst(list []Announcement) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

// NextAnnouncementID returns an id greater than every existing one.
func NextAnnouncementID(list []Announcement) int64 {
	var highest int64
	for _, ann := range list {
		if ann.ID > highest {
			highest = ann.ID
		}
	}
	return highest + 1
}

// NewAnnouncement builds an unacknowledged announcement from a submitted draft.
func NewAnnouncement(id int64, title, text string, image *string, total int, fallbackTitle string, now time.Time) Announcement {
	title = strings.TrimSpace(title)
	if title == "" {
		title = fallbackTitle
	}
	return Announcement{
		ID:             id,
		Title:          title,
		Text:           strings.TrimSpace(text),
		Image:          image,
		TotalEmployees: total,
		AcknowledgedBy: []string{},
		CreatedAt:      now.UTC(),
	}
}
