package repository

import "errors"

// ErrAnnouncementComplete is returned when an acknowledgment would exceed the eligible total.
var ErrAnnouncementComplete = errors.New("announcement already fully acknowledged")

// ErrSessionNotFound is returned for unknown or pruned board sessions.
var ErrSessionNotFound = errors.New("board session not found")
