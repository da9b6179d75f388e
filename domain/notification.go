package domain

import "time"

// Notification levels.
const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"
)

// Notification is a user-visible message raised by a catalog operation,
// typically shown as a toast by whichever front-end drives the catalog.
type Notification struct {
	Level   string
	Message string
	Time    time.Time
}
