// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Notification variants.  They mirror the two toast styles the
// dashboard renders: a normal confirmation and a destructive error.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// NotificationEvent is the fire-and-forget user notification produced
// for every booking, attendance, swap and auth outcome.  It carries
// enough for downstream consumers to log or push to a client without
// querying the primary database.
type NotificationEvent struct {
	UserID      uint64 `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
	OccurredAt  string `json:"occurred_at"`
}

// NewNotification builds a NotificationEvent stamped with the current
// UTC time.
func NewNotification(userID uint64, title, description, variant string) NotificationEvent {
	return NotificationEvent{
		UserID:      userID,
		Title:       title,
		Description: description,
		Variant:     variant,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
}
