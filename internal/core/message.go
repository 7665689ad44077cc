package core

import "time"

// Message is the domain model for a direct message between two users.
// Immutable once created; the core persists and forwards it, never edits it.
type Message struct {
	ID        string
	From      string
	To        string
	Text      string
	CreatedAt time.Time
}
