package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage delivers a direct message to its recipient.
	EventMessage EventKind = iota
	// EventPresenceChanged notifies clients that a user went on- or offline.
	EventPresenceChanged
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	UserID  string // presence-changed subject
	Online  bool   // presence-changed state
	Message Message
	Error   *CoreError
}
