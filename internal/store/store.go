package store

import (
	"context"
	"time"
)

// User represents a user account.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	AvatarImage  string
	AvatarSet    bool
	IsOnline     bool
	CreatedAt    time.Time
}

// Message represents a persisted direct message.
type Message struct {
	ID        string
	FromID    string
	ToID      string
	Body      string
	CreatedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password and returns it
	// with a freshly assigned ID.
	CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// ListUsersExcept returns all users except the given one, ordered by
	// username. Used for the contact list.
	ListUsersExcept(ctx context.Context, id string) ([]*User, error)

	// SetOnline updates the durable online flag.
	SetOnline(ctx context.Context, id string, online bool) error

	// SetAvatar stores the avatar image and marks it as set.
	SetAvatar(ctx context.Context, id, image string) error
}

// MessageStore handles message persistence. Messages are keyed by the
// unordered pair of participants.
type MessageStore interface {
	// AppendMessage persists a message.
	AppendMessage(ctx context.Context, msg *Message) error

	// ListBetween retrieves messages exchanged between two users in
	// ascending creation order. If beforeID is non-nil only messages
	// older than that one are returned; limit caps the page size.
	ListBetween(ctx context.Context, userA, userB string, limit int, beforeID *string) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
