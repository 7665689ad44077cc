package core

// Client is one live connection as seen by the core layer. The transport
// owns the underlying socket; the core only ever writes to Events.
type Client struct {
	// ID identifies the connection handle itself, not the user. Two
	// connections for the same user have distinct IDs, which is what
	// makes handle-checked unbinding possible.
	ID string

	// UserID is empty until the connection registers. It is written only
	// by the router loop.
	UserID string

	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with bounded command and event queues.
// A slow consumer overflowing Events has events dropped rather than
// stalling the router.
func NewClient(id string, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = 32
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, queueSize),
		Events:   make(chan *Event, queueSize),
	}
}

// Registered reports whether the connection has bound a user identity.
func (c *Client) Registered() bool {
	return c.UserID != ""
}
