package core

import (
	"sync"
	"time"
)

// PresenceEntry associates a user with the client currently bound for it.
type PresenceEntry struct {
	UserID  string
	Client  *Client
	BoundAt time.Time
}

// Presence maps user IDs to their live, registered client connection.
// It is the single authority for live-routing decisions; durable online
// flags in the store are advisory only.
type Presence struct {
	mu      sync.RWMutex
	entries map[string]*PresenceEntry
}

// NewPresence constructs an empty presence table.
func NewPresence() *Presence {
	return &Presence{
		entries: make(map[string]*PresenceEntry),
	}
}

// Bind inserts or replaces the entry for userID and returns the previously
// bound client, if any. The table never closes a replaced connection; the
// orphaned client keeps running until its own transport tears it down.
func (p *Presence) Bind(userID string, c *Client) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	var prev *Client
	if old, ok := p.entries[userID]; ok {
		prev = old.Client
	}
	p.entries[userID] = &PresenceEntry{
		UserID:  userID,
		Client:  c,
		BoundAt: time.Now(),
	}
	return prev
}

// Unbind removes the entry for userID only if it is still bound to c.
// A stale disconnect from an older connection must not clobber a newer
// registration for the same user.
func (p *Presence) Unbind(userID string, c *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[userID]
	if !ok || entry.Client != c {
		return false
	}
	delete(p.entries, userID)
	return true
}

// Lookup returns the client bound for userID, or nil if the user is offline.
func (p *Presence) Lookup(userID string) *Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, ok := p.entries[userID]
	if !ok {
		return nil
	}
	return entry.Client
}

// IsOnline reports whether userID has a live, registered connection.
func (p *Presence) IsOnline(userID string) bool {
	return p.Lookup(userID) != nil
}

// Snapshot returns a point-in-time copy of all bound clients. Binds that
// race with the snapshot may or may not be included, but the copy is never
// torn.
func (p *Presence) Snapshot() []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	clients := make([]*Client, 0, len(p.entries))
	for _, entry := range p.entries {
		clients = append(clients, entry.Client)
	}
	return clients
}

// Len returns the number of bound users.
func (p *Presence) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
