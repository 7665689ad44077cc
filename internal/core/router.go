package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chatbase/chatbase-server/internal/store"
)

// Router owns the presence table and serializes all mutations to it.
// Every registered connection's commands are funneled into a single
// consumer loop, so bind/unbind/broadcast never race each other.
type Router struct {
	presence *Presence
	store    store.Store
	log      zerolog.Logger

	attach   chan *Client
	commands chan routed
}

// routed pairs a command with the connection that issued it.
type routed struct {
	client *Client
	cmd    *Command
}

// NewRouter constructs a router. st may be nil in tests that only
// exercise routing; durable writes are then skipped.
func NewRouter(st store.Store, logger *zerolog.Logger) *Router {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Router{
		presence: NewPresence(),
		store:    st,
		log:      l,
		attach:   make(chan *Client, 16),
		commands: make(chan routed, 256),
	}
}

// Presence exposes the table for read-only lookups (live online flags in
// REST responses). Mutations stay inside the router loop.
func (r *Router) Presence() *Presence {
	return r.presence
}

// AttachClient hands a new connection to the router. The router pumps the
// client's commands into its own loop until the client issues a logout or
// disconnect command.
func (r *Router) AttachClient(c *Client) {
	r.attach <- c
}

// DetachClient signals a transport-level disconnect by closing the
// client's command channel. The pump emits the disconnect only after
// draining everything the connection sent first, so a register buffered
// at close time is processed before the unbind, never after it. Safe to
// call even if the client never registered; must be called exactly once.
func (r *Router) DetachClient(c *Client) {
	close(c.Commands)
}

// Run processes commands until ctx is cancelled. It is the single consumer
// of all presence mutations.
func (r *Router) Run(ctx context.Context) {
	for {
		select {
		case c := <-r.attach:
			go r.pump(ctx, c)
		case rc := <-r.commands:
			r.dispatch(ctx, rc.client, rc.cmd)
		case <-ctx.Done():
			return
		}
	}
}

// pump forwards one client's commands into the router loop. When the
// transport closes the Commands channel, pump emits the disconnect
// itself, after every command the connection managed to send, so the
// router sees a single ordered stream per connection.
func (r *Router) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				select {
				case r.commands <- routed{client: c, cmd: &Command{Kind: CommandDisconnect}}:
				case <-ctx.Done():
				}
				return
			}
			select {
			case r.commands <- routed{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Router) dispatch(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandRegister:
		r.onRegister(ctx, c, cmd.UserID)
	case CommandSendMessage:
		r.onSend(ctx, c, cmd.To, cmd.Text)
	case CommandLogout:
		r.onUnbind(ctx, c, cmd.UserID, "logout")
	case CommandDisconnect:
		r.onUnbind(ctx, c, c.UserID, "disconnect")
	default:
		r.log.Warn().Int("kind", int(cmd.Kind)).Str("conn_id", c.ID).Msg("unknown command")
	}
}

// onRegister binds the user to this connection, replacing any previous
// binding for the same user. The replaced connection is orphaned, not
// closed; its eventual disconnect will fail the handle check and leave
// the new binding intact.
func (r *Router) onRegister(ctx context.Context, c *Client, userID string) {
	if userID == "" {
		r.log.Warn().Str("conn_id", c.ID).Msg("register without user id dropped")
		return
	}

	prevUser := c.UserID
	prev := r.presence.Bind(userID, c)
	c.UserID = userID

	// Re-register with a different identity on the same connection
	// releases the old binding if this connection still owns it.
	if prevUser != "" && prevUser != userID {
		if r.presence.Unbind(prevUser, c) {
			r.markOnline(ctx, prevUser, false)
			r.broadcastPresence(prevUser, false, c)
		}
	}

	if prev != nil && prev != c {
		r.log.Info().
			Str("user_id", userID).
			Str("old_conn_id", prev.ID).
			Str("new_conn_id", c.ID).
			Msg("rebound user to new connection")
	}

	r.markOnline(ctx, userID, true)
	r.broadcastPresence(userID, true, c)

	r.log.Debug().Str("user_id", userID).Str("conn_id", c.ID).Msg("user registered")
}

// onSend persists the message unconditionally, then forwards it to the
// recipient if one is bound. An offline recipient is not an error; the
// persisted record is the only trace the message leaves.
func (r *Router) onSend(ctx context.Context, c *Client, to, text string) {
	if !c.Registered() {
		r.log.Warn().Str("conn_id", c.ID).Msg("send before register dropped")
		r.trySend(c, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeNotRegistered, "register before sending"),
		})
		return
	}
	if to == "" || text == "" {
		r.log.Warn().Str("user_id", c.UserID).Msg("send with empty recipient or body dropped")
		return
	}

	msg := Message{
		ID:        uuid.NewString(),
		From:      c.UserID,
		To:        to,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if r.store != nil {
		if err := r.store.AppendMessage(ctx, &store.Message{
			ID:        msg.ID,
			FromID:    msg.From,
			ToID:      msg.To,
			Body:      msg.Text,
			CreatedAt: msg.CreatedAt,
		}); err != nil {
			r.log.Error().Err(err).Str("from", msg.From).Str("to", msg.To).Msg("persist message")
			r.trySend(c, &Event{
				Kind:  EventError,
				Error: coreError(ErrCodeStoreError, "message not saved"),
			})
			return
		}
	}

	recipient := r.presence.Lookup(to)
	if recipient == nil {
		r.log.Debug().Str("from", msg.From).Str("to", to).Msg("recipient offline, message persisted only")
		return
	}
	if recipient == c {
		// Self-send: the persisted record is enough, no echo.
		return
	}

	r.trySend(recipient, &Event{Kind: EventMessage, Message: msg})
}

// onUnbind handles both explicit logout and transport disconnect. The
// unbind is keyed by connection handle: a stale disconnect from a replaced
// connection must not take down the user's newer binding.
func (r *Router) onUnbind(ctx context.Context, c *Client, userID, cause string) {
	if userID == "" {
		// Never registered; nothing to release.
		r.log.Debug().Str("conn_id", c.ID).Str("cause", cause).Msg("unregistered connection closed")
		return
	}

	if !r.presence.Unbind(userID, c) {
		r.log.Debug().
			Str("user_id", userID).
			Str("conn_id", c.ID).
			Str("cause", cause).
			Msg("stale unbind ignored")
		return
	}

	r.markOnline(ctx, userID, false)
	r.broadcastPresence(userID, false, c)

	r.log.Debug().Str("user_id", userID).Str("conn_id", c.ID).Str("cause", cause).Msg("user unbound")
}

// markOnline records the durable online flag. The in-memory table stays
// authoritative for routing; a failed write is logged and routing
// continues.
func (r *Router) markOnline(ctx context.Context, userID string, online bool) {
	if r.store == nil {
		return
	}
	if err := r.store.SetOnline(ctx, userID, online); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Bool("online", online).Msg("durable online flag not updated")
	}
}

// broadcastPresence notifies every bound session except origin. Fan-out is
// best-effort per recipient; one stalled session never blocks the rest.
func (r *Router) broadcastPresence(userID string, online bool, origin *Client) {
	ev := &Event{Kind: EventPresenceChanged, UserID: userID, Online: online}
	for _, c := range r.presence.Snapshot() {
		if c == origin {
			continue
		}
		r.trySend(c, ev)
	}
}

// trySend enqueues without blocking; a full queue means the event is
// dropped and the consumer is left to the transport's own teardown.
func (r *Router) trySend(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		r.log.Warn().
			Str("conn_id", c.ID).
			Str("user_id", c.UserID).
			Int("kind", int(ev.Kind)).
			Msg("event dropped, send queue full")
	}
}
