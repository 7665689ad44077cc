package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chatbase/chatbase-server/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, wait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event: %+v", ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// awaitOffline polls until userID is unbound or the deadline passes.
func awaitOffline(t *testing.T, r *Router, userID string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !r.Presence().IsOnline(userID) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %s to go offline", userID)
}

// fakeStore records router-side store calls in memory.
type fakeStore struct {
	mu       sync.Mutex
	messages []*store.Message
	online   map[string]bool

	appendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{online: make(map[string]bool)}
}

func (f *fakeStore) AppendMessage(_ context.Context, msg *store.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeStore) ListBetween(_ context.Context, userA, userB string, _ int, _ *string) ([]*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*store.Message
	for _, m := range f.messages {
		if (m.FromID == userA && m.ToID == userB) || (m.FromID == userB && m.ToID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) SetOnline(_ context.Context, id string, online bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online[id] = online
	return nil
}

func (f *fakeStore) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeStore) onlineFlag(id string) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.online[id]
	return v, ok
}

func (f *fakeStore) CreateUser(context.Context, string, string, string) (*store.User, error) {
	return nil, nil
}
func (f *fakeStore) GetUserByID(context.Context, string) (*store.User, error)       { return nil, nil }
func (f *fakeStore) GetUserByUsername(context.Context, string) (*store.User, error) { return nil, nil }
func (f *fakeStore) GetUserByEmail(context.Context, string) (*store.User, error)    { return nil, nil }
func (f *fakeStore) ListUsersExcept(context.Context, string) ([]*store.User, error) { return nil, nil }
func (f *fakeStore) SetAvatar(context.Context, string, string) error                { return nil }
func (f *fakeStore) Close() error                                                   { return nil }
