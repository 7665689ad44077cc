package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatbase/chatbase-server/internal/auth"
	"github.com/chatbase/chatbase-server/internal/config"
	"github.com/chatbase/chatbase-server/internal/core"
	"github.com/chatbase/chatbase-server/internal/store"
	"github.com/chatbase/chatbase-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store, jwtSecret string) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return auth.NewService(st, jwtConfig)
}

var seedClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// seedMessage appends a message with a strictly increasing timestamp so
// history ordering is deterministic.
func seedMessage(t *testing.T, st store.Store, from, to, body string) {
	t.Helper()

	seedClock = seedClock.Add(time.Second)
	if err := st.AppendMessage(context.Background(), &store.Message{
		FromID:    from,
		ToID:      to,
		Body:      body,
		CreatedAt: seedClock,
	}); err != nil {
		t.Fatalf("seed message: %v", err)
	}
}

// startTestServer wires a router, store and auth service behind httptest.
func startTestServer(t *testing.T) (*httptest.Server, store.Store, *auth.Service) {
	t.Helper()

	st := createTestStore(t)
	authService := createTestAuthService(t, st, "test-secret")

	disabledLogger := zerolog.Nop()

	router := core.NewRouter(st, &disabledLogger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go router.Run(ctx)

	cfg := config.Default()
	cfg.Addr = ":0"
	server := NewServer(router, authService, st, &cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st, authService
}
