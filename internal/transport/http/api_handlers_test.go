package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func postJSON(t *testing.T, url string, body any, headers map[string]string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func registerUser(t *testing.T, baseURL, username, email string) AuthResponse {
	t.Helper()

	resp := postJSON(t, baseURL+"/api/auth/register", RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: unexpected status %d", username, resp.StatusCode)
	}

	var auth AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatalf("decode auth response: %v", err)
	}
	if auth.Token == "" || auth.User.ID == "" {
		t.Fatalf("incomplete auth response: %+v", auth)
	}
	return auth
}

func TestRegisterAndLogin(t *testing.T) {
	ts, _, _ := startTestServer(t)

	registerUser(t, ts.URL, "alice", "alice@test.dev")

	// Duplicate username conflicts.
	resp := postJSON(t, ts.URL+"/api/auth/register", RegisterRequest{
		Username: "alice",
		Email:    "other@test.dev",
		Password: "password123",
	}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", resp.StatusCode)
	}

	// Valid login.
	resp = postJSON(t, ts.URL+"/api/auth/login", LoginRequest{
		Username: "alice",
		Password: "password123",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for login, got %d", resp.StatusCode)
	}

	// Wrong password.
	resp = postJSON(t, ts.URL+"/api/auth/login", LoginRequest{
		Username: "alice",
		Password: "wrongpass",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", resp.StatusCode)
	}
}

func TestListUsersExcludesSelf(t *testing.T) {
	ts, _, _ := startTestServer(t)

	alice := registerUser(t, ts.URL, "alice", "alice@test.dev")
	bob := registerUser(t, ts.URL, "bob", "bob@test.dev")

	resp := getJSON(t, ts.URL+"/api/users", alice.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var users []UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatalf("decode users: %v", err)
	}

	if len(users) != 1 || users[0].ID != bob.User.ID {
		t.Fatalf("expected only bob in alice's contact list, got %+v", users)
	}
	if users[0].IsOnline {
		t.Fatalf("expected bob to be offline without a ws connection")
	}
}

func TestListUsersRequiresAuth(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp := getJSON(t, ts.URL+"/api/users", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp = getJSON(t, ts.URL+"/api/users", "garbage-token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", resp.StatusCode)
	}
}

func TestSetAvatar(t *testing.T) {
	ts, st, _ := startTestServer(t)

	alice := registerUser(t, ts.URL, "alice", "alice@test.dev")

	resp := postJSON(t, ts.URL+"/api/users/avatar", SetAvatarRequest{Image: "img-data"},
		map[string]string{"Authorization": "Bearer " + alice.Token})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	user, err := st.GetUserByID(context.Background(), alice.User.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !user.AvatarSet || user.AvatarImage != "img-data" {
		t.Fatalf("avatar not persisted: %+v", user)
	}
}

func TestMessageHistoryEndpoint(t *testing.T) {
	ts, st, _ := startTestServer(t)

	alice := registerUser(t, ts.URL, "alice", "alice@test.dev")
	bob := registerUser(t, ts.URL, "bob", "bob@test.dev")

	seedMessage(t, st, alice.User.ID, bob.User.ID, "hello bob")
	seedMessage(t, st, bob.User.ID, alice.User.ID, "hi alice")

	resp := getJSON(t, ts.URL+"/api/messages/"+bob.User.ID, alice.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var messages []MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode messages: %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != "hello bob" || !messages[0].FromSelf {
		t.Fatalf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Text != "hi alice" || messages[1].FromSelf {
		t.Fatalf("unexpected second message: %+v", messages[1])
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
