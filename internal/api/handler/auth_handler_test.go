package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/martijn/scribe/internal/api/dto"
)

func TestRegister(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	id := env.registerUser(t, "alice", "pw123")
	if id != 1 {
		t.Errorf("expected first user id 1, got %d", id)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	env.registerUser(t, "alice", "pw123")

	w := env.makeRequest(t, http.MethodPost, "/register", dto.RegisterRequest{
		Username: "alice",
		Password: "other",
	}, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseErrorResponse(t, w)
	if resp.Code != http.StatusConflict {
		t.Errorf("error body code %d, want 409", resp.Code)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	w := env.makeRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "alice",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterWhitespaceUsername(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	// Passes binding but fails the service's trim check
	w := env.makeRequest(t, http.MethodPost, "/register", dto.RegisterRequest{
		Username: "   ",
		Password: "pw123",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseErrorResponse(t, w)
	if !strings.Contains(resp.Message, "username") {
		t.Errorf("error message %q does not name the missing field", resp.Message)
	}
}

func TestLoginAndLogout(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	env.registerUser(t, "alice", "pw123")
	token := env.loginUser(t, "alice", "pw123")
	if token == "" {
		t.Fatal("login returned an empty token")
	}

	// The session works
	w := env.makeRequest(t, http.MethodGet, "/dashboard/posts", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard returned %d with a live session: %s", w.Code, w.Body.String())
	}

	w = env.makeRequest(t, http.MethodPost, "/logout", nil, token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout returned %d: %s", w.Code, w.Body.String())
	}

	// The token no longer resolves; the gate redirects
	w = env.makeRequest(t, http.MethodGet, "/dashboard/posts", nil, token)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 after logout, got %d", w.Code)
	}

	// Logging out again is a no-op
	w = env.makeRequest(t, http.MethodPost, "/logout", nil, token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("second logout returned %d", w.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	env.registerUser(t, "alice", "pw123")

	wrongPassword := env.makeRequest(t, http.MethodPost, "/login", dto.LoginRequest{
		Username: "alice",
		Password: "wrong",
	}, "")
	unknownUser := env.makeRequest(t, http.MethodPost, "/login", dto.LoginRequest{
		Username: "nobody",
		Password: "pw123",
	}, "")

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password returned %d", wrongPassword.Code)
	}
	if unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user returned %d", unknownUser.Code)
	}

	// Both failures must look the same to the caller
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("login failures are distinguishable:\n%s\n%s",
			wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestLoginStoreFailure(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	env.registerUser(t, "alice", "pw123")

	// A broken store is not a credentials problem
	env.db.Close()

	w := env.makeRequest(t, http.MethodPost, "/login", dto.LoginRequest{
		Username: "alice",
		Password: "pw123",
	}, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on store failure, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseErrorResponse(t, w)
	if resp.Code != http.StatusInternalServerError {
		t.Errorf("error body code %d, want 500", resp.Code)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	env.registerUser(t, "alice", "pw123")

	w := env.makeRequest(t, http.MethodPost, "/login", dto.LoginRequest{
		Username: "alice",
		Password: "pw123",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d", w.Code)
	}

	cookies := w.Result().Cookies()
	found := false
	for _, cookie := range cookies {
		if cookie.Name == "scribe_session" && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("login did not set the session cookie")
	}
}
