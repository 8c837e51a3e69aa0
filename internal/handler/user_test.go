package handler_test

import (
	"net/http"
	"testing"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

type userResponse struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Groups []string `json:"groups"`
}

func TestUserList_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.directory.Replace([]domain.User{*testAdmin, *testUser})

	var got []userResponse
	w := env.doJSON(t, testAdmin, http.MethodGet, "/api/users", nil, &got)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", w.Code)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}

	w = env.doJSON(t, testUser, http.MethodGet, "/api/users", nil, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", w.Code)
	}
}

func TestUserMe(t *testing.T) {
	env := newTestEnv(t)

	var got userResponse
	w := env.doJSON(t, testUser, http.MethodGet, "/api/users/me", nil, &got)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.Email != testUser.Email || got.Name != testUser.Name {
		t.Fatalf("unexpected user: %+v", got)
	}
	if len(got.Groups) != 1 || got.Groups[0] != "staff" {
		t.Fatalf("unexpected groups: %v", got.Groups)
	}
}

func TestHealthz_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, nil, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAPIHealth_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, nil, http.MethodGet, "/api/health", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", w.Code)
	}

	w = env.doJSON(t, testUser, http.MethodGet, "/api/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated: expected 200, got %d", w.Code)
	}
}
