package handler

import (
	"log/slog"
	"net/http"

	"github.com/DerDob/kleiderkammer/internal/domain"
	"github.com/DerDob/kleiderkammer/internal/service"
)

const sessionCookieName = "auth_token"

// IdentityFunc extracts the externally authenticated user from a request.
// In production this reads the SAML session; tests substitute a fake.
type IdentityFunc func(r *http.Request) (*domain.User, error)

// AuthHandler bridges the SAML login into an application session cookie.
type AuthHandler struct {
	sessions     *service.SessionService
	identity     IdentityFunc
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *service.SessionService, identity IdentityFunc, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		identity:     identity,
		cookieSecure: cookieSecure,
	}
}

// HandleLogin runs behind the SAML RequireAccount wrapper, so by the time it
// executes the identity provider round-trip has already happened. It mints
// the application session cookie and sends the browser to the SPA.
// GET /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity(r)
	if err != nil {
		slog.Error("map saml session to user", "error", err)
		writeError(w, http.StatusUnauthorized, "Login failed.")
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		slog.Error("issue session token", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.MaxAge().Seconds()),
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie and the SAML session cookie.
// GET /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{sessionCookieName, "token"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
