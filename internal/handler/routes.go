package handler

import (
	"net/http"

	"github.com/DerDob/kleiderkammer/internal/service"
)

// SAMLProvider is the slice of the SAML middleware the routes need: the ACS
// and metadata endpoints plus the login wrapper.
type SAMLProvider interface {
	http.Handler
	RequireAccount(next http.Handler) http.Handler
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	ledger *service.LedgerService,
	policy *service.Policy,
	directory *service.Directory,
	sessions *service.SessionService,
	saml SAMLProvider,
	identity IdentityFunc,
	limiter *service.TokenBucket,
	lendingMetrics LendingMetrics,
	cookieSecure bool,
	publicDir string,
) {
	authHandler := NewAuthHandler(sessions, identity, cookieSecure)
	clothingHandler := NewClothingHandler(ledger, policy)
	lendingHandler := NewLendingHandler(ledger, policy, lendingMetrics)
	userHandler := NewUserHandler(directory, policy)

	authed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(sessions, h)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(sessions, RateLimit(limiter, h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /api/health", authed(HandleHealth))

	mux.Handle("/saml/", saml)
	mux.Handle("GET /auth/login", saml.RequireAccount(http.HandlerFunc(authHandler.HandleLogin)))
	mux.HandleFunc("GET /auth/logout", authHandler.HandleLogout)

	mux.Handle("GET /api/clothing", authed(clothingHandler.HandleList))
	mux.Handle("GET /api/clothing/{id}", authed(clothingHandler.HandleGet))
	mux.Handle("POST /api/clothing", limited(clothingHandler.HandleAdd))

	mux.Handle("GET /api/lendings", authed(lendingHandler.HandleList))
	mux.Handle("POST /api/lendings", limited(lendingHandler.HandleIssue))
	mux.Handle("POST /api/lendings/{id}/return", limited(lendingHandler.HandleReturn))

	mux.Handle("GET /api/users", authed(userHandler.HandleList))
	mux.Handle("GET /api/users/me", authed(userHandler.HandleMe))

	mux.Handle("/", SPAHandler(publicDir))
}
