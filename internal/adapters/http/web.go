package web

import (
	"context"
	"net/http"
	"time"

	"movesbook/internal/adapters/backend"
	"movesbook/internal/adapters/email"
	"movesbook/internal/adapters/http/middleware"
	"movesbook/internal/adapters/http/perf"
	accountStore "movesbook/internal/adapters/storage/account"
	selectionStore "movesbook/internal/adapters/storage/selection"
	"movesbook/internal/domain/entity"
	"movesbook/internal/domain/membership"
	"movesbook/internal/domain/user"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore   accountStore.Store
	SelectionStore selectionStore.Store
}

// DirectoryAPI is the backend surface the handlers consume. Satisfied by
// *backend.Client; tests substitute a fake.
type DirectoryAPI interface {
	ListOwned(ctx context.Context, role, token string) []entity.Entity
	ListMemberships(ctx context.Context, token string) entity.Directory
	LoadDetail(ctx context.Context, entityType entity.Type, id, token string) (backend.Detail, error)
	AddMember(ctx context.Context, entityType entity.Type, id string, creds membership.Credentials, token string) error
}

// TokenSigner mints identity tokens for development logins.
type TokenSigner interface {
	Sign(u user.User) (string, error)
}

// TokenVerifier validates pasted identity tokens.
type TokenVerifier interface {
	Verify(token string) (user.User, error)
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global backend directory client (set by NewMux)
var directory DirectoryAPI

// Global identity token signer and verifier (set by NewMux)
var tokenSigner TokenSigner
var tokenVerifier TokenVerifier

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// Deps holds the non-storage dependencies for NewMux.
type Deps struct {
	Directory DirectoryAPI
	Signer    TokenSigner
	Verifier  TokenVerifier
	CSRFKey   []byte
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, d Deps, collector *perf.Collector) http.Handler {
	stores = s
	directory = d.Directory
	tokenSigner = d.Signer
	tokenVerifier = d.Verifier
	perfCollector = collector
	sessions = middleware.NewSessionStore()

	mux := http.NewServeMux()
	registerRoutes(mux)

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(d.CSRFKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

// registerRoutes binds every route on the mux. Session-gated pages are
// wrapped with RequireAuth; role entitlement happens in the handlers via
// the navigation resolver.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)

	mux.Handle("GET /dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("POST /dashboard/select", middleware.RequireAuth(http.HandlerFunc(handleSelectEntity)))
	mux.Handle("GET /entities/{type}", middleware.RequireAuth(http.HandlerFunc(handleEntityTab)))
	mux.Handle("GET /entities/{type}/detail", middleware.RequireAuth(http.HandlerFunc(handleEntityDetailNoID)))
	mux.Handle("GET /entities/{type}/{id}", middleware.RequireAuth(http.HandlerFunc(handleEntityDetail)))
	mux.Handle("POST /entities/{type}/{id}/members", middleware.RequireAuth(http.HandlerFunc(handleAddMember)))
	mux.Handle("GET /perf", middleware.RequireAuth(http.HandlerFunc(handlePerf)))
}
