package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"movesbook/internal/domain/user"
)

func testUser(role string) user.User {
	return user.User{
		ID:       "u1",
		Name:     "Jo Doe",
		Username: "jo",
		Email:    "jo@example.com",
		Role:     role,
	}
}

// TestSessionStore_CreateAndGet verifies a created session round-trips.
func TestSessionStore_CreateAndGet(t *testing.T) {
	store := NewSessionStore()

	token, err := store.Create(testUser(user.RoleCoach), "bearer-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	session, ok := store.Get(token)
	if !ok {
		t.Fatal("Get returned false for fresh session")
	}
	if session.UserID != "u1" || session.Role != user.RoleCoach || session.Token != "bearer-1" {
		t.Errorf("session = %+v, want u1/COACH/bearer-1", session)
	}
}

// TestSessionStore_GetUnknownToken verifies an unknown token misses.
func TestSessionStore_GetUnknownToken(t *testing.T) {
	store := NewSessionStore()
	if _, ok := store.Get("nope"); ok {
		t.Error("Get returned true for unknown token")
	}
}

// TestSessionStore_Expiry verifies a stale session is rejected and removed.
func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore()
	token, err := store.Create(testUser(user.RoleAthlete), "bearer-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store.mu.Lock()
	s := store.sessions[token]
	s.CreatedAt = time.Now().Add(-25 * time.Hour)
	store.sessions[token] = s
	store.mu.Unlock()

	if _, ok := store.Get(token); ok {
		t.Error("Get returned true for expired session")
	}
}

// TestSessionStore_Delete verifies deletion.
func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	token, _ := store.Create(testUser(user.RoleAthlete), "bearer-1")
	store.Delete(token)
	if _, ok := store.Get(token); ok {
		t.Error("Get returned true after Delete")
	}
}

// TestAuth_SetsSessionInContext verifies the cookie resolves to a context session.
func TestAuth_SetsSessionInContext(t *testing.T) {
	store := NewSessionStore()
	token, _ := store.Create(testUser(user.RoleCoach), "bearer-1")

	var got Session
	var ok bool
	handler := Auth(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "movesbook_session", Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("no session in context")
	}
	if got.Role != user.RoleCoach {
		t.Errorf("session role = %q, want COACH", got.Role)
	}
}

// TestRequireAuth_RedirectsAnonymous verifies unauthenticated requests go to login.
func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without session")
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

// TestRequireRole_BlocksOtherRoles verifies role gating returns 403.
func TestRequireRole_BlocksOtherRoles(t *testing.T) {
	handler := RequireRole(user.RoleCoach)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/entities/coaching_group", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{UserID: "u1", Role: user.RoleTeamManager}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

// TestRequireRole_AllowsMatchingRole verifies a matching role passes through.
func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	handler := RequireRole(user.RoleCoach, user.RoleClubTrainer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/entities/club", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{UserID: "u1", Role: user.RoleClubTrainer}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestRateLimiter_Allow verifies the token bucket blocks after exhaustion.
func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d blocked, want allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("4th request allowed, want blocked")
	}
	// Other IPs are unaffected
	if !rl.Allow("10.0.0.2") {
		t.Error("other IP blocked, want allowed")
	}
}
