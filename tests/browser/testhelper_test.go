package browser_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"movesbook/internal/adapters/backend"
	web "movesbook/internal/adapters/http"
	"movesbook/internal/adapters/http/middleware"
	"movesbook/internal/adapters/http/perf"
	"movesbook/internal/adapters/identity"
	"movesbook/internal/adapters/storage"
	accountStore "movesbook/internal/adapters/storage/account"
	selectionStore "movesbook/internal/adapters/storage/selection"
	"movesbook/internal/application/orchestrators"
)

// csrfTestKey is a throwaway 32-byte key for the test server.
var csrfTestKey = []byte("0123456789abcdef0123456789abcdef")

// testApp holds the running test server, the fake Movesbook backend and
// Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	Backend *httptest.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
}

// fakeBackend serves the handful of directory endpoints the dashboard
// consumes, with a fixed dataset per entity type.
func fakeBackend() *httptest.Server {
	mux := http.NewServeMux()
	entities := func(key string, items []map[string]any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{key: items})
		}
	}
	clubs := []map[string]any{
		{"id": "c1", "name": "Harbour Rowing Club", "memberCount": 2, "location": "Wellington"},
		{"id": "c2", "name": "Southside Athletics", "memberCount": 5, "location": "Christchurch"},
	}
	coachingGroups := []map[string]any{
		{"id": "g1", "name": "Sprint Squad", "memberCount": 3},
	}
	mux.HandleFunc("GET /api/clubs/my-clubs", entities("clubs", clubs))
	mux.HandleFunc("GET /api/coaching-groups/my-coaching-groups", entities("coachingGroups", coachingGroups))
	mux.HandleFunc("GET /api/athletes/my-clubs", entities("clubs", clubs[:1]))
	mux.HandleFunc("GET /api/athletes/my-teams", entities("teams", nil))
	mux.HandleFunc("GET /api/athletes/my-groups", entities("groups", nil))
	mux.HandleFunc("GET /api/athletes/my-coaching-groups", entities("coachingGroups", coachingGroups))
	mux.HandleFunc("GET /api/clubs/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		club := clubs[0]
		members := []map[string]any{
			{"id": "m1", "name": "Riley Rower", "username": "riley", "email": "riley@example.com", "role": "ATHLETE"},
			{"id": "m2", "name": "Sam Sculler", "username": "sam", "email": "sam@example.com", "role": "ATHLETE"},
		}
		if r.PathValue("id") == "c2" {
			club = clubs[1]
			members = nil
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"club": club, "members": members})
	})
	mux.HandleFunc("GET /api/coaching-groups/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"coachingGroup": coachingGroups[0],
			"members":       []map[string]any{},
		})
	})
	return httptest.NewServer(mux)
}

// newTestApp creates a fully wired app with a temp SQLite DB, a fake backend
// and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.MigrateDB(db, dbPath); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	acctStore := accountStore.NewSQLiteStore(db)
	stores := &web.Stores{
		AccountStore:   acctStore,
		SelectionStore: selectionStore.NewSQLiteStore(db),
	}

	// Seed one login per role
	seedDeps := orchestrators.SeedDevAccountsDeps{AccountStore: acctStore}
	if _, err := orchestrators.ExecuteSeedDevAccounts(context.Background(), seedDeps); err != nil {
		t.Fatalf("failed to seed dev accounts: %v", err)
	}

	backendSrv := fakeBackend()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	collector := perf.NewCollector(perf.DefaultRingSize)
	deps := web.Deps{
		Directory: backend.NewClient(backendSrv.URL),
		Signer:    identity.NewSigner("browser-test-secret"),
		Verifier:  identity.NewVerifier("browser-test-secret"),
		CSRFKey:   csrfTestKey,
	}
	mux := web.NewMux(stores, deps, collector)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		Backend: backendSrv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		backendSrv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login navigates to the login page and logs in as the given seeded role
// account (trainer, coach, athlete, manager or admin).
func (a *testApp) login(t *testing.T, page playwright.Page, username string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input#username").Fill(username); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input#password").Fill(orchestrators.DevPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("input#password ~ button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}
