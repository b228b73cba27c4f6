package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"movesbook/internal/adapters/backend"
	emailPkg "movesbook/internal/adapters/email"
	web "movesbook/internal/adapters/http"
	"movesbook/internal/adapters/http/perf"
	"movesbook/internal/adapters/identity"
	"movesbook/internal/adapters/storage"
	accountStore "movesbook/internal/adapters/storage/account"
	selectionStore "movesbook/internal/adapters/storage/selection"
	"movesbook/internal/application/orchestrators"
	"movesbook/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// devIdentitySecret signs locally minted tokens when no identity_secret is
// configured. Config validation rejects this fallback in production.
const devIdentitySecret = "movesbook-dev-identity-secret"

func main() {
	cfg, err := config.Load("movesbook.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:   acctStore,
		SelectionStore: selectionStore.NewSQLiteStore(timedDB),
	}

	// Seed one login per role outside production so every dashboard variant
	// can be exercised without the real identity provider.
	if !cfg.IsProduction() {
		seedDeps := orchestrators.SeedDevAccountsDeps{AccountStore: acctStore}
		created, err := orchestrators.ExecuteSeedDevAccounts(context.Background(), seedDeps)
		if err != nil {
			log.Fatalf("failed to seed dev accounts: %v", err)
		}
		if created > 0 {
			log.Printf("Seeded %d dev accounts (password %q)", created, orchestrators.DevPassword)
		}
	}

	// Configure email sender
	if cfg.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if cfg.IsProduction() {
			log.Println("WARNING: resend_key is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set MOVESBOOK_RESEND_KEY for real delivery)")
		}
	}

	identitySecret := cfg.IdentitySecret
	if identitySecret == "" {
		identitySecret = devIdentitySecret
	}

	web.RateLimitPerSecond = cfg.RateLimitPerSec
	deps := web.Deps{
		Directory: backend.NewClient(cfg.BackendURL),
		Signer:    identity.NewSigner(identitySecret),
		Verifier:  identity.NewVerifier(identitySecret),
		CSRFKey:   cfg.CSRFKeyBytes(),
	}
	mux := web.NewMux(stores, deps, collector)

	log.Printf("Movesbook dashboard %s starting on %s (env=%s, backend=%s, schema=%d)",
		version, cfg.Addr, cfg.Env, cfg.BackendURL, storage.LatestSchemaVersion())

	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
