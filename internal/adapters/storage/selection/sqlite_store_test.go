package selection

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"movesbook/internal/adapters/storage"
	"movesbook/internal/domain/entity"
)

// openTestStore creates a migrated in-memory database and store.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	return NewSQLiteStore(db)
}

// TestSetThenGet verifies a stored selection round-trips.
func TestSetThenGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "u1", entity.TypeClub, "c1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx, "u1", entity.TypeClub)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "c1" {
		t.Errorf("Get = %q, want c1", got)
	}
}

// TestGet_AbsentReturnsEmpty verifies a missing slot reads as no selection.
func TestGet_AbsentReturnsEmpty(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Get(context.Background(), "u1", entity.TypeTeam)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "" {
		t.Errorf("Get = %q, want empty", got)
	}
}

// TestSet_TypeNamespaceIsolation verifies selecting a club never clobbers a
// selected team.
func TestSet_TypeNamespaceIsolation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "u1", entity.TypeTeam, "t9"); err != nil {
		t.Fatalf("Set team failed: %v", err)
	}
	if err := store.Set(ctx, "u1", entity.TypeClub, "c1"); err != nil {
		t.Fatalf("Set club failed: %v", err)
	}

	team, err := store.Get(ctx, "u1", entity.TypeTeam)
	if err != nil {
		t.Fatalf("Get team failed: %v", err)
	}
	if team != "t9" {
		t.Errorf("team selection = %q, want t9 (club write must not touch it)", team)
	}
}

// TestSet_OverwritesSameSlot verifies last write wins within one slot.
func TestSet_OverwritesSameSlot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "u1", entity.TypeGroup, "g1"); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}
	if err := store.Set(ctx, "u1", entity.TypeGroup, "g2"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	got, err := store.Get(ctx, "u1", entity.TypeGroup)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "g2" {
		t.Errorf("Get = %q, want g2", got)
	}
}

// TestSet_AccountIsolation verifies selections are scoped per account.
func TestSet_AccountIsolation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "u1", entity.TypeClub, "c1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx, "u2", entity.TypeClub)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "" {
		t.Errorf("Get for other account = %q, want empty", got)
	}
}
