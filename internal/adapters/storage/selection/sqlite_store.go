package selection

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"movesbook/internal/adapters/storage"
	"movesbook/internal/domain/entity"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new selection store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the selected entity id for (accountID, entityType).
// PRE: accountID is non-empty, entityType is valid
// POST: Returns "" with nil error when no selection is stored
func (s *SQLiteStore) Get(ctx context.Context, accountID string, entityType entity.Type) (string, error) {
	query := "SELECT entity_id FROM selection WHERE account_id = ? AND entity_type = ?"

	var entityID string
	err := s.db.QueryRowContext(ctx, query, accountID, string(entityType)).Scan(&entityID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading selection: %w", err)
	}
	return entityID, nil
}

// Set overwrites the selection slot for (accountID, entityType) only.
// PRE: accountID and entityID are non-empty, entityType is valid
// POST: The slot holds entityID; other types' slots are untouched
func (s *SQLiteStore) Set(ctx context.Context, accountID string, entityType entity.Type, entityID string) error {
	query := `INSERT INTO selection (account_id, entity_type, entity_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id, entity_type) DO UPDATE SET
			entity_id = excluded.entity_id,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		accountID,
		string(entityType),
		entityID,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing selection: %w", err)
	}
	return nil
}
