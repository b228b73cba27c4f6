package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"movesbook/internal/adapters/storage"
	domain "movesbook/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new development-account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves an Account by username.
// PRE: username is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	query := "SELECT id, username, email, name, password_hash, role, created_at FROM dev_account WHERE username = ?"

	row := s.db.QueryRowContext(ctx, query, username)

	var entity domain.Account
	var createdAt string
	err := row.Scan(
		&entity.ID,
		&entity.Username,
		&entity.Email,
		&entity.Name,
		&entity.PasswordHash,
		&entity.Role,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("dev account not found: %w", err)
	}
	if err != nil {
		return domain.Account{}, err
	}
	if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
		entity.CreatedAt = t
	}
	return entity, nil
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	query := `INSERT INTO dev_account (id, username, email, name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			name = excluded.name,
			password_hash = excluded.password_hash,
			role = excluded.role`

	createdAt := entity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Username,
		entity.Email,
		entity.Name,
		entity.PasswordHash,
		entity.Role,
		createdAt.Format(time.RFC3339),
	)
	return err
}

// Count returns the number of development accounts.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dev_account").Scan(&count)
	return count, err
}
