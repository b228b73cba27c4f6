package account

import (
	"context"

	domain "movesbook/internal/domain/account"
)

// Store defines the persistence interface for development accounts.
type Store interface {
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	Save(ctx context.Context, a domain.Account) error
	Count(ctx context.Context) (int, error)
}
