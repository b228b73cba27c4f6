package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"movesbook/internal/domain/account"
	"movesbook/internal/domain/user"
)

// AccountStoreForSeed defines the store interface needed by SeedDevAccounts.
type AccountStoreForSeed interface {
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// SeedDevAccountsDeps holds dependencies for SeedDevAccounts.
type SeedDevAccountsDeps struct {
	AccountStore AccountStoreForSeed
}

// DevPassword is the shared password for seeded development accounts.
const DevPassword = "movesbook-dev-password"

// devSeedUsers lists one account per role for local development.
var devSeedUsers = []struct {
	username string
	name     string
	role     string
}{
	{"athlete", "Alex Athlete", user.RoleAthlete},
	{"coach", "Casey Coach", user.RoleCoach},
	{"trainer", "Charlie Trainer", user.RoleClubTrainer},
	{"manager", "Morgan Manager", user.RoleTeamManager},
	{"admin", "Gabi Admin", user.RoleGroupAdmin},
}

// ExecuteSeedDevAccounts creates one development account per role so every
// dashboard variant can be exercised locally. Seeding is idempotent: an
// already populated store is left untouched.
// POST: Returns the number of accounts created
func ExecuteSeedDevAccounts(ctx context.Context, deps SeedDevAccountsDeps) (int, error) {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting dev accounts: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, seed := range devSeedUsers {
		acct := account.Account{
			ID:       uuid.NewString(),
			Username: seed.username,
			Email:    seed.username + "@movesbook.local",
			Name:     seed.name,
			Role:     seed.role,
		}
		if err := acct.SetPassword(DevPassword); err != nil {
			return created, fmt.Errorf("hashing seed password: %w", err)
		}
		if err := acct.Validate(); err != nil {
			return created, fmt.Errorf("seed account %q: %w", seed.username, err)
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return created, fmt.Errorf("saving seed account %q: %w", seed.username, err)
		}
		created++
	}

	slog.Info("dev_accounts_seeded", "count", created)
	return created, nil
}
