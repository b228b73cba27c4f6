package selection

import (
	"context"

	"movesbook/internal/domain/entity"
)

// Store persists which entity is active, one slot per entity type per
// account. Implementations must scope writes so selecting a club never
// clobbers a selected team. Values have no expiry; concurrent writers are
// last-write-wins.
type Store interface {
	// Get returns the selected entity id for the given type, or "" when no
	// selection exists. Storage failures degrade to "" rather than an error
	// surfacing into navigation.
	Get(ctx context.Context, accountID string, entityType entity.Type) (string, error)
	// Set overwrites the selection slot for the given type only.
	Set(ctx context.Context, accountID string, entityType entity.Type, entityID string) error
}
