package orchestrators

import (
	"context"
	"log/slog"

	"movesbook/internal/domain/entity"
	"movesbook/internal/domain/navigation"
)

// SelectionStoreForActivate defines the store interface needed by ActivateEntityTab.
type SelectionStoreForActivate interface {
	Get(ctx context.Context, accountID string, entityType entity.Type) (string, error)
	Set(ctx context.Context, accountID string, entityType entity.Type, entityID string) error
}

// ActivateEntityTabInput carries input for the tab activation orchestrator.
type ActivateEntityTabInput struct {
	AccountID  string
	Role       string
	EntityType entity.Type
	Entities   []entity.Entity
}

// ActivateEntityTabDeps holds dependencies for ActivateEntityTab.
type ActivateEntityTabDeps struct {
	SelectionStore SelectionStoreForActivate
}

// ExecuteActivateEntityTab resolves which entity to show when the user
// opens their entity tab without naming one. The stored preference wins
// when it still appears in the fetched list; otherwise the list head is
// shown and becomes the new stored preference.
// PRE: Entities is the freshly fetched owned list for this role
// POST: Returns the navigation outcome; the shown entity is persisted as
// the selection so a later visit lands on the same one
func ExecuteActivateEntityTab(ctx context.Context, input ActivateEntityTabInput, deps ActivateEntityTabDeps) (navigation.Outcome, error) {
	stored, err := deps.SelectionStore.Get(ctx, input.AccountID, input.EntityType)
	if err != nil {
		// A failed read behaves exactly like no stored selection.
		slog.Error("selection_read_failed", "account_id", input.AccountID, "type", string(input.EntityType), "error", err)
		stored = ""
	}

	outcome := navigation.Resolve(navigation.Request{
		Role:       input.Role,
		Page:       navigation.PageEntityTab,
		EntityType: input.EntityType,
		Entities:   input.Entities,
		StoredID:   stored,
	})

	if outcome.Kind == navigation.KindLoadDetail && outcome.EntityID != stored {
		if err := deps.SelectionStore.Set(ctx, input.AccountID, input.EntityType, outcome.EntityID); err != nil {
			slog.Error("selection_write_failed", "account_id", input.AccountID, "type", string(input.EntityType), "error", err)
		}
	}

	return outcome, nil
}
