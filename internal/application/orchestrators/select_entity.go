package orchestrators

import (
	"context"
	"log/slog"

	"movesbook/internal/domain/entity"
	"movesbook/internal/domain/navigation"
)

// SelectionStoreForSelect defines the store interface needed by SelectEntity.
type SelectionStoreForSelect interface {
	Set(ctx context.Context, accountID string, entityType entity.Type, entityID string) error
}

// SelectEntityInput carries input for the select-entity orchestrator.
type SelectEntityInput struct {
	AccountID  string
	Role       string
	EntityType entity.Type
	EntityID   string
}

// SelectEntityDeps holds dependencies for SelectEntity.
type SelectEntityDeps struct {
	SelectionStore SelectionStoreForSelect
}

// ExecuteSelectEntity records a user's entity choice and resolves the
// navigation target in one step, so the stored preference and the shown
// detail can never disagree on which entity was picked.
// PRE: AccountID and EntityID are non-empty
// POST: Selection is persisted (failures logged, navigation proceeds) and
// the detail outcome for the chosen entity is returned
func ExecuteSelectEntity(ctx context.Context, input SelectEntityInput, deps SelectEntityDeps) (navigation.Outcome, error) {
	if input.EntityID == "" {
		return navigation.Outcome{Kind: navigation.KindRedirectLanding}, entity.ErrEmptyID
	}
	if !entity.IsValidType(input.EntityType) {
		return navigation.Outcome{Kind: navigation.KindRedirectLanding}, entity.ErrInvalidType
	}

	owned, ok := entity.OwnedType(input.Role)
	if !ok || owned != input.EntityType {
		slog.Warn("selection_rejected", "account_id", input.AccountID, "role", input.Role, "type", string(input.EntityType))
		return navigation.Outcome{Kind: navigation.KindRedirectLanding}, nil
	}

	// A failed write degrades to session-only navigation; the user still
	// lands on the entity they clicked.
	if err := deps.SelectionStore.Set(ctx, input.AccountID, input.EntityType, input.EntityID); err != nil {
		slog.Error("selection_write_failed", "account_id", input.AccountID, "type", string(input.EntityType), "error", err)
	}

	return navigation.Outcome{
		Kind:       navigation.KindLoadDetail,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
	}, nil
}
