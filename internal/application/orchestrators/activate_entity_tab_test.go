package orchestrators

import (
	"context"
	"errors"
	"testing"

	"movesbook/internal/domain/entity"
	"movesbook/internal/domain/navigation"
	"movesbook/internal/domain/user"
)

func coachingGroups(ids ...string) []entity.Entity {
	list := make([]entity.Entity, 0, len(ids))
	for _, id := range ids {
		list = append(list, entity.Entity{Type: entity.TypeCoachingGroup, ID: id, Name: "Group " + id})
	}
	return list
}

// TestExecuteActivateEntityTab_StoredWins verifies a stored selection still
// present in the list is shown.
func TestExecuteActivateEntityTab_StoredWins(t *testing.T) {
	store := newMockSelectionStore()
	store.values[selectionKey("u1", entity.TypeCoachingGroup)] = "cg2"

	input := ActivateEntityTabInput{
		AccountID:  "u1",
		Role:       user.RoleCoach,
		EntityType: entity.TypeCoachingGroup,
		Entities:   coachingGroups("cg1", "cg2", "cg3"),
	}
	outcome, err := ExecuteActivateEntityTab(context.Background(), input, ActivateEntityTabDeps{SelectionStore: store})
	if err != nil {
		t.Fatalf("ExecuteActivateEntityTab failed: %v", err)
	}
	if outcome.Kind != navigation.KindLoadDetail || outcome.EntityID != "cg2" {
		t.Errorf("outcome = %+v, want load detail for stored cg2", outcome)
	}
}

// TestExecuteActivateEntityTab_NoSelectionUsesFirst verifies the list head is
// shown and persisted when nothing is stored.
func TestExecuteActivateEntityTab_NoSelectionUsesFirst(t *testing.T) {
	store := newMockSelectionStore()

	input := ActivateEntityTabInput{
		AccountID:  "u1",
		Role:       user.RoleCoach,
		EntityType: entity.TypeCoachingGroup,
		Entities:   coachingGroups("cg1", "cg2"),
	}
	outcome, err := ExecuteActivateEntityTab(context.Background(), input, ActivateEntityTabDeps{SelectionStore: store})
	if err != nil {
		t.Fatalf("ExecuteActivateEntityTab failed: %v", err)
	}
	if outcome.EntityID != "cg1" {
		t.Errorf("outcome entity = %q, want list head cg1", outcome.EntityID)
	}
	if got := store.values[selectionKey("u1", entity.TypeCoachingGroup)]; got != "cg1" {
		t.Errorf("persisted selection = %q, want cg1", got)
	}
}

// TestExecuteActivateEntityTab_StaleSelection verifies a stored id missing
// from the list falls back to the head and replaces the stale value.
func TestExecuteActivateEntityTab_StaleSelection(t *testing.T) {
	store := newMockSelectionStore()
	store.values[selectionKey("u1", entity.TypeCoachingGroup)] = "cg-deleted"

	input := ActivateEntityTabInput{
		AccountID:  "u1",
		Role:       user.RoleCoach,
		EntityType: entity.TypeCoachingGroup,
		Entities:   coachingGroups("cg1", "cg2"),
	}
	outcome, err := ExecuteActivateEntityTab(context.Background(), input, ActivateEntityTabDeps{SelectionStore: store})
	if err != nil {
		t.Fatalf("ExecuteActivateEntityTab failed: %v", err)
	}
	if outcome.EntityID != "cg1" {
		t.Errorf("outcome entity = %q, want fallback cg1", outcome.EntityID)
	}
	if got := store.values[selectionKey("u1", entity.TypeCoachingGroup)]; got != "cg1" {
		t.Errorf("persisted selection = %q, want stale value replaced with cg1", got)
	}
}

// TestExecuteActivateEntityTab_EmptyList verifies an empty owned list
// redirects to the landing page.
func TestExecuteActivateEntityTab_EmptyList(t *testing.T) {
	store := newMockSelectionStore()

	input := ActivateEntityTabInput{
		AccountID:  "u1",
		Role:       user.RoleCoach,
		EntityType: entity.TypeCoachingGroup,
	}
	outcome, err := ExecuteActivateEntityTab(context.Background(), input, ActivateEntityTabDeps{SelectionStore: store})
	if err != nil {
		t.Fatalf("ExecuteActivateEntityTab failed: %v", err)
	}
	if outcome.Kind != navigation.KindRedirectLanding {
		t.Errorf("outcome kind = %q, want redirect for empty list", outcome.Kind)
	}
	if store.sets != 0 {
		t.Errorf("sets = %d, want 0", store.sets)
	}
}

// TestExecuteActivateEntityTab_ReadFailureActsAsAbsent verifies a failed
// selection read behaves like no stored selection.
func TestExecuteActivateEntityTab_ReadFailureActsAsAbsent(t *testing.T) {
	store := newMockSelectionStore()
	store.getErr = errors.New("db locked")

	input := ActivateEntityTabInput{
		AccountID:  "u1",
		Role:       user.RoleCoach,
		EntityType: entity.TypeCoachingGroup,
		Entities:   coachingGroups("cg1", "cg2"),
	}
	outcome, err := ExecuteActivateEntityTab(context.Background(), input, ActivateEntityTabDeps{SelectionStore: store})
	if err != nil {
		t.Fatalf("ExecuteActivateEntityTab failed: %v", err)
	}
	if outcome.EntityID != "cg1" {
		t.Errorf("outcome entity = %q, want list head cg1", outcome.EntityID)
	}
}

// TestExecuteActivateEntityTab_NoRepersistWhenUnchanged verifies showing the
// already stored entity does not rewrite the slot.
func TestExecuteActivateEntityTab_NoRepersistWhenUnchanged(t *testing.T) {
	store := newMockSelectionStore()
	store.values[selectionKey("u1", entity.TypeCoachingGroup)] = "cg1"

	input := ActivateEntityTabInput{
		AccountID:  "u1",
		Role:       user.RoleCoach,
		EntityType: entity.TypeCoachingGroup,
		Entities:   coachingGroups("cg1", "cg2"),
	}
	if _, err := ExecuteActivateEntityTab(context.Background(), input, ActivateEntityTabDeps{SelectionStore: store}); err != nil {
		t.Fatalf("ExecuteActivateEntityTab failed: %v", err)
	}
	if store.sets != 0 {
		t.Errorf("sets = %d, want 0 when shown entity equals stored", store.sets)
	}
}
