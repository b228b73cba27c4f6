package projections

import (
	"context"
	"log/slog"

	"movesbook/internal/domain/entity"
	"movesbook/internal/domain/user"
)

// DashboardDirectory defines the backend interface needed by the dashboard projection.
type DashboardDirectory interface {
	ListOwned(ctx context.Context, role, token string) []entity.Entity
	ListMemberships(ctx context.Context, token string) entity.Directory
}

// DashboardSelectionStore defines the selection store interface needed by the dashboard projection.
type DashboardSelectionStore interface {
	Get(ctx context.Context, accountID string, entityType entity.Type) (string, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	AccountID string
	Role      string
	Token     string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Directory      DashboardDirectory
	SelectionStore DashboardSelectionStore
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Role string

	// Administrative roles
	OwnedType  entity.Type
	OwnedLabel string
	Entities   []entity.Entity
	SelectedID string

	// Athlete
	Directory entity.Directory
}

// QueryGetDashboard aggregates the landing page data based on the user's
// role. Administrators get the owned list of their one variant plus the
// stored selection; athletes get all four membership lists. Backend
// failures surface as empty lists, never as an error.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) DashboardResult {
	result := DashboardResult{Role: query.Role}

	if query.Role == user.RoleAthlete {
		result.Directory = deps.Directory.ListMemberships(ctx, query.Token)
		return result
	}

	owned, ok := entity.OwnedType(query.Role)
	if !ok {
		slog.Warn("dashboard_unknown_role", "account_id", query.AccountID, "role", query.Role)
		return result
	}

	result.OwnedType = owned
	result.OwnedLabel = owned.Label()
	result.Entities = deps.Directory.ListOwned(ctx, query.Role, query.Token)

	selected, err := deps.SelectionStore.Get(ctx, query.AccountID, owned)
	if err != nil {
		slog.Error("selection_read_failed", "account_id", query.AccountID, "type", string(owned), "error", err)
		selected = ""
	}
	// A stored id no longer in the list is treated as absent.
	if selected != "" && !entity.ContainsID(result.Entities, selected) {
		selected = ""
	}
	result.SelectedID = selected

	return result
}
