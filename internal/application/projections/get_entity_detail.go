package projections

import (
	"context"
	"log/slog"

	"movesbook/internal/adapters/backend"
	"movesbook/internal/domain/entity"
	"movesbook/internal/domain/membership"
)

// DetailDirectory defines the backend interface needed by the detail projection.
type DetailDirectory interface {
	LoadDetail(ctx context.Context, entityType entity.Type, id, token string) (backend.Detail, error)
}

// GetEntityDetailQuery carries input for the detail projection.
type GetEntityDetailQuery struct {
	EntityType entity.Type
	EntityID   string
	Token      string
}

// GetEntityDetailDeps holds dependencies for the detail projection.
type GetEntityDetailDeps struct {
	Directory DetailDirectory
}

// EntityDetailResult carries the output of the detail projection.
type EntityDetailResult struct {
	Entity     entity.Entity
	Members    []membership.Membership
	LoadFailed bool
}

// QueryGetEntityDetail loads one entity's detail and roster. A backend
// failure degrades to an empty roster under a placeholder header so the
// page still renders.
func QueryGetEntityDetail(ctx context.Context, query GetEntityDetailQuery, deps GetEntityDetailDeps) EntityDetailResult {
	detail, err := deps.Directory.LoadDetail(ctx, query.EntityType, query.EntityID, query.Token)
	if err != nil {
		slog.Error("detail_load_failed", "type", string(query.EntityType), "entity_id", query.EntityID, "error", err)
		return EntityDetailResult{
			Entity:     entity.Entity{Type: query.EntityType, ID: query.EntityID},
			Members:    []membership.Membership{},
			LoadFailed: true,
		}
	}
	return EntityDetailResult{
		Entity:  detail.Entity,
		Members: detail.Members,
	}
}
