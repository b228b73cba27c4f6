package orchestrators

import (
	"context"
	"log/slog"

	"movesbook/internal/adapters/backend"
	"movesbook/internal/adapters/email"
	"movesbook/internal/domain/entity"
	"movesbook/internal/domain/membership"
)

// DirectoryForAddMember defines the backend interface needed by AddMember.
type DirectoryForAddMember interface {
	AddMember(ctx context.Context, entityType entity.Type, id string, creds membership.Credentials, token string) error
	LoadDetail(ctx context.Context, entityType entity.Type, id, token string) (backend.Detail, error)
}

// AddMemberInput carries input for the add-member orchestrator.
type AddMemberInput struct {
	EntityType  entity.Type
	EntityID    string
	Credentials membership.Credentials
	BearerToken string
}

// AddMemberDeps holds dependencies for AddMember.
type AddMemberDeps struct {
	Directory   DirectoryForAddMember
	EmailSender email.Sender // optional: nil skips the notification
}

// AddMemberResult carries the refreshed roster after a successful add.
type AddMemberResult struct {
	Detail backend.Detail
}

// ExecuteAddMember submits member credentials to the backend and, on
// success, refetches the roster so the displayed list is the server's,
// never a local guess. The new member gets a notification email when a
// sender is configured.
// PRE: Credentials have been validated, EntityID is non-empty
// POST: Returns the refreshed detail, or the backend's rejection error
// for verbatim display in the form
func ExecuteAddMember(ctx context.Context, input AddMemberInput, deps AddMemberDeps) (AddMemberResult, error) {
	if err := input.Credentials.Validate(); err != nil {
		return AddMemberResult{}, err
	}

	if err := deps.Directory.AddMember(ctx, input.EntityType, input.EntityID, input.Credentials, input.BearerToken); err != nil {
		slog.Info("member_add_rejected", "type", string(input.EntityType), "entity_id", input.EntityID, "error", err)
		return AddMemberResult{}, err
	}

	slog.Info("member_added", "type", string(input.EntityType), "entity_id", input.EntityID, "username", input.Credentials.Username)

	detail, err := deps.Directory.LoadDetail(ctx, input.EntityType, input.EntityID, input.BearerToken)
	if err != nil {
		// The add succeeded; a failed refetch degrades to an empty roster.
		slog.Error("roster_refetch_failed", "type", string(input.EntityType), "entity_id", input.EntityID, "error", err)
		return AddMemberResult{Detail: backend.Detail{Entity: entity.Entity{Type: input.EntityType, ID: input.EntityID}}}, nil
	}

	if deps.EmailSender != nil {
		notifyNewMember(ctx, deps.EmailSender, detail, input.Credentials.Username)
	}

	return AddMemberResult{Detail: detail}, nil
}

// notifyNewMember sends the member-added email to the freshly linked user.
// Send failures are logged and never surfaced to the administrator.
func notifyNewMember(ctx context.Context, sender email.Sender, detail backend.Detail, username string) {
	for _, m := range detail.Members {
		if m.Username != username || m.Email == "" {
			continue
		}
		req := email.MemberAddedRequest(m.Email, m.Name, detail.Entity.Name, detail.Entity.Type.Label())
		if _, err := sender.Send(ctx, req); err != nil {
			slog.Error("member_added_email_failed", "username", username, "error", err)
		}
		return
	}
}
