package navigation

import (
	"movesbook/internal/domain/entity"
)

// Page identifies which kind of page is asking for a navigation decision.
type Page string

// Page constants
const (
	// PageDetail is an entity detail page (roster view) addressed by an
	// optional id query parameter.
	PageDetail Page = "detail"
	// PageEntityTab is the landing page's "my entity" tab being activated
	// without the user picking a specific row.
	PageEntityTab Page = "entity_tab"
)

// OutcomeKind enumerates the possible navigation decisions.
type OutcomeKind string

// Outcome kinds
const (
	// KindRedirectLanding sends the user back to the generic landing page.
	KindRedirectLanding OutcomeKind = "redirect_landing"
	// KindEmpty renders a calm "no entity selected" prompt.
	KindEmpty OutcomeKind = "empty"
	// KindLoadDetail loads the roster for a specific entity.
	KindLoadDetail OutcomeKind = "load_detail"
)

// Outcome is a navigation decision. EntityType and EntityID are only set
// for KindLoadDetail.
type Outcome struct {
	Kind       OutcomeKind
	EntityType entity.Type
	EntityID   string
}

// Request carries everything the resolver needs. All fields are plain data
// loaded before the call; Resolve itself performs no I/O and cannot fail.
type Request struct {
	Role        string          // identity-provider role of the signed-in user
	Page        Page            // which page is asking
	EntityType  entity.Type     // entity variant the page operates on
	RequestedID string          // id from the URL query, "" when absent
	Entities    []entity.Entity // freshly loaded list for EntityType
	StoredID    string          // persisted selection, "" when absent
}

// Resolve decides where navigation goes. Decision order, first match wins:
//
//  1. A page whose entity variant is not the one the user's role owns
//     redirects to the landing page. Administrative dashboards are
//     role-exclusive; athletes never reach them.
//  2. A detail page without an id redirects to the landing page when the
//     user owns at least one entity (the page never silently guesses), and
//     renders the empty prompt otherwise.
//  3. An id in the URL wins over any stored selection.
//  4. Activating the entity tab prefers the stored selection, falls back to
//     the first loaded entity, and redirects when the list is empty. A
//     stored id missing from the loaded list is treated as no selection.
//
// PRE: Request fields are populated; Entities reflects current server state
// POST: Returns exactly one Outcome; never panics, never performs I/O
// INVARIANT: Request fields are not mutated
func Resolve(req Request) Outcome {
	owned, ok := entity.OwnedType(req.Role)
	if !ok || owned != req.EntityType {
		return Outcome{Kind: KindRedirectLanding}
	}

	switch req.Page {
	case PageDetail:
		if req.RequestedID == "" {
			if len(req.Entities) > 0 {
				return Outcome{Kind: KindRedirectLanding}
			}
			return Outcome{Kind: KindEmpty}
		}
		return Outcome{Kind: KindLoadDetail, EntityType: req.EntityType, EntityID: req.RequestedID}

	case PageEntityTab:
		if req.StoredID != "" && entity.ContainsID(req.Entities, req.StoredID) {
			return Outcome{Kind: KindLoadDetail, EntityType: req.EntityType, EntityID: req.StoredID}
		}
		if len(req.Entities) > 0 {
			return Outcome{Kind: KindLoadDetail, EntityType: req.EntityType, EntityID: req.Entities[0].ID}
		}
		return Outcome{Kind: KindRedirectLanding}
	}

	return Outcome{Kind: KindRedirectLanding}
}
