package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"movesbook/internal/domain/entity"
	"movesbook/internal/domain/membership"
)

// APIError carries the backend's human-readable error message for display
// in forms. StatusCode is 0 when the request never got an HTTP response.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// resource describes how one entity variant maps onto the backend API.
type resource struct {
	segment     string // path segment, e.g. "coaching-groups"
	ownedPath   string // list resource for the owning administrative role
	athletePath string // list resource for an athlete's memberships
}

// resources maps each entity variant to exactly one backend list resource.
var resources = map[entity.Type]resource{
	entity.TypeClub: {
		segment:     "clubs",
		ownedPath:   "/api/clubs/my-clubs",
		athletePath: "/api/athletes/my-clubs",
	},
	entity.TypeTeam: {
		segment:     "teams",
		ownedPath:   "/api/teams/my-teams",
		athletePath: "/api/athletes/my-teams",
	},
	entity.TypeGroup: {
		segment:     "groups",
		ownedPath:   "/api/groups/my-groups",
		athletePath: "/api/athletes/my-groups",
	},
	entity.TypeCoachingGroup: {
		segment:     "coaching-groups",
		ownedPath:   "/api/coaching-groups/my-coaching-groups",
		athletePath: "/api/athletes/my-coaching-groups",
	},
}

// Client consumes the Movesbook backend API with bearer-token auth.
// It never retries; every method issues at most one request per resource
// and is idempotent with respect to server state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client for the given base URL.
// PRE: baseURL is a valid absolute URL without trailing slash
// POST: Returns a ready-to-use client with a bounded request timeout
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// wireEntity is the backend's JSON shape for an organizational entity.
type wireEntity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCount int    `json:"memberCount"`
	Location    string `json:"location"`
	Sport       string `json:"sport"`
}

// wireMember is the backend's JSON shape for a roster record.
type wireMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

// listEnvelope covers all four list response shapes; exactly one key is set
// per response.
type listEnvelope struct {
	Clubs          []wireEntity `json:"clubs"`
	Teams          []wireEntity `json:"teams"`
	Groups         []wireEntity `json:"groups"`
	CoachingGroups []wireEntity `json:"coachingGroups"`
}

// detailEnvelope covers the detail-with-roster response shapes.
type detailEnvelope struct {
	Club          *wireEntity  `json:"club"`
	Team          *wireEntity  `json:"team"`
	Group         *wireEntity  `json:"group"`
	CoachingGroup *wireEntity  `json:"coachingGroup"`
	Members       []wireMember `json:"members"`
	Error         string       `json:"error"`
}

// entityList extracts the variant's list from the envelope.
func (env *listEnvelope) entityList(t entity.Type) []wireEntity {
	switch t {
	case entity.TypeClub:
		return env.Clubs
	case entity.TypeTeam:
		return env.Teams
	case entity.TypeGroup:
		return env.Groups
	case entity.TypeCoachingGroup:
		return env.CoachingGroups
	}
	return nil
}

// toEntity converts a wire entity into the tagged domain shape.
func (w wireEntity) toEntity(t entity.Type) entity.Entity {
	return entity.Entity{
		Type:        t,
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		MemberCount: w.MemberCount,
		Location:    w.Location,
		Sport:       w.Sport,
	}
}

// toMembership converts a wire roster record into the domain shape.
func (w wireMember) toMembership(t entity.Type, entityID string) membership.Membership {
	m := membership.Membership{
		ID:         w.ID,
		EntityType: t,
		EntityID:   entityID,
		Name:       w.Name,
		Username:   w.Username,
		Email:      w.Email,
		UserType:   w.UserType,
		Role:       w.Role,
	}
	if w.JoinedAt != "" {
		if joined, err := time.Parse(time.RFC3339, w.JoinedAt); err == nil {
			m.JoinedAt = joined
		}
	}
	return m
}

// get issues an authorized GET and decodes the body into out.
// POST: Returns *APIError for non-2xx responses
func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// readErrorMessage extracts the backend's `error` field if present.
func readErrorMessage(body io.Reader) string {
	var env struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return ""
	}
	return env.Error
}

// ListOwned fetches the entities owned by an administrative role. Each role
// maps to exactly one backend resource; no other resource is touched.
// PRE: role is administrative, token is the identity-provider bearer token
// POST: Returns the owned entities, or an empty list on any failure; the
// failure is logged, never propagated, and the dashboard renders empty
func (c *Client) ListOwned(ctx context.Context, role, token string) []entity.Entity {
	t, ok := entity.OwnedType(role)
	if !ok {
		slog.Warn("directory_list_skipped", "reason", "role_owns_no_variant", "role", role)
		return []entity.Entity{}
	}
	res := resources[t]

	var env listEnvelope
	if err := c.get(ctx, res.ownedPath, token, &env); err != nil {
		slog.Error("directory_list_failed", "type", string(t), "path", res.ownedPath, "error", err)
		return []entity.Entity{}
	}

	list := env.entityList(t)
	entities := make([]entity.Entity, 0, len(list))
	for _, w := range list {
		entities = append(entities, w.toEntity(t))
	}
	return entities
}

// ListMemberships fetches an athlete's memberships across all four variants
// with four concurrent requests. Each request fills its own slot; a failed
// fetch leaves its slot empty without delaying or affecting the other three.
// No ordering is guaranteed between completions.
// PRE: token is the identity-provider bearer token of an athlete
// POST: Returns a Directory; failed slots are empty lists (logged)
func (c *Client) ListMemberships(ctx context.Context, token string) entity.Directory {
	var dir entity.Directory
	slots := []struct {
		t    entity.Type
		dest *[]entity.Entity
	}{
		{entity.TypeCoachingGroup, &dir.CoachingGroups},
		{entity.TypeTeam, &dir.Teams},
		{entity.TypeClub, &dir.Clubs},
		{entity.TypeGroup, &dir.Groups},
	}

	var wg sync.WaitGroup
	for _, slot := range slots {
		wg.Add(1)
		go func(t entity.Type, dest *[]entity.Entity) {
			defer wg.Done()
			res := resources[t]
			var env listEnvelope
			if err := c.get(ctx, res.athletePath, token, &env); err != nil {
				slog.Error("membership_list_failed", "type", string(t), "path", res.athletePath, "error", err)
				*dest = []entity.Entity{}
				return
			}
			list := env.entityList(t)
			entities := make([]entity.Entity, 0, len(list))
			for _, w := range list {
				entities = append(entities, w.toEntity(t))
			}
			*dest = entities
		}(slot.t, slot.dest)
	}
	wg.Wait()
	return dir
}

// Detail is an entity together with its membership roster.
type Detail struct {
	Entity  entity.Entity
	Members []membership.Membership
}

// LoadDetail fetches one entity's detail and roster in a single request.
// PRE: entityType is valid, id is non-empty
// POST: Returns the detail or an error; callers degrade to an empty roster
func (c *Client) LoadDetail(ctx context.Context, entityType entity.Type, id, token string) (Detail, error) {
	res, ok := resources[entityType]
	if !ok {
		return Detail{}, entity.ErrInvalidType
	}

	var env detailEnvelope
	path := fmt.Sprintf("/api/%s/%s/members", res.segment, id)
	if err := c.get(ctx, path, token, &env); err != nil {
		return Detail{}, err
	}

	var w *wireEntity
	switch entityType {
	case entity.TypeClub:
		w = env.Club
	case entity.TypeTeam:
		w = env.Team
	case entity.TypeGroup:
		w = env.Group
	case entity.TypeCoachingGroup:
		w = env.CoachingGroup
	}
	if w == nil {
		return Detail{}, &APIError{Message: "backend response missing entity"}
	}

	detail := Detail{Entity: w.toEntity(entityType)}
	detail.Members = make([]membership.Membership, 0, len(env.Members))
	for _, m := range env.Members {
		detail.Members = append(detail.Members, m.toMembership(entityType, w.ID))
	}
	return detail, nil
}

// AddMember links an existing platform account into an entity. The backend
// authenticates the submitted credentials; a rejected pair comes back as an
// *APIError whose Message is shown verbatim in the form.
// PRE: creds have been validated, entityType is valid, id is non-empty
// POST: Returns nil on success; the caller must reload the roster (the
// roster of record is the server's, never a local insert)
func (c *Client) AddMember(ctx context.Context, entityType entity.Type, id string, creds membership.Credentials, token string) error {
	res, ok := resources[entityType]
	if !ok {
		return entity.ErrInvalidType
	}

	payload, err := json.Marshal(map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	})
	if err != nil {
		return err
	}

	path := fmt.Sprintf("%s/api/%s/%s/members/add", c.baseURL, res.segment, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	// A 2xx body may still carry {"error": ...} per the backend contract.
	var env struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	return nil
}
