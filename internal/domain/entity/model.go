package entity

import (
	"errors"
	"strings"

	"movesbook/internal/domain/user"
)

// Type discriminates the four organizational entity variants.
type Type string

// Entity type constants
const (
	TypeClub          Type = "club"
	TypeTeam          Type = "team"
	TypeGroup         Type = "group"
	TypeCoachingGroup Type = "coaching_group"
)

// AllTypes lists every entity type in display order.
var AllTypes = []Type{TypeCoachingGroup, TypeTeam, TypeClub, TypeGroup}

// Domain errors
var (
	ErrEmptyID     = errors.New("entity id cannot be empty")
	ErrEmptyName   = errors.New("entity name cannot be empty")
	ErrInvalidType = errors.New("entity type must be one of: club, team, group, coaching_group")
)

// Entity is the tagged union of the four organizational entity variants.
// Type is the discriminant; Location is only set for clubs, Sport only
// for teams.
type Entity struct {
	Type        Type
	ID          string
	Name        string
	Description string
	MemberCount int
	Location    string
	Sport       string
}

// Directory holds an athlete's memberships across all four variants.
// Administrators own entities of exactly one variant and never need this.
type Directory struct {
	CoachingGroups []Entity
	Teams          []Entity
	Clubs          []Entity
	Groups         []Entity
}

// Validate checks if the Entity has valid data.
// PRE: Entity struct is populated from a backend response
// POST: Returns nil if valid, error otherwise
func (e *Entity) Validate() error {
	if !IsValidType(e.Type) {
		return ErrInvalidType
	}
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// IsValidType returns true if t is one of the known entity types.
func IsValidType(t Type) bool {
	switch t {
	case TypeClub, TypeTeam, TypeGroup, TypeCoachingGroup:
		return true
	}
	return false
}

// ParseType converts a URL/storage string into a Type.
// POST: Returns the Type, or an error for unknown values
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !IsValidType(t) {
		return "", ErrInvalidType
	}
	return t, nil
}

// OwnedType maps an administrative role to the single entity variant it owns.
// POST: Returns the owned Type and true, or false for non-administrative roles
func OwnedType(role string) (Type, bool) {
	switch role {
	case user.RoleClubTrainer:
		return TypeClub, true
	case user.RoleTeamManager:
		return TypeTeam, true
	case user.RoleGroupAdmin:
		return TypeGroup, true
	case user.RoleCoach:
		return TypeCoachingGroup, true
	}
	return "", false
}

// ContainsID reports whether the list holds an entity with the given id.
// INVARIANT: entities slice is not mutated
func ContainsID(entities []Entity, id string) bool {
	for _, e := range entities {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Label returns a human-readable name for the entity type.
func (t Type) Label() string {
	switch t {
	case TypeClub:
		return "Club"
	case TypeTeam:
		return "Team"
	case TypeGroup:
		return "Group"
	case TypeCoachingGroup:
		return "Coaching Group"
	}
	return string(t)
}
