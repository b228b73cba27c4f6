package user

import (
	"errors"
	"strings"
)

// Role constants as issued by the identity provider.
const (
	RoleAthlete     = "ATHLETE"
	RoleCoach       = "COACH"
	RoleClubTrainer = "CLUB_TRAINER"
	RoleTeamManager = "TEAM_MANAGER"
	RoleGroupAdmin  = "GROUP_ADMIN"
)

// ValidRoles contains all role values the identity provider may issue.
var ValidRoles = []string{RoleAthlete, RoleCoach, RoleClubTrainer, RoleTeamManager, RoleGroupAdmin}

// Domain errors
var (
	ErrEmptyID     = errors.New("user id cannot be empty")
	ErrInvalidRole = errors.New("role must be one of: ATHLETE, COACH, CLUB_TRAINER, TEAM_MANAGER, GROUP_ADMIN")
)

// User holds the identity-provider view of a signed-in user.
// Users are created and destroyed by the external identity provider;
// this application only reads them.
type User struct {
	ID       string
	Name     string
	Username string
	Email    string
	Role     string
}

// Validate checks if the User has valid data.
// PRE: User struct is populated from identity-provider claims
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return ErrEmptyID
	}
	if !IsValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// IsAthlete returns true if the user has the athlete role.
// INVARIANT: User fields are not mutated
func (u *User) IsAthlete() bool {
	return u.Role == RoleAthlete
}

// IsAdministrative returns true if the user's role owns entities of one variant.
// INVARIANT: User fields are not mutated
func (u *User) IsAdministrative() bool {
	return IsAdministrativeRole(u.Role)
}

// IsAdministrativeRole returns true for roles that own organizational entities.
func IsAdministrativeRole(role string) bool {
	switch role {
	case RoleCoach, RoleClubTrainer, RoleTeamManager, RoleGroupAdmin:
		return true
	}
	return false
}

// IsValidRole returns true if role is one of the known role values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
