package membership

import (
	"errors"
	"strings"
	"time"

	"movesbook/internal/domain/entity"
)

// Domain errors
var (
	ErrEmptyID       = errors.New("membership id cannot be empty")
	ErrEmptyEntityID = errors.New("membership entity id cannot be empty")
	ErrEmptyName     = errors.New("member name cannot be empty")
)

// Membership joins an organizational entity and a member user.
// JoinedAt is immutable once set. Uniqueness per (entity, member) pair
// is enforced by the backend; this application does not re-validate it.
type Membership struct {
	ID         string
	EntityType entity.Type
	EntityID   string
	Name       string
	Username   string
	Email      string
	UserType   string
	Role       string
	JoinedAt   time.Time
}

// Validate checks if the Membership has valid data.
// PRE: Membership struct is populated from a backend roster response
// POST: Returns nil if valid, error otherwise
func (m *Membership) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(m.EntityID) == "" {
		return ErrEmptyEntityID
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Credentials carries the username/password pair submitted to link an
// existing platform account into an entity. The backend authenticates the
// pair; it is never checked or stored here.
type Credentials struct {
	Username string
	Password string
}

// Validate checks the credentials are submittable.
// POST: Returns nil if both fields are non-empty
func (c *Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return errors.New("username cannot be empty")
	}
	if c.Password == "" {
		return errors.New("password cannot be empty")
	}
	return nil
}
