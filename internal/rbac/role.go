package rbac

import (
	"github.com/google/uuid"

	"github.com/mkolesnikov/titledb/internal/apperr"
)

// Role is the closed set of user roles. The zero value is not a valid role;
// user records default to RoleUser at creation.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a raw role string coming from storage or a request
// payload.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleModerator, RoleAdmin:
		return Role(s), nil
	}
	return "", apperr.Validation("unknown role %q", s)
}

// staff reports whether the role carries moderation rights over content
// authored by others.
func (r Role) staff() bool {
	return r == RoleModerator || r == RoleAdmin
}

// Identity describes an authenticated caller. A nil *Identity means the
// request is anonymous.
type Identity struct {
	ID       uuid.UUID
	Username string
	Role     Role
}

// CanAssignRole reports whether the caller may set the role field on a user
// record. All role comparisons live in this package; callers must not test
// the Role field directly.
func CanAssignRole(caller *Identity) bool {
	return caller != nil && caller.Role == RoleAdmin
}
