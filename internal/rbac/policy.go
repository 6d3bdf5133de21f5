// Package rbac is the single authorization decision point. Handlers describe
// what is being attempted (resource + action + caller + optional owner) and
// get back an allow/deny outcome; no role string is ever compared outside
// this package.
package rbac

import (
	"github.com/google/uuid"

	"github.com/mkolesnikov/titledb/internal/apperr"
)

type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceAccount  Resource = "account"
)

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// requirement is the capability an action demands of the caller.
type requirement int

const (
	public requirement = iota
	authenticated
	adminOnly
	authorOrStaff
	selfOrAdmin
)

// policy is the full permission table. Catalog browsing is open; catalog
// mutation is admin-only; review/comment mutation belongs to the author or
// staff; account access belongs to the subject or an admin.
var policy = map[Resource]map[Action]requirement{
	ResourceCategory: {
		ActionList:     public,
		ActionRetrieve: public,
		ActionCreate:   adminOnly,
		ActionUpdate:   adminOnly,
		ActionDelete:   adminOnly,
	},
	ResourceGenre: {
		ActionList:     public,
		ActionRetrieve: public,
		ActionCreate:   adminOnly,
		ActionUpdate:   adminOnly,
		ActionDelete:   adminOnly,
	},
	ResourceTitle: {
		ActionList:     public,
		ActionRetrieve: public,
		ActionCreate:   adminOnly,
		ActionUpdate:   adminOnly,
		ActionDelete:   adminOnly,
	},
	ResourceReview: {
		ActionList:     public,
		ActionRetrieve: public,
		ActionCreate:   authenticated,
		ActionUpdate:   authorOrStaff,
		ActionDelete:   authorOrStaff,
	},
	ResourceComment: {
		ActionList:     public,
		ActionRetrieve: public,
		ActionCreate:   authenticated,
		ActionUpdate:   authorOrStaff,
		ActionDelete:   authorOrStaff,
	},
	ResourceAccount: {
		ActionList:     adminOnly,
		ActionRetrieve: selfOrAdmin,
		ActionCreate:   public, // signup
		ActionUpdate:   selfOrAdmin,
		ActionDelete:   selfOrAdmin,
	},
}

// Evaluate decides whether caller may perform action on resource. owner is
// the stored owner (review/comment author, account subject) for object-level
// checks and nil where the resource has no owner or none is loaded yet.
//
// Callers must resolve path-parent existence before evaluating, so that a
// missing parent surfaces as not-found rather than as a denial.
func Evaluate(resource Resource, action Action, caller *Identity, owner *uuid.UUID) error {
	actions, ok := policy[resource]
	if !ok {
		return apperr.PermissionDenied("no policy for resource %q", resource)
	}
	req, ok := actions[action]
	if !ok {
		return apperr.PermissionDenied("action %q not permitted on %s", action, resource)
	}

	if req == public {
		return nil
	}
	if caller == nil {
		return apperr.AuthRequired("authentication required")
	}

	switch req {
	case authenticated:
		return nil
	case adminOnly:
		if caller.Role == RoleAdmin {
			return nil
		}
	case authorOrStaff:
		// Authorship is strict identifier equality; staff roles are a
		// separate clause, never transitive trust.
		if owner != nil && *owner == caller.ID {
			return nil
		}
		if caller.Role.staff() {
			return nil
		}
	case selfOrAdmin:
		if caller.Role == RoleAdmin {
			return nil
		}
		if owner != nil && *owner == caller.ID {
			return nil
		}
	}
	return apperr.PermissionDenied("insufficient permissions to %s %s", action, resource)
}
