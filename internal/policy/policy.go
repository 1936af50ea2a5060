// Package policy is the single place authorization decisions are made.
// Handlers and services ask Decide instead of sprinkling role checks around.
package policy

import (
	"github.com/ehub-dev/learning-hub/internal/model"
)

type Action string

const (
	ActionGet           Action = "get"
	ActionList          Action = "list"
	ActionCategories    Action = "categories"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionEnroll        Action = "enroll"
	ActionUnenroll      Action = "unenroll"
	ActionMyEnrollments Action = "my_enrollments"
	ActionMyCourses     Action = "my_courses"
)

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool {
	return d == Allow
}

// Decide evaluates (actor, action, resource) against the ordered rule set,
// first match wins, default deny. A nil actor is an unauthenticated caller;
// resource is the course being acted on and may be nil for collection-level
// actions.
func Decide(actor *model.User, action Action, resource *model.Course) Decision {
	switch action {
	case ActionGet, ActionList, ActionCategories:
		// Reads are open to everyone, authenticated or not.
		return Allow

	case ActionCreate:
		if actor == nil {
			return Deny
		}
		if actor.IsSuperuser || actor.InGroup(model.GroupMentor) {
			return Allow
		}
		return Deny

	case ActionUpdate, ActionDelete:
		if actor == nil || resource == nil {
			return Deny
		}
		if actor.IsSuperuser {
			return Allow
		}
		if actor.InGroup(model.GroupMentor) && resource.UserID != nil && *resource.UserID == actor.ID {
			return Allow
		}
		return Deny

	case ActionEnroll, ActionUnenroll, ActionMyEnrollments:
		if actor != nil {
			return Allow
		}
		return Deny

	case ActionMyCourses:
		// Requires the Mentor group even for superusers and even before
		// owning any course; viewing the mentor dashboard is role-gated,
		// not ownership-gated.
		if actor != nil && actor.InGroup(model.GroupMentor) {
			return Allow
		}
		return Deny
	}

	return Deny
}
