package policy

import (
	"testing"

	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func mentor() *model.User {
	return &model.User{ID: uuid.New(), Username: "mentor", Groups: []model.Group{{Name: model.GroupMentor}}}
}

func student() *model.User {
	return &model.User{ID: uuid.New(), Username: "student", Groups: []model.Group{{Name: model.GroupStudent}}}
}

func superuser() *model.User {
	return &model.User{ID: uuid.New(), Username: "admin", IsSuperuser: true}
}

func ownedBy(u *model.User) *model.Course {
	id := u.ID
	return &model.Course{ID: 1, UserID: &id}
}

func TestDecide(t *testing.T) {
	owner := mentor()
	otherMentor := mentor()

	tests := []struct {
		name     string
		actor    *model.User
		action   Action
		resource *model.Course
		want     Decision
	}{
		{"anonymous can read", nil, ActionGet, &model.Course{}, Allow},
		{"anonymous can list", nil, ActionList, nil, Allow},
		{"anonymous can read categories", nil, ActionCategories, nil, Allow},

		{"student cannot create", student(), ActionCreate, nil, Deny},
		{"anonymous cannot create", nil, ActionCreate, nil, Deny},
		{"mentor can create", mentor(), ActionCreate, nil, Allow},
		{"superuser can create", superuser(), ActionCreate, nil, Allow},

		{"owner mentor can update", owner, ActionUpdate, ownedBy(owner), Allow},
		{"other mentor cannot update", otherMentor, ActionUpdate, ownedBy(owner), Deny},
		{"student cannot update", student(), ActionUpdate, ownedBy(owner), Deny},
		{"superuser can update any", superuser(), ActionUpdate, ownedBy(owner), Allow},
		{"owner mentor can delete", owner, ActionDelete, ownedBy(owner), Allow},
		{"other mentor cannot delete", otherMentor, ActionDelete, ownedBy(owner), Deny},
		{"superuser can delete any", superuser(), ActionDelete, ownedBy(owner), Allow},
		{"mentor cannot update orphaned course", owner, ActionUpdate, &model.Course{ID: 2}, Deny},
		{"superuser can update orphaned course", superuser(), ActionUpdate, &model.Course{ID: 2}, Allow},

		{"student can enroll", student(), ActionEnroll, nil, Allow},
		{"mentor can enroll", mentor(), ActionEnroll, nil, Allow},
		{"anonymous cannot enroll", nil, ActionEnroll, nil, Deny},
		{"student can unenroll", student(), ActionUnenroll, nil, Allow},
		{"anonymous cannot unenroll", nil, ActionUnenroll, nil, Deny},
		{"student can view enrollments", student(), ActionMyEnrollments, nil, Allow},
		{"anonymous cannot view enrollments", nil, ActionMyEnrollments, nil, Deny},

		{"mentor can view own courses", mentor(), ActionMyCourses, nil, Allow},
		{"student cannot view my courses", student(), ActionMyCourses, nil, Deny},
		{"superuser without group cannot view my courses", superuser(), ActionMyCourses, nil, Deny},

		{"unknown action is denied", superuser(), Action("unknown"), nil, Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.actor, tt.action, tt.resource)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecisionAllowed(t *testing.T) {
	assert.True(t, Allow.Allowed())
	assert.False(t, Deny.Allowed())
}
