package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GroupMentor  = "Mentor"
	GroupStudent = "Student"
)

// Group is a coarse role marker ("Mentor", "Student"). Groups are created
// lazily the first time something references them.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"size:100" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsSuperuser  bool      `gorm:"default:false" json:"is_superuser"`
	Groups       []Group   `gorm:"many2many:user_groups;constraint:OnDelete:CASCADE" json:"groups"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// InGroup reports membership by group name.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// GroupNames flattens memberships for serialization.
func (u *User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, g.Name)
	}
	return names
}

// AuthToken anchors a session server-side. At most one row per user; logout
// deletes the row, which is what actually revokes the credential.
type AuthToken struct {
	Key       string    `gorm:"size:512;primaryKey" json:"key"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
