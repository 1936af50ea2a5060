package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultCourseDescription = "Course description coming soon!"

// Course is a published offering. UserID is the owning mentor and becomes
// NULL when that user is deleted; the course itself survives as an orphan
// that superusers can still manage.
type Course struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Title          string          `gorm:"size:100;not null" json:"course_title"`
	Category       string          `gorm:"size:100;not null" json:"category"`
	SchoolName     string          `gorm:"size:150;not null" json:"school_name"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"price"`
	AvailableUntil Date            `gorm:"not null" json:"available_until"`
	Author         string          `gorm:"size:100;not null" json:"author"`
	UserID         *uuid.UUID      `gorm:"type:uuid" json:"user"`
	Owner          *User           `gorm:"foreignKey:UserID" json:"-"`
	PostDate       time.Time       `gorm:"autoCreateTime" json:"post_date"`
	Students       []User          `gorm:"many2many:course_students;constraint:OnDelete:CASCADE" json:"-"`
}

func (Course) TableName() string {
	return "course_list"
}

// CourseStudent is the enrollment relation, kept as an explicit join row so
// the composite primary key serializes concurrent enrolls of the same pair.
type CourseStudent struct {
	CourseID  uint      `gorm:"primaryKey" json:"course_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CourseStudent) TableName() string {
	return "course_students"
}
