package dto

import (
	"time"

	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateCourseInput struct {
	Title          string           `json:"course_title" binding:"required,max=100"`
	Category       string           `json:"category" binding:"required,max=100"`
	SchoolName     string           `json:"school_name" binding:"required,max=150"`
	Description    string           `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	AvailableUntil string           `json:"available_until" binding:"required,datetime=2006-01-02"`
	Author         string           `json:"author" binding:"required,max=100"`
}

type UpdateCourseInput struct {
	Title          *string          `json:"course_title" binding:"omitempty,max=100"`
	Category       *string          `json:"category" binding:"omitempty,max=100"`
	SchoolName     *string          `json:"school_name" binding:"omitempty,max=150"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	AvailableUntil *string          `json:"available_until" binding:"omitempty,datetime=2006-01-02"`
	Author         *string          `json:"author" binding:"omitempty,max=100"`
}

type CourseResponse struct {
	ID             uint            `json:"id"`
	Title          string          `json:"course_title"`
	Category       string          `json:"category"`
	SchoolName     string          `json:"school_name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	AvailableUntil model.Date      `json:"available_until"`
	Author         string          `json:"author"`
	PostDate       time.Time       `json:"post_date"`
	UserID         *uuid.UUID      `json:"user"`
	UserUsername   string          `json:"user_username,omitempty"`
	StudentCount   int64           `json:"student_count"`
	IsEnrolled     bool            `json:"is_enrolled"`
}

type CourseDetailResponse struct {
	CourseResponse
	Students []UserResponse `json:"students"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
