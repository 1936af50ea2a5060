package dto

import (
	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/google/uuid"
)

type SignupInput struct {
	Username  string  `json:"username" binding:"required,max=50"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  string  `json:"password" binding:"required"`
	Password2 string  `json:"password2" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       *string   `json:"email,omitempty"`
	Groups      []string  `json:"groups"`
	IsSuperuser bool      `json:"is_superuser"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Groups:      user.GroupNames(),
		IsSuperuser: user.IsSuperuser,
	}
}
