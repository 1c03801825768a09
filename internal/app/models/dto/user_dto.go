package dto

import (
	"time"

	"github.com/yigit/studbuds/internal/app/models"
)

// RegisterRequest represents a student registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100" example:"alice"`
	Email    string `json:"email" binding:"required,email,edu_email" example:"alice@school.edu"`
	Password string `json:"password" binding:"required,min=6" example:"pw123456"`
	Major    string `json:"major" binding:"required,notblank,max=100" example:"CS"`
	Bio      string `json:"bio" binding:"max=500"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@school.edu"`
	Password string `json:"password" binding:"required" example:"pw123456"`
}

// UpdateProfileRequest is a partial profile update; nil fields are left unchanged
type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,notblank,max=100"`
	Major *string `json:"major" binding:"omitempty,max=100"`
	Bio   *string `json:"bio" binding:"omitempty,max=500"`
}

// UserSummary is the public projection embedded in other resources
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Major string `json:"major,omitempty"`
}

// UserResponse is a user without credentials
type UserResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Major     string         `json:"major"`
	Bio       string         `json:"bio"`
	Friends   []string       `json:"friends"`
	Classes   []ClassSummary `json:"classes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// NewUserSummary projects u for embedding
func NewUserSummary(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Major: u.Major}
}

// NewUserResponse projects u without its password
func NewUserResponse(u *models.User) UserResponse {
	friends := u.Friends
	if friends == nil {
		friends = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Major:     u.Major,
		Bio:       u.Bio,
		Friends:   friends,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
