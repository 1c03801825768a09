package dto

import (
	"time"

	"github.com/yigit/studbuds/internal/app/models"
)

// CreateClassRequest represents a new class
type CreateClassRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=200" example:"Algorithms"`
	Code        string `json:"code" binding:"required,notblank,max=50" example:"CS1"`
	Description string `json:"description" binding:"max=1000"`
}

// ClassSummary is the short form used in a user's class list
type ClassSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ClassResponse is a class with its derived member count
type ClassResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	Members     []string  `json:"members"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewClassResponse projects c
func NewClassResponse(c *models.Class) ClassResponse {
	members := c.Members
	if members == nil {
		members = []string{}
	}
	return ClassResponse{
		ID:          c.ID,
		Name:        c.Name,
		Code:        c.Code,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		Members:     members,
		MemberCount: c.MemberCount(),
		CreatedAt:   c.CreatedAt,
	}
}

// NewClassSummary projects c for a user's class list
func NewClassSummary(c *models.Class) ClassSummary {
	return ClassSummary{ID: c.ID, Name: c.Name, Code: c.Code}
}
