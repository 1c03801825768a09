package dto

import (
	"time"

	"github.com/yigit/studbuds/internal/app/models"
)

// CreatePostRequest represents a new class feed post
type CreatePostRequest struct {
	Content string          `json:"content" binding:"required,notblank,max=1000" example:"hello"`
	Type    models.PostType `json:"type" binding:"omitempty,oneof=chat question announcement" example:"chat"`
}

// UpdatePostRequest replaces the content of a post
type UpdatePostRequest struct {
	Content string `json:"content" binding:"required,notblank,max=1000"`
}

// ListPostsQuery holds the feed filters
type ListPostsQuery struct {
	Type  models.PostType `form:"type" binding:"omitempty,oneof=chat question announcement"`
	Limit int             `form:"limit" binding:"omitempty,min=1"`
}

// PostResponse is a post with its author populated
type PostResponse struct {
	ID        string          `json:"id"`
	ClassID   string          `json:"classId"`
	Author    UserSummary     `json:"author"`
	Content   string          `json:"content"`
	Type      models.PostType `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
	EditedAt  *time.Time      `json:"editedAt,omitempty"`
	DeletedAt *time.Time      `json:"deletedAt,omitempty"`
}

// NewPostResponse projects p with author
func NewPostResponse(p *models.Post, author UserSummary) PostResponse {
	return PostResponse{
		ID:        p.ID,
		ClassID:   p.ClassID,
		Author:    author,
		Content:   p.Content,
		Type:      p.Type,
		CreatedAt: p.CreatedAt,
		EditedAt:  p.EditedAt,
		DeletedAt: p.DeletedAt,
	}
}
