package repositories

import (
	"context"

	"github.com/yigit/studbuds/internal/app/models"
)

// PostFilter selects visible posts of a class
type PostFilter struct {
	ClassID string
	Type    models.PostType // Empty means any type
	Limit   int
}

// PostRepository defines persistence operations for class feed posts
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID also returns soft-deleted posts
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// ListByClass excludes soft-deleted posts and returns newest first
	ListByClass(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	// Update persists content, editedAt and deletedAt
	Update(ctx context.Context, post *models.Post) error
}
