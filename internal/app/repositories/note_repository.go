package repositories

import (
	"context"

	"github.com/yigit/studbuds/internal/app/models"
)

// NoteRepository defines persistence operations for shared notes
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id string) (*models.Note, error)
	// ListByClass returns newest first
	ListByClass(ctx context.Context, classID string, approvedOnly bool) ([]*models.Note, error)
	Delete(ctx context.Context, id string) error

	// ToggleLike adds or removes userID from the like set atomically
	ToggleLike(ctx context.Context, noteID, userID string) (liked bool, likeCount int, err error)
	IncrementDownloads(ctx context.Context, id string) (int, error)
	IncrementViews(ctx context.Context, id string) (int, error)
}
