package repositories

import (
	"context"
	"time"

	"github.com/yigit/studbuds/internal/app/models"
)

// MessageRepository defines persistence operations for direct messages
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	// ListThread returns messages between a and b in either direction, oldest first
	ListThread(ctx context.Context, a, b string) ([]*models.Message, error)
	// ListForUser returns every message sent or received by userID, newest first
	ListForUser(ctx context.Context, userID string) ([]*models.Message, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	CountUnread(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) error
}
