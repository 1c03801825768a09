package repositories

import (
	"context"

	"github.com/yigit/studbuds/internal/app/models"
)

// StudySessionRepository defines persistence operations for logged study sessions
type StudySessionRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	GetByID(ctx context.Context, id string) (*models.StudySession, error)
	// ListByClass returns newest first; limit <= 0 means no limit
	ListByClass(ctx context.Context, classID string, limit int) ([]*models.StudySession, error)
	ListByUserAndClass(ctx context.Context, userID, classID string) ([]*models.StudySession, error)
	Delete(ctx context.Context, id string) error

	ToggleLike(ctx context.Context, sessionID, userID string) (liked bool, likeCount int, err error)
	AddComment(ctx context.Context, sessionID string, comment models.SessionComment) error
}
