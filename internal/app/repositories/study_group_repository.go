package repositories

import (
	"context"

	"github.com/yigit/studbuds/internal/app/models"
)

// StudyGroupRepository defines persistence operations for study groups.
// Members are returned in join order.
type StudyGroupRepository interface {
	// Create persists the group together with its initial members
	Create(ctx context.Context, group *models.StudyGroup) error
	GetByID(ctx context.Context, id string) (*models.StudyGroup, error)
	// ListByClass returns newest first
	ListByClass(ctx context.Context, classID string) ([]*models.StudyGroup, error)

	// AddMember and RemoveMember are idempotent
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
}
