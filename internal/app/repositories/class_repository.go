package repositories

import (
	"context"

	"github.com/yigit/studbuds/internal/app/models"
)

// ClassRepository defines persistence operations for classes and their member set.
// Returned classes always carry their members.
type ClassRepository interface {
	// Create fails with apperrors.ErrClassCodeExists on a duplicate code
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id string) (*models.Class, error)
	GetByCode(ctx context.Context, code string) (*models.Class, error)
	// List filters on name or code (case-insensitive substring) and sorts by name
	List(ctx context.Context, query string) ([]*models.Class, error)
	ListByMember(ctx context.Context, userID string) ([]*models.Class, error)

	// AddMember and RemoveMember are idempotent
	AddMember(ctx context.Context, classID, userID string) error
	RemoveMember(ctx context.Context, classID, userID string) error
	IsMember(ctx context.Context, classID, userID string) (bool, error)
}
