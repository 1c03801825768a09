package repositories

import (
	"context"

	"github.com/yigit/studbuds/internal/app/models"
)

// UserRepository defines persistence operations for users.
// Lookups return apperrors.ErrUserNotFound when no user matches.
type UserRepository interface {
	// Create fails with apperrors.ErrEmailAlreadyExists on a duplicate email
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail matches the lowercase email
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDs returns the users that exist, in no particular order
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	// Update persists name, major, bio and updatedAt
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// Search matches name, email or major case-insensitively, excluding excludeID
	Search(ctx context.Context, query, excludeID string, limit int) ([]*models.User, error)

	// AddFriend and RemoveFriend are idempotent
	AddFriend(ctx context.Context, userID, friendID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
}
