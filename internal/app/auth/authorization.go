package auth

import (
	"context"

	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

// Ownership errors
var (
	ErrNotPostAuthor      = apperrors.NewForbiddenError("Only the author can modify this post")
	ErrNotNoteUploader    = apperrors.NewForbiddenError("Only the uploader can delete this note")
	ErrNotSessionOwner    = apperrors.NewForbiddenError("Only the owner can delete this study session")
	ErrNotMessageSender   = apperrors.NewForbiddenError("Only the sender can delete this message")
	ErrNotMessageReceiver = apperrors.NewForbiddenError("Only the receiver can mark this message as read")
)

// AuthorizationService answers membership and ownership questions
type AuthorizationService struct {
	classes repositories.ClassRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(classes repositories.ClassRepository) *AuthorizationService {
	return &AuthorizationService{classes: classes}
}

// RequireClassMember returns ErrClassNotFound for an unknown class and
// ErrNotClassMember when userID has not joined it
func (s *AuthorizationService) RequireClassMember(ctx context.Context, classID, userID string) error {
	ok, err := s.classes.IsMember(ctx, classID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotClassMember
	}
	return nil
}

// RequireOwner returns denied unless ownerID is userID
func RequireOwner(ownerID, userID string, denied error) error {
	if ownerID == "" || ownerID != userID {
		return denied
	}
	return nil
}
