package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

// ClassService defines class catalogue and membership operations
type ClassService interface {
	ListClasses(ctx context.Context, query string) ([]dto.ClassResponse, error)
	GetClassByID(ctx context.Context, id string) (*dto.ClassResponse, error)
	GetClassByCode(ctx context.Context, code string) (*dto.ClassResponse, error)
	CreateClass(ctx context.Context, userID string, req dto.CreateClassRequest) (*dto.ClassResponse, error)
	JoinClass(ctx context.Context, userID, classID string) (*dto.ClassResponse, error)
	LeaveClass(ctx context.Context, userID, classID string) (*dto.ClassResponse, error)
	ListMembers(ctx context.Context, classID string) ([]dto.UserSummary, error)
}

// classServiceImpl implements ClassService
type classServiceImpl struct {
	repos  *repositories.Repositories
	now    Clock
	logger zerolog.Logger
}

// NewClassService creates a new ClassService
func NewClassService(repos *repositories.Repositories, now Clock, logger zerolog.Logger) ClassService {
	return &classServiceImpl{repos: repos, now: now, logger: logger}
}

// normalizeClassCode uppercases and trims a class code
func normalizeClassCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func classResponses(classes []*models.Class) []dto.ClassResponse {
	out := make([]dto.ClassResponse, 0, len(classes))
	for _, c := range classes {
		out = append(out, dto.NewClassResponse(c))
	}
	return out
}

// ListClasses filters by a case-insensitive substring of name or code
func (s *classServiceImpl) ListClasses(ctx context.Context, query string) ([]dto.ClassResponse, error) {
	classes, err := s.repos.Classes.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	return classResponses(classes), nil
}

func (s *classServiceImpl) GetClassByID(ctx context.Context, id string) (*dto.ClassResponse, error) {
	class, err := s.repos.Classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewClassResponse(class)
	return &resp, nil
}

func (s *classServiceImpl) GetClassByCode(ctx context.Context, code string) (*dto.ClassResponse, error) {
	class, err := s.repos.Classes.GetByCode(ctx, normalizeClassCode(code))
	if err != nil {
		return nil, err
	}
	resp := dto.NewClassResponse(class)
	return &resp, nil
}

// CreateClass adds a class to the catalogue. userID may be empty for system-created classes.
func (s *classServiceImpl) CreateClass(ctx context.Context, userID string, req dto.CreateClassRequest) (*dto.ClassResponse, error) {
	name := strings.TrimSpace(req.Name)
	code := normalizeClassCode(req.Code)
	if name == "" || code == "" {
		return nil, apperrors.NewValidationError("Please provide class name and code")
	}
	if charLen(name) > 200 {
		return nil, apperrors.NewValidationError("Class name cannot exceed 200 characters")
	}

	class := &models.Class{
		ID:          newID(),
		Name:        name,
		Code:        code,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
		Members:     []string{},
		CreatedAt:   s.now(),
	}
	if err := s.repos.Classes.Create(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info().Str("classID", class.ID).Str("code", class.Code).Msg("Class created")
	resp := dto.NewClassResponse(class)
	return &resp, nil
}

// JoinClass is idempotent
func (s *classServiceImpl) JoinClass(ctx context.Context, userID, classID string) (*dto.ClassResponse, error) {
	if err := s.repos.Classes.AddMember(ctx, classID, userID); err != nil {
		return nil, err
	}
	return s.GetClassByID(ctx, classID)
}

// LeaveClass is idempotent
func (s *classServiceImpl) LeaveClass(ctx context.Context, userID, classID string) (*dto.ClassResponse, error) {
	if err := s.repos.Classes.RemoveMember(ctx, classID, userID); err != nil {
		return nil, err
	}
	return s.GetClassByID(ctx, classID)
}

// ListMembers returns member summaries in join order
func (s *classServiceImpl) ListMembers(ctx context.Context, classID string) ([]dto.UserSummary, error) {
	class, err := s.repos.Classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	lookup, err := loadUsers(ctx, s.repos.Users, class.Members...)
	if err != nil {
		return nil, err
	}
	return lookup.ordered(class.Members), nil
}
