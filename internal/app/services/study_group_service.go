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

// StudyGroupService defines study group operations
type StudyGroupService interface {
	CreateStudyGroup(ctx context.Context, userID, classID string, req dto.CreateStudyGroupRequest) (*dto.StudyGroupResponse, error)
	ListStudyGroups(ctx context.Context, classID string) ([]dto.StudyGroupResponse, error)
	GetStudyGroup(ctx context.Context, groupID string) (*dto.StudyGroupResponse, error)
	JoinStudyGroup(ctx context.Context, userID, groupID string) (*dto.StudyGroupResponse, error)
	LeaveStudyGroup(ctx context.Context, userID, groupID string) (*dto.StudyGroupResponse, error)
}

// studyGroupServiceImpl implements StudyGroupService
type studyGroupServiceImpl struct {
	repos  *repositories.Repositories
	now    Clock
	logger zerolog.Logger
}

// NewStudyGroupService creates a new StudyGroupService
func NewStudyGroupService(repos *repositories.Repositories, now Clock, logger zerolog.Logger) StudyGroupService {
	return &studyGroupServiceImpl{repos: repos, now: now, logger: logger}
}

// CreateStudyGroup makes the creator the first member
func (s *studyGroupServiceImpl) CreateStudyGroup(ctx context.Context, userID, classID string, req dto.CreateStudyGroupRequest) (*dto.StudyGroupResponse, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" {
		return nil, apperrors.NewValidationError("Study group name is required")
	}
	if charLen(name) > 200 {
		return nil, apperrors.NewValidationError("Study group name cannot exceed 200 characters")
	}
	if charLen(description) > 1000 {
		return nil, apperrors.NewValidationError("Description cannot exceed 1000 characters")
	}
	if _, err := s.repos.Classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}

	group := &models.StudyGroup{
		ID:          newID(),
		ClassID:     classID,
		Name:        name,
		Description: description,
		CreatedBy:   userID,
		Members:     []string{userID},
		ScheduledAt: req.ScheduledAt,
		Location:    strings.TrimSpace(req.Location),
		CreatedAt:   s.now(),
	}
	if err := s.repos.StudyGroups.Create(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info().Str("groupID", group.ID).Str("classID", classID).Msg("Study group created")
	return s.respond(ctx, group)
}

func (s *studyGroupServiceImpl) respond(ctx context.Context, group *models.StudyGroup) (*dto.StudyGroupResponse, error) {
	lookup, err := loadUsers(ctx, s.repos.Users, append([]string{group.CreatedBy}, group.Members...)...)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudyGroupResponse(group, lookup.get)
	return &resp, nil
}

// ListStudyGroups returns the groups of a class, newest first
func (s *studyGroupServiceImpl) ListStudyGroups(ctx context.Context, classID string) ([]dto.StudyGroupResponse, error) {
	if _, err := s.repos.Classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	groups, err := s.repos.StudyGroups.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, g := range groups {
		ids = append(ids, g.CreatedBy)
		ids = append(ids, g.Members...)
	}
	lookup, err := loadUsers(ctx, s.repos.Users, ids...)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StudyGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.NewStudyGroupResponse(g, lookup.get))
	}
	return out, nil
}

func (s *studyGroupServiceImpl) GetStudyGroup(ctx context.Context, groupID string) (*dto.StudyGroupResponse, error) {
	group, err := s.repos.StudyGroups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, group)
}

// JoinStudyGroup is idempotent
func (s *studyGroupServiceImpl) JoinStudyGroup(ctx context.Context, userID, groupID string) (*dto.StudyGroupResponse, error) {
	if err := s.repos.StudyGroups.AddMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.GetStudyGroup(ctx, groupID)
}

// LeaveStudyGroup is idempotent
func (s *studyGroupServiceImpl) LeaveStudyGroup(ctx context.Context, userID, groupID string) (*dto.StudyGroupResponse, error) {
	if err := s.repos.StudyGroups.RemoveMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.GetStudyGroup(ctx, groupID)
}
