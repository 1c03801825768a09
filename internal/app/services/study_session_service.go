package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	authz "github.com/yigit/studbuds/internal/app/auth"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

const maxCommentLength = 500

// StudySessionService defines study log operations
type StudySessionService interface {
	CreateStudySession(ctx context.Context, userID, classID string, req dto.CreateStudySessionRequest) (*dto.StudySessionResponse, error)
	ListStudySessions(ctx context.Context, userID, classID string, limit int) ([]dto.StudySessionResponse, error)
	GetUserStudyStats(ctx context.Context, userID, classID string) (*dto.StudyStatsResponse, error)
	LikeStudySession(ctx context.Context, userID, sessionID string) (*dto.LikeResponse, error)
	AddComment(ctx context.Context, userID, sessionID string, req dto.AddCommentRequest) (*dto.StudySessionResponse, error)
	DeleteStudySession(ctx context.Context, userID, sessionID string) error
}

// studySessionServiceImpl implements StudySessionService
type studySessionServiceImpl struct {
	repos  *repositories.Repositories
	authz  *authz.AuthorizationService
	now    Clock
	logger zerolog.Logger
}

// NewStudySessionService creates a new StudySessionService
func NewStudySessionService(
	repos *repositories.Repositories,
	authzService *authz.AuthorizationService,
	now Clock,
	logger zerolog.Logger,
) StudySessionService {
	return &studySessionServiceImpl{repos: repos, authz: authzService, now: now, logger: logger}
}

func buildStudySession(userID, classID string, req dto.CreateStudySessionRequest) (*models.StudySession, error) {
	topic := strings.TrimSpace(req.Topic)
	learned := strings.TrimSpace(req.WhatILearned)
	if req.Duration == 0 || topic == "" || learned == "" {
		return nil, apperrors.NewValidationError("Please provide duration, topic, and what you learned")
	}
	if req.Duration < 1 {
		return nil, apperrors.NewValidationError("Duration must be at least 1 minute")
	}
	if charLen(topic) > 200 {
		return nil, apperrors.NewValidationError("Topic cannot exceed 200 characters")
	}
	if charLen(learned) > 1000 {
		return nil, apperrors.NewValidationError("What you learned cannot exceed 1000 characters")
	}

	sessionType := req.Type
	if sessionType == "" {
		sessionType = models.SessionTypeManualLog
	}
	if !sessionType.Valid() {
		return nil, apperrors.NewValidationError("Invalid session type")
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	if !difficulty.Valid() {
		return nil, apperrors.NewValidationError("Invalid difficulty")
	}
	if req.StudyTechnique != "" && !req.StudyTechnique.Valid() {
		return nil, apperrors.NewValidationError("Invalid study technique")
	}

	subtopics := []string{}
	for _, st := range req.Subtopics {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		if charLen(st) > 100 {
			return nil, apperrors.NewValidationError("Subtopics cannot exceed 100 characters")
		}
		subtopics = append(subtopics, st)
	}

	return &models.StudySession{
		ID:             newID(),
		ClassID:        classID,
		UserID:         userID,
		Type:           sessionType,
		Duration:       int(req.Duration),
		Topic:          topic,
		Subtopics:      subtopics,
		WhatILearned:   learned,
		Difficulty:     difficulty,
		StudyTechnique: req.StudyTechnique,
		Location:       strings.TrimSpace(req.Location),
		Likes:          []string{},
		Comments:       []models.SessionComment{},
	}, nil
}

// CreateStudySession requires class membership
func (s *studySessionServiceImpl) CreateStudySession(ctx context.Context, userID, classID string, req dto.CreateStudySessionRequest) (*dto.StudySessionResponse, error) {
	session, err := buildStudySession(userID, classID, req)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireClassMember(ctx, classID, userID); err != nil {
		return nil, err
	}

	session.CreatedAt = s.now()
	if err := s.repos.StudySessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Str("sessionID", session.ID).Str("classID", classID).Int("duration", session.Duration).Msg("Study session logged")
	return s.respond(ctx, session)
}

func (s *studySessionServiceImpl) respond(ctx context.Context, session *models.StudySession) (*dto.StudySessionResponse, error) {
	out, err := s.responses(ctx, []*models.StudySession{session})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *studySessionServiceImpl) responses(ctx context.Context, sessions []*models.StudySession) ([]dto.StudySessionResponse, error) {
	var ids []string
	for _, ss := range sessions {
		ids = append(ids, ss.UserID)
		for _, c := range ss.Comments {
			ids = append(ids, c.UserID)
		}
	}
	lookup, err := loadUsers(ctx, s.repos.Users, ids...)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StudySessionResponse, 0, len(sessions))
	for _, ss := range sessions {
		out = append(out, dto.NewStudySessionResponse(ss, lookup.get))
	}
	return out, nil
}

// ListStudySessions returns the newest sessions of a class
func (s *studySessionServiceImpl) ListStudySessions(ctx context.Context, userID, classID string, limit int) ([]dto.StudySessionResponse, error) {
	if err := s.authz.RequireClassMember(ctx, classID, userID); err != nil {
		return nil, err
	}
	sessions, err := s.repos.StudySessions.ListByClass(ctx, classID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return s.responses(ctx, sessions)
}

// GetUserStudyStats summarizes the caller's sessions in a class
func (s *studySessionServiceImpl) GetUserStudyStats(ctx context.Context, userID, classID string) (*dto.StudyStatsResponse, error) {
	if _, err := s.repos.Classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	sessions, err := s.repos.StudySessions.ListByUserAndClass(ctx, userID, classID)
	if err != nil {
		return nil, err
	}
	return computeStats(sessions, s.now()), nil
}

func computeStats(sessions []*models.StudySession, now time.Time) *dto.StudyStatsResponse {
	stats := &dto.StudyStatsResponse{TotalSessions: len(sessions)}
	times := make([]time.Time, 0, len(sessions))
	for _, ss := range sessions {
		stats.TotalMinutes += ss.Duration
		times = append(times, ss.CreatedAt)
	}
	stats.TotalHours = roundTenth(float64(stats.TotalMinutes) / 60)
	if len(sessions) > 0 {
		stats.AverageMinutes = roundTenth(float64(stats.TotalMinutes) / float64(len(sessions)))
	}
	stats.CurrentStreak = currentStreak(times, now)
	return stats
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *studySessionServiceImpl) LikeStudySession(ctx context.Context, userID, sessionID string) (*dto.LikeResponse, error) {
	liked, count, err := s.repos.StudySessions.ToggleLike(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: liked, LikeCount: count}, nil
}

// AddComment requires membership in the session's class
func (s *studySessionServiceImpl) AddComment(ctx context.Context, userID, sessionID string, req dto.AddCommentRequest) (*dto.StudySessionResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("Comment content is required")
	}
	if charLen(content) > maxCommentLength {
		return nil, apperrors.NewValidationError("Comment cannot exceed 500 characters")
	}

	session, err := s.repos.StudySessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireClassMember(ctx, session.ClassID, userID); err != nil {
		return nil, err
	}

	comment := models.SessionComment{ID: newID(), UserID: userID, Content: content, CreatedAt: s.now()}
	if err := s.repos.StudySessions.AddComment(ctx, sessionID, comment); err != nil {
		return nil, err
	}
	session.Comments = append(session.Comments, comment)
	return s.respond(ctx, session)
}

// DeleteStudySession is owner-only
func (s *studySessionServiceImpl) DeleteStudySession(ctx context.Context, userID, sessionID string) error {
	session, err := s.repos.StudySessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(session.UserID, userID, authz.ErrNotSessionOwner); err != nil {
		return err
	}
	return s.repos.StudySessions.Delete(ctx, sessionID)
}
