package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/db"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

// StudySessionRepository handles database operations for logged study sessions
type StudySessionRepository struct {
	pg     *db.PostgresDB
	logger zerolog.Logger
}

func (r *StudySessionRepository) selectSessionQuery() squirrel.SelectBuilder {
	return psql.Select(
		"s.id", "s.class_id", "s.user_id", "s.type", "s.duration", "s.topic", "s.subtopics",
		"s.what_i_learned", "s.difficulty", "s.study_technique", "s.location", "s.created_at",
		sessionLikes.aggregate("s"),
	).From("study_sessions s")
}

func scanStudySession(row pgx.Row) (*models.StudySession, error) {
	var s models.StudySession
	err := row.Scan(
		&s.ID, &s.ClassID, &s.UserID, &s.Type, &s.Duration, &s.Topic, &s.Subtopics,
		&s.WhatILearned, &s.Difficulty, &s.StudyTechnique, &s.Location, &s.CreatedAt,
		&s.Likes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudySessionNotFound
		}
		return nil, fmt.Errorf("error scanning study session: %w", err)
	}
	s.Subtopics = nonNil(s.Subtopics)
	s.Likes = nonNil(s.Likes)
	s.Comments = []models.SessionComment{}
	return &s, nil
}

// Create inserts a new study session
func (r *StudySessionRepository) Create(ctx context.Context, s *models.StudySession) error {
	sql, args, err := psql.Insert("study_sessions").
		Columns("id", "class_id", "user_id", "type", "duration", "topic", "subtopics",
			"what_i_learned", "difficulty", "study_technique", "location", "created_at").
		Values(s.ID, s.ClassID, s.UserID, s.Type, s.Duration, s.Topic, nonNil(s.Subtopics),
			s.WhatILearned, s.Difficulty, s.StudyTechnique, s.Location, s.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create study session SQL: %w", err)
	}

	if _, err := r.pg.Pool.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err, "study_sessions_class_id_fkey") {
			return apperrors.ErrClassNotFound
		}
		r.logger.Error().Err(err).Str("classID", s.ClassID).Msg("Error creating study session")
		return fmt.Errorf("error creating study session: %w", err)
	}
	return nil
}

// GetByID retrieves a study session with likes and comments
func (r *StudySessionRepository) GetByID(ctx context.Context, id string) (*models.StudySession, error) {
	sessions, err := r.list(ctx, r.selectSessionQuery().Where(squirrel.Eq{"s.id": id}))
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperrors.ErrStudySessionNotFound
	}
	return sessions[0], nil
}

// ListByClass returns sessions of a class, newest first
func (r *StudySessionRepository) ListByClass(ctx context.Context, classID string, limit int) ([]*models.StudySession, error) {
	q := r.selectSessionQuery().Where(squirrel.Eq{"s.class_id": classID}).OrderBy("s.created_at DESC", "s.seq DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.list(ctx, q)
}

// ListByUserAndClass returns every session userID logged for classID, newest first
func (r *StudySessionRepository) ListByUserAndClass(ctx context.Context, userID, classID string) ([]*models.StudySession, error) {
	q := r.selectSessionQuery().
		Where(squirrel.Eq{"s.user_id": userID, "s.class_id": classID}).
		OrderBy("s.created_at DESC", "s.seq DESC")
	return r.list(ctx, q)
}

func (r *StudySessionRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.StudySession, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list study sessions SQL: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing study sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.StudySession{}
	for rows.Next() {
		s, err := scanStudySession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadComments(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// loadComments fills Comments for all sessions with a single query
func (r *StudySessionRepository) loadComments(ctx context.Context, sessions []*models.StudySession) error {
	if len(sessions) == 0 {
		return nil
	}

	byID := make(map[string]*models.StudySession, len(sessions))
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	sql, args, err := psql.Select("session_id", "id", "user_id", "content", "created_at").
		From("study_session_comments").
		Where(squirrel.Eq{"session_id": ids}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building load comments SQL: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error loading comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID string
		var c models.SessionComment
		if err := rows.Scan(&sessionID, &c.ID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return fmt.Errorf("error scanning comment: %w", err)
		}
		if s, ok := byID[sessionID]; ok {
			s.Comments = append(s.Comments, c)
		}
	}
	return rows.Err()
}

// Delete removes a session with its likes and comments
func (r *StudySessionRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete("study_sessions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete study session SQL: %w", err)
	}

	tag, err := r.pg.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting study session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudySessionNotFound
	}
	return nil
}

// ToggleLike flips userID's like on the session
func (r *StudySessionRepository) ToggleLike(ctx context.Context, sessionID, userID string) (bool, int, error) {
	var found, liked bool
	var count int
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		found, liked, count, err = sessionLikes.toggle(ctx, tx, sessionID, userID)
		return err
	})
	if err != nil {
		return false, 0, err
	}
	if !found {
		return false, 0, apperrors.ErrStudySessionNotFound
	}
	return liked, count, nil
}

// AddComment appends a comment to the session
func (r *StudySessionRepository) AddComment(ctx context.Context, sessionID string, c models.SessionComment) error {
	sql, args, err := psql.Insert("study_session_comments").
		Columns("id", "session_id", "user_id", "content", "created_at").
		Values(c.ID, sessionID, c.UserID, c.Content, c.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building add comment SQL: %w", err)
	}

	if _, err := r.pg.Pool.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err, "study_session_comments_session_id_fkey") {
			return apperrors.ErrStudySessionNotFound
		}
		return fmt.Errorf("error adding comment: %w", err)
	}
	return nil
}
