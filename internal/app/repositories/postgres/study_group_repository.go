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

// StudyGroupRepository handles database operations for study groups
type StudyGroupRepository struct {
	pg     *db.PostgresDB
	logger zerolog.Logger
}

func (r *StudyGroupRepository) selectGroupQuery() squirrel.SelectBuilder {
	return psql.Select(
		"g.id", "g.class_id", "g.name", "g.description", "g.created_by", "g.scheduled_at", "g.location", "g.created_at",
		"COALESCE((SELECT array_agg(m.user_id ORDER BY m.seq) FROM study_group_members m WHERE m.group_id = g.id), '{}'::text[])",
	).From("study_groups g")
}

func scanStudyGroup(row pgx.Row) (*models.StudyGroup, error) {
	var g models.StudyGroup
	err := row.Scan(&g.ID, &g.ClassID, &g.Name, &g.Description, &g.CreatedBy, &g.ScheduledAt, &g.Location, &g.CreatedAt, &g.Members)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudyGroupNotFound
		}
		return nil, fmt.Errorf("error scanning study group: %w", err)
	}
	g.Members = nonNil(g.Members)
	return &g, nil
}

// Create inserts the group and its initial members in one transaction
func (r *StudyGroupRepository) Create(ctx context.Context, group *models.StudyGroup) error {
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Insert("study_groups").
			Columns("id", "class_id", "name", "description", "created_by", "scheduled_at", "location", "created_at").
			Values(group.ID, group.ClassID, group.Name, group.Description, group.CreatedBy, group.ScheduledAt, group.Location, group.CreatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building create study group SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		// One row per statement keeps seq in member order
		for _, userID := range group.Members {
			if err := addGroupMember(ctx, tx, group.ID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err, "study_groups_class_id_fkey") {
			return apperrors.ErrClassNotFound
		}
		if isForeignKeyViolation(err, "") {
			return apperrors.ErrUserNotFound
		}
		r.logger.Error().Err(err).Str("classID", group.ClassID).Msg("Error creating study group")
		return fmt.Errorf("error creating study group: %w", err)
	}
	return nil
}

func addGroupMember(ctx context.Context, q querier, groupID, userID string) error {
	sql, args, err := psql.Insert("study_group_members").
		Columns("group_id", "user_id").
		Values(groupID, userID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building add group member SQL: %w", err)
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

// GetByID retrieves a study group by ID
func (r *StudyGroupRepository) GetByID(ctx context.Context, id string) (*models.StudyGroup, error) {
	sql, args, err := r.selectGroupQuery().Where(squirrel.Eq{"g.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get study group SQL: %w", err)
	}
	return scanStudyGroup(r.pg.Pool.QueryRow(ctx, sql, args...))
}

// ListByClass returns the groups of a class, newest first
func (r *StudyGroupRepository) ListByClass(ctx context.Context, classID string) ([]*models.StudyGroup, error) {
	sql, args, err := r.selectGroupQuery().
		Where(squirrel.Eq{"g.class_id": classID}).
		OrderBy("g.created_at DESC", "g.seq DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list study groups SQL: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing study groups: %w", err)
	}
	defer rows.Close()

	groups := []*models.StudyGroup{}
	for rows.Next() {
		g, err := scanStudyGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AddMember joins userID to the group; joining twice is a no-op
func (r *StudyGroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	if err := addGroupMember(ctx, r.pg.Pool, groupID, userID); err != nil {
		if isForeignKeyViolation(err, "study_group_members_group_id_fkey") {
			return apperrors.ErrStudyGroupNotFound
		}
		if isForeignKeyViolation(err, "") {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error adding study group member: %w", err)
	}
	return nil
}

// RemoveMember removes userID from the group if present
func (r *StudyGroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	var exists bool
	if err := r.pg.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM study_groups WHERE id = $1)`, groupID).Scan(&exists); err != nil {
		return fmt.Errorf("error checking study group: %w", err)
	}
	if !exists {
		return apperrors.ErrStudyGroupNotFound
	}

	sql, args, err := psql.Delete("study_group_members").
		Where(squirrel.Eq{"group_id": groupID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building remove group member SQL: %w", err)
	}
	if _, err := r.pg.Pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error removing study group member: %w", err)
	}
	return nil
}
