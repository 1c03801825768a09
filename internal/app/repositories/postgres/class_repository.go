package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/dberrors"
)

// ClassRepository handles database operations for classes and class membership
type ClassRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// selectClassQuery selects classes with their member ids in join order
func (r *ClassRepository) selectClassQuery() squirrel.SelectBuilder {
	return psql.Select(
		"c.id", "c.name", "c.code", "c.description", "COALESCE(c.created_by, '')", "c.created_at",
		"COALESCE((SELECT array_agg(cm.user_id ORDER BY cm.seq) FROM class_members cm WHERE cm.class_id = c.id), '{}'::text[])",
	).From("classes c")
}

func scanClass(row pgx.Row) (*models.Class, error) {
	var c models.Class
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.CreatedBy, &c.CreatedAt, &c.Members)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error scanning class: %w", err)
	}
	c.Members = nonNil(c.Members)
	return &c, nil
}

// Create inserts a new class
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	sql, args, err := psql.Insert("classes").
		Columns("id", "name", "code", "description", "created_by", "created_at").
		Values(class.ID, class.Name, class.Code, class.Description, nullIfEmpty(class.CreatedBy), class.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create class SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "classes_code_key") {
			return apperrors.ErrClassCodeExists
		}
		r.logger.Error().Err(err).Str("code", class.Code).Msg("Error creating class")
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

func (r *ClassRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Class, error) {
	sql, args, err := r.selectClassQuery().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get class SQL: %w", err)
	}
	return scanClass(r.db.QueryRow(ctx, sql, args...))
}

// GetByID retrieves a class by ID
func (r *ClassRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	return r.getOne(ctx, squirrel.Eq{"c.id": id})
}

// GetByCode retrieves a class by its unique code
func (r *ClassRepository) GetByCode(ctx context.Context, code string) (*models.Class, error) {
	return r.getOne(ctx, squirrel.Eq{"c.code": code})
}

// List returns classes matching query on name or code, sorted by name
func (r *ClassRepository) List(ctx context.Context, query string) ([]*models.Class, error) {
	q := r.selectClassQuery()
	if query != "" {
		pattern := containsPattern(query)
		q = q.Where(squirrel.Or{squirrel.ILike{"c.name": pattern}, squirrel.ILike{"c.code": pattern}})
	}
	return r.list(ctx, q.OrderBy("c.name ASC"))
}

// ListByMember returns the classes userID belongs to
func (r *ClassRepository) ListByMember(ctx context.Context, userID string) ([]*models.Class, error) {
	q := r.selectClassQuery().
		Where("c.id IN (SELECT class_id FROM class_members WHERE user_id = ?)", userID).
		OrderBy("c.name ASC")
	return r.list(ctx, q)
}

func (r *ClassRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Class, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list classes SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	classes := []*models.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// AddMember inserts the membership row if it does not exist yet
func (r *ClassRepository) AddMember(ctx context.Context, classID, userID string) error {
	sql, args, err := psql.Insert("class_members").
		Columns("class_id", "user_id").
		Values(classID, userID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building add member SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err, "class_members_class_id_fkey") {
			return apperrors.ErrClassNotFound
		}
		if isForeignKeyViolation(err, "") {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error adding class member: %w", err)
	}
	return nil
}

// RemoveMember deletes the membership row if present
func (r *ClassRepository) RemoveMember(ctx context.Context, classID, userID string) error {
	if err := r.ensureExists(ctx, classID); err != nil {
		return err
	}

	sql, args, err := psql.Delete("class_members").
		Where(squirrel.Eq{"class_id": classID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building remove member SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error removing class member: %w", err)
	}
	return nil
}

// IsMember checks whether userID belongs to classID
func (r *ClassRepository) IsMember(ctx context.Context, classID, userID string) (bool, error) {
	var classExists, member bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1),
		        EXISTS(SELECT 1 FROM class_members WHERE class_id = $1 AND user_id = $2)`,
		classID, userID,
	).Scan(&classExists, &member)
	if err != nil {
		return false, fmt.Errorf("error checking class membership: %w", err)
	}
	if !classExists {
		return false, apperrors.ErrClassNotFound
	}
	return member, nil
}

func (r *ClassRepository) ensureExists(ctx context.Context, classID string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`, classID).Scan(&exists); err != nil {
		return fmt.Errorf("error checking class: %w", err)
	}
	if !exists {
		return apperrors.ErrClassNotFound
	}
	return nil
}
