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
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

// PostRepository handles database operations for class feed posts
type PostRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

var postColumns = []string{"id", "class_id", "author_id", "content", "type", "created_at", "edited_at", "deleted_at"}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.ClassID, &p.AuthorID, &p.Content, &p.Type, &p.CreatedAt, &p.EditedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error scanning post: %w", err)
	}
	return &p, nil
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	sql, args, err := psql.Insert("posts").
		Columns(postColumns...).
		Values(post.ID, post.ClassID, post.AuthorID, post.Content, post.Type, post.CreatedAt, post.EditedAt, post.DeletedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create post SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err, "posts_class_id_fkey") {
			return apperrors.ErrClassNotFound
		}
		r.logger.Error().Err(err).Str("classID", post.ClassID).Msg("Error creating post")
		return fmt.Errorf("error creating post: %w", err)
	}
	return nil
}

// GetByID retrieves a post, including soft-deleted ones
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	sql, args, err := psql.Select(postColumns...).From("posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get post SQL: %w", err)
	}
	return scanPost(r.db.QueryRow(ctx, sql, args...))
}

// ListByClass returns the newest visible posts of a class
func (r *PostRepository) ListByClass(ctx context.Context, filter repositories.PostFilter) ([]*models.Post, error) {
	q := psql.Select(postColumns...).From("posts").
		Where(squirrel.Eq{"class_id": filter.ClassID, "deleted_at": nil}).
		OrderBy("created_at DESC", "seq DESC")
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list posts SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Update persists content and the edit/delete timestamps
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	sql, args, err := psql.Update("posts").
		Set("content", post.Content).
		Set("edited_at", post.EditedAt).
		Set("deleted_at", post.DeletedAt).
		Where(squirrel.Eq{"id": post.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update post SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}
