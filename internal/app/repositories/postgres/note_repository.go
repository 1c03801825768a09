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

// NoteRepository handles database operations for shared notes
type NoteRepository struct {
	pg     *db.PostgresDB
	logger zerolog.Logger
}

func (r *NoteRepository) selectNoteQuery() squirrel.SelectBuilder {
	return psql.Select(
		"n.id", "n.title", "n.description", "n.file_url", "n.file_name", "n.file_size", "n.file_type",
		"n.class_id", "n.uploaded_by", "n.topic", "n.tags", "n.download_count", "n.view_count",
		"n.is_approved", "n.created_at", noteLikes.aggregate("n"),
	).From("notes n")
}

func scanNote(row pgx.Row) (*models.Note, error) {
	var n models.Note
	err := row.Scan(
		&n.ID, &n.Title, &n.Description, &n.FileURL, &n.FileName, &n.FileSize, &n.FileType,
		&n.ClassID, &n.UploadedBy, &n.Topic, &n.Tags, &n.DownloadCount, &n.ViewCount,
		&n.IsApproved, &n.CreatedAt, &n.Likes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("error scanning note: %w", err)
	}
	n.Tags = nonNil(n.Tags)
	n.Likes = nonNil(n.Likes)
	return &n, nil
}

// Create inserts a new note
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	sql, args, err := psql.Insert("notes").
		Columns("id", "title", "description", "file_url", "file_name", "file_size", "file_type",
			"class_id", "uploaded_by", "topic", "tags", "download_count", "view_count", "is_approved", "created_at").
		Values(note.ID, note.Title, note.Description, note.FileURL, note.FileName, note.FileSize, note.FileType,
			note.ClassID, note.UploadedBy, note.Topic, nonNil(note.Tags), note.DownloadCount, note.ViewCount,
			note.IsApproved, note.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create note SQL: %w", err)
	}

	if _, err := r.pg.Pool.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err, "notes_class_id_fkey") {
			return apperrors.ErrClassNotFound
		}
		r.logger.Error().Err(err).Str("classID", note.ClassID).Msg("Error creating note")
		return fmt.Errorf("error creating note: %w", err)
	}
	return nil
}

// GetByID retrieves a note by ID
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	sql, args, err := r.selectNoteQuery().Where(squirrel.Eq{"n.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get note SQL: %w", err)
	}
	return scanNote(r.pg.Pool.QueryRow(ctx, sql, args...))
}

// ListByClass returns the notes of a class, newest first
func (r *NoteRepository) ListByClass(ctx context.Context, classID string, approvedOnly bool) ([]*models.Note, error) {
	q := r.selectNoteQuery().Where(squirrel.Eq{"n.class_id": classID}).OrderBy("n.created_at DESC", "n.seq DESC")
	if approvedOnly {
		q = q.Where(squirrel.Eq{"n.is_approved": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list notes SQL: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Delete removes a note and its likes
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete("notes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete note SQL: %w", err)
	}

	tag, err := r.pg.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

// ToggleLike flips userID's like on the note
func (r *NoteRepository) ToggleLike(ctx context.Context, noteID, userID string) (bool, int, error) {
	var found, liked bool
	var count int
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		found, liked, count, err = noteLikes.toggle(ctx, tx, noteID, userID)
		return err
	})
	if err != nil {
		return false, 0, err
	}
	if !found {
		return false, 0, apperrors.ErrNoteNotFound
	}
	return liked, count, nil
}

// IncrementDownloads bumps and returns the download counter
func (r *NoteRepository) IncrementDownloads(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "download_count")
}

// IncrementViews bumps and returns the view counter
func (r *NoteRepository) IncrementViews(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "view_count")
}

func (r *NoteRepository) increment(ctx context.Context, id, column string) (int, error) {
	sql, args, err := psql.Update("notes").
		Set(column, squirrel.Expr(column+" + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + column).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building increment SQL: %w", err)
	}

	var n int
	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNoteNotFound
		}
		return 0, fmt.Errorf("error incrementing %s: %w", column, err)
	}
	return n, nil
}
