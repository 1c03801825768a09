package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

// MessageRepository handles database operations for direct messages
type MessageRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

var messageColumns = []string{"id", "sender_id", "receiver_id", "content", "read", "read_at", "created_at"}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.ReadAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error scanning message: %w", err)
	}
	return &m, nil
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	sql, args, err := psql.Insert("messages").
		Columns(messageColumns...).
		Values(msg.ID, msg.SenderID, msg.ReceiverID, msg.Content, msg.Read, msg.ReadAt, msg.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create message SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err, "") {
			return apperrors.ErrUserNotFound
		}
		r.logger.Error().Err(err).Str("senderID", msg.SenderID).Msg("Error creating message")
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	sql, args, err := psql.Select(messageColumns...).From("messages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get message SQL: %w", err)
	}
	return scanMessage(r.db.QueryRow(ctx, sql, args...))
}

// ListThread returns the conversation between a and b, oldest first
func (r *MessageRepository) ListThread(ctx context.Context, a, b string) ([]*models.Message, error) {
	q := psql.Select(messageColumns...).From("messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": a, "receiver_id": b},
			squirrel.Eq{"sender_id": b, "receiver_id": a},
		}).
		OrderBy("created_at ASC", "seq ASC")
	return r.list(ctx, q)
}

// ListForUser returns every message userID sent or received, newest first
func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]*models.Message, error) {
	q := psql.Select(messageColumns...).From("messages").
		Where(squirrel.Or{squirrel.Eq{"sender_id": userID}, squirrel.Eq{"receiver_id": userID}}).
		OrderBy("created_at DESC", "seq DESC")
	return r.list(ctx, q)
}

func (r *MessageRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Message, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list messages SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead sets the read flag; an already read message keeps its first read time
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	sql, args, err := psql.Update("messages").
		Set("read", true).
		Set("read_at", squirrel.Expr("COALESCE(read_at, ?)", at)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building mark read SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

// CountUnread counts unread messages addressed to userID
func (r *MessageRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").From("messages").
		Where(squirrel.Eq{"receiver_id": userID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building count unread SQL: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return n, nil
}

// Delete removes a message
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete("messages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete message SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}
