package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// likeTable describes a (parent, user) like join table
type likeTable struct {
	table     string
	parent    string // parent table name
	parentCol string
}

var (
	noteLikes    = likeTable{table: "note_likes", parent: "notes", parentCol: "note_id"}
	sessionLikes = likeTable{table: "study_session_likes", parent: "study_sessions", parentCol: "session_id"}
)

// toggle flips userID's like on parentID inside tx. The parent row is locked so
// concurrent toggles on the same item serialize. found is false when the
// parent does not exist.
func (l likeTable) toggle(ctx context.Context, tx pgx.Tx, parentID, userID string) (found, liked bool, count int, err error) {
	var id string
	err = tx.QueryRow(ctx, fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", l.parent), parentID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, 0, nil
	}
	if err != nil {
		return false, false, 0, fmt.Errorf("error locking %s: %w", l.parent, err)
	}

	sql, args, err := psql.Delete(l.table).
		Where(squirrel.Eq{l.parentCol: parentID, "user_id": userID}).
		ToSql()
	if err != nil {
		return true, false, 0, fmt.Errorf("error building unlike SQL: %w", err)
	}
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return true, false, 0, fmt.Errorf("error removing like: %w", err)
	}

	if tag.RowsAffected() == 0 {
		sql, args, err = psql.Insert(l.table).Columns(l.parentCol, "user_id").Values(parentID, userID).ToSql()
		if err != nil {
			return true, false, 0, fmt.Errorf("error building like SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return true, false, 0, fmt.Errorf("error adding like: %w", err)
		}
		liked = true
	}

	err = tx.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", l.table, l.parentCol), parentID).Scan(&count)
	if err != nil {
		return true, liked, 0, fmt.Errorf("error counting likes: %w", err)
	}
	return true, liked, count, nil
}

// aggregate returns a column expression with the like user ids for the row aliased alias
func (l likeTable) aggregate(alias string) string {
	return fmt.Sprintf(
		"COALESCE((SELECT array_agg(l.user_id ORDER BY l.seq) FROM %s l WHERE l.%s = %s.id), '{}'::text[])",
		l.table, l.parentCol, alias,
	)
}
