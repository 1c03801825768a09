// Package postgres implements the repositories on PostgreSQL using pgx and squirrel.
package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/db"
)

// psql builds statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const pgForeignKeyViolation = "23503"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres-backed repository set
type Store struct {
	db    *db.PostgresDB
	repos *repositories.Repositories
}

// NewStore wires every repository to the given pool
func NewStore(pg *db.PostgresDB, logger zerolog.Logger) *Store {
	return &Store{
		db: pg,
		repos: &repositories.Repositories{
			Users:         &UserRepository{db: pg.Pool, logger: logger},
			Classes:       &ClassRepository{db: pg.Pool, logger: logger},
			Posts:         &PostRepository{db: pg.Pool, logger: logger},
			Notes:         &NoteRepository{pg: pg, logger: logger},
			Messages:      &MessageRepository{db: pg.Pool, logger: logger},
			StudyGroups:   &StudyGroupRepository{pg: pg, logger: logger},
			StudySessions: &StudySessionRepository{pg: pg, logger: logger},
		},
	}
}

func (s *Store) Repos() *repositories.Repositories { return s.repos }

func (s *Store) Ping(ctx context.Context) error { return s.db.Pool.Ping(ctx) }

func (s *Store) Close(context.Context) error {
	s.db.Close()
	return nil
}

// isForeignKeyViolation reports a 23503 error, optionally for one constraint
func isForeignKeyViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgForeignKeyViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// containsPattern builds an ILIKE pattern matching s literally anywhere
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
