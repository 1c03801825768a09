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

// UserRepository handles database operations for users and their friend lists
type UserRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

var userColumns = []string{"id", "name", "email", "password", "major", "bio", "created_at", "updated_at"}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Major, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	u.Friends = []string{}
	return &u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.Password, user.Major, user.Bio, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create user SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		r.logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get user SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}
	if err := r.loadFriends(ctx, []*models.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by lowercase email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetByIDs retrieves every existing user among ids
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	return r.list(ctx, psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": ids}))
}

func (r *UserRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.User, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list users SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	if err := r.loadFriends(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// loadFriends fills the friend list of every user with a single query
func (r *UserRepository) loadFriends(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}
	byID := make(map[string]*models.User, len(users))
	ids := make([]string, 0, len(users))
	for _, u := range users {
		byID[u.ID] = u
		ids = append(ids, u.ID)
	}

	sql, args, err := psql.Select("user_id", "friend_id").
		From("user_friends").
		Where(squirrel.Eq{"user_id": ids}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building friends SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error loading friends: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID, friendID string
		if err := rows.Scan(&userID, &friendID); err != nil {
			return fmt.Errorf("error scanning friend: %w", err)
		}
		if u, ok := byID[userID]; ok {
			u.Friends = append(u.Friends, friendID)
		}
	}
	return rows.Err()
}

// Update persists profile fields
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Update("users").
		Set("name", user.Name).
		Set("major", user.Major).
		Set("bio", user.Bio).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update user SQL: %w", err)
	}
	return r.execAffectingUser(ctx, sql, args)
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	sql, args, err := psql.Update("users").
		Set("password", passwordHash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update password SQL: %w", err)
	}
	return r.execAffectingUser(ctx, sql, args)
}

func (r *UserRepository) execAffectingUser(ctx context.Context, sql string, args []interface{}) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Search finds users by name, email or major
func (r *UserRepository) Search(ctx context.Context, query, excludeID string, limit int) ([]*models.User, error) {
	pattern := containsPattern(query)
	q := psql.Select(userColumns...).From("users").
		Where(squirrel.NotEq{"id": excludeID}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"major": pattern},
		}).
		OrderBy("name ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.list(ctx, q)
}

// AddFriend appends friendID to the user's friend list
func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	sql, args, err := psql.Insert("user_friends").
		Columns("user_id", "friend_id").
		Values(userID, friendID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building add friend SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err, "") {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error adding friend: %w", err)
	}
	return nil
}

// RemoveFriend deletes friendID from the user's friend list
func (r *UserRepository) RemoveFriend(ctx context.Context, userID, friendID string) error {
	sql, args, err := psql.Delete("user_friends").
		Where(squirrel.Eq{"user_id": userID, "friend_id": friendID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building remove friend SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error removing friend: %w", err)
	}
	return nil
}
