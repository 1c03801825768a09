package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

type userRepository struct {
	db *table[models.User]
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Friends = cloneStrings(u.Friends)
	return &cp
}

func (repo *userRepository) Create(_ context.Context, user *models.User) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.t {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	repo.db.put(user.ID, cloneUser(user))
	return nil
}

func (repo *userRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if u, ok := repo.db.t[id]; ok {
		return cloneUser(u), nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (repo *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, u := range repo.db.t {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (repo *userRepository) GetByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]*models.User, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := repo.db.t[id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (repo *userRepository) Update(_ context.Context, user *models.User) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	u, ok := repo.db.t[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Name = user.Name
	u.Major = user.Major
	u.Bio = user.Bio
	u.UpdatedAt = user.UpdatedAt
	return nil
}

func (repo *userRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	u, ok := repo.db.t[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

func (repo *userRepository) Search(_ context.Context, query, excludeID string, limit int) ([]*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	q := strings.ToLower(query)
	var users []*models.User
	for _, u := range repo.db.t {
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(u.Email, q) ||
			strings.Contains(strings.ToLower(u.Major), q) {
			users = append(users, cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (repo *userRepository) AddFriend(_ context.Context, userID, friendID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	u, ok := repo.db.t[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Friends, _ = models.AddID(u.Friends, friendID)
	return nil
}

func (repo *userRepository) RemoveFriend(_ context.Context, userID, friendID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	u, ok := repo.db.t[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Friends, _ = models.RemoveID(u.Friends, friendID)
	return nil
}
