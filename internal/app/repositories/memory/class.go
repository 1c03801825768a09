package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

type classRepository struct {
	db *table[models.Class]
}

func cloneClass(c *models.Class) *models.Class {
	cp := *c
	cp.Members = cloneStrings(c.Members)
	return &cp
}

func sortClassesByName(classes []*models.Class) {
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
}

func (repo *classRepository) Create(_ context.Context, class *models.Class) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, c := range repo.db.t {
		if c.Code == class.Code {
			return apperrors.ErrClassCodeExists
		}
	}
	repo.db.put(class.ID, cloneClass(class))
	return nil
}

func (repo *classRepository) GetByID(_ context.Context, id string) (*models.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.t[id]; ok {
		return cloneClass(c), nil
	}
	return nil, apperrors.ErrClassNotFound
}

func (repo *classRepository) GetByCode(_ context.Context, code string) (*models.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, c := range repo.db.t {
		if c.Code == code {
			return cloneClass(c), nil
		}
	}
	return nil, apperrors.ErrClassNotFound
}

func (repo *classRepository) List(_ context.Context, query string) ([]*models.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	q := strings.ToLower(query)
	classes := make([]*models.Class, 0, len(repo.db.t))
	for _, c := range repo.db.t {
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Code), q) {
			classes = append(classes, cloneClass(c))
		}
	}
	sortClassesByName(classes)
	return classes, nil
}

func (repo *classRepository) ListByMember(_ context.Context, userID string) ([]*models.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := []*models.Class{}
	for _, c := range repo.db.t {
		if c.HasMember(userID) {
			classes = append(classes, cloneClass(c))
		}
	}
	sortClassesByName(classes)
	return classes, nil
}

func (repo *classRepository) AddMember(_ context.Context, classID, userID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c, ok := repo.db.t[classID]
	if !ok {
		return apperrors.ErrClassNotFound
	}
	c.Members, _ = models.AddID(c.Members, userID)
	return nil
}

func (repo *classRepository) RemoveMember(_ context.Context, classID, userID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c, ok := repo.db.t[classID]
	if !ok {
		return apperrors.ErrClassNotFound
	}
	c.Members, _ = models.RemoveID(c.Members, userID)
	return nil
}

func (repo *classRepository) IsMember(_ context.Context, classID, userID string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	c, ok := repo.db.t[classID]
	if !ok {
		return false, apperrors.ErrClassNotFound
	}
	return c.HasMember(userID), nil
}
