package memory

import (
	"context"
	"sort"

	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

type studyGroupRepository struct {
	db *table[models.StudyGroup]
}

func cloneStudyGroup(g *models.StudyGroup) *models.StudyGroup {
	cp := *g
	cp.Members = cloneStrings(g.Members)
	cp.ScheduledAt = clonePtr(g.ScheduledAt)
	return &cp
}

func (repo *studyGroupRepository) Create(_ context.Context, group *models.StudyGroup) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.put(group.ID, cloneStudyGroup(group))
	return nil
}

func (repo *studyGroupRepository) GetByID(_ context.Context, id string) (*models.StudyGroup, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if g, ok := repo.db.t[id]; ok {
		return cloneStudyGroup(g), nil
	}
	return nil, apperrors.ErrStudyGroupNotFound
}

func (repo *studyGroupRepository) ListByClass(_ context.Context, classID string) ([]*models.StudyGroup, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	groups := []*models.StudyGroup{}
	rows := repo.db.ordered()
	for i := len(rows) - 1; i >= 0; i-- {
		if g := rows[i]; g.ClassID == classID {
			groups = append(groups, cloneStudyGroup(g))
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].CreatedAt.After(groups[j].CreatedAt) })
	return groups, nil
}

func (repo *studyGroupRepository) AddMember(_ context.Context, groupID, userID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	g, ok := repo.db.t[groupID]
	if !ok {
		return apperrors.ErrStudyGroupNotFound
	}
	g.Members, _ = models.AddID(g.Members, userID)
	return nil
}

func (repo *studyGroupRepository) RemoveMember(_ context.Context, groupID, userID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	g, ok := repo.db.t[groupID]
	if !ok {
		return apperrors.ErrStudyGroupNotFound
	}
	g.Members, _ = models.RemoveID(g.Members, userID)
	return nil
}
