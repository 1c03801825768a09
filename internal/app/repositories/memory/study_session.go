package memory

import (
	"context"
	"sort"

	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

type studySessionRepository struct {
	db *table[models.StudySession]
}

func cloneStudySession(s *models.StudySession) *models.StudySession {
	cp := *s
	cp.Subtopics = cloneStrings(s.Subtopics)
	cp.Likes = cloneStrings(s.Likes)
	cp.Comments = append([]models.SessionComment{}, s.Comments...)
	return &cp
}

func (repo *studySessionRepository) Create(_ context.Context, session *models.StudySession) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.put(session.ID, cloneStudySession(session))
	return nil
}

func (repo *studySessionRepository) GetByID(_ context.Context, id string) (*models.StudySession, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.t[id]; ok {
		return cloneStudySession(s), nil
	}
	return nil, apperrors.ErrStudySessionNotFound
}

func (repo *studySessionRepository) list(match func(*models.StudySession) bool, limit int) []*models.StudySession {
	sessions := []*models.StudySession{}
	rows := repo.db.ordered()
	for i := len(rows) - 1; i >= 0; i-- {
		if match(rows[i]) {
			sessions = append(sessions, cloneStudySession(rows[i]))
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].CreatedAt.After(sessions[j].CreatedAt) })
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions
}

func (repo *studySessionRepository) ListByClass(_ context.Context, classID string, limit int) ([]*models.StudySession, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.list(func(s *models.StudySession) bool { return s.ClassID == classID }, limit), nil
}

func (repo *studySessionRepository) ListByUserAndClass(_ context.Context, userID, classID string) ([]*models.StudySession, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.list(func(s *models.StudySession) bool { return s.ClassID == classID && s.UserID == userID }, 0), nil
}

func (repo *studySessionRepository) Delete(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if !repo.db.remove(id) {
		return apperrors.ErrStudySessionNotFound
	}
	return nil
}

func (repo *studySessionRepository) ToggleLike(_ context.Context, sessionID, userID string) (bool, int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.t[sessionID]
	if !ok {
		return false, 0, apperrors.ErrStudySessionNotFound
	}
	var removed bool
	if s.Likes, removed = models.RemoveID(s.Likes, userID); removed {
		return false, len(s.Likes), nil
	}
	s.Likes = append(s.Likes, userID)
	return true, len(s.Likes), nil
}

func (repo *studySessionRepository) AddComment(_ context.Context, sessionID string, comment models.SessionComment) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.t[sessionID]
	if !ok {
		return apperrors.ErrStudySessionNotFound
	}
	s.Comments = append(s.Comments, comment)
	return nil
}
