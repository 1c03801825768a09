package memory

import (
	"context"
	"sort"

	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

type noteRepository struct {
	db *table[models.Note]
}

func cloneNote(n *models.Note) *models.Note {
	cp := *n
	cp.Tags = cloneStrings(n.Tags)
	cp.Likes = cloneStrings(n.Likes)
	return &cp
}

func (repo *noteRepository) Create(_ context.Context, note *models.Note) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.put(note.ID, cloneNote(note))
	return nil
}

func (repo *noteRepository) GetByID(_ context.Context, id string) (*models.Note, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if n, ok := repo.db.t[id]; ok {
		return cloneNote(n), nil
	}
	return nil, apperrors.ErrNoteNotFound
}

func (repo *noteRepository) ListByClass(_ context.Context, classID string, approvedOnly bool) ([]*models.Note, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	notes := []*models.Note{}
	rows := repo.db.ordered()
	for i := len(rows) - 1; i >= 0; i-- {
		n := rows[i]
		if n.ClassID != classID || (approvedOnly && !n.IsApproved) {
			continue
		}
		notes = append(notes, cloneNote(n))
	}
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes, nil
}

func (repo *noteRepository) Delete(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if !repo.db.remove(id) {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

func (repo *noteRepository) ToggleLike(_ context.Context, noteID, userID string) (bool, int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n, ok := repo.db.t[noteID]
	if !ok {
		return false, 0, apperrors.ErrNoteNotFound
	}
	var removed bool
	if n.Likes, removed = models.RemoveID(n.Likes, userID); removed {
		return false, len(n.Likes), nil
	}
	n.Likes = append(n.Likes, userID)
	return true, len(n.Likes), nil
}

func (repo *noteRepository) IncrementDownloads(_ context.Context, id string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n, ok := repo.db.t[id]
	if !ok {
		return 0, apperrors.ErrNoteNotFound
	}
	n.DownloadCount++
	return n.DownloadCount, nil
}

func (repo *noteRepository) IncrementViews(_ context.Context, id string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n, ok := repo.db.t[id]
	if !ok {
		return 0, apperrors.ErrNoteNotFound
	}
	n.ViewCount++
	return n.ViewCount, nil
}
