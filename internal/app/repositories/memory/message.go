package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

type messageRepository struct {
	db *table[models.Message]
}

func cloneMessage(m *models.Message) *models.Message {
	cp := *m
	cp.ReadAt = clonePtr(m.ReadAt)
	return &cp
}

func (repo *messageRepository) Create(_ context.Context, msg *models.Message) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.put(msg.ID, cloneMessage(msg))
	return nil
}

func (repo *messageRepository) GetByID(_ context.Context, id string) (*models.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if m, ok := repo.db.t[id]; ok {
		return cloneMessage(m), nil
	}
	return nil, apperrors.ErrMessageNotFound
}

func (repo *messageRepository) ListThread(_ context.Context, a, b string) ([]*models.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	msgs := []*models.Message{}
	for _, m := range repo.db.ordered() {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			msgs = append(msgs, cloneMessage(m))
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	return msgs, nil
}

func (repo *messageRepository) ListForUser(_ context.Context, userID string) ([]*models.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	msgs := []*models.Message{}
	rows := repo.db.ordered()
	for i := len(rows) - 1; i >= 0; i-- {
		if m := rows[i]; m.SenderID == userID || m.ReceiverID == userID {
			msgs = append(msgs, cloneMessage(m))
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	return msgs, nil
}

func (repo *messageRepository) MarkRead(_ context.Context, id string, at time.Time) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	m, ok := repo.db.t[id]
	if !ok {
		return apperrors.ErrMessageNotFound
	}
	if !m.Read {
		m.Read = true
		m.ReadAt = &at
	}
	return nil
}

func (repo *messageRepository) CountUnread(_ context.Context, userID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	n := 0
	for _, m := range repo.db.t {
		if m.ReceiverID == userID && !m.Read {
			n++
		}
	}
	return n, nil
}

func (repo *messageRepository) Delete(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if !repo.db.remove(id) {
		return apperrors.ErrMessageNotFound
	}
	return nil
}
