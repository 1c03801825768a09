package memory

import (
	"context"
	"sort"

	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

type postRepository struct {
	db *table[models.Post]
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.EditedAt = clonePtr(p.EditedAt)
	cp.DeletedAt = clonePtr(p.DeletedAt)
	return &cp
}

func (repo *postRepository) Create(_ context.Context, post *models.Post) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.put(post.ID, clonePost(post))
	return nil
}

func (repo *postRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.t[id]; ok {
		return clonePost(p), nil
	}
	return nil, apperrors.ErrPostNotFound
}

func (repo *postRepository) ListByClass(_ context.Context, filter repositories.PostFilter) ([]*models.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	posts := []*models.Post{}
	rows := repo.db.ordered()
	for i := len(rows) - 1; i >= 0; i-- {
		p := rows[i]
		if p.ClassID != filter.ClassID || p.IsDeleted() {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		posts = append(posts, clonePost(p))
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if filter.Limit > 0 && len(posts) > filter.Limit {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

func (repo *postRepository) Update(_ context.Context, post *models.Post) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.t[post.ID]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	p.Content = post.Content
	p.EditedAt = clonePtr(post.EditedAt)
	p.DeletedAt = clonePtr(post.DeletedAt)
	return nil
}
