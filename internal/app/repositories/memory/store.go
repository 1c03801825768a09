// Package memory is an in-process repository backend used for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/repositories"
)

type table[T any] struct {
	t     map[string]*T
	keys  []string // Insertion order, used to break timestamp ties
	mutex sync.RWMutex
}

func newTable[T any]() *table[T] {
	return &table[T]{t: make(map[string]*T)}
}

// put must be called with the write lock held
func (tb *table[T]) put(id string, v *T) {
	if _, ok := tb.t[id]; !ok {
		tb.keys = append(tb.keys, id)
	}
	tb.t[id] = v
}

// remove must be called with the write lock held
func (tb *table[T]) remove(id string) bool {
	if _, ok := tb.t[id]; !ok {
		return false
	}
	delete(tb.t, id)
	tb.keys, _ = models.RemoveID(tb.keys, id)
	return true
}

// ordered returns rows in insertion order; call with a lock held
func (tb *table[T]) ordered() []*T {
	rows := make([]*T, 0, len(tb.keys))
	for _, k := range tb.keys {
		rows = append(rows, tb.t[k])
	}
	return rows
}

// Store keeps every entity in mutex-guarded maps. Values are copied on the way in and out.
type Store struct {
	users         *table[models.User]
	classes       *table[models.Class]
	posts         *table[models.Post]
	notes         *table[models.Note]
	messages      *table[models.Message]
	studyGroups   *table[models.StudyGroup]
	studySessions *table[models.StudySession]

	repos *repositories.Repositories
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	s := &Store{
		users:         newTable[models.User](),
		classes:       newTable[models.Class](),
		posts:         newTable[models.Post](),
		notes:         newTable[models.Note](),
		messages:      newTable[models.Message](),
		studyGroups:   newTable[models.StudyGroup](),
		studySessions: newTable[models.StudySession](),
	}
	s.repos = &repositories.Repositories{
		Users:         &userRepository{db: s.users},
		Classes:       &classRepository{db: s.classes},
		Posts:         &postRepository{db: s.posts},
		Notes:         &noteRepository{db: s.notes},
		Messages:      &messageRepository{db: s.messages},
		StudyGroups:   &studyGroupRepository{db: s.studyGroups},
		StudySessions: &studySessionRepository{db: s.studySessions},
	}
	return s
}

func (s *Store) Repos() *repositories.Repositories { return s.repos }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close(context.Context) error { return nil }

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string{}, in...)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
