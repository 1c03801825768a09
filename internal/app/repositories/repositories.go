package repositories

import (
	"context"
)

// Repositories holds one repository per entity, all backed by the same store
type Repositories struct {
	Users         UserRepository
	Classes       ClassRepository
	Posts         PostRepository
	Notes         NoteRepository
	Messages      MessageRepository
	StudyGroups   StudyGroupRepository
	StudySessions StudySessionRepository
}

// Store is a persistence backend (postgres, mongo or memory)
type Store interface {
	Repos() *Repositories
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
