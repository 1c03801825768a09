// Package services implements the StudBuds business rules on top of the repositories.
//
// Services defined in this package:
//   - UserService: registration, login, profiles, friends
//   - ClassService: class catalogue and membership
//   - PostService: class chat feed
//   - NoteService: shared note files
//   - StudySessionService: study logs, stats and streaks
//   - StudyGroupService: study groups
//   - MessageService: direct messages
package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/repositories"
)

// List limits shared by the feed and session listings
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Clock returns the current time. Calendar days are taken in its location.
type Clock func() time.Time

// SystemClock is the wall clock in the server's local time zone
func SystemClock() time.Time { return time.Now() }

// Notifier publishes realtime events to a room
type Notifier interface {
	Publish(room, eventType string, data interface{})
}

// NopNotifier discards every event
type NopNotifier struct{}

func (NopNotifier) Publish(string, string, interface{}) {}

// newID returns a time-ordered UUID so ids also sort by creation
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// clampLimit applies the default and the ceiling to a requested list size
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// charLen counts characters, not bytes
func charLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// userLookup resolves user ids to summaries from a single batched query.
// Ids of deleted users resolve to a summary carrying only the id.
type userLookup map[string]dto.UserSummary

func loadUsers(ctx context.Context, users repositories.UserRepository, ids ...string) (userLookup, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	lookup := make(userLookup, len(unique))
	if len(unique) == 0 {
		return lookup, nil
	}
	found, err := users.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	for _, u := range found {
		lookup[u.ID] = dto.NewUserSummary(u)
	}
	return lookup, nil
}

func (l userLookup) get(id string) dto.UserSummary {
	if s, ok := l[id]; ok {
		return s
	}
	return dto.UserSummary{ID: id}
}

// ordered returns the summaries of ids that still exist, keeping the order of ids
func (l userLookup) ordered(ids []string) []dto.UserSummary {
	out := make([]dto.UserSummary, 0, len(ids))
	for _, id := range ids {
		if s, ok := l[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
