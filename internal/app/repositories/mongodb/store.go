// Package mongodb implements the repositories on MongoDB. Member, friend and like
// sets are stored as arrays on the owning document.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection         = "users"
	classesCollection       = "classes"
	postsCollection         = "posts"
	notesCollection         = "notes"
	messagesCollection      = "messages"
	studyGroupsCollection   = "study_groups"
	studySessionsCollection = "study_sessions"
)

// newestFirst sorts by creation time; ids are time ordered and break ties
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// Store is the MongoDB-backed repository set
type Store struct {
	db    *db.MongoDB
	repos *repositories.Repositories
}

// NewStore wires every repository to the database and creates the indexes
func NewStore(ctx context.Context, m *db.MongoDB, logger zerolog.Logger) (*Store, error) {
	d := m.Database
	s := &Store{
		db: m,
		repos: &repositories.Repositories{
			Users:         &UserRepository{coll: d.Collection(usersCollection), logger: logger},
			Classes:       &ClassRepository{coll: d.Collection(classesCollection), logger: logger},
			Posts:         &PostRepository{coll: d.Collection(postsCollection), logger: logger},
			Notes:         &NoteRepository{coll: d.Collection(notesCollection), logger: logger},
			Messages:      &MessageRepository{coll: d.Collection(messagesCollection), logger: logger},
			StudyGroups:   &StudyGroupRepository{coll: d.Collection(studyGroupsCollection), logger: logger},
			StudySessions: &StudySessionRepository{coll: d.Collection(studySessionsCollection), logger: logger},
		},
	}
	if err := ensureIndexes(ctx, d); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Repos() *repositories.Repositories { return s.repos }

func (s *Store) Ping(ctx context.Context) error { return s.db.Client.Ping(ctx, readpref.Primary()) }

func (s *Store) Close(ctx context.Context) error { return s.db.Close(ctx) }

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		classesCollection: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "classId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		notesCollection: {
			{Keys: bson.D{{Key: "classId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "receiver", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "read", Value: 1}}},
		},
		studyGroupsCollection: {
			{Keys: bson.D{{Key: "class", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		studySessionsCollection: {
			{Keys: bson.D{{Key: "classId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "classId", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := d.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", name, err)
		}
	}
	return nil
}

// containsRegex matches s literally anywhere, case-insensitively
func containsRegex(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

// toggleInArray is a pipeline update that removes value from field if present
// and appends it otherwise
func toggleInArray(field, value string) mongo.Pipeline {
	ref := "$" + field
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: field, Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$in", Value: bson.A{value, bson.D{{Key: "$ifNull", Value: bson.A{ref, bson.A{}}}}}}},
			bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: ref},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", value}}}},
			}}},
			bson.D{{Key: "$concatArrays", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{ref, bson.A{}}}}, bson.A{value}}}},
		}}}}}}},
	}
}

// toggleLike applies toggleInArray on likes and reports the resulting state
func toggleLike(ctx context.Context, coll *mongo.Collection, id, userID string, notFound error) (bool, int, error) {
	var doc struct {
		Likes []string `bson:"likes"`
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes": 1})
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, toggleInArray("likes", userID), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, 0, notFound
		}
		return false, 0, fmt.Errorf("error toggling like: %w", err)
	}

	liked := false
	for _, l := range doc.Likes {
		if l == userID {
			liked = true
			break
		}
	}
	return liked, len(doc.Likes), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
