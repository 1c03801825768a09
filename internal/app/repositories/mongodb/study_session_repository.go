package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StudySessionRepository stores study sessions with likes and comments embedded
type StudySessionRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *StudySessionRepository) Create(ctx context.Context, s *models.StudySession) error {
	doc := *s
	doc.Subtopics = nonNil(doc.Subtopics)
	doc.Likes = nonNil(doc.Likes)
	if doc.Comments == nil {
		doc.Comments = []models.SessionComment{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Error().Err(err).Str("classID", s.ClassID).Msg("Error creating study session")
		return fmt.Errorf("error creating study session: %w", err)
	}
	return nil
}

func (r *StudySessionRepository) GetByID(ctx context.Context, id string) (*models.StudySession, error) {
	var s models.StudySession
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrStudySessionNotFound
		}
		return nil, fmt.Errorf("error getting study session: %w", err)
	}
	normalizeSession(&s)
	return &s, nil
}

func (r *StudySessionRepository) ListByClass(ctx context.Context, classID string, limit int) ([]*models.StudySession, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"classId": classID}, opts)
}

func (r *StudySessionRepository) ListByUserAndClass(ctx context.Context, userID, classID string) ([]*models.StudySession, error) {
	return r.find(ctx, bson.M{"userId": userID, "classId": classID}, options.Find().SetSort(newestFirst))
}

func (r *StudySessionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.StudySession, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing study sessions: %w", err)
	}
	sessions := []*models.StudySession{}
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding study sessions: %w", err)
	}
	for _, s := range sessions {
		normalizeSession(s)
	}
	return sessions, nil
}

func (r *StudySessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting study session: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrStudySessionNotFound
	}
	return nil
}

func (r *StudySessionRepository) ToggleLike(ctx context.Context, sessionID, userID string) (bool, int, error) {
	return toggleLike(ctx, r.coll, sessionID, userID, apperrors.ErrStudySessionNotFound)
}

func (r *StudySessionRepository) AddComment(ctx context.Context, sessionID string, c models.SessionComment) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": sessionID}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return fmt.Errorf("error adding comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrStudySessionNotFound
	}
	return nil
}

func normalizeSession(s *models.StudySession) {
	s.Subtopics = nonNil(s.Subtopics)
	s.Likes = nonNil(s.Likes)
	if s.Comments == nil {
		s.Comments = []models.SessionComment{}
	}
}
