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

// StudyGroupRepository stores study groups with members embedded in join order
type StudyGroupRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *StudyGroupRepository) Create(ctx context.Context, group *models.StudyGroup) error {
	doc := *group
	doc.Members = nonNil(doc.Members)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Error().Err(err).Str("classID", group.ClassID).Msg("Error creating study group")
		return fmt.Errorf("error creating study group: %w", err)
	}
	return nil
}

func (r *StudyGroupRepository) GetByID(ctx context.Context, id string) (*models.StudyGroup, error) {
	var g models.StudyGroup
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrStudyGroupNotFound
		}
		return nil, fmt.Errorf("error getting study group: %w", err)
	}
	g.Members = nonNil(g.Members)
	return &g, nil
}

func (r *StudyGroupRepository) ListByClass(ctx context.Context, classID string) ([]*models.StudyGroup, error) {
	cur, err := r.coll.Find(ctx, bson.M{"class": classID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("error listing study groups: %w", err)
	}
	groups := []*models.StudyGroup{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("error decoding study groups: %w", err)
	}
	for _, g := range groups {
		g.Members = nonNil(g.Members)
	}
	return groups, nil
}

func (r *StudyGroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	return r.updateMembers(ctx, groupID, bson.M{"$addToSet": bson.M{"members": userID}})
}

func (r *StudyGroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	return r.updateMembers(ctx, groupID, bson.M{"$pull": bson.M{"members": userID}})
}

func (r *StudyGroupRepository) updateMembers(ctx context.Context, groupID string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": groupID}, update)
	if err != nil {
		return fmt.Errorf("error updating study group members: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrStudyGroupNotFound
	}
	return nil
}
