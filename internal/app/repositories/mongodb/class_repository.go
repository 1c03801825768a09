package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"github.com/yigit/studbuds/internal/pkg/dberrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClassRepository stores classes with their member ids embedded in join order
type ClassRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	doc := *class
	doc.Members = nonNil(doc.Members)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrClassCodeExists
		}
		r.logger.Error().Err(err).Str("code", class.Code).Msg("Error creating class")
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

func (r *ClassRepository) findOne(ctx context.Context, filter bson.M) (*models.Class, error) {
	var c models.Class
	if err := r.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error getting class: %w", err)
	}
	c.Members = nonNil(c.Members)
	return &c, nil
}

func (r *ClassRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ClassRepository) GetByCode(ctx context.Context, code string) (*models.Class, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *ClassRepository) List(ctx context.Context, query string) ([]*models.Class, error) {
	filter := bson.M{}
	if query != "" {
		filter["$or"] = bson.A{bson.M{"name": containsRegex(query)}, bson.M{"code": containsRegex(query)}}
	}
	return r.find(ctx, filter)
}

func (r *ClassRepository) ListByMember(ctx context.Context, userID string) ([]*models.Class, error) {
	return r.find(ctx, bson.M{"members": userID})
}

func (r *ClassRepository) find(ctx context.Context, filter bson.M) ([]*models.Class, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error finding classes: %w", err)
	}
	classes := []*models.Class{}
	if err := cur.All(ctx, &classes); err != nil {
		return nil, fmt.Errorf("error decoding classes: %w", err)
	}
	for _, c := range classes {
		c.Members = nonNil(c.Members)
	}
	return classes, nil
}

func (r *ClassRepository) AddMember(ctx context.Context, classID, userID string) error {
	return r.updateMembers(ctx, classID, bson.M{"$addToSet": bson.M{"members": userID}})
}

func (r *ClassRepository) RemoveMember(ctx context.Context, classID, userID string) error {
	return r.updateMembers(ctx, classID, bson.M{"$pull": bson.M{"members": userID}})
}

func (r *ClassRepository) updateMembers(ctx context.Context, classID string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": classID}, update)
	if err != nil {
		return fmt.Errorf("error updating class members: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

func (r *ClassRepository) IsMember(ctx context.Context, classID, userID string) (bool, error) {
	var doc struct {
		Members []string `bson:"members"`
	}
	err := r.coll.FindOne(ctx, bson.M{"_id": classID}, options.FindOne().SetProjection(bson.M{"members": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, apperrors.ErrClassNotFound
		}
		return false, fmt.Errorf("error checking class membership: %w", err)
	}
	for _, m := range doc.Members {
		if m == userID {
			return true, nil
		}
	}
	return false, nil
}
