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

// UserRepository stores users with their friend list embedded
type UserRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	doc := *user
	doc.Friends = nonNil(doc.Friends)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		r.logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	u.Friends = nonNil(u.Friends)
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.User, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding users: %w", err)
	}
	users := []*models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	for _, u := range users {
		u.Friends = nonNil(u.Friends)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.updateOne(ctx, user.ID, bson.M{"$set": bson.M{
		"name":      user.Name,
		"major":     user.Major,
		"bio":       user.Bio,
		"updatedAt": user.UpdatedAt,
	}})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"password": passwordHash}})
}

func (r *UserRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Search(ctx context.Context, query, excludeID string, limit int) ([]*models.User, error) {
	filter := bson.M{
		"_id": bson.M{"$ne": excludeID},
		"$or": bson.A{
			bson.M{"name": containsRegex(query)},
			bson.M{"email": containsRegex(query)},
			bson.M{"major": containsRegex(query)},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, filter, opts)
}

func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": friendID})
	if err != nil {
		return fmt.Errorf("error checking friend: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return r.updateOne(ctx, userID, bson.M{"$addToSet": bson.M{"friends": friendID}})
}

func (r *UserRepository) RemoveFriend(ctx context.Context, userID, friendID string) error {
	return r.updateOne(ctx, userID, bson.M{"$pull": bson.M{"friends": friendID}})
}
