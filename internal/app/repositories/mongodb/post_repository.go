package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/app/repositories"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository stores class feed posts
type PostRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		r.logger.Error().Err(err).Str("classID", post.ClassID).Msg("Error creating post")
		return fmt.Errorf("error creating post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	return &p, nil
}

func (r *PostRepository) ListByClass(ctx context.Context, filter repositories.PostFilter) ([]*models.Post, error) {
	q := bson.M{"classId": filter.ClassID, "deletedAt": bson.M{"$exists": false}}
	if filter.Type != "" {
		q["type"] = filter.Type
	}
	opts := options.Find().SetSort(newestFirst)
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	posts := []*models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("error decoding posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	set := bson.M{"content": post.Content}
	unset := bson.M{}
	if post.EditedAt != nil {
		set["editedAt"] = *post.EditedAt
	} else {
		unset["editedAt"] = ""
	}
	if post.DeletedAt != nil {
		set["deletedAt"] = *post.DeletedAt
	} else {
		unset["deletedAt"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}
