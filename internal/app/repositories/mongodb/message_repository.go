package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository stores direct messages
type MessageRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		r.logger.Error().Err(err).Str("senderID", msg.SenderID).Msg("Error creating message")
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var m models.Message
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error getting message: %w", err)
	}
	return &m, nil
}

func (r *MessageRepository) ListThread(ctx context.Context, a, b string) ([]*models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": a, "receiver": b},
		bson.M{"sender": b, "receiver": a},
	}}
	oldestFirst := bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	return r.find(ctx, filter, options.Find().SetSort(oldestFirst))
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]*models.Message, error) {
	filter := bson.M{"$or": bson.A{bson.M{"sender": userID}, bson.M{"receiver": userID}}}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Message, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	messages := []*models.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("error decoding messages: %w", err)
	}
	return messages, nil
}

// MarkRead only touches unread messages so readAt keeps the first read time
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "read": false},
		bson.M{"$set": bson.M{"read": true, "readAt": at}},
	)
	if err != nil {
		return fmt.Errorf("error marking message read: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error checking message: %w", err)
	}
	if n == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"receiver": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return int(n), nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}
