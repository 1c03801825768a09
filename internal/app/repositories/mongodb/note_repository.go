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

// NoteRepository stores shared notes with their like set embedded
type NoteRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	doc := *note
	doc.Tags = nonNil(doc.Tags)
	doc.Likes = nonNil(doc.Likes)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Error().Err(err).Str("classID", note.ClassID).Msg("Error creating note")
		return fmt.Errorf("error creating note: %w", err)
	}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	var n models.Note
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("error getting note: %w", err)
	}
	normalizeNote(&n)
	return &n, nil
}

func (r *NoteRepository) ListByClass(ctx context.Context, classID string, approvedOnly bool) ([]*models.Note, error) {
	filter := bson.M{"classId": classID}
	if approvedOnly {
		filter["isApproved"] = true
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	notes := []*models.Note{}
	if err := cur.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("error decoding notes: %w", err)
	}
	for _, n := range notes {
		normalizeNote(n)
	}
	return notes, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) ToggleLike(ctx context.Context, noteID, userID string) (bool, int, error) {
	return toggleLike(ctx, r.coll, noteID, userID, apperrors.ErrNoteNotFound)
}

func (r *NoteRepository) IncrementDownloads(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "downloadCount")
}

func (r *NoteRepository) IncrementViews(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "viewCount")
}

func (r *NoteRepository) increment(ctx context.Context, id, field string) (int, error) {
	var doc bson.M
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(bson.M{field: 1})
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: 1}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, apperrors.ErrNoteNotFound
		}
		return 0, fmt.Errorf("error incrementing %s: %w", field, err)
	}

	switch v := doc[field].(type) {
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	}
	return 0, fmt.Errorf("unexpected %s type %T", field, doc[field])
}

func normalizeNote(n *models.Note) {
	n.Tags = nonNil(n.Tags)
	n.Likes = nonNil(n.Likes)
}
