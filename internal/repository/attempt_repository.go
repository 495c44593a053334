package repository

import (
	"context"
	"time"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("practice_attempts")}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *models.PracticeAttempt) error {
	_, err := r.Col.InsertOne(ctx, attempt)
	return err
}

func (r *AttemptRepository) CountByUserAndQuestion(ctx context.Context, userID, questionID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "question_id": questionID})
}

func (r *AttemptRepository) FindByUser(ctx context.Context, userID string) ([]models.PracticeAttempt, error) {
	return r.find(ctx, bson.M{"user_id": userID}, nil)
}

// FindSince returns a user's attempts on or after the cutoff, newest first.
func (r *AttemptRepository) FindSince(ctx context.Context, userID string, since time.Time) ([]models.PracticeAttempt, error) {
	filter := bson.M{"user_id": userID, "attempted_at": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.M{"attempted_at": -1})
	return r.find(ctx, filter, opts)
}

func (r *AttemptRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.PracticeAttempt, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.Col.Find(ctx, filter, opts)
	} else {
		cur, err = r.Col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var attempts []models.PracticeAttempt
	for cur.Next(ctx) {
		var a models.PracticeAttempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
