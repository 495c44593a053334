package repository

import (
	"context"
	"errors"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExamSessionRepository struct {
	Col *mongo.Collection
}

func NewExamSessionRepository(db *mongo.Database) *ExamSessionRepository {
	return &ExamSessionRepository{Col: db.Collection("exam_sessions")}
}

func (r *ExamSessionRepository) Create(ctx context.Context, session *models.ExamSession) error {
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

func (r *ExamSessionRepository) FindByID(ctx context.Context, id string) (*models.ExamSession, error) {
	var session models.ExamSession
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ExamSessionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// FindRecentFinishedByUser returns completed and auto-submitted sessions,
// newest first, capped at limit.
func (r *ExamSessionRepository) FindRecentFinishedByUser(ctx context.Context, userID string, limit int) ([]models.ExamSession, error) {
	filter := bson.M{
		"user_id": userID,
		"status":  bson.M{"$in": []models.SessionStatus{models.SessionCompleted, models.SessionAutoSubmitted}},
	}
	opts := options.Find().SetSort(bson.M{"submitted_at": -1}).SetLimit(int64(limit))
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var sessions []models.ExamSession
	for cur.Next(ctx) {
		var s models.ExamSession
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
