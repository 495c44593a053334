package repository

import (
	"context"
	"errors"
	"time"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EvaluationRepository struct {
	Col *mongo.Collection
}

func NewEvaluationRepository(db *mongo.Database) *EvaluationRepository {
	return &EvaluationRepository{Col: db.Collection("practice_evaluations")}
}

// Upsert keeps at most one evaluation per attempt; re-evaluation overwrites.
func (r *EvaluationRepository) Upsert(ctx context.Context, ev *models.PracticeEvaluation) error {
	filter := bson.M{"attempt_id": ev.AttemptID}
	update := bson.M{
		"$set": bson.M{
			"user_id":          ev.UserID,
			"status":           ev.Status,
			"score":            ev.Score,
			"max_score":        ev.MaxScore,
			"rubric_breakdown": ev.RubricBreakdown,
			"overall_feedback": ev.OverallFeedback,
			"strengths":        ev.Strengths,
			"improvements":     ev.Improvements,
			"updated_at":       time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"_id": ev.ID, "attempt_id": ev.AttemptID},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *EvaluationRepository) FindByAttemptID(ctx context.Context, attemptID string) (*models.PracticeEvaluation, error) {
	var ev models.PracticeEvaluation
	err := r.Col.FindOne(ctx, bson.M{"attempt_id": attemptID}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// FindRecentByUser returns completed evaluations newest first, capped at limit.
func (r *EvaluationRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.PracticeEvaluation, error) {
	filter := bson.M{"user_id": userID, "status": models.EvaluationCompleted}
	opts := options.Find().SetSort(bson.M{"updated_at": -1}).SetLimit(int64(limit))
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var evals []models.PracticeEvaluation
	for cur.Next(ctx) {
		var ev models.PracticeEvaluation
		if err := cur.Decode(&ev); err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	return evals, nil
}
