package repository

import (
	"context"
	"errors"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExamEvaluationRepository struct {
	Col *mongo.Collection
}

func NewExamEvaluationRepository(db *mongo.Database) *ExamEvaluationRepository {
	return &ExamEvaluationRepository{Col: db.Collection("exam_evaluations")}
}

// Upsert keeps one evaluation per session; re-evaluation is idempotent.
func (r *ExamEvaluationRepository) Upsert(ctx context.Context, ev *models.ExamSessionEvaluation) error {
	filter := bson.M{"session_id": ev.SessionID}
	update := bson.M{
		"$set": bson.M{
			"user_id":           ev.UserID,
			"total_marks":       ev.TotalMarks,
			"max_marks":         ev.MaxMarks,
			"percentage":        ev.Percentage,
			"grade_band":        ev.GradeBand,
			"section_breakdown": ev.SectionBreakdown,
			"strong_topics":     ev.StrongTopics,
			"weak_topics":       ev.WeakTopics,
			"status":            ev.Status,
			"evaluated_at":      ev.EvaluatedAt,
		},
		"$setOnInsert": bson.M{"_id": ev.ID, "session_id": ev.SessionID},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *ExamEvaluationRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.ExamSessionEvaluation, error) {
	var ev models.ExamSessionEvaluation
	err := r.Col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// FindRecentByUser returns session evaluations oldest first so trend analysis
// reads them chronologically.
func (r *ExamEvaluationRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.ExamSessionEvaluation, error) {
	filter := bson.M{"user_id": userID, "status": models.EvaluationCompleted}
	opts := options.Find().SetSort(bson.M{"evaluated_at": -1}).SetLimit(int64(limit))
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var evals []models.ExamSessionEvaluation
	for cur.Next(ctx) {
		var ev models.ExamSessionEvaluation
		if err := cur.Decode(&ev); err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	// Reverse to chronological order.
	for i, j := 0, len(evals)-1; i < j; i, j = i+1, j-1 {
		evals[i], evals[j] = evals[j], evals[i]
	}
	return evals, nil
}
