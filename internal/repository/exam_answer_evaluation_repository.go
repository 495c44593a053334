package repository

import (
	"context"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExamAnswerEvaluationRepository struct {
	Col *mongo.Collection
}

func NewExamAnswerEvaluationRepository(db *mongo.Database) *ExamAnswerEvaluationRepository {
	return &ExamAnswerEvaluationRepository{Col: db.Collection("exam_answer_evaluations")}
}

// Upsert keeps at most one evaluation per answer; re-evaluating a session
// overwrites the previous result.
func (r *ExamAnswerEvaluationRepository) Upsert(ctx context.Context, ev *models.ExamAnswerEvaluation) error {
	filter := bson.M{"answer_id": ev.AnswerID}
	update := bson.M{
		"$set": bson.M{
			"session_id":       ev.SessionID,
			"question_id":      ev.QuestionID,
			"marks_awarded":    ev.MarksAwarded,
			"max_marks":        ev.MaxMarks,
			"breakdown":        ev.Breakdown,
			"overall_feedback": ev.OverallFeedback,
			"strengths":        ev.Strengths,
			"improvements":     ev.Improvements,
		},
		"$setOnInsert": bson.M{"_id": ev.ID, "answer_id": ev.AnswerID},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *ExamAnswerEvaluationRepository) FindBySession(ctx context.Context, sessionID string) ([]models.ExamAnswerEvaluation, error) {
	opts := options.Find().SetSort(bson.M{"question_id": 1})
	cur, err := r.Col.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var evals []models.ExamAnswerEvaluation
	for cur.Next(ctx) {
		var ev models.ExamAnswerEvaluation
		if err := cur.Decode(&ev); err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	return evals, nil
}
