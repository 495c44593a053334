package repository

import (
	"context"
	"time"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExamAnswerRepository struct {
	Col *mongo.Collection
}

func NewExamAnswerRepository(db *mongo.Database) *ExamAnswerRepository {
	return &ExamAnswerRepository{Col: db.Collection("exam_answers")}
}

// Upsert keeps one answer per (session, question); re-saving overwrites while
// the session is in progress.
func (r *ExamAnswerRepository) Upsert(ctx context.Context, answer *models.ExamAnswer) error {
	filter := bson.M{"session_id": answer.SessionID, "question_id": answer.QuestionID}
	update := bson.M{
		"$set": bson.M{
			"answer_text":        answer.AnswerText,
			"time_taken_seconds": answer.TimeTakenSeconds,
			"word_count":         answer.WordCount,
			"is_flagged":         answer.IsFlagged,
			"updated_at":         time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"_id":         answer.ID,
			"session_id":  answer.SessionID,
			"question_id": answer.QuestionID,
		},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *ExamAnswerRepository) FindBySession(ctx context.Context, sessionID string) ([]models.ExamAnswer, error) {
	cur, err := r.Col.Find(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var answers []models.ExamAnswer
	for cur.Next(ctx) {
		var a models.ExamAnswer
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, nil
}
