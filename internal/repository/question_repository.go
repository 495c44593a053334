package repository

import (
	"context"
	"errors"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindBySubjectIDs(ctx context.Context, subjectIDs []string) ([]models.Question, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"subject_id": bson.M{"$in": subjectIDs}})
}

func (r *QuestionRepository) FindByTopic(ctx context.Context, subjectID, topicTag string) ([]models.Question, error) {
	return r.find(ctx, bson.M{"subject_id": subjectID, "topic_tags": topicTag})
}

// CountByTopic returns per-topic question counts for the importance factor of
// priority scoring.
func (r *QuestionRepository) CountByTopic(ctx context.Context, subjectIDs []string) (map[string]int, error) {
	questions, err := r.FindBySubjectIDs(ctx, subjectIDs)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, q := range questions {
		for _, tag := range q.TopicTags {
			counts[tag]++
		}
	}
	return counts, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *QuestionRepository) find(ctx context.Context, filter bson.M) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}
