package repository

import (
	"context"
	"time"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MasteryRepository struct {
	Col *mongo.Collection
}

func NewMasteryRepository(db *mongo.Database) *MasteryRepository {
	return &MasteryRepository{Col: db.Collection("topic_masteries")}
}

func (r *MasteryRepository) FindByUser(ctx context.Context, userID string) ([]models.TopicMastery, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MasteryRepository) FindByUserAndSubject(ctx context.Context, userID, subjectID string) ([]models.TopicMastery, error) {
	return r.find(ctx, bson.M{"user_id": userID, "subject_id": subjectID})
}

// Upsert applies the mastery update as a single atomic write keyed on
// (user, subject, topic). Concurrent attempts on the same topic cannot
// produce a duplicate record.
func (r *MasteryRepository) Upsert(ctx context.Context, userID, subjectID, topicTag string, newScore float64, practicedAt time.Time) error {
	filter := bson.M{"user_id": userID, "subject_id": subjectID, "topic_tag": topicTag}
	update := bson.M{
		"$set": bson.M{
			"mastery_score":     newScore,
			"last_practiced_at": practicedAt,
			"updated_at":        time.Now().UTC(),
		},
		"$inc": bson.M{"attempt_count": 1},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"subject_id": subjectID,
			"topic_tag":  topicTag,
		},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *MasteryRepository) FindOne(ctx context.Context, userID, subjectID, topicTag string) (*models.TopicMastery, error) {
	var m models.TopicMastery
	err := r.Col.FindOne(ctx, bson.M{
		"user_id":    userID,
		"subject_id": subjectID,
		"topic_tag":  topicTag,
	}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MasteryRepository) find(ctx context.Context, filter bson.M) ([]models.TopicMastery, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var masteries []models.TopicMastery
	for cur.Next(ctx) {
		var m models.TopicMastery
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		masteries = append(masteries, m)
	}
	return masteries, nil
}
