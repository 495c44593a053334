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

type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("subject_progress")}
}

func (r *ProgressRepository) Upsert(ctx context.Context, p *models.SubjectProgress) error {
	filter := bson.M{"user_id": p.UserID, "subject_id": p.SubjectID}
	update := bson.M{
		"$set": bson.M{
			"completion_percentage": p.CompletionPercentage,
			"total_items":           p.TotalItems,
			"completed_items":       p.CompletedItems,
			"last_activity_at":      time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"_id":        p.ID,
			"user_id":    p.UserID,
			"subject_id": p.SubjectID,
		},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *ProgressRepository) FindByUserAndSubject(ctx context.Context, userID, subjectID string) (*models.SubjectProgress, error) {
	var p models.SubjectProgress
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "subject_id": subjectID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) FindByUser(ctx context.Context, userID string) ([]models.SubjectProgress, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.SubjectProgress
	for cur.Next(ctx) {
		var p models.SubjectProgress
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
