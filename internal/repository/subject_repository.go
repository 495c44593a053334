package repository

import (
	"context"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SubjectRepository struct {
	Col *mongo.Collection
}

func NewSubjectRepository(db *mongo.Database) *SubjectRepository {
	return &SubjectRepository{Col: db.Collection("subjects")}
}

func (r *SubjectRepository) FindAll(ctx context.Context) ([]models.Subject, error) {
	return r.find(ctx, bson.M{})
}

func (r *SubjectRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Subject, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *SubjectRepository) find(ctx context.Context, filter bson.M) ([]models.Subject, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var subjects []models.Subject
	for cur.Next(ctx) {
		var s models.Subject
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}
