package repository

import (
	"context"
	"errors"

	"readiness-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContentRepository struct {
	Col *mongo.Collection
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{Col: db.Collection("content_items")}
}

// FindOneByTopic returns the first content item of the given type for a
// topic, sorted by id so the choice is stable.
func (r *ContentRepository) FindOneByTopic(ctx context.Context, subjectID, topicTag string, contentType models.ContentType) (*models.ContentItem, error) {
	filter := bson.M{"subject_id": subjectID, "topic_tag": topicTag, "type": contentType}
	opts := options.FindOne().SetSort(bson.M{"_id": 1})
	var item models.ContentItem
	err := r.Col.FindOne(ctx, filter, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ContentRepository) Create(ctx context.Context, item *models.ContentItem) error {
	_, err := r.Col.InsertOne(ctx, item)
	return err
}
