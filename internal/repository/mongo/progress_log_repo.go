package mongo

import (
	"context"
	"fmt"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressLogCollectionName = "progress_logs"

type mongoProgressLogRepository struct {
	collection *mongo.Collection
}

func NewMongoProgressLogRepository(db *mongo.Database) repository.ProgressLogRepository {
	return &mongoProgressLogRepository{
		collection: db.Collection(progressLogCollectionName),
	}
}

func (r *mongoProgressLogRepository) Create(ctx context.Context, entry *domain.ProgressLog) (primitive.ObjectID, error) {
	if entry.StudentID == primitive.NilObjectID {
		return primitive.NilObjectID, fmt.Errorf("%w: progress log requires studentId", repository.ErrInvalid)
	}
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()
	if entry.Date.IsZero() {
		entry.Date = entry.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return insertedID(result)
}

func (r *mongoProgressLogRepository) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.ProgressLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})
	return findAll[domain.ProgressLog](ctx, r.collection, bson.M{"studentId": studentID}, opts)
}

func progressLogIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "date", Value: 1}},
		},
	}
}
