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

const sessionCollectionName = "workout_sessions"

// mongoSessionRepository stores workout sessions with exercise and set logs embedded.
type mongoSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoSessionRepository(db *mongo.Database) repository.WorkoutSessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.StudentID == primitive.NilObjectID || session.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, fmt.Errorf("%w: session requires studentId and workoutId", repository.ErrInvalid)
	}
	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now().UTC()
	if session.Status == "" {
		session.Status = domain.SessionPlanned
	}
	if session.ExerciseLogs == nil {
		session.ExerciseLogs = []domain.ExerciseLog{}
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return insertedID(result)
}

func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *mongoSessionRepository) GetByStudentID(ctx context.Context, studentID primitive.ObjectID, since time.Time) ([]domain.WorkoutSession, error) {
	filter := bson.M{"studentId": studentID}
	if !since.IsZero() {
		filter["date"] = bson.M{"$gte": since}
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findAll[domain.WorkoutSession](ctx, r.collection, filter, opts)
}

// Update stores status, timestamps, notes and the full set of exercise logs.
func (r *mongoSessionRepository) Update(ctx context.Context, session *domain.WorkoutSession) error {
	update := bson.M{
		"$set": bson.M{
			"status":       session.Status,
			"startedAt":    session.StartedAt,
			"endedAt":      session.EndedAt,
			"notes":        session.Notes,
			"exerciseLogs": session.ExerciseLogs,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": session.ID, "studentId": session.StudentID}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func sessionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "workoutId", Value: 1}},
		},
	}
}
