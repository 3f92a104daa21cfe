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

const trainingPlanCollectionName = "training_plans"

// mongoTrainingPlanRepository implements repository.TrainingPlanRepository
type mongoTrainingPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingPlanRepository creates a new TrainingPlan repository.
func NewMongoTrainingPlanRepository(db *mongo.Database) repository.TrainingPlanRepository {
	return &mongoTrainingPlanRepository{
		collection: db.Collection(trainingPlanCollectionName),
	}
}

// Create inserts a new training plan. An active plan is inserted inactive
// and then activated so the one-active-plan rule holds.
func (r *mongoTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	if plan.StudentID == primitive.NilObjectID || plan.TrainerID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: plan requires studentId, trainerId and name", repository.ErrInvalid)
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	active := plan.IsActive
	plan.IsActive = false
	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	id, err := insertedID(result)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if active {
		if err := r.Activate(ctx, plan.StudentID, id); err != nil {
			return id, err
		}
		plan.IsActive = true
	}
	return id, nil
}

func (r *mongoTrainingPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

// GetByStudentAndTrainerID retrieves all plans for a student created by a specific trainer, newest first.
func (r *mongoTrainingPlanRepository) GetByStudentAndTrainerID(ctx context.Context, studentID, trainerID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	filter := bson.M{"studentId": studentID, "trainerId": trainerID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[domain.TrainingPlan](ctx, r.collection, filter, opts)
}

// GetByStudentID lists the student's plans, the active one first.
func (r *mongoTrainingPlanRepository) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "isActive", Value: -1}, {Key: "createdAt", Value: -1}})
	return findAll[domain.TrainingPlan](ctx, r.collection, bson.M{"studentId": studentID}, opts)
}

func (r *mongoTrainingPlanRepository) Activate(ctx context.Context, studentID, planID primitive.ObjectID) error {
	return activateExclusive(ctx, r.collection, studentID, planID)
}

// activateExclusive flags planID active and clears the flag on the student's other documents.
func activateExclusive(ctx context.Context, coll *mongo.Collection, studentID, planID primitive.ObjectID) error {
	now := time.Now().UTC()
	result, err := coll.UpdateOne(ctx,
		bson.M{"_id": planID, "studentId": studentID},
		bson.M{"$set": bson.M{"isActive": true, "updatedAt": now}},
	)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	_, err = coll.UpdateMany(ctx,
		bson.M{"studentId": studentID, "_id": bson.M{"$ne": planID}, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}},
	)
	return translate(err)
}

func trainingPlanIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "isActive", Value: -1}},
		},
	}
}
