package mongo

import (
	"context"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mealRegistrationCollectionName = "meal_registrations"

type mongoMealRegistrationRepository struct {
	collection *mongo.Collection
}

func NewMongoMealRegistrationRepository(db *mongo.Database) repository.MealRegistrationRepository {
	return &mongoMealRegistrationRepository{
		collection: db.Collection(mealRegistrationCollectionName),
	}
}

// Create records a consumed meal. Registering the same meal twice on one day yields repository.ErrDuplicate.
func (r *mongoMealRegistrationRepository) Create(ctx context.Context, reg *domain.MealRegistration) (primitive.ObjectID, error) {
	reg.ID = primitive.NewObjectID()
	if reg.ConsumedAt.IsZero() {
		reg.ConsumedAt = time.Now().UTC()
	}
	result, err := r.collection.InsertOne(ctx, reg)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return insertedID(result)
}

func (r *mongoMealRegistrationRepository) Delete(ctx context.Context, studentID, mealID primitive.ObjectID, date string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"studentId": studentID, "mealId": mealID, "date": date})
	if err != nil {
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMealRegistrationRepository) GetByPlanAndDate(ctx context.Context, planID, studentID primitive.ObjectID, date string) ([]domain.MealRegistration, error) {
	filter := bson.M{"dietPlanId": planID, "studentId": studentID, "date": date}
	return findAll[domain.MealRegistration](ctx, r.collection, filter)
}

func mealRegistrationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "mealId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "dietPlanId", Value: 1}, {Key: "date", Value: 1}},
		},
	}
}
