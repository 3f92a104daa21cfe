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

const dietPlanCollectionName = "diet_plans"

// mongoDietPlanRepository stores diet plans with their meals embedded.
type mongoDietPlanRepository struct {
	collection *mongo.Collection
}

func NewMongoDietPlanRepository(db *mongo.Database) repository.DietPlanRepository {
	return &mongoDietPlanRepository{
		collection: db.Collection(dietPlanCollectionName),
	}
}

func (r *mongoDietPlanRepository) Create(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error) {
	if plan.StudentID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: diet plan requires studentId and name", repository.ErrInvalid)
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	assignMealIDs(plan.Meals)

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

func (r *mongoDietPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DietPlan, error) {
	var plan domain.DietPlan
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

// GetByStudentID lists the student's diet plans, most recent start date first.
func (r *mongoDietPlanRepository) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.DietPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})
	return findAll[domain.DietPlan](ctx, r.collection, bson.M{"studentId": studentID}, opts)
}

func (r *mongoDietPlanRepository) GetActiveByStudentID(ctx context.Context, studentID primitive.ObjectID) (*domain.DietPlan, error) {
	var plan domain.DietPlan
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"studentId": studentID, "isActive": true}, opts).Decode(&plan)
	if err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

// Update rewrites the plan body. Activation goes through Activate.
func (r *mongoDietPlanRepository) Update(ctx context.Context, plan *domain.DietPlan) error {
	if plan.ID == primitive.NilObjectID {
		return fmt.Errorf("%w: diet plan ID is required for update", repository.ErrInvalid)
	}
	assignMealIDs(plan.Meals)
	plan.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":           plan.Name,
			"goal":           plan.Goal,
			"description":    plan.Description,
			"targetCalories": plan.TargetCalories,
			"startDate":      plan.StartDate,
			"endDate":        plan.EndDate,
			"meals":          plan.Meals,
			"updatedAt":      plan.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoDietPlanRepository) Activate(ctx context.Context, studentID, planID primitive.ObjectID) error {
	return activateExclusive(ctx, r.collection, studentID, planID)
}

func (r *mongoDietPlanRepository) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainerId": trainerID})
	if err != nil {
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func assignMealIDs(meals []domain.Meal) {
	for i := range meals {
		if meals[i].ID.IsZero() {
			meals[i].ID = primitive.NewObjectID()
		}
		if meals[i].FoodItems == nil {
			meals[i].FoodItems = []domain.MealFoodEntry{}
		}
	}
}

func dietPlanIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "isActive", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
}
