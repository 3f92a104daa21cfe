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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout. Prescribed exercises without an id get one.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.TrainingPlanID == primitive.NilObjectID || workout.TrainerID == primitive.NilObjectID ||
		workout.StudentID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: workout requires trainingPlanId, trainerId, studentId and name", repository.ErrInvalid)
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	assignExerciseIDs(workout.Exercises)

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return insertedID(result)
}

func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout); err != nil {
		return nil, translate(err)
	}
	return &workout, nil
}

// GetByPlanID retrieves all workouts of a training plan ordered by sequence, then day of week.
func (r *mongoWorkoutRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Workout, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}, {Key: "dayOfWeek", Value: 1}})
	return findAll[domain.Workout](ctx, r.collection, bson.M{"trainingPlanId": planID}, opts)
}

// Update replaces the editable fields of a workout owned by workout.TrainerID.
// Plan, trainer and student never move.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return fmt.Errorf("%w: workout ID is required for update", repository.ErrInvalid)
	}
	assignExerciseIDs(workout.Exercises)
	workout.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": workout.ID, "trainerId": workout.TrainerID}
	update := bson.M{
		"$set": bson.M{
			"name":      workout.Name,
			"dayOfWeek": workout.DayOfWeek,
			"sequence":  workout.Sequence,
			"exercises": workout.Exercises,
			"updatedAt": workout.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, workoutID primitive.ObjectID, trainerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": workoutID, "trainerId": trainerID})
	if err != nil {
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func assignExerciseIDs(exercises []domain.WorkoutExercise) {
	for i := range exercises {
		if exercises[i].ID.IsZero() {
			exercises[i].ID = primitive.NewObjectID()
		}
	}
}

func workoutIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "trainingPlanId", Value: 1}, {Key: "sequence", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "studentId", Value: 1}},
		},
	}
}
