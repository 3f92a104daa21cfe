package service

import (
	"testing"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixtureNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	trainer *domain.User
	student *domain.User

	users     *fakeUsers
	exercises *fakeExercises
	plans     *fakePlans
	workouts  *fakeWorkouts
	foods     *fakeFoods
	diets     *fakeDiets
	meals     *fakeMeals
	sessions  *fakeSessions
	progress  *fakeProgress

	cache     *recordingCache
	publisher *recordingPublisher

	rice    domain.FoodItem
	chicken domain.FoodItem
	squat   domain.Exercise
}

// newFixture links one trainer to one student (165 cm) and seeds two foods
// and one library exercise.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	trainerID := primitive.NewObjectID()
	f := &fixture{
		trainer: &domain.User{ID: trainerID, Name: "Coach", Email: "coach@example.com", Role: domain.RoleTrainer, Trainer: &domain.TrainerProfile{}},
		student: &domain.User{ID: primitive.NewObjectID(), Name: "Ana", Email: "ana@example.com", Role: domain.RoleStudent,
			Student: &domain.StudentProfile{Age: 29, HeightCm: 165, WeightKg: 61}, TrainerID: &trainerID},
		rice: domain.FoodItem{ID: primitive.NewObjectID(), Name: "Rice", Unit: "g", Category: domain.FoodGrain,
			Per100: domain.Macros{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3}},
		chicken: domain.FoodItem{ID: primitive.NewObjectID(), Name: "Chicken breast", Unit: "g", Category: domain.FoodProtein,
			Per100: domain.Macros{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}},
		squat:     domain.Exercise{ID: primitive.NewObjectID(), TrainerID: trainerID, Name: "Back squat"},
		meals:     &fakeMeals{},
		progress:  &fakeProgress{},
		cache:     newRecordingCache(),
		publisher: &recordingPublisher{},
	}
	f.trainer.StudentIDs = []primitive.ObjectID{f.student.ID}
	f.users = newFakeUsers(f.trainer, f.student)
	f.exercises = newFakeExercises(f.squat)
	f.plans = newFakePlans()
	f.workouts = newFakeWorkouts()
	f.foods = newFakeFoods(f.rice, f.chicken)
	f.diets = newFakeDiets()
	f.sessions = newFakeSessions()
	return f
}

func (f *fixture) trainerService() *trainerService {
	svc := NewTrainerService(TrainerRepositories{
		Users:     f.users,
		Exercises: f.exercises,
		Plans:     f.plans,
		Workouts:  f.workouts,
		Diets:     f.diets,
		Foods:     f.foods,
		Sessions:  f.sessions,
		Progress:  f.progress,
	}, f.cache).(*trainerService)
	svc.now = func() time.Time { return fixtureNow }
	return svc
}

func (f *fixture) studentService(m *metrics.Manager) *studentService {
	svc := NewStudentService(StudentRepositories{
		Users:     f.users,
		Exercises: f.exercises,
		Plans:     f.plans,
		Workouts:  f.workouts,
		Diets:     f.diets,
		Foods:     f.foods,
		Meals:     f.meals,
		Sessions:  f.sessions,
		Progress:  f.progress,
	}, f.cache, f.publisher, m).(*studentService)
	svc.now = func() time.Time { return fixtureNow }
	return svc
}

// dietInput has rice 200 g for breakfast and chicken 150 g for lunch:
// 507.5 kcal, 51.9 g protein, 56 g carbs, 6 g fat.
func (f *fixture) dietInput(active bool) DietPlanInput {
	return DietPlanInput{
		Name:      "Cut phase",
		Goal:      domain.GoalCutting,
		StartDate: fixtureNow.AddDate(0, 0, -7),
		EndDate:   fixtureNow.AddDate(0, 1, 0),
		IsActive:  active,
		Meals: []MealInput{
			{Name: "Breakfast", Time: "07:30", FoodItems: []domain.MealFoodEntry{{FoodItemID: f.rice.ID, Quantity: 200}}},
			{Name: "Lunch", Time: "12:30", FoodItems: []domain.MealFoodEntry{{FoodItemID: f.chicken.ID, Quantity: 150, Unit: "g"}}},
		},
	}
}

// seedWorkout stores an active plan with one workout: squat 3x8, 90 s rest.
func (f *fixture) seedWorkout(t *testing.T) *domain.Workout {
	t.Helper()
	plan := domain.TrainingPlan{ID: primitive.NewObjectID(), TrainerID: f.trainer.ID, StudentID: f.student.ID, Name: "Strength", Goal: domain.GoalStrength, IsActive: true}
	f.plans.plans[plan.ID] = plan
	w := domain.Workout{
		ID:             primitive.NewObjectID(),
		TrainingPlanID: plan.ID,
		TrainerID:      f.trainer.ID,
		StudentID:      f.student.ID,
		Name:           "Legs",
		Exercises: []domain.WorkoutExercise{
			{ID: primitive.NewObjectID(), ExerciseID: f.squat.ID, Name: f.squat.Name, Sets: 3, Reps: 8, RestTime: "00:01:30"},
		},
	}
	f.workouts.workouts[w.ID] = w
	return &w
}

func ptr[T any](v T) *T { return &v }
