package repository

import (
	"context"
	"time"

	"fitcoach/platform/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrInvalid      = RepositoryError("invalid document")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	AddStudentToTrainer(ctx context.Context, trainerID, studentID primitive.ObjectID) error
	RemoveStudentFromTrainer(ctx context.Context, trainerID, studentID primitive.ObjectID) error
	GetStudentsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	// SetTrainerForStudent links (or with nil unlinks) the student's trainer.
	SetTrainerForStudent(ctx context.Context, studentID primitive.ObjectID, trainerID *primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error // Ensure trainer owns the exercise
}

// TrainingPlanRepository defines the interface for interacting with training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByStudentAndTrainerID(ctx context.Context, studentID, trainerID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.TrainingPlan, error)
	// Activate marks planID active and every other plan of the student inactive.
	Activate(ctx context.Context, studentID, planID primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error
}

// FoodItemRepository defines the interface for the food catalogue.
type FoodItemRepository interface {
	Create(ctx context.Context, item *domain.FoodItem) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.FoodItem, error)
	// List filters by a case-insensitive name fragment and category; empty values match everything.
	List(ctx context.Context, search string, category domain.FoodCategory) ([]domain.FoodItem, error)
}

// DietPlanRepository defines the interface for interacting with diet plans.
type DietPlanRepository interface {
	Create(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DietPlan, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.DietPlan, error)
	GetActiveByStudentID(ctx context.Context, studentID primitive.ObjectID) (*domain.DietPlan, error)
	Update(ctx context.Context, plan *domain.DietPlan) error
	Activate(ctx context.Context, studentID, planID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error
}

// MealRegistrationRepository persists which meals were eaten on which day.
type MealRegistrationRepository interface {
	Create(ctx context.Context, reg *domain.MealRegistration) (primitive.ObjectID, error)
	Delete(ctx context.Context, studentID, mealID primitive.ObjectID, date string) error
	GetByPlanAndDate(ctx context.Context, planID, studentID primitive.ObjectID, date string) ([]domain.MealRegistration, error)
}

// WorkoutSessionRepository defines the interface for workout session history.
type WorkoutSessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	// GetByStudentID returns sessions newest first; a zero since returns the full history.
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID, since time.Time) ([]domain.WorkoutSession, error)
	Update(ctx context.Context, session *domain.WorkoutSession) error
}

// ProgressLogRepository defines the interface for body progress logs.
type ProgressLogRepository interface {
	Create(ctx context.Context, log *domain.ProgressLog) (primitive.ObjectID, error)
	// GetByStudentID returns logs oldest first.
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.ProgressLog, error)
}

// MessageRepository defines the interface for trainer/student messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error)
	// Conversation returns up to limit messages exchanged between a and b, newest first.
	Conversation(ctx context.Context, a, b primitive.ObjectID, limit int64) ([]domain.Message, error)
	MarkRead(ctx context.Context, id, receiverID primitive.ObjectID, at time.Time) error
	CountUnread(ctx context.Context, receiverID primitive.ObjectID) (int64, error)
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Upload, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Upload, error)
}
