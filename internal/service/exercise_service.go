package service

import (
	"context"
	"errors"
	"strings"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
)

// ExerciseInput holds the editable exercise fields.
type ExerciseInput struct {
	Name        string
	Description string
	MuscleGroup string
	Equipment   string
	Difficulty  string
	VideoURL    string
	ImageURL    string
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, trainerID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, trainerID, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

func (in ExerciseInput) apply(e *domain.Exercise) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalid("exercise name is required")
	}
	e.Name = name
	e.Description = in.Description
	e.MuscleGroup = in.MuscleGroup
	e.Equipment = in.Equipment
	e.Difficulty = in.Difficulty
	e.VideoURL = in.VideoURL
	e.ImageURL = in.ImageURL
	return nil
}

// CreateExercise adds an exercise to the trainer's library.
func (s *exerciseService) CreateExercise(ctx context.Context, trainerID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	exercise := &domain.Exercise{TrainerID: trainerID}
	if err := in.apply(exercise); err != nil {
		return nil, err
	}
	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	exercise.ID = id
	return exercise, nil
}

// GetExerciseByID returns an exercise of the trainer's own library.
func (s *exerciseService) GetExerciseByID(ctx context.Context, trainerID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, storeErr(err, ErrExerciseNotFound)
	}
	if exercise.TrainerID != trainerID {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

func (s *exerciseService) GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	return exercises, nil
}

func (s *exerciseService) UpdateExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.GetExerciseByID(ctx, trainerID, exerciseID)
	if err != nil {
		return nil, err
	}
	if err := in.apply(exercise); err != nil {
		return nil, err
	}
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, storeErr(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

// DeleteExercise removes an exercise owned by the trainer. Workouts keep
// their denormalized copy of the name.
func (s *exerciseService) DeleteExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID) error {
	if _, err := s.GetExerciseByID(ctx, trainerID, exerciseID); err != nil {
		return err
	}
	return storeErr(s.exerciseRepo.Delete(ctx, exerciseID, trainerID), ErrExerciseNotFound)
}
