package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutExercise is one prescribed exercise inside a workout.
type WorkoutExercise struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Name       string             `bson:"name" json:"name"` // Denormalized from the exercise library
	Sets       int                `bson:"sets" json:"sets"`
	Reps       int                `bson:"reps" json:"reps"`
	RestTime   string             `bson:"restTime" json:"restTime"` // "HH:MM:SS" or "MM:SS"
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Workout represents a single training day within a TrainingPlan.
type Workout struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainingPlanID primitive.ObjectID `bson:"trainingPlanId" json:"trainingPlanId"`
	TrainerID      primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Denormalized for easier query/auth
	StudentID      primitive.ObjectID `bson:"studentId" json:"studentId"` // Denormalized
	Name           string             `bson:"name" json:"name"`           // e.g., "Treino A - Peito e Tríceps"
	DayOfWeek      *int               `bson:"dayOfWeek,omitempty" json:"dayOfWeek,omitempty"` // 0 (Sun) - 6 (Sat)
	Sequence       int                `bson:"sequence" json:"sequence"`
	Exercises      []WorkoutExercise  `bson:"exercises" json:"exercises"` // Ordered
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindExercise returns the prescribed exercise with the given id.
func (w *Workout) FindExercise(id primitive.ObjectID) (*WorkoutExercise, bool) {
	for i := range w.Exercises {
		if w.Exercises[i].ID == id {
			return &w.Exercises[i], true
		}
	}
	return nil, false
}
