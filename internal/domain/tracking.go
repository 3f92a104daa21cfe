package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus tracks a workout session's lifecycle.
type SessionStatus string

const (
	SessionCompleted  SessionStatus = "CMP"
	SessionSkipped    SessionStatus = "SKP"
	SessionPlanned    SessionStatus = "PLN"
	SessionInProgress SessionStatus = "INP"
)

// SetType classifies a logged set.
type SetType string

const (
	SetWarmup   SetType = "WARM"
	SetWorking  SetType = "WORK"
	SetFeeder   SetType = "FEED"
	SetDrop     SetType = "DROP"
	SetFinisher SetType = "FIN"
)

// SetLog is one performed set.
type SetLog struct {
	SetNumber   int       `bson:"setNumber" json:"setNumber"` // 1-based
	Repetitions int       `bson:"repetitions" json:"repetitions"`
	Weight      float64   `bson:"weight" json:"weight"` // kg
	Completed   bool      `bson:"completed" json:"completed"`
	SetType     SetType   `bson:"setType" json:"setType"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseLog groups the sets performed for one prescribed exercise.
type ExerciseLog struct {
	WorkoutExerciseID primitive.ObjectID `bson:"workoutExerciseId" json:"workoutExerciseId"`
	ExerciseID        primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order             int                `bson:"order" json:"order"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	SetLogs           []SetLog           `bson:"setLogs" json:"setLogs"`
}

// WorkoutSession is a dated instantiation of a Workout for one student.
type WorkoutSession struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID    primitive.ObjectID `bson:"studentId" json:"studentId"`
	WorkoutID    primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	Date         time.Time          `bson:"date" json:"date"`
	Status       SessionStatus      `bson:"status" json:"status"`
	StartedAt    *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	EndedAt      *time.Time         `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	ExerciseLogs []ExerciseLog      `bson:"exerciseLogs" json:"exerciseLogs"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProgressLog is a dated body snapshot.
type ProgressLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID     primitive.ObjectID `bson:"studentId" json:"studentId"`
	Date          time.Time          `bson:"date" json:"date"`
	CurrentWeight float64            `bson:"currentWeight" json:"currentWeight"`
	StartWeight   *float64           `bson:"startWeight,omitempty" json:"startWeight,omitempty"`
	GoalWeight    *float64           `bson:"goalWeight,omitempty" json:"goalWeight,omitempty"`
	BMI           *float64           `bson:"imc,omitempty" json:"imc,omitempty"`
	BodyFat       *float64           `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
