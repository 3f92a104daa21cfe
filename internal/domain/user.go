package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleStudent Role = "student"
)

// TrainerProfile holds the fields only trainers fill in.
type TrainerProfile struct {
	Specialization string  `bson:"specialization,omitempty" json:"specialization,omitempty"` // e.g. "Hypertrophy, Mobility"
	CREF           string  `bson:"cref,omitempty" json:"cref,omitempty"`                     // Professional license number
	Bio            string  `bson:"bio,omitempty" json:"bio,omitempty"`
	Phone          string  `bson:"phone,omitempty" json:"phone,omitempty"`
	FeedbackScore  float64 `bson:"feedbackScore" json:"feedbackScore"`
}

// StudentProfile holds the body data collected at registration.
type StudentProfile struct {
	Age      int     `bson:"age,omitempty" json:"age,omitempty"`
	HeightCm float64 `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
}

// User represents a user in the system (either a Trainer or a Student).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never exposed
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Trainer-specific ---
	Trainer    *TrainerProfile      `bson:"trainer,omitempty" json:"trainer,omitempty"`
	StudentIDs []primitive.ObjectID `bson:"studentIds,omitempty" json:"studentIds,omitempty"`

	// --- Student-specific ---
	Student   *StudentProfile     `bson:"student,omitempty" json:"student,omitempty"`
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// HasTrainer reports whether the student is linked to the given trainer.
func (u *User) HasTrainer(trainerID primitive.ObjectID) bool {
	return u.TrainerID != nil && *u.TrainerID == trainerID
}
