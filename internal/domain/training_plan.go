package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingGoal is the focus of a training plan.
type TrainingGoal string

const (
	GoalStrength    TrainingGoal = "STR"
	GoalHypertrophy TrainingGoal = "HYP"
	GoalEndurance   TrainingGoal = "END"
	GoalWeightLoss  TrainingGoal = "WL"
	GoalGeneral     TrainingGoal = "GEN"
)

// Valid reports whether g is one of the known training goals.
func (g TrainingGoal) Valid() bool {
	switch g {
	case GoalStrength, GoalHypertrophy, GoalEndurance, GoalWeightLoss, GoalGeneral:
		return true
	}
	return false
}

// TrainingPlan represents a structured plan assigned to a student by a trainer.
type TrainingPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Who created the plan
	StudentID   primitive.ObjectID `bson:"studentId" json:"studentId"` // Who the plan is for
	Name        string             `bson:"name" json:"name"`           // e.g., "ABC", "Upper/Lower"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Goal        TrainingGoal       `bson:"goal" json:"goal"`
	StartDate   *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"` // At most one active plan per student
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
