// Package session expands a workout template into a per-session set log and
// tracks a student's progress through it.
package session

import (
	"time"

	"fitcoach/platform/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetSlot is one prescribed set. Weight and Reps are nil until entered.
type SetSlot struct {
	Number    int      `json:"setNumber"`
	Completed bool     `json:"completed"`
	Weight    *float64 `json:"weight"`
	Reps      *int     `json:"reps"`
}

// ExerciseLog is the mutable, in-memory view of one prescribed exercise.
type ExerciseLog struct {
	WorkoutExerciseID primitive.ObjectID `json:"workoutExerciseId"`
	ExerciseID        primitive.ObjectID `json:"exerciseId"`
	Name              string             `json:"name"`
	TargetSets        int                `json:"targetSets"`
	TargetReps        int                `json:"targetReps"`
	Rest              time.Duration      `json:"-"`
	RestSeconds       int                `json:"restSeconds"`
	RestLabel         string             `json:"restLabel"`
	Notes             string             `json:"notes,omitempty"`
	Sets              []SetSlot          `json:"sets"`
}

// CompletedSets counts the slots marked complete.
func (l ExerciseLog) CompletedSets() int {
	n := 0
	for _, s := range l.Sets {
		if s.Completed {
			n++
		}
	}
	return n
}

// Done reports whether every prescribed set is complete.
func (l ExerciseLog) Done() bool {
	return len(l.Sets) > 0 && l.CompletedSets() == len(l.Sets)
}

// Build expands each prescribed exercise into exactly Sets slots and fills
// them from persisted rows matched by set number. Persisted rows outside
// 1..Sets are ignored.
func Build(exercises []domain.WorkoutExercise, persisted []domain.ExerciseLog) []ExerciseLog {
	logs := make([]ExerciseLog, 0, len(exercises))
	for _, we := range exercises {
		rest, err := ParseRestDuration(we.RestTime)
		if err != nil {
			rest = 0
		}

		n := we.Sets
		if n < 0 {
			n = 0
		}
		slots := make([]SetSlot, n)
		for i := range slots {
			slots[i].Number = i + 1
		}

		for _, row := range matchingSets(we, persisted) {
			if row.SetNumber < 1 || row.SetNumber > n {
				continue
			}
			weight := row.Weight
			reps := row.Repetitions
			slots[row.SetNumber-1] = SetSlot{
				Number:    row.SetNumber,
				Completed: row.Completed,
				Weight:    &weight,
				Reps:      &reps,
			}
		}

		logs = append(logs, ExerciseLog{
			WorkoutExerciseID: we.ID,
			ExerciseID:        we.ExerciseID,
			Name:              we.Name,
			TargetSets:        n,
			TargetReps:        we.Reps,
			Rest:              rest,
			RestSeconds:       int(rest / time.Second),
			RestLabel:         FormatRestDuration(rest),
			Notes:             we.Notes,
			Sets:              slots,
		})
	}
	return logs
}

// matchingSets finds the persisted rows for a prescribed exercise, preferring
// an exact workout-exercise match and falling back to the exercise id.
func matchingSets(we domain.WorkoutExercise, persisted []domain.ExerciseLog) []domain.SetLog {
	for _, p := range persisted {
		if p.WorkoutExerciseID == we.ID {
			return p.SetLogs
		}
	}
	for _, p := range persisted {
		if p.WorkoutExerciseID.IsZero() && p.ExerciseID == we.ExerciseID {
			return p.SetLogs
		}
	}
	return nil
}
