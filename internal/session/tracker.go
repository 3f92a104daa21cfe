package session

import (
	"errors"
	"time"
)

var (
	ErrExerciseOutOfRange = errors.New("exercise index out of range")
	ErrSetOutOfRange      = errors.New("set index out of range")
)

// Tracker holds the state of a session being performed: the expanded logs,
// the exercise on screen and the running rest timer.
// It is not safe for concurrent use.
type Tracker struct {
	logs    []ExerciseLog
	current int
	rest    time.Duration
}

func NewTracker(logs []ExerciseLog) *Tracker {
	return &Tracker{logs: logs}
}

// ToggleSet flips the completion flag of a set. Completing a set starts the
// rest timer at the exercise's prescribed rest.
func (t *Tracker) ToggleSet(exercise, set int) (bool, error) {
	slot, err := t.slot(exercise, set)
	if err != nil {
		return false, err
	}
	slot.Completed = !slot.Completed
	if slot.Completed {
		t.rest = t.logs[exercise].Rest
	}
	return slot.Completed, nil
}

// SetCompleted reports the completion flag of a set.
func (t *Tracker) SetCompleted(exercise, set int) (bool, error) {
	slot, err := t.slot(exercise, set)
	if err != nil {
		return false, err
	}
	return slot.Completed, nil
}

// UpdateSet records the actual weight and reps of a set. Nil leaves a value unchanged.
func (t *Tracker) UpdateSet(exercise, set int, weight *float64, reps *int) error {
	slot, err := t.slot(exercise, set)
	if err != nil {
		return err
	}
	if weight != nil {
		w := *weight
		slot.Weight = &w
	}
	if reps != nil {
		r := *reps
		slot.Reps = &r
	}
	return nil
}

// Next moves to the following exercise. It reports false at the last one.
func (t *Tracker) Next() bool {
	if t.current >= len(t.logs)-1 {
		return false
	}
	t.current++
	t.rest = 0
	return true
}

// Previous moves to the preceding exercise. It reports false at the first one.
func (t *Tracker) Previous() bool {
	if t.current == 0 {
		return false
	}
	t.current--
	t.rest = 0
	return true
}

// Select jumps to an exercise.
func (t *Tracker) Select(exercise int) error {
	if exercise < 0 || exercise >= len(t.logs) {
		return ErrExerciseOutOfRange
	}
	t.current = exercise
	t.rest = 0
	return nil
}

func (t *Tracker) Current() int {
	return t.current
}

// RestTimer returns the active rest countdown start value, if any.
func (t *Tracker) RestTimer() (time.Duration, bool) {
	return t.rest, t.rest > 0
}

// Progress returns completed and total sets of an exercise.
func (t *Tracker) Progress(exercise int) (completed, total int, err error) {
	if exercise < 0 || exercise >= len(t.logs) {
		return 0, 0, ErrExerciseOutOfRange
	}
	l := t.logs[exercise]
	return l.CompletedSets(), len(l.Sets), nil
}

// Finished reports whether every set of every exercise is complete.
func (t *Tracker) Finished() bool {
	for _, l := range t.logs {
		if !l.Done() {
			return false
		}
	}
	return len(t.logs) > 0
}

// Snapshot returns the current logs.
func (t *Tracker) Snapshot() []ExerciseLog {
	return t.logs
}

func (t *Tracker) slot(exercise, set int) (*SetSlot, error) {
	if exercise < 0 || exercise >= len(t.logs) {
		return nil, ErrExerciseOutOfRange
	}
	sets := t.logs[exercise].Sets
	if set < 0 || set >= len(sets) {
		return nil, ErrSetOutOfRange
	}
	return &sets[set], nil
}
