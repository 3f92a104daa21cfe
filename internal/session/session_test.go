package session_test

import (
	"testing"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseRestDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"00:01:30":     90 * time.Second,
		"01:30":        90 * time.Second,
		"45":           45 * time.Second,
		"1:00:00":      time.Hour,
		"00:00:30.5":   30*time.Second + 500*time.Millisecond,
		"1 00:00:10":   24*time.Hour + 10*time.Second,
		"  00:02:00  ": 2 * time.Minute,
	}
	for in, want := range cases {
		got, err := session.ParseRestDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "abc", "1:2:3:4", "-5", "01:-30", "x 00:10", "NaN"} {
		_, err := session.ParseRestDuration(bad)
		assert.ErrorIs(t, err, session.ErrInvalidRestDuration, bad)
	}
}

func TestFormatRestDuration(t *testing.T) {
	assert.Equal(t, "00:01:30", session.FormatRestDuration(90*time.Second))
	assert.Equal(t, "01:00:05", session.FormatRestDuration(time.Hour+5*time.Second))
	assert.Equal(t, "00:00:00", session.FormatRestDuration(-time.Second))
}

func benchPress() domain.WorkoutExercise {
	return domain.WorkoutExercise{
		ID:         primitive.NewObjectID(),
		ExerciseID: primitive.NewObjectID(),
		Name:       "Bench press",
		Sets:       4,
		Reps:       10,
		RestTime:   "00:01:30",
	}
}

func TestBuild_ExactSlotCountRegardlessOfPersistedRows(t *testing.T) {
	we := benchPress()

	for _, persistedCount := range []int{0, 2, 4, 7} {
		var rows []domain.SetLog
		for i := 1; i <= persistedCount; i++ {
			rows = append(rows, domain.SetLog{SetNumber: i, Weight: 60, Repetitions: 10, Completed: true})
		}
		logs := session.Build([]domain.WorkoutExercise{we}, []domain.ExerciseLog{{WorkoutExerciseID: we.ID, SetLogs: rows}})

		require.Len(t, logs, 1)
		assert.Len(t, logs[0].Sets, 4, "persisted rows: %d", persistedCount)
	}
}

func TestBuild_PrefillsBySetNumber(t *testing.T) {
	we := benchPress()
	persisted := []domain.ExerciseLog{{
		WorkoutExerciseID: we.ID,
		SetLogs: []domain.SetLog{
			{SetNumber: 3, Weight: 70, Repetitions: 8, Completed: true},
			{SetNumber: 1, Weight: 60, Repetitions: 10, Completed: false},
			{SetNumber: 0, Weight: 999},
		},
	}}

	logs := session.Build([]domain.WorkoutExercise{we}, persisted)
	sets := logs[0].Sets

	assert.Equal(t, 1, sets[0].Number)
	require.NotNil(t, sets[0].Weight)
	assert.Equal(t, 60.0, *sets[0].Weight)
	assert.False(t, sets[0].Completed)

	assert.Equal(t, 2, sets[1].Number)
	assert.Nil(t, sets[1].Weight)
	assert.Nil(t, sets[1].Reps)
	assert.False(t, sets[1].Completed)

	assert.True(t, sets[2].Completed)
	assert.Equal(t, 8, *sets[2].Reps)

	assert.Equal(t, 90*time.Second, logs[0].Rest)
	assert.Equal(t, 90, logs[0].RestSeconds)
	assert.Equal(t, 1, logs[0].CompletedSets())
}

func TestBuild_FallsBackToExerciseIDAndToleratesBadRest(t *testing.T) {
	we := benchPress()
	we.RestTime = "soon"
	persisted := []domain.ExerciseLog{{
		ExerciseID: we.ExerciseID,
		SetLogs:    []domain.SetLog{{SetNumber: 2, Completed: true}},
	}}

	logs := session.Build([]domain.WorkoutExercise{we}, persisted)
	assert.True(t, logs[0].Sets[1].Completed)
	assert.Zero(t, logs[0].Rest)
	assert.Equal(t, "00:00:00", logs[0].RestLabel)
}

func TestTracker_ToggleStartsRestTimer(t *testing.T) {
	first := benchPress()
	second := benchPress()
	second.Sets = 2
	second.RestTime = "00:45"
	tr := session.NewTracker(session.Build([]domain.WorkoutExercise{first, second}, nil))

	_, running := tr.RestTimer()
	assert.False(t, running)

	done, err := tr.ToggleSet(0, 0)
	require.NoError(t, err)
	assert.True(t, done)
	rest, running := tr.RestTimer()
	assert.True(t, running)
	assert.Equal(t, 90*time.Second, rest)

	completed, err := tr.SetCompleted(0, 0)
	require.NoError(t, err)
	assert.True(t, completed)

	// toggling back is allowed
	done, err = tr.ToggleSet(0, 0)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = tr.SetCompleted(0, 9)
	assert.ErrorIs(t, err, session.ErrSetOutOfRange)

	_, err = tr.ToggleSet(0, 4)
	assert.ErrorIs(t, err, session.ErrSetOutOfRange)
	_, err = tr.ToggleSet(5, 0)
	assert.ErrorIs(t, err, session.ErrExerciseOutOfRange)
}

func TestTracker_NavigationResetsRestTimer(t *testing.T) {
	tr := session.NewTracker(session.Build([]domain.WorkoutExercise{benchPress(), benchPress()}, nil))

	_, _ = tr.ToggleSet(0, 0)
	assert.True(t, tr.Next())
	_, running := tr.RestTimer()
	assert.False(t, running)
	assert.Equal(t, 1, tr.Current())
	assert.False(t, tr.Next())

	_, _ = tr.ToggleSet(1, 0)
	assert.True(t, tr.Previous())
	_, running = tr.RestTimer()
	assert.False(t, running)
	assert.False(t, tr.Previous())

	_, _ = tr.ToggleSet(0, 1)
	require.NoError(t, tr.Select(1))
	_, running = tr.RestTimer()
	assert.False(t, running)
	assert.ErrorIs(t, tr.Select(2), session.ErrExerciseOutOfRange)
}

func TestTracker_UpdateSetAndProgress(t *testing.T) {
	we := benchPress()
	we.Sets = 2
	tr := session.NewTracker(session.Build([]domain.WorkoutExercise{we}, nil))

	w, r := 62.5, 9
	require.NoError(t, tr.UpdateSet(0, 1, &w, &r))
	require.NoError(t, tr.UpdateSet(0, 1, nil, nil))
	slot := tr.Snapshot()[0].Sets[1]
	assert.Equal(t, 62.5, *slot.Weight)
	assert.Equal(t, 9, *slot.Reps)

	_, _ = tr.ToggleSet(0, 0)
	completed, total, err := tr.Progress(0)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 2, total)
	assert.False(t, tr.Finished())

	_, _ = tr.ToggleSet(0, 1)
	assert.True(t, tr.Finished())
}
