package service

import (
	"context"
	"errors"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/events"
	"fitcoach/platform/internal/progress"
	"fitcoach/platform/internal/repository"
	"fitcoach/platform/internal/session"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSessionNotFound  = errors.New("workout session not found")
	ErrSessionClosed    = errors.New("workout session is already finished or skipped")
	ErrInvalidSetNumber = errors.New("set number is outside the prescribed sets")
)

// SessionView is a session expanded against its workout prescription.
type SessionView struct {
	ID            primitive.ObjectID    `json:"id"`
	WorkoutID     primitive.ObjectID    `json:"workoutId"`
	WorkoutName   string                `json:"workoutName"`
	Date          time.Time             `json:"date"`
	Status        domain.SessionStatus  `json:"status"`
	StartedAt     *time.Time            `json:"startedAt,omitempty"`
	EndedAt       *time.Time            `json:"endedAt,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	Exercises     []session.ExerciseLog `json:"exercises"`
	CompletedSets int                   `json:"completedSets"`
	TotalSets     int                   `json:"totalSets"`
}

// SetUpdate is one set event from the workout screen. Nil fields are left unchanged.
type SetUpdate struct {
	WorkoutExerciseID primitive.ObjectID
	SetNumber         int
	Completed         *bool
	Weight            *float64
	Reps              *int
	SetType           domain.SetType
}

// SetUpdateResult tells the client how long to rest; RestSeconds is 0 unless
// the set was just completed.
type SetUpdateResult struct {
	Completed   bool         `json:"completed"`
	RestSeconds int          `json:"restSeconds"`
	Session     *SessionView `json:"session"`
}

func newSessionView(ses *domain.WorkoutSession, workout *domain.Workout) *SessionView {
	logs := session.Build(workout.Exercises, ses.ExerciseLogs)
	view := &SessionView{
		ID:          ses.ID,
		WorkoutID:   ses.WorkoutID,
		WorkoutName: workout.Name,
		Date:        ses.Date,
		Status:      ses.Status,
		StartedAt:   ses.StartedAt,
		EndedAt:     ses.EndedAt,
		Notes:       ses.Notes,
		Exercises:   logs,
	}
	for _, l := range logs {
		view.CompletedSets += l.CompletedSets()
		view.TotalSets += len(l.Sets)
	}
	return view
}

func (s *studentService) StartSession(ctx context.Context, studentID, workoutID primitive.ObjectID, date *time.Time) (*SessionView, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, storeErr(err, ErrWorkoutNotFound)
	}
	if workout.StudentID != studentID {
		return nil, ErrAccessDenied
	}

	now := s.now().UTC()
	ses := &domain.WorkoutSession{
		StudentID:    studentID,
		WorkoutID:    workout.ID,
		Date:         now,
		Status:       domain.SessionInProgress,
		StartedAt:    &now,
		ExerciseLogs: make([]domain.ExerciseLog, 0, len(workout.Exercises)),
	}
	if date != nil {
		ses.Date = date.UTC()
	}
	for i, we := range workout.Exercises {
		ses.ExerciseLogs = append(ses.ExerciseLogs, domain.ExerciseLog{
			WorkoutExerciseID: we.ID,
			ExerciseID:        we.ExerciseID,
			Order:             i + 1,
			SetLogs:           []domain.SetLog{},
		})
	}

	id, err := s.sessionRepo.Create(ctx, ses)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	ses.ID = id
	s.invalidate(ctx, studentID)
	return newSessionView(ses, workout), nil
}

// ownedSession loads a session of the student together with its workout.
func (s *studentService) ownedSession(ctx context.Context, studentID, sessionID primitive.ObjectID) (*domain.WorkoutSession, *domain.Workout, error) {
	ses, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, storeErr(err, ErrSessionNotFound)
	}
	if ses.StudentID != studentID {
		return nil, nil, ErrSessionNotFound
	}
	workout, err := s.workoutRepo.GetByID(ctx, ses.WorkoutID)
	if err != nil {
		return nil, nil, storeErr(err, ErrWorkoutNotFound)
	}
	return ses, workout, nil
}

func (s *studentService) GetSession(ctx context.Context, studentID, sessionID primitive.ObjectID) (*SessionView, error) {
	ses, workout, err := s.ownedSession(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	return newSessionView(ses, workout), nil
}

// UpdateSet persists one set event. The set number is checked against the
// prescription, the matching SetLog is created or updated, and a planned
// session moves to in progress.
func (s *studentService) UpdateSet(ctx context.Context, studentID, sessionID primitive.ObjectID, in SetUpdate) (*SetUpdateResult, error) {
	if in.Weight != nil && !(*in.Weight >= 0) {
		return nil, invalid("weight cannot be negative")
	}
	if in.Reps != nil && *in.Reps < 0 {
		return nil, invalid("repetitions cannot be negative")
	}

	ses, workout, err := s.ownedSession(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	if ses.Status == domain.SessionCompleted || ses.Status == domain.SessionSkipped {
		return nil, ErrSessionClosed
	}
	we, ok := workout.FindExercise(in.WorkoutExerciseID)
	if !ok {
		return nil, ErrWorkoutExerciseNotFound
	}
	if in.SetNumber < 1 || in.SetNumber > we.Sets {
		return nil, ErrInvalidSetNumber
	}

	// Replay the event on the pre-update state so the rest timer only starts
	// when the set goes from open to completed.
	tracker := session.NewTracker(session.Build(workout.Exercises, ses.ExerciseLogs))
	if err := tracker.Select(exerciseIndex(workout, we.ID)); err != nil {
		return nil, ErrWorkoutExerciseNotFound
	}
	if err := replaySetEvent(tracker, in); err != nil {
		return nil, ErrInvalidSetNumber
	}

	now := s.now().UTC()
	set := upsertSetLog(ses, workout, *we, in.SetNumber)
	if in.Completed != nil {
		set.Completed = *in.Completed
	}
	if in.Weight != nil {
		set.Weight = *in.Weight
	}
	if in.Reps != nil {
		set.Repetitions = *in.Reps
	}
	if in.SetType != "" {
		set.SetType = in.SetType
	} else if set.SetType == "" {
		set.SetType = domain.SetWorking
	}
	set.UpdatedAt = now
	completed := set.Completed

	if ses.Status == domain.SessionPlanned || ses.Status == "" {
		ses.Status = domain.SessionInProgress
	}
	if ses.StartedAt == nil {
		ses.StartedAt = &now
	}
	if err := s.sessionRepo.Update(ctx, ses); err != nil {
		return nil, storeErr(err, ErrSessionNotFound)
	}

	view := newSessionView(ses, workout)
	result := &SetUpdateResult{Completed: completed, Session: view}
	if rest, running := tracker.RestTimer(); running {
		result.RestSeconds = int(rest / time.Second)
	}

	if s.metrics != nil {
		s.metrics.CounterSetsLogged.Inc()
	}
	s.publish(ctx, events.New(events.TypeSetLogged, studentID, map[string]any{
		"sessionId": ses.ID, "workoutExerciseId": we.ID, "setNumber": in.SetNumber, "completed": completed,
	}))
	return result, nil
}

func exerciseIndex(workout *domain.Workout, id primitive.ObjectID) int {
	for i := range workout.Exercises {
		if workout.Exercises[i].ID == id {
			return i
		}
	}
	return -1
}

func replaySetEvent(t *session.Tracker, in SetUpdate) error {
	exercise, set := t.Current(), in.SetNumber-1
	if in.Completed != nil {
		done, err := t.SetCompleted(exercise, set)
		if err != nil {
			return err
		}
		if done != *in.Completed {
			if _, err := t.ToggleSet(exercise, set); err != nil {
				return err
			}
		}
	}
	return t.UpdateSet(exercise, set, in.Weight, in.Reps)
}

// upsertSetLog returns the SetLog for setNumber, creating the exercise log and set as needed.
func upsertSetLog(ses *domain.WorkoutSession, workout *domain.Workout, we domain.WorkoutExercise, setNumber int) *domain.SetLog {
	logIdx := -1
	for i, el := range ses.ExerciseLogs {
		if el.WorkoutExerciseID == we.ID || (el.WorkoutExerciseID.IsZero() && el.ExerciseID == we.ExerciseID) {
			logIdx = i
			break
		}
	}
	if logIdx < 0 {
		order := len(ses.ExerciseLogs) + 1
		for i := range workout.Exercises {
			if workout.Exercises[i].ID == we.ID {
				order = i + 1
			}
		}
		ses.ExerciseLogs = append(ses.ExerciseLogs, domain.ExerciseLog{
			WorkoutExerciseID: we.ID,
			ExerciseID:        we.ExerciseID,
			Order:             order,
		})
		logIdx = len(ses.ExerciseLogs) - 1
	}

	el := &ses.ExerciseLogs[logIdx]
	el.WorkoutExerciseID = we.ID
	for i := range el.SetLogs {
		if el.SetLogs[i].SetNumber == setNumber {
			return &el.SetLogs[i]
		}
	}
	el.SetLogs = append(el.SetLogs, domain.SetLog{SetNumber: setNumber})
	return &el.SetLogs[len(el.SetLogs)-1]
}

func (s *studentService) FinishSession(ctx context.Context, studentID, sessionID primitive.ObjectID, notes string) (*SessionView, error) {
	return s.closeSession(ctx, studentID, sessionID, domain.SessionCompleted, notes)
}

func (s *studentService) SkipSession(ctx context.Context, studentID, sessionID primitive.ObjectID, notes string) (*SessionView, error) {
	return s.closeSession(ctx, studentID, sessionID, domain.SessionSkipped, notes)
}

func (s *studentService) closeSession(ctx context.Context, studentID, sessionID primitive.ObjectID, status domain.SessionStatus, notes string) (*SessionView, error) {
	ses, workout, err := s.ownedSession(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	if ses.Status == domain.SessionCompleted || ses.Status == domain.SessionSkipped {
		return nil, ErrSessionClosed
	}

	now := s.now().UTC()
	ses.Status = status
	ses.EndedAt = &now
	if notes != "" {
		ses.Notes = notes
	}
	if err := s.sessionRepo.Update(ctx, ses); err != nil {
		return nil, storeErr(err, ErrSessionNotFound)
	}

	view := newSessionView(ses, workout)
	if s.metrics != nil {
		s.metrics.CounterSessionsEnded.WithLabelValues(string(status)).Inc()
	}
	s.invalidate(ctx, studentID)

	eventType := events.TypeSessionCompleted
	if status == domain.SessionSkipped {
		eventType = events.TypeSessionSkipped
	}
	s.publish(ctx, events.New(eventType, studentID, map[string]any{
		"sessionId": ses.ID, "workoutId": ses.WorkoutID, "completedSets": view.CompletedSets, "totalSets": view.TotalSets,
	}))
	return view, nil
}

func (s *studentService) ListSessions(ctx context.Context, studentID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	sessions, err := s.sessionRepo.GetByStudentID(ctx, studentID, time.Time{})
	return sessions, storeErr(err, nil)
}

func (s *studentService) GetPersonalRecords(ctx context.Context, studentID primitive.ObjectID) ([]RecordView, error) {
	sessions, err := s.sessionRepo.GetByStudentID(ctx, studentID, time.Time{})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	records := progress.BestSets(sessions)
	out := make([]RecordView, 0, len(records))
	for _, r := range records {
		view := RecordView{PersonalRecord: r}
		exercise, err := s.exerciseRepo.GetByID(ctx, r.ExerciseID)
		switch {
		case err == nil:
			view.ExerciseName = exercise.Name
		case errors.Is(err, repository.ErrNotFound):
			// deleted from the library
		default:
			return nil, storeErr(err, nil)
		}
		out = append(out, view)
	}
	return out, nil
}
