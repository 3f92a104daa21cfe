package api

import (
	"net/http"
	"testing"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/nutrition"
	"fitcoach/platform/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStudentHandler_GetActiveDiet(t *testing.T) {
	var gotStudent primitive.ObjectID
	var gotDate string
	stub := &stubStudent{
		activeDiet: func(studentID primitive.ObjectID, date string) (*service.DietDayView, error) {
			gotStudent, gotDate = studentID, date
			return &service.DietDayView{
				DietPlanView: service.DietPlanView{Name: "Cut", Totals: domain.Macros{Calories: 2000}},
				Date:         date,
				Consumed:     domain.Macros{Calories: 500},
				Adherence:    nutrition.Adherence{Calories: 25, HasData: true},
			}, nil
		},
	}
	ts := newTestServer(Services{Student: stub})

	rr := ts.do(t, http.MethodGet, "/api/v1/student/diet?date=2024-03-15", "student", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ts.studentID, gotStudent)
	assert.Equal(t, "2024-03-15", gotDate)

	view := decode[service.DietDayView](t, rr)
	assert.Equal(t, "Cut", view.Name)
	assert.Equal(t, 500.0, view.Consumed.Calories)
	assert.True(t, view.Adherence.HasData)
}

func TestStudentHandler_GetActiveDiet_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"NoActivePlan", service.ErrNoActiveDietPlan, http.StatusNotFound},
		{"BadDate", service.ErrInvalidDate, http.StatusBadRequest},
		{"StoreDown", service.ErrUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubStudent{
				activeDiet: func(primitive.ObjectID, string) (*service.DietDayView, error) { return nil, tc.err },
			}
			ts := newTestServer(Services{Student: stub})

			rr := ts.do(t, http.MethodGet, "/api/v1/student/diet", "student", nil)
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestStudentHandler_UpdateSet(t *testing.T) {
	sessionID := primitive.NewObjectID()
	weID := primitive.NewObjectID()
	var got service.SetUpdate
	stub := &stubStudent{
		updateSet: func(studentID, sid primitive.ObjectID, in service.SetUpdate) (*service.SetUpdateResult, error) {
			require.Equal(t, sessionID, sid)
			got = in
			return &service.SetUpdateResult{Completed: true, RestSeconds: 90, Session: &service.SessionView{ID: sid}}, nil
		},
	}
	ts := newTestServer(Services{Student: stub})

	rr := ts.do(t, http.MethodPatch, "/api/v1/student/sessions/"+sessionID.Hex()+"/sets", "student", map[string]any{
		"workoutExerciseId": weID.Hex(),
		"setNumber":         2,
		"completed":         true,
		"weight":            62.5,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, weID, got.WorkoutExerciseID)
	assert.Equal(t, 2, got.SetNumber)
	require.NotNil(t, got.Completed)
	assert.True(t, *got.Completed)
	require.NotNil(t, got.Weight)
	assert.Equal(t, 62.5, *got.Weight)
	assert.Nil(t, got.Reps)

	res := decode[service.SetUpdateResult](t, rr)
	assert.Equal(t, 90, res.RestSeconds)
	assert.Equal(t, sessionID, res.Session.ID)
}

func TestStudentHandler_UpdateSet_Rejections(t *testing.T) {
	sessionID := primitive.NewObjectID()
	weID := primitive.NewObjectID().Hex()

	testCases := []struct {
		name    string
		body    map[string]any
		err     error
		status  int
		reaches bool
	}{
		{name: "MissingSetNumber", body: map[string]any{"workoutExerciseId": weID}, status: http.StatusBadRequest},
		{name: "MissingExercise", body: map[string]any{"setNumber": 1}, status: http.StatusBadRequest},
		{name: "NegativeWeight", body: map[string]any{"workoutExerciseId": weID, "setNumber": 1, "weight": -5}, status: http.StatusBadRequest},
		{name: "UnknownSetType", body: map[string]any{"workoutExerciseId": weID, "setNumber": 1, "setType": "MAX"}, status: http.StatusBadRequest},
		{name: "SetOutOfRange", body: map[string]any{"workoutExerciseId": weID, "setNumber": 9}, err: service.ErrInvalidSetNumber, status: http.StatusBadRequest, reaches: true},
		{name: "SessionClosed", body: map[string]any{"workoutExerciseId": weID, "setNumber": 1}, err: service.ErrSessionClosed, status: http.StatusConflict, reaches: true},
		{name: "NotInWorkout", body: map[string]any{"workoutExerciseId": weID, "setNumber": 1}, err: service.ErrWorkoutExerciseNotFound, status: http.StatusNotFound, reaches: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			stub := &stubStudent{
				updateSet: func(primitive.ObjectID, primitive.ObjectID, service.SetUpdate) (*service.SetUpdateResult, error) {
					called = true
					return nil, tc.err
				},
			}
			ts := newTestServer(Services{Student: stub})

			rr := ts.do(t, http.MethodPatch, "/api/v1/student/sessions/"+sessionID.Hex()+"/sets", "student", tc.body)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.reaches, called)
		})
	}
}

func TestStudentHandler_FinishSession(t *testing.T) {
	sessionID := primitive.NewObjectID()
	var notes string
	stub := &stubStudent{
		finish: func(_, _ primitive.ObjectID, n string) (*service.SessionView, error) {
			notes = n
			return &service.SessionView{ID: sessionID, Status: domain.SessionCompleted}, nil
		},
	}
	ts := newTestServer(Services{Student: stub})

	rr := ts.do(t, http.MethodPost, "/api/v1/student/sessions/"+sessionID.Hex()+"/finish", "student", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, notes)

	rr = ts.do(t, http.MethodPost, "/api/v1/student/sessions/"+sessionID.Hex()+"/finish", "student", map[string]string{"notes": "felt strong"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "felt strong", notes)
	assert.Equal(t, domain.SessionCompleted, decode[service.SessionView](t, rr).Status)
}

func TestStudentHandler_ListSessions_EmptyArray(t *testing.T) {
	ts := newTestServer(Services{Student: &stubStudent{}})

	rr := ts.do(t, http.MethodGet, "/api/v1/student/sessions", "student", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
