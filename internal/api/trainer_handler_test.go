package api

import (
	"net/http"
	"testing"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTrainerHandler_AddStudentByEmail(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"Added", nil, http.StatusOK},
		{"Unknown", service.ErrStudentNotFound, http.StatusNotFound},
		{"NotAStudent", service.ErrStudentNotRole, http.StatusForbidden},
		{"AlreadyAssigned", service.ErrStudentAlreadyAssigned, http.StatusConflict},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var ts *testServer
			stub := &stubTrainer{
				addStudent: func(trainerID primitive.ObjectID, email string) (*domain.User, error) {
					assert.Equal(t, ts.trainerID, trainerID)
					assert.Equal(t, "ana@example.com", email)
					if tc.err != nil {
						return nil, tc.err
					}
					return &domain.User{ID: ts.studentID, Name: "Ana", Email: email, Role: domain.RoleStudent, TrainerID: &trainerID}, nil
				},
			}
			ts = newTestServer(Services{Trainer: stub})

			rr := ts.do(t, http.MethodPost, "/api/v1/trainer/students", "trainer", map[string]string{"studentEmail": "ana@example.com"})
			require.Equal(t, tc.status, rr.Code)
			if tc.err == nil {
				resp := decode[UserResponse](t, rr)
				assert.Equal(t, ts.studentID.Hex(), resp.ID)
				require.NotNil(t, resp.TrainerID)
				assert.Equal(t, ts.trainerID.Hex(), *resp.TrainerID)
			}
		})
	}
}

func TestTrainerHandler_AddStudentByEmail_InvalidEmail(t *testing.T) {
	ts := newTestServer(Services{Trainer: &stubTrainer{}})

	rr := ts.do(t, http.MethodPost, "/api/v1/trainer/students", "trainer", map[string]string{"studentEmail": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTrainerHandler_CreateDietPlan(t *testing.T) {
	rice := primitive.NewObjectID()
	var got service.DietPlanInput
	var ts *testServer
	stub := &stubTrainer{
		createDiet: func(trainerID, studentID primitive.ObjectID, in service.DietPlanInput) (*service.DietPlanView, error) {
			assert.Equal(t, ts.trainerID, trainerID)
			assert.Equal(t, ts.studentID, studentID)
			got = in
			return &service.DietPlanView{Name: in.Name, Totals: domain.Macros{Calories: 260}}, nil
		},
	}
	ts = newTestServer(Services{Trainer: stub})

	rr := ts.do(t, http.MethodPost, "/api/v1/trainer/students/"+ts.studentID.Hex()+"/diets", "trainer", map[string]any{
		"name":      "Lean",
		"goal":      "CUT",
		"startDate": "2024-03-01",
		"endDate":   "2024-04-01",
		"isActive":  true,
		"meals": []map[string]any{{
			"name": "Lunch",
			"time": "12:30",
			"foodItems": []map[string]any{
				{"foodItemId": rice.Hex(), "quantity": 200, "unit": "g"},
			},
		}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	assert.Equal(t, domain.GoalCutting, got.Goal)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.StartDate)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), got.EndDate)
	assert.True(t, got.IsActive)
	require.Len(t, got.Meals, 1)
	require.Len(t, got.Meals[0].FoodItems, 1)
	assert.Equal(t, rice, got.Meals[0].FoodItems[0].FoodItemID)
	assert.Equal(t, 200.0, got.Meals[0].FoodItems[0].Quantity)

	assert.Equal(t, 260.0, decode[service.DietPlanView](t, rr).Totals.Calories)
}

func TestTrainerHandler_CreateDietPlan_BadInput(t *testing.T) {
	testCases := []struct {
		name string
		body map[string]any
	}{
		{"BadDate", map[string]any{"name": "Lean", "goal": "CUT", "startDate": "01/03/2024", "endDate": "2024-04-01"}},
		{"UnknownGoal", map[string]any{"name": "Lean", "goal": "KETO", "startDate": "2024-03-01", "endDate": "2024-04-01"}},
		{"MissingName", map[string]any{"goal": "CUT", "startDate": "2024-03-01", "endDate": "2024-04-01"}},
		{"MealWithoutName", map[string]any{"name": "Lean", "goal": "CUT", "startDate": "2024-03-01", "endDate": "2024-04-01", "meals": []map[string]any{{"time": "08:00"}}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(Services{Trainer: &stubTrainer{}})

			rr := ts.do(t, http.MethodPost, "/api/v1/trainer/students/"+ts.studentID.Hex()+"/diets", "trainer", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestTrainerHandler_CreateDietPlan_ServiceValidation(t *testing.T) {
	stub := &stubTrainer{
		createDiet: func(primitive.ObjectID, primitive.ObjectID, service.DietPlanInput) (*service.DietPlanView, error) {
			return nil, service.ErrStudentNotManaged
		},
	}
	ts := newTestServer(Services{Trainer: stub})

	rr := ts.do(t, http.MethodPost, "/api/v1/trainer/students/"+ts.studentID.Hex()+"/diets", "trainer", map[string]any{
		"name": "Lean", "goal": "MAINT", "startDate": "2024-03-01", "endDate": "2024-04-01",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, service.ErrStudentNotManaged.Error(), errorBody(t, rr))
}
