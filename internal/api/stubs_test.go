package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stubs embed the service interfaces so each test only implements the calls
// it exercises; anything else panics on the nil embedded value.

type stubAuth struct {
	service.AuthService
	tokens   map[string]*service.Claims
	register func(service.RegisterInput) (*domain.User, error)
}

func (s *stubAuth) ParseToken(token string) (*service.Claims, error) {
	if c, ok := s.tokens[token]; ok {
		return c, nil
	}
	return nil, service.ErrInvalidToken
}

func (s *stubAuth) Register(_ context.Context, in service.RegisterInput) (*domain.User, error) {
	return s.register(in)
}

type stubStudent struct {
	service.StudentService
	activeDiet func(studentID primitive.ObjectID, date string) (*service.DietDayView, error)
	updateSet  func(studentID, sessionID primitive.ObjectID, in service.SetUpdate) (*service.SetUpdateResult, error)
	finish     func(studentID, sessionID primitive.ObjectID, notes string) (*service.SessionView, error)
	sessions   []domain.WorkoutSession
}

func (s *stubStudent) GetActiveDiet(_ context.Context, studentID primitive.ObjectID, date string) (*service.DietDayView, error) {
	return s.activeDiet(studentID, date)
}

func (s *stubStudent) UpdateSet(_ context.Context, studentID, sessionID primitive.ObjectID, in service.SetUpdate) (*service.SetUpdateResult, error) {
	return s.updateSet(studentID, sessionID, in)
}

func (s *stubStudent) FinishSession(_ context.Context, studentID, sessionID primitive.ObjectID, notes string) (*service.SessionView, error) {
	return s.finish(studentID, sessionID, notes)
}

func (s *stubStudent) ListSessions(context.Context, primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return s.sessions, nil
}

type stubTrainer struct {
	service.TrainerService
	addStudent func(trainerID primitive.ObjectID, email string) (*domain.User, error)
	createDiet func(trainerID, studentID primitive.ObjectID, in service.DietPlanInput) (*service.DietPlanView, error)
	students   []domain.User
}

func (s *stubTrainer) AddStudentByEmail(_ context.Context, trainerID primitive.ObjectID, email string) (*domain.User, error) {
	return s.addStudent(trainerID, email)
}

func (s *stubTrainer) GetManagedStudents(context.Context, primitive.ObjectID) ([]domain.User, error) {
	return s.students, nil
}

func (s *stubTrainer) CreateDietPlan(_ context.Context, trainerID, studentID primitive.ObjectID, in service.DietPlanInput) (*service.DietPlanView, error) {
	return s.createDiet(trainerID, studentID, in)
}

type stubMessages struct {
	service.MessageService
	limit int
}

func (s *stubMessages) Conversation(_ context.Context, _, _ primitive.ObjectID, limit int) ([]domain.Message, error) {
	s.limit = limit
	return nil, nil
}

type stubPhotos struct {
	service.PhotoService
	requested domain.PhotoType
	err       error
}

func (s *stubPhotos) RequestUploadURL(_ context.Context, _ primitive.ObjectID, photoType domain.PhotoType, _ string) (*service.UploadURLResponse, error) {
	s.requested = photoType
	if s.err != nil {
		return nil, s.err
	}
	return &service.UploadURLResponse{UploadURL: "put://key", ObjectKey: "key", ExpiresAt: time.Unix(0, 0).UTC()}, nil
}

// testServer routes requests through SetupRoutes with a trainer token
// "trainer" and a student token "student".
type testServer struct {
	router    *gin.Engine
	trainerID primitive.ObjectID
	studentID primitive.ObjectID
}

func newTestServer(svc Services) *testServer {
	ts := &testServer{
		trainerID: primitive.NewObjectID(),
		studentID: primitive.NewObjectID(),
	}
	auth, ok := svc.Auth.(*stubAuth)
	if !ok || auth == nil {
		auth = &stubAuth{}
		svc.Auth = auth
	}
	auth.tokens = map[string]*service.Claims{
		"trainer": {UserID: ts.trainerID, Role: domain.RoleTrainer},
		"student": {UserID: ts.studentID, Role: domain.RoleStudent},
	}
	ts.router = gin.New()
	SetupRoutes(ts.router, svc)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rr)["error"]
}

