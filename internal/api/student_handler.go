package api

import (
	"context"
	"net/http"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentHandler serves the student-facing screens.
type StudentHandler struct {
	studentService service.StudentService
}

func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// --- DTOs ---

type ToggleMealRequest struct {
	Date string `json:"date"` // "YYYY-MM-DD", defaults to today
}

type StartSessionRequest struct {
	WorkoutID primitive.ObjectID `json:"workoutId" binding:"required"`
	Date      string             `json:"date"`
}

// UpdateSetRequest is one set event. Omitted fields keep their stored value.
type UpdateSetRequest struct {
	WorkoutExerciseID primitive.ObjectID `json:"workoutExerciseId" binding:"required"`
	SetNumber         int                `json:"setNumber" binding:"required,min=1"`
	Completed         *bool              `json:"completed"`
	Weight            *float64           `json:"weight" binding:"omitempty,min=0"`
	Reps              *int               `json:"reps" binding:"omitempty,min=0"`
	SetType           domain.SetType     `json:"setType" binding:"omitempty,oneof=WARM WORK FEED DROP FIN"`
}

type CloseSessionRequest struct {
	Notes string `json:"notes"`
}

type LogProgressRequest struct {
	Date          string   `json:"date"`
	CurrentWeight float64  `json:"currentWeight" binding:"required,gt=0"`
	StartWeight   *float64 `json:"startWeight" binding:"omitempty,gt=0"`
	GoalWeight    *float64 `json:"goalWeight" binding:"omitempty,gt=0"`
	BMI           *float64 `json:"imc" binding:"omitempty,gt=0"`
	BodyFat       *float64 `json:"bodyFat" binding:"omitempty,min=0,max=100"`
	Notes         string   `json:"notes"`
}

// --- Diet ---

// GetActiveDiet godoc
// @Summary The active diet plan with totals, consumption and adherence for a day
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} service.DietDayView
// @Failure 404 {object} gin.H "No active diet plan"
// @Router /student/diet [get]
func (h *StudentHandler) GetActiveDiet(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.studentService.GetActiveDiet(c.Request.Context(), studentID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleMeal godoc
// @Summary Flip a meal between eaten and not eaten for a day
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param mealId path string true "Meal ID"
// @Param body body ToggleMealRequest false "Day"
// @Success 200 {object} service.DietDayView
// @Router /student/diet/meals/{mealId}/toggle [post]
func (h *StudentHandler) ToggleMeal(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}
	var req ToggleMealRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	view, err := h.studentService.ToggleMeal(c.Request.Context(), studentID, mealID, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// --- Training ---

// GetMyPlans godoc
// @Summary The student's training plans with their workouts
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PlanWithWorkouts
// @Router /student/plans [get]
func (h *StudentHandler) GetMyPlans(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	plans, err := h.studentService.GetMyPlans(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if plans == nil {
		plans = []service.PlanWithWorkouts{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetMyWorkouts godoc
// @Summary Workouts of one of the student's plans
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {array} domain.Workout
// @Router /student/plans/{planId}/workouts [get]
func (h *StudentHandler) GetMyWorkouts(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	workouts, err := h.studentService.GetMyWorkouts(c.Request.Context(), studentID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}

// --- Sessions ---

// StartSession godoc
// @Summary Start a workout session
// @Tags Student Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body StartSessionRequest true "Workout to perform"
// @Success 201 {object} service.SessionView
// @Router /student/sessions [post]
func (h *StudentHandler) StartSession(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.studentService.StartSession(c.Request.Context(), studentID, req.WorkoutID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession godoc
// @Summary A session expanded into one slot per prescribed set
// @Tags Student Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} service.SessionView
// @Router /student/sessions/{sessionId} [get]
func (h *StudentHandler) GetSession(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "sessionId")
	if !ok {
		return
	}
	view, err := h.studentService.GetSession(c.Request.Context(), studentID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateSet godoc
// @Summary Persist one set event
// @Description Completing a set returns the rest timer in seconds.
// @Tags Student Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param set body UpdateSetRequest true "Set event"
// @Success 200 {object} service.SetUpdateResult
// @Failure 400 {object} gin.H "Set number outside the prescription"
// @Failure 409 {object} gin.H "Session already closed"
// @Router /student/sessions/{sessionId}/sets [patch]
func (h *StudentHandler) UpdateSet(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "sessionId")
	if !ok {
		return
	}
	var req UpdateSetRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.studentService.UpdateSet(c.Request.Context(), studentID, sessionID, service.SetUpdate{
		WorkoutExerciseID: req.WorkoutExerciseID,
		SetNumber:         req.SetNumber,
		Completed:         req.Completed,
		Weight:            req.Weight,
		Reps:              req.Reps,
		SetType:           req.SetType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// FinishSession godoc
// @Summary Mark a session completed
// @Tags Student Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param body body CloseSessionRequest false "Notes"
// @Success 200 {object} service.SessionView
// @Router /student/sessions/{sessionId}/finish [post]
func (h *StudentHandler) FinishSession(c *gin.Context) {
	h.closeSession(c, h.studentService.FinishSession)
}

// SkipSession godoc
// @Summary Mark a session skipped
// @Tags Student Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param body body CloseSessionRequest false "Notes"
// @Success 200 {object} service.SessionView
// @Router /student/sessions/{sessionId}/skip [post]
func (h *StudentHandler) SkipSession(c *gin.Context) {
	h.closeSession(c, h.studentService.SkipSession)
}

type closeFunc func(ctx context.Context, studentID, sessionID primitive.ObjectID, notes string) (*service.SessionView, error)

func (h *StudentHandler) closeSession(c *gin.Context, end closeFunc) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "sessionId")
	if !ok {
		return
	}
	var req CloseSessionRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	view, err := end(c.Request.Context(), studentID, sessionID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListSessions godoc
// @Summary Session history, newest first
// @Tags Student Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutSession
// @Router /student/sessions [get]
func (h *StudentHandler) ListSessions(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	sessions, err := h.studentService.ListSessions(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if sessions == nil {
		sessions = []domain.WorkoutSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

// GetPersonalRecords godoc
// @Summary Heaviest working set per exercise
// @Tags Student Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.RecordView
// @Router /student/records [get]
func (h *StudentHandler) GetPersonalRecords(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	records, err := h.studentService.GetPersonalRecords(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []service.RecordView{}
	}
	c.JSON(http.StatusOK, records)
}

// --- Progress ---

// LogProgress godoc
// @Summary Record a body progress entry
// @Description BMI is derived from the profile height when omitted.
// @Tags Student Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LogProgressRequest true "Progress entry"
// @Success 201 {object} domain.ProgressLog
// @Router /student/progress [post]
func (h *StudentHandler) LogProgress(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	var req LogProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.studentService.LogProgress(c.Request.Context(), studentID, service.ProgressInput{
		Date:          date,
		CurrentWeight: req.CurrentWeight,
		StartWeight:   req.StartWeight,
		GoalWeight:    req.GoalWeight,
		BMI:           req.BMI,
		BodyFat:       req.BodyFat,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetProgressSummary godoc
// @Summary Progress history with weight trend and BMI category
// @Tags Student Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProgressSummary
// @Router /student/progress [get]
func (h *StudentHandler) GetProgressSummary(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	summary, err := h.studentService.GetProgressSummary(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetDashboard godoc
// @Summary Landing summary
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Router /student/dashboard [get]
func (h *StudentHandler) GetDashboard(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	dash, err := h.studentService.GetDashboard(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=0")
	c.JSON(http.StatusOK, dash)
}
