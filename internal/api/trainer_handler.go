package api

import (
	"fmt"
	"net/http"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dateLayout is the calendar-day format used in requests and query strings.
const dateLayout = "2006-01-02"

type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs for Student Management ---
type AddStudentRequest struct {
	StudentEmail string `json:"studentEmail" binding:"required,email"`
}

// --- DTOs for Training Plans ---

type TrainingPlanRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Goal        domain.TrainingGoal `json:"goal" binding:"required,oneof=STR HYP END WL GEN"`
	StartDate   string              `json:"startDate"` // "YYYY-MM-DD"
	EndDate     string              `json:"endDate"`
	IsActive    bool                `json:"isActive"`
}

type WorkoutExerciseRequest struct {
	ExerciseID primitive.ObjectID `json:"exerciseId" binding:"required"`
	Sets       int                `json:"sets" binding:"required,min=1"`
	Reps       int                `json:"reps" binding:"min=0"`
	RestTime   string             `json:"restTime"` // "HH:MM:SS" or "MM:SS"
	Notes      string             `json:"notes"`
}

type WorkoutRequest struct {
	Name      string                   `json:"name" binding:"required"`
	DayOfWeek *int                     `json:"dayOfWeek" binding:"omitempty,min=0,max=6"`
	Sequence  int                      `json:"sequence" binding:"min=0"`
	Exercises []WorkoutExerciseRequest `json:"exercises" binding:"dive"`
}

func (r WorkoutRequest) input() service.WorkoutInput {
	in := service.WorkoutInput{
		Name:      r.Name,
		DayOfWeek: r.DayOfWeek,
		Sequence:  r.Sequence,
		Exercises: make([]service.WorkoutExerciseInput, len(r.Exercises)),
	}
	for i, e := range r.Exercises {
		in.Exercises[i] = service.WorkoutExerciseInput{
			ExerciseID: e.ExerciseID,
			Sets:       e.Sets,
			Reps:       e.Reps,
			RestTime:   e.RestTime,
			Notes:      e.Notes,
		}
	}
	return in
}

// parseOptionalDate parses a "YYYY-MM-DD" string; empty input yields nil.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%s must be formatted as YYYY-MM-DD", field)
	}
	return &t, nil
}

// --- Handler Methods for Student Management ---

// AddStudentByEmail godoc
// @Summary Add a student to the trainer's roster by email
// @Description Associates an existing student user with the authenticated trainer.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentRequest body AddStudentRequest true "Student's email"
// @Success 200 {object} UserResponse "Student successfully added"
// @Failure 403 {object} gin.H "User is not a student"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 409 {object} gin.H "Student already has a trainer"
// @Router /trainer/students [post]
func (h *TrainerHandler) AddStudentByEmail(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	var req AddStudentRequest
	if !bindJSON(c, &req) {
		return
	}

	student, err := h.trainerService.AddStudentByEmail(c.Request.Context(), trainerID, req.StudentEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(student))
}

// GetManagedStudents godoc
// @Summary Get the trainer's managed students
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse "List of managed students"
// @Router /trainer/students [get]
func (h *TrainerHandler) GetManagedStudents(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	students, err := h.trainerService.GetManagedStudents(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(students))
}

// RemoveStudent godoc
// @Summary Remove a student from the roster
// @Tags Trainer
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 204 "Removed"
// @Failure 403 {object} gin.H "Student not managed by this trainer"
// @Router /trainer/students/{studentId} [delete]
func (h *TrainerHandler) RemoveStudent(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	if err := h.trainerService.RemoveStudent(c.Request.Context(), trainerID, studentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStudentOverview godoc
// @Summary Progress, diet and session completion of one student
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} service.StudentOverview
// @Router /trainer/students/{studentId}/overview [get]
func (h *TrainerHandler) GetStudentOverview(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	overview, err := h.trainerService.GetStudentOverview(c.Request.Context(), trainerID, studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// --- Handler Methods for Training Plan Management ---

// CreateTrainingPlan godoc
// @Summary Create a new training plan for a student
// @Tags Trainer Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student's ObjectID Hex"
// @Param planRequest body TrainingPlanRequest true "Training Plan details"
// @Success 201 {object} domain.TrainingPlan
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Student not managed by this trainer"
// @Router /trainer/students/{studentId}/plans [post]
func (h *TrainerHandler) CreateTrainingPlan(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	var req TrainingPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	start, err := parseOptionalDate("startDate", req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseOptionalDate("endDate", req.EndDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.trainerService.CreateTrainingPlan(c.Request.Context(), trainerID, studentID, service.TrainingPlanInput{
		Name:        req.Name,
		Description: req.Description,
		Goal:        req.Goal,
		StartDate:   start,
		EndDate:     end,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetTrainingPlansForStudent godoc
// @Summary Get training plans for a specific student
// @Tags Trainer Plans
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student's ObjectID Hex"
// @Success 200 {array} domain.TrainingPlan
// @Router /trainer/students/{studentId}/plans [get]
func (h *TrainerHandler) GetTrainingPlansForStudent(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	plans, err := h.trainerService.GetTrainingPlansForStudent(c.Request.Context(), trainerID, studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{} // Return empty JSON array, not null
	}
	c.JSON(http.StatusOK, plans)
}

// ActivateTrainingPlan godoc
// @Summary Make a plan the student's only active training plan
// @Tags Trainer Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} domain.TrainingPlan
// @Router /trainer/plans/{planId}/activate [post]
func (h *TrainerHandler) ActivateTrainingPlan(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	plan, err := h.trainerService.ActivateTrainingPlan(c.Request.Context(), trainerID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Handler Methods for Workout Management ---

// CreateWorkout godoc
// @Summary Add a workout to a training plan
// @Tags Trainer Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param workout body WorkoutRequest true "Workout with its ordered exercises"
// @Success 201 {object} domain.Workout
// @Failure 404 {object} gin.H "Plan or exercise not found"
// @Router /trainer/plans/{planId}/workouts [post]
func (h *TrainerHandler) CreateWorkout(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.trainerService.AddWorkoutToPlan(c.Request.Context(), trainerID, planID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// GetWorkoutsForPlan godoc
// @Summary List the workouts of a plan in sequence order
// @Tags Trainer Workouts
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {array} domain.Workout
// @Router /trainer/plans/{planId}/workouts [get]
func (h *TrainerHandler) GetWorkoutsForPlan(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	workouts, err := h.trainerService.GetWorkoutsForPlan(c.Request.Context(), trainerID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}

// UpdateWorkout godoc
// @Summary Replace a workout's details and exercises
// @Tags Trainer Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param workout body WorkoutRequest true "Workout with its ordered exercises"
// @Success 200 {object} domain.Workout
// @Router /trainer/workouts/{workoutId} [put]
func (h *TrainerHandler) UpdateWorkout(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.trainerService.UpdateWorkout(c.Request.Context(), trainerID, workoutID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Tags Trainer Workouts
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 204 "Deleted"
// @Router /trainer/workouts/{workoutId} [delete]
func (h *TrainerHandler) DeleteWorkout(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	if err := h.trainerService.DeleteWorkout(c.Request.Context(), trainerID, workoutID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
