package api

import (
	"net/http"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/service"

	"github.com/gin-gonic/gin"
)

type MealRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Time        string                 `json:"time"` // "HH:MM"
	Description string                 `json:"description"`
	FoodItems   []domain.MealFoodEntry `json:"foodItems"`
}

type DietPlanRequest struct {
	Name           string          `json:"name" binding:"required"`
	Goal           domain.DietGoal `json:"goal" binding:"required,oneof=BUK CUT MAINT"`
	Description    string          `json:"description"`
	TargetCalories *int            `json:"targetCalories" binding:"omitempty,min=0"`
	StartDate      string          `json:"startDate" binding:"required"` // "YYYY-MM-DD"
	EndDate        string          `json:"endDate" binding:"required"`
	IsActive       bool            `json:"isActive"`
	Meals          []MealRequest   `json:"meals" binding:"dive"`
}

// bindDietPlan binds and converts a diet plan body, aborting with 400 on failure.
func bindDietPlan(c *gin.Context) (service.DietPlanInput, bool) {
	var req DietPlanRequest
	if !bindJSON(c, &req) {
		return service.DietPlanInput{}, false
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "startDate must be formatted as YYYY-MM-DD")
		return service.DietPlanInput{}, false
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "endDate must be formatted as YYYY-MM-DD")
		return service.DietPlanInput{}, false
	}

	in := service.DietPlanInput{
		Name:           req.Name,
		Goal:           req.Goal,
		Description:    req.Description,
		TargetCalories: req.TargetCalories,
		StartDate:      start,
		EndDate:        end,
		IsActive:       req.IsActive,
		Meals:          make([]service.MealInput, len(req.Meals)),
	}
	for i, m := range req.Meals {
		in.Meals[i] = service.MealInput{
			Name:        m.Name,
			Time:        m.Time,
			Description: m.Description,
			FoodItems:   m.FoodItems,
		}
	}
	return in, true
}

// CreateDietPlan godoc
// @Summary Create a diet plan for a student
// @Description Meals reference catalogue foods; totals are derived per 100 units.
// @Tags Trainer Diets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param plan body DietPlanRequest true "Diet plan with meals"
// @Success 201 {object} service.DietPlanView
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Student not managed by this trainer"
// @Router /trainer/students/{studentId}/diets [post]
func (h *TrainerHandler) CreateDietPlan(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	in, ok := bindDietPlan(c)
	if !ok {
		return
	}
	view, err := h.trainerService.CreateDietPlan(c.Request.Context(), trainerID, studentID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetDietPlansForStudent godoc
// @Summary List a student's diet plans with totals
// @Tags Trainer Diets
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {array} service.DietPlanView
// @Router /trainer/students/{studentId}/diets [get]
func (h *TrainerHandler) GetDietPlansForStudent(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	views, err := h.trainerService.GetDietPlansForStudent(c.Request.Context(), trainerID, studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if views == nil {
		views = []service.DietPlanView{}
	}
	c.JSON(http.StatusOK, views)
}

// GetDietPlan godoc
// @Summary Get one diet plan with totals
// @Tags Trainer Diets
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Diet plan ID"
// @Success 200 {object} service.DietPlanView
// @Router /trainer/diets/{planId} [get]
func (h *TrainerHandler) GetDietPlan(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	view, err := h.trainerService.GetDietPlan(c.Request.Context(), trainerID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateDietPlan godoc
// @Summary Replace a diet plan's details and meals
// @Tags Trainer Diets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Diet plan ID"
// @Param plan body DietPlanRequest true "Diet plan with meals"
// @Success 200 {object} service.DietPlanView
// @Router /trainer/diets/{planId} [put]
func (h *TrainerHandler) UpdateDietPlan(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	in, ok := bindDietPlan(c)
	if !ok {
		return
	}
	view, err := h.trainerService.UpdateDietPlan(c.Request.Context(), trainerID, planID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ActivateDietPlan godoc
// @Summary Make a plan the student's only active diet
// @Tags Trainer Diets
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Diet plan ID"
// @Success 200 {object} service.DietPlanView
// @Router /trainer/diets/{planId}/activate [post]
func (h *TrainerHandler) ActivateDietPlan(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	view, err := h.trainerService.ActivateDietPlan(c.Request.Context(), trainerID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteDietPlan godoc
// @Summary Delete a diet plan
// @Tags Trainer Diets
// @Security BearerAuth
// @Param planId path string true "Diet plan ID"
// @Success 204 "Deleted"
// @Router /trainer/diets/{planId} [delete]
func (h *TrainerHandler) DeleteDietPlan(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	if err := h.trainerService.DeleteDietPlan(c.Request.Context(), trainerID, planID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
