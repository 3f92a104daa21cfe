package api

import (
	"net/http"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/service"

	"github.com/gin-gonic/gin"
)

// FoodHandler exposes the shared food catalogue.
type FoodHandler struct {
	foodService service.FoodService
}

func NewFoodHandler(foodService service.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

type CreateFoodItemRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Per100      domain.Macros       `json:"per100"`
	Unit        string              `json:"unit" binding:"omitempty,oneof=g oz ml cup slice unit"`
	Category    domain.FoodCategory `json:"category" binding:"required"`
}

// CreateFoodItem godoc
// @Summary Add a food item to the catalogue
// @Tags Foods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param food body CreateFoodItemRequest true "Nutrition per 100 units"
// @Success 201 {object} domain.FoodItem
// @Failure 409 {object} gin.H "A food with this name exists"
// @Router /trainer/foods [post]
func (h *FoodHandler) CreateFoodItem(c *gin.Context) {
	var req CreateFoodItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.foodService.CreateFoodItem(c.Request.Context(), service.FoodItemInput{
		Name:        req.Name,
		Description: req.Description,
		Per100:      req.Per100,
		Unit:        req.Unit,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListFoodItems godoc
// @Summary Search the food catalogue
// @Tags Foods
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name fragment"
// @Param category query string false "Category code"
// @Success 200 {array} domain.FoodItem
// @Router /trainer/foods [get]
func (h *FoodHandler) ListFoodItems(c *gin.Context) {
	items, err := h.foodService.ListFoodItems(c.Request.Context(), c.Query("search"), domain.FoodCategory(c.Query("category")))
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []domain.FoodItem{}
	}
	c.JSON(http.StatusOK, items)
}

// GetFoodItem godoc
// @Summary Get one food item
// @Tags Foods
// @Produce json
// @Security BearerAuth
// @Param foodId path string true "Food item ID"
// @Success 200 {object} domain.FoodItem
// @Router /trainer/foods/{foodId} [get]
func (h *FoodHandler) GetFoodItem(c *gin.Context) {
	foodID, ok := pathID(c, "foodId")
	if !ok {
		return
	}
	item, err := h.foodService.GetFoodItem(c.Request.Context(), foodID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
