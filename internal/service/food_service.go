package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrFoodItemNotFound = errors.New("food item not found")

type FoodItemInput struct {
	Name        string
	Description string
	Per100      domain.Macros
	Unit        string
	Category    domain.FoodCategory
}

// FoodService manages the shared food catalogue.
type FoodService interface {
	CreateFoodItem(ctx context.Context, in FoodItemInput) (*domain.FoodItem, error)
	ListFoodItems(ctx context.Context, search string, category domain.FoodCategory) ([]domain.FoodItem, error)
	GetFoodItem(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error)
}

type foodService struct {
	foodRepo repository.FoodItemRepository
}

func NewFoodService(foodRepo repository.FoodItemRepository) FoodService {
	return &foodService{foodRepo: foodRepo}
}

var foodCategories = map[domain.FoodCategory]bool{
	domain.FoodFruit: true, domain.FoodVegetable: true, domain.FoodGrain: true, domain.FoodProtein: true,
	domain.FoodDairy: true, domain.FoodFat: true, domain.FoodOther: true,
}

func validMacro(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *foodService) CreateFoodItem(ctx context.Context, in FoodItemInput) (*domain.FoodItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("food item name is required")
	}
	m := in.Per100
	if !validMacro(m.Calories) || !validMacro(m.Protein) || !validMacro(m.Carbs) || !validMacro(m.Fat) {
		return nil, invalid("nutrition values must be non-negative numbers")
	}
	if in.Category == "" {
		in.Category = domain.FoodOther
	}
	if !foodCategories[in.Category] {
		return nil, invalid("unknown food category %q", in.Category)
	}
	if in.Unit == "" {
		in.Unit = "g"
	}

	item := &domain.FoodItem{
		Name:        name,
		Description: in.Description,
		Per100:      m,
		Unit:        in.Unit,
		Category:    in.Category,
	}
	id, err := s.foodRepo.Create(ctx, item)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	item.ID = id
	return item, nil
}

func (s *foodService) ListFoodItems(ctx context.Context, search string, category domain.FoodCategory) ([]domain.FoodItem, error) {
	items, err := s.foodRepo.List(ctx, search, category)
	return items, storeErr(err, nil)
}

func (s *foodService) GetFoodItem(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error) {
	item, err := s.foodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrFoodItemNotFound)
	}
	return item, nil
}
