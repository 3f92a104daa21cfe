package service

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"fitcoach/platform/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MealInput struct {
	Name        string
	Time        string
	Description string
	FoodItems   []domain.MealFoodEntry
}

type DietPlanInput struct {
	Name           string
	Goal           domain.DietGoal
	Description    string
	TargetCalories *int
	StartDate      time.Time
	EndDate        time.Time
	IsActive       bool
	Meals          []MealInput
}

func (in DietPlanInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("diet plan name is required")
	}
	if !in.Goal.Valid() {
		return invalid("unknown diet goal %q", in.Goal)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return invalid("start and end dates are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return invalid("end date cannot be before start date")
	}
	if in.TargetCalories != nil && *in.TargetCalories < 0 {
		return invalid("target calories cannot be negative")
	}
	for i, m := range in.Meals {
		if strings.TrimSpace(m.Name) == "" {
			return invalid("meal %d: name is required", i+1)
		}
		if m.Time != "" {
			if _, err := time.Parse("15:04", m.Time); err != nil {
				return invalid("meal %d: time must be HH:MM", i+1)
			}
		}
		for j, e := range m.FoodItems {
			if e.FoodItemID.IsZero() {
				return invalid("meal %d item %d: food item is required", i+1, j+1)
			}
			if e.Quantity < 0 || math.IsNaN(e.Quantity) || math.IsInf(e.Quantity, 0) {
				return invalid("meal %d item %d: quantity must be a non-negative number", i+1, j+1)
			}
			if e.Unit != "" && !slices.Contains(domain.MealUnits, e.Unit) {
				return invalid("meal %d item %d: unknown unit %q", i+1, j+1, e.Unit)
			}
		}
	}
	return nil
}

// meals converts the input; existing meal ids are reused by position so
// registrations made against the plan survive edits.
func (in DietPlanInput) meals(existing []domain.Meal) []domain.Meal {
	out := make([]domain.Meal, 0, len(in.Meals))
	for i, m := range in.Meals {
		items := make([]domain.MealFoodEntry, 0, len(m.FoodItems))
		for _, e := range m.FoodItems {
			if e.Unit == "" {
				e.Unit = "g"
			}
			items = append(items, e)
		}
		meal := domain.Meal{
			Name:        strings.TrimSpace(m.Name),
			Time:        m.Time,
			Description: m.Description,
			FoodItems:   items,
		}
		if i < len(existing) {
			meal.ID = existing[i].ID
		}
		out = append(out, meal)
	}
	return out
}

// requireFoods fails when a referenced food item is not in the catalogue.
func (s *trainerService) requireFoods(ctx context.Context, plan *domain.DietPlan) error {
	ids := plan.FoodItemIDs()
	if len(ids) == 0 {
		return nil
	}
	foods, err := s.foodRepo.GetByIDs(ctx, ids)
	if err != nil {
		return storeErr(err, nil)
	}
	if len(foods) != len(ids) {
		return ErrFoodItemNotFound
	}
	return nil
}

func (s *trainerService) CreateDietPlan(ctx context.Context, trainerID, studentID primitive.ObjectID, in DietPlanInput) (*DietPlanView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.requireStudent(ctx, trainerID, studentID); err != nil {
		return nil, err
	}

	plan := &domain.DietPlan{
		StudentID:      studentID,
		TrainerID:      &trainerID,
		Name:           strings.TrimSpace(in.Name),
		Goal:           in.Goal,
		Description:    in.Description,
		TargetCalories: in.TargetCalories,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		IsActive:       in.IsActive,
		Meals:          in.meals(nil),
	}
	if err := s.requireFoods(ctx, plan); err != nil {
		return nil, err
	}
	id, err := s.dietRepo.Create(ctx, plan)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	plan.ID = id
	s.invalidate(ctx, studentID)
	return s.view(ctx, plan)
}

func (s *trainerService) UpdateDietPlan(ctx context.Context, trainerID, planID primitive.ObjectID, in DietPlanInput) (*DietPlanView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	plan, err := s.ownedDietPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}

	plan.Name = strings.TrimSpace(in.Name)
	plan.Goal = in.Goal
	plan.Description = in.Description
	plan.TargetCalories = in.TargetCalories
	plan.StartDate = in.StartDate
	plan.EndDate = in.EndDate
	plan.Meals = in.meals(plan.Meals)
	if err := s.requireFoods(ctx, plan); err != nil {
		return nil, err
	}
	if err := s.dietRepo.Update(ctx, plan); err != nil {
		return nil, storeErr(err, ErrDietPlanNotFound)
	}
	s.invalidate(ctx, plan.StudentID)
	return s.view(ctx, plan)
}

// GetDietPlansForStudent lists every plan of the student with totals. Foods are
// resolved once for all plans.
func (s *trainerService) GetDietPlansForStudent(ctx context.Context, trainerID, studentID primitive.ObjectID) ([]DietPlanView, error) {
	if _, err := s.requireStudent(ctx, trainerID, studentID); err != nil {
		return nil, err
	}
	plans, err := s.dietRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	ptrs := make([]*domain.DietPlan, len(plans))
	for i := range plans {
		ptrs[i] = &plans[i]
	}
	table, names, err := loadNutritionTable(ctx, s.foodRepo, ptrs...)
	if err != nil {
		return nil, err
	}
	views := make([]DietPlanView, 0, len(plans))
	for _, p := range ptrs {
		views = append(views, newDietPlanView(p, table, names, nil))
	}
	return views, nil
}

func (s *trainerService) GetDietPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*DietPlanView, error) {
	plan, err := s.ownedDietPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, plan)
}

func (s *trainerService) ActivateDietPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*DietPlanView, error) {
	plan, err := s.ownedDietPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}
	if err := s.dietRepo.Activate(ctx, plan.StudentID, plan.ID); err != nil {
		return nil, storeErr(err, ErrDietPlanNotFound)
	}
	plan.IsActive = true
	s.invalidate(ctx, plan.StudentID)
	return s.view(ctx, plan)
}

func (s *trainerService) DeleteDietPlan(ctx context.Context, trainerID, planID primitive.ObjectID) error {
	plan, err := s.ownedDietPlan(ctx, trainerID, planID)
	if err != nil {
		return err
	}
	if err := s.dietRepo.Delete(ctx, planID, trainerID); err != nil {
		return storeErr(err, ErrDietPlanNotFound)
	}
	s.invalidate(ctx, plan.StudentID)
	return nil
}

func (s *trainerService) ownedDietPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*domain.DietPlan, error) {
	plan, err := s.dietRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, storeErr(err, ErrDietPlanNotFound)
	}
	if plan.TrainerID == nil || *plan.TrainerID != trainerID {
		return nil, ErrAccessDenied
	}
	return plan, nil
}

func (s *trainerService) view(ctx context.Context, plan *domain.DietPlan) (*DietPlanView, error) {
	table, names, err := loadNutritionTable(ctx, s.foodRepo, plan)
	if err != nil {
		return nil, err
	}
	v := newDietPlanView(plan, table, names, nil)
	return &v, nil
}
