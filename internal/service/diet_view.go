package service

import (
	"context"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/nutrition"
	"fitcoach/platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// MealItemView is one food entry with its derived nutrition.
type MealItemView struct {
	FoodItemID primitive.ObjectID `json:"foodItemId"`
	FoodName   string             `json:"foodName,omitempty"` // empty when the food was removed from the catalogue
	Quantity   float64            `json:"quantity"`
	Unit       string             `json:"unit"`
	Macros     domain.Macros      `json:"macros"`
}

type MealView struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Time        string             `json:"time"`
	Description string             `json:"description,omitempty"`
	Items       []MealItemView     `json:"items"`
	Totals      domain.Macros      `json:"totals"`
	Consumed    bool               `json:"consumed"`
}

// DietPlanView is a diet plan with every total already computed.
type DietPlanView struct {
	ID             primitive.ObjectID  `json:"id"`
	StudentID      primitive.ObjectID  `json:"studentId"`
	TrainerID      *primitive.ObjectID `json:"trainerId,omitempty"`
	Name           string              `json:"name"`
	Goal           domain.DietGoal     `json:"goal"`
	Description    string              `json:"description,omitempty"`
	TargetCalories *int                `json:"targetCalories,omitempty"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	IsActive       bool                `json:"isActive"`
	Meals          []MealView          `json:"meals"`
	Totals         domain.Macros       `json:"totals"`
}

// DietDayView is the active plan as seen on one day, with consumption.
type DietDayView struct {
	DietPlanView
	Date      string              `json:"date"`
	Consumed  domain.Macros       `json:"consumed"`
	Adherence nutrition.Adherence `json:"adherence"`
}

// loadNutritionTable resolves the food items referenced by the plans.
func loadNutritionTable(ctx context.Context, foodRepo repository.FoodItemRepository, plans ...*domain.DietPlan) (nutrition.Table, map[primitive.ObjectID]string, error) {
	var ids []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, p := range plans {
		for _, id := range p.FoodItemIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	foods, err := foodRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, storeErr(err, nil)
	}
	names := make(map[primitive.ObjectID]string, len(foods))
	for _, f := range foods {
		names[f.ID] = f.Name
	}
	return nutrition.TableFromFoods(foods), names, nil
}

func newDietPlanView(plan *domain.DietPlan, table nutrition.Table, names map[primitive.ObjectID]string, consumed map[primitive.ObjectID]bool) DietPlanView {
	view := DietPlanView{
		ID:             plan.ID,
		StudentID:      plan.StudentID,
		TrainerID:      plan.TrainerID,
		Name:           plan.Name,
		Goal:           plan.Goal,
		Description:    plan.Description,
		TargetCalories: plan.TargetCalories,
		StartDate:      plan.StartDate,
		EndDate:        plan.EndDate,
		IsActive:       plan.IsActive,
		Meals:          make([]MealView, 0, len(plan.Meals)),
		Totals:         nutrition.Round(nutrition.PlanTotal(plan.Meals, table)),
	}
	for _, meal := range plan.Meals {
		mv := MealView{
			ID:          meal.ID,
			Name:        meal.Name,
			Time:        meal.Time,
			Description: meal.Description,
			Items:       make([]MealItemView, 0, len(meal.FoodItems)),
			Totals:      nutrition.Round(nutrition.MealTotal(meal, table)),
			Consumed:    consumed[meal.ID],
		}
		for _, entry := range meal.FoodItems {
			mv.Items = append(mv.Items, MealItemView{
				FoodItemID: entry.FoodItemID,
				FoodName:   names[entry.FoodItemID],
				Quantity:   entry.Quantity,
				Unit:       entry.Unit,
				Macros:     nutrition.Round(nutrition.EntryTotal(entry, table)),
			})
		}
		view.Meals = append(view.Meals, mv)
	}
	return view
}

func newDietDayView(plan *domain.DietPlan, table nutrition.Table, names map[primitive.ObjectID]string, date string, consumed map[primitive.ObjectID]bool) *DietDayView {
	total := nutrition.PlanTotal(plan.Meals, table)
	eaten := nutrition.ConsumedTotal(plan.Meals, table, func(m domain.Meal) bool { return consumed[m.ID] })
	return &DietDayView{
		DietPlanView: newDietPlanView(plan, table, names, consumed),
		Date:         date,
		Consumed:     nutrition.Round(eaten),
		Adherence:    nutrition.ComputeAdherence(eaten, total),
	}
}
