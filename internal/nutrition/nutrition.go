// Package nutrition rolls up calories and macronutrients from per-100-unit
// food data into meal and diet plan totals.
package nutrition

import (
	"math"

	"fitcoach/platform/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Table is a per-100-unit nutrition lookup keyed by food item id.
type Table map[primitive.ObjectID]domain.Macros

// TableFromFoods builds a Table from catalogue entries.
func TableFromFoods(foods []domain.FoodItem) Table {
	t := make(Table, len(foods))
	for _, f := range foods {
		t[f.ID] = f.Per100
	}
	return t
}

// Derive scales per-100-unit values by quantity/100.
// Malformed numbers (negative, NaN, ±Inf) contribute 0.
func Derive(per100 domain.Macros, quantity float64) domain.Macros {
	q := clean(quantity)
	if q == 0 {
		return domain.Macros{}
	}
	return domain.Macros{
		Calories: clean(per100.Calories) * q / 100,
		Protein:  clean(per100.Protein) * q / 100,
		Carbs:    clean(per100.Carbs) * q / 100,
		Fat:      clean(per100.Fat) * q / 100,
	}
}

// Add returns the element-wise sum of a and b.
func Add(a, b domain.Macros) domain.Macros {
	return domain.Macros{
		Calories: a.Calories + b.Calories,
		Protein:  a.Protein + b.Protein,
		Carbs:    a.Carbs + b.Carbs,
		Fat:      a.Fat + b.Fat,
	}
}

// EntryTotal is the nutrition of one meal entry. Unknown food ids yield zero.
func EntryTotal(entry domain.MealFoodEntry, table Table) domain.Macros {
	per100, ok := table[entry.FoodItemID]
	if !ok {
		return domain.Macros{}
	}
	return Derive(per100, entry.Quantity)
}

// MealTotal sums every entry of the meal.
func MealTotal(meal domain.Meal, table Table) domain.Macros {
	var total domain.Macros
	for _, e := range meal.FoodItems {
		total = Add(total, EntryTotal(e, table))
	}
	return total
}

// PlanTotal sums the totals of all meals. No meals means all zeros.
func PlanTotal(meals []domain.Meal, table Table) domain.Macros {
	return ConsumedTotal(meals, table, func(domain.Meal) bool { return true })
}

// ConsumedTotal sums only the meals for which consumed returns true.
func ConsumedTotal(meals []domain.Meal, table Table, consumed func(domain.Meal) bool) domain.Macros {
	var total domain.Macros
	for _, m := range meals {
		if consumed(m) {
			total = Add(total, MealTotal(m, table))
		}
	}
	return total
}

// Percent returns part/whole*100, or 0 when whole is not a positive finite number.
func Percent(part, whole float64) float64 {
	part, whole = clean(part), clean(whole)
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// Adherence is the consumed share of a plan per nutrient.
type Adherence struct {
	HasData  bool    `json:"hasData"` // false when the plan has no calories to track
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ComputeAdherence compares consumed against total.
func ComputeAdherence(consumed, total domain.Macros) Adherence {
	return Adherence{
		HasData:  clean(total.Calories) > 0,
		Calories: Percent(consumed.Calories, total.Calories),
		Protein:  Percent(consumed.Protein, total.Protein),
		Carbs:    Percent(consumed.Carbs, total.Carbs),
		Fat:      Percent(consumed.Fat, total.Fat),
	}
}

// Round rounds every field to one decimal place for display.
func Round(m domain.Macros) domain.Macros {
	r := func(v float64) float64 { return math.Round(v*10) / 10 }
	return domain.Macros{Calories: r(m.Calories), Protein: r(m.Protein), Carbs: r(m.Carbs), Fat: r(m.Fat)}
}

func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
