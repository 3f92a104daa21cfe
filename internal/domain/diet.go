package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Macros holds calories and the three macronutrients (grams).
// On a FoodItem the values are per 100 units.
type Macros struct {
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fat      float64 `bson:"fat" json:"fat"`
}

// FoodCategory groups food items in the catalogue.
type FoodCategory string

const (
	FoodFruit     FoodCategory = "FRT"
	FoodVegetable FoodCategory = "VEG"
	FoodGrain     FoodCategory = "GRN"
	FoodProtein   FoodCategory = "PRN"
	FoodDairy     FoodCategory = "DRY"
	FoodFat       FoodCategory = "FAT"
	FoodOther     FoodCategory = "OTH"
)

// FoodItem is immutable reference nutrition data.
type FoodItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"` // Unique
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Per100      Macros             `bson:"per100" json:"per100"`
	Unit        string             `bson:"unit" json:"unit"` // Canonical unit the per-100 values refer to
	Category    FoodCategory       `bson:"category" json:"category"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// DietGoal is the objective of a diet plan.
type DietGoal string

const (
	GoalBulking     DietGoal = "BUK"
	GoalCutting     DietGoal = "CUT"
	GoalMaintenance DietGoal = "MAINT"
)

func (g DietGoal) Valid() bool {
	return g == GoalBulking || g == GoalCutting || g == GoalMaintenance
}

// Units accepted on a meal entry.
var MealUnits = []string{"g", "oz", "ml", "cup", "slice", "unit"}

// MealFoodEntry references a FoodItem with a quantity.
type MealFoodEntry struct {
	FoodItemID primitive.ObjectID `bson:"foodItemId" json:"foodItemId"`
	Quantity   float64            `bson:"quantity" json:"quantity"`
	Unit       string             `bson:"unit" json:"unit"`
}

// Meal is one eating occasion inside a diet plan.
type Meal struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Time        string             `bson:"time" json:"time"` // "HH:MM"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	FoodItems   []MealFoodEntry    `bson:"foodItems" json:"foodItems"`
}

// DietPlan is a set of meals prescribed to a student.
type DietPlan struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	StudentID      primitive.ObjectID  `bson:"studentId" json:"studentId"`
	TrainerID      *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	Name           string              `bson:"name" json:"name"`
	Goal           DietGoal            `bson:"goal" json:"goal"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	TargetCalories *int                `bson:"targetCalories,omitempty" json:"targetCalories,omitempty"`
	StartDate      time.Time           `bson:"startDate" json:"startDate"`
	EndDate        time.Time           `bson:"endDate" json:"endDate"`
	IsActive       bool                `bson:"isActive" json:"isActive"`
	Meals          []Meal              `bson:"meals" json:"meals"` // Ordered
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// FoodItemIDs returns the distinct food ids referenced by the plan.
func (p *DietPlan) FoodItemIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, m := range p.Meals {
		for _, e := range m.FoodItems {
			if _, ok := seen[e.FoodItemID]; ok {
				continue
			}
			seen[e.FoodItemID] = struct{}{}
			ids = append(ids, e.FoodItemID)
		}
	}
	return ids
}

// MealRegistration records that a student ate a meal on a given day.
type MealRegistration struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DietPlanID primitive.ObjectID `bson:"dietPlanId" json:"dietPlanId"`
	MealID     primitive.ObjectID `bson:"mealId" json:"mealId"`
	StudentID  primitive.ObjectID `bson:"studentId" json:"studentId"`
	Date       string             `bson:"date" json:"date"` // "2006-01-02"; unique with mealId
	ConsumedAt time.Time          `bson:"consumedAt" json:"consumedAt"`
}
