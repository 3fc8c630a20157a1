package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PlanDay is one day of a weekly plan. Recipe ids are strings as returned
// by the planner; the post-processor guarantees they resolve against the
// catalog (an unresolvable id contributes 0 to TotalCalories).
type PlanDay struct {
	DayName           string  `json:"day_name"`
	Date              string  `json:"date"`
	BreakfastRecipeID string  `json:"breakfast_recipe_id"`
	LunchRecipeID     string  `json:"lunch_recipe_id"`
	DinnerRecipeID    string  `json:"dinner_recipe_id"`
	SnackRecipeID     string  `json:"snack_recipe_id"`
	TotalCalories     float64 `json:"total_calories"`
}

// SlotID returns the recipe id for the given meal type.
func (d PlanDay) SlotID(mealType string) string {
	switch mealType {
	case MealTypeBreakfast:
		return d.BreakfastRecipeID
	case MealTypeLunch:
		return d.LunchRecipeID
	case MealTypeDinner:
		return d.DinnerRecipeID
	case MealTypeSnack:
		return d.SnackRecipeID
	}
	return ""
}

// PlanDays is stored as a JSONB array on the meal plan row.
type PlanDays []PlanDay

func (d PlanDays) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "[]", nil
	}
	return json.Marshal(d)
}

func (d *PlanDays) Scan(value interface{}) error {
	if value == nil {
		*d = PlanDays{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// MealPlan is one user's plan for the week starting WeekStartDate
// (YYYY-MM-DD, always a Monday). Days holds exactly 7 entries with all
// four slots populated.
type MealPlan struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	WeekStartDate string    `gorm:"size:10;not null" json:"week_start_date"`
	Days          PlanDays  `gorm:"type:jsonb;not null;default:'[]'" json:"days"`
}

func (MealPlan) TableName() string {
	return "meal_plans"
}
