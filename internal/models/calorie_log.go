package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LoggedMeal is one entry in a day's food log. RecipeID stays a string
// because logged meals may reference recipes that were later deleted.
type LoggedMeal struct {
	MealType  string  `json:"meal_type"`
	RecipeID  string  `json:"recipe_id"`
	Calories  float64 `json:"calories"`
	Completed bool    `json:"completed"`
}

// LoggedMeals is stored as a JSONB array on the calorie log row.
type LoggedMeals []LoggedMeal

func (m LoggedMeals) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "[]", nil
	}
	return json.Marshal(m)
}

func (m *LoggedMeals) Scan(value interface{}) error {
	if value == nil {
		*m = LoggedMeals{}
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

	return json.Unmarshal(bytes, m)
}

// CalorieLog is one user's food log for one date (YYYY-MM-DD).
type CalorieLog struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Date        string      `gorm:"size:10;not null;index" json:"date"`
	MealsLogged LoggedMeals `gorm:"type:jsonb;not null;default:'[]'" json:"meals_logged"`
}

func (CalorieLog) TableName() string {
	return "calorie_logs"
}
