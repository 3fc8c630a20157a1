package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Meal type values used by Recipe.MealType and plan slots.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// MealTypes lists the four meal slots in plan order.
var MealTypes = []string{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
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

	return json.Unmarshal(bytes, a)
}

// Recipe is a catalog entry. The planning pipeline treats recipes as
// read-only input; they are created by users or the admin seed tooling.
type Recipe struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	Name         string           `gorm:"size:255;not null" json:"name"`
	MealType     string           `gorm:"size:20;not null;index" json:"meal_type"`
	Calories     float64          `gorm:"type:float" json:"calories"`
	ProteinG     float64          `gorm:"type:float" json:"protein_g"`
	CarbsG       float64          `gorm:"type:float" json:"carbs_g"`
	FatG         float64          `gorm:"type:float" json:"fat_g"`
	FiberG       float64          `gorm:"type:float" json:"fiber_g"`
	DietaryTags  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_tags"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	PrepTimeMins int              `json:"prep_time_mins"`
	CookTimeMins int              `json:"cook_time_mins"`
	CuisineType  string           `gorm:"size:50" json:"cuisine_type"`
	ImageURL     string           `gorm:"size:255" json:"image_url"`
	Embedding    pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
	CreatedBy    uuid.UUID        `gorm:"type:uuid" json:"created_by"`
}

func (Recipe) TableName() string {
	return "recipes"
}
