package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

// UserProfile holds the onboarding data the planning pipeline reads:
// dietary preferences, disliked ingredients, health goal and the daily
// calorie target. One profile per user; created during registration.
type UserProfile struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID              uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Username            string           `gorm:"size:50;not null;uniqueIndex" json:"username"`
	DietaryPreferences  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_preferences"`
	DislikedIngredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"disliked_ingredients"`
	HealthGoal          string           `gorm:"size:50" json:"health_goal"`
	DailyCalorieTarget  int              `json:"daily_calorie_target"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	DeletedAt           gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
