package types

import "github.com/markbryceit/eatwell.ai-sub000/internal/models"

// RegisterRequest carries signup plus onboarding data. Dietary data is
// collected up front so the planner has a profile to work from.
type RegisterRequest struct {
	Name                string   `json:"name" binding:"required"`
	Email               string   `json:"email" binding:"required,email"`
	Password            string   `json:"password" binding:"required,min=8"`
	Username            string   `json:"username" binding:"required"`
	DietaryPreferences  []string `json:"dietary_preferences"`
	DislikedIngredients []string `json:"disliked_ingredients"`
	HealthGoal          string   `json:"health_goal"`
	DailyCalorieTarget  int      `json:"daily_calorie_target"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest updates onboarding/check-in fields. Pointer fields
// distinguish "not sent" from "cleared".
type UpdateProfileRequest struct {
	Username            string    `json:"username"`
	DietaryPreferences  *[]string `json:"dietary_preferences"`
	DislikedIngredients *[]string `json:"disliked_ingredients"`
	HealthGoal          *string   `json:"health_goal"`
	DailyCalorieTarget  *int      `json:"daily_calorie_target"`
}

type CreateRecipeRequest struct {
	Name         string   `json:"name" binding:"required"`
	MealType     string   `json:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	Calories     float64  `json:"calories" binding:"min=0"`
	ProteinG     float64  `json:"protein_g"`
	CarbsG       float64  `json:"carbs_g"`
	FatG         float64  `json:"fat_g"`
	FiberG       float64  `json:"fiber_g"`
	DietaryTags  []string `json:"dietary_tags"`
	Ingredients  []string `json:"ingredients" binding:"required"`
	PrepTimeMins int      `json:"prep_time_mins"`
	CookTimeMins int      `json:"cook_time_mins"`
	CuisineType  string   `json:"cuisine_type"`
}

type UpdateRecipeRequest struct {
	Name         string   `json:"name"`
	MealType     string   `json:"meal_type"`
	Calories     *float64 `json:"calories"`
	ProteinG     *float64 `json:"protein_g"`
	CarbsG       *float64 `json:"carbs_g"`
	FatG         *float64 `json:"fat_g"`
	FiberG       *float64 `json:"fiber_g"`
	DietaryTags  []string `json:"dietary_tags"`
	Ingredients  []string `json:"ingredients"`
	PrepTimeMins *int     `json:"prep_time_mins"`
	CookTimeMins *int     `json:"cook_time_mins"`
	CuisineType  string   `json:"cuisine_type"`
}

type RateRecipeRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

type LogMealRequest struct {
	Date      string  `json:"date" binding:"required"`
	MealType  string  `json:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	RecipeID  string  `json:"recipe_id" binding:"required"`
	Calories  float64 `json:"calories"`
	Completed bool    `json:"completed"`
}

// GeneratePlanRequest triggers the weekly meal plan pipeline.
type GeneratePlanRequest struct {
	CalorieTarget int `json:"calorie_target" binding:"required,min=1"`
}

// RecommendationsRequest asks for meal-swap alternatives for one slot.
type RecommendationsRequest struct {
	TargetCalories   float64  `json:"target_calories" binding:"required,min=1"`
	MealType         string   `json:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	ExcludeRecipeIDs []string `json:"exclude_recipe_ids"`
}

// SearchRequest is a natural-language recipe search query.
type SearchRequest struct {
	Query string `json:"query"`
}

type SavePlanRequest struct {
	WeekStartDate string          `json:"week_start_date" binding:"required"`
	Days          []models.PlanDay `json:"days" binding:"required"`
}
