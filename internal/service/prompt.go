package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
)

// MealCalorieTargets is the per-slot split of a daily calorie target:
// 25% breakfast, 35% lunch, 30% dinner, 10% snack, each rounded to the
// nearest integer independently.
type MealCalorieTargets struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Snack     int `json:"snack"`
}

func SplitCalorieTarget(target int) MealCalorieTargets {
	t := float64(target)
	return MealCalorieTargets{
		Breakfast: int(math.Round(0.25 * t)),
		Lunch:     int(math.Round(0.35 * t)),
		Dinner:    int(math.Round(0.30 * t)),
		Snack:     int(math.Round(0.10 * t)),
	}
}

// ForMealType returns the slot target for the given meal type.
func (t MealCalorieTargets) ForMealType(mealType string) int {
	switch mealType {
	case models.MealTypeBreakfast:
		return t.Breakfast
	case models.MealTypeLunch:
		return t.Lunch
	case models.MealTypeDinner:
		return t.Dinner
	case models.MealTypeSnack:
		return t.Snack
	}
	return 0
}

// CandidateRecipe is a catalog recipe enriched with the user and community
// signals the model needs to make an informed pick.
type CandidateRecipe struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	MealType           string   `json:"meal_type"`
	Calories           float64  `json:"calories"`
	ProteinG           float64  `json:"protein_g"`
	DietaryTags        []string `json:"dietary_tags"`
	PrepTimeMins       int      `json:"prep_time_mins"`
	IsFavorite         bool     `json:"is_favorite"`
	IsHighRated        bool     `json:"is_high_rated"`
	UserHasCooked      bool     `json:"user_has_cooked"`
	CommunityFavorites int      `json:"community_favorites"`
	CommunityAvgRating float64  `json:"community_avg_rating"`
}

// EnrichCandidates attaches user and community signals to each recipe.
func EnrichCandidates(recipes []models.Recipe, uc *UserContext, trends map[uuid.UUID]CommunityTrend) []CandidateRecipe {
	out := make([]CandidateRecipe, 0, len(recipes))
	for _, r := range recipes {
		trend := trends[r.ID]
		out = append(out, CandidateRecipe{
			ID:                 r.ID.String(),
			Name:               r.Name,
			MealType:           r.MealType,
			Calories:           r.Calories,
			ProteinG:           r.ProteinG,
			DietaryTags:        r.DietaryTags,
			PrepTimeMins:       r.PrepTimeMins,
			IsFavorite:         uc.Signals.FavoriteRecipeIDs[r.ID],
			IsHighRated:        uc.Signals.HighRatedRecipeIDs[r.ID],
			UserHasCooked:      uc.Signals.CookedRecipeIDs[r.ID],
			CommunityFavorites: trend.FavoriteCount,
			CommunityAvgRating: trend.AvgRating,
		})
	}
	return out
}

// BuildMealPlanPrompt serializes profile, behavior and the enriched
// candidate set into the weekly plan instruction. Every fact is a computed
// value, not a description.
func BuildMealPlanPrompt(uc *UserContext, calorieTarget int, targets MealCalorieTargets, candidatesByMeal map[string][]CandidateRecipe) string {
	profile := uc.Profile

	favoriteNames := make([]string, 0, len(uc.FavoriteRecipes))
	for _, r := range uc.FavoriteRecipes {
		favoriteNames = append(favoriteNames, r.Name)
	}

	var b strings.Builder
	b.WriteString("Create a 7-day meal plan for this user.\n\n")
	b.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&b, "- Dietary preferences: %s\n", joinOrNone(profile.DietaryPreferences))
	fmt.Fprintf(&b, "- Disliked ingredients: %s\n", joinOrNone(profile.DislikedIngredients))
	fmt.Fprintf(&b, "- Health goal: %s\n", valueOrNone(profile.HealthGoal))
	fmt.Fprintf(&b, "- Daily calorie target: %d kcal\n", calorieTarget)
	fmt.Fprintf(&b, "- Per-meal calorie targets: breakfast %d, lunch %d, dinner %d, snack %d kcal\n\n",
		targets.Breakfast, targets.Lunch, targets.Dinner, targets.Snack)

	b.WriteString("USER BEHAVIOR:\n")
	fmt.Fprintf(&b, "- Favorite recipes: %s\n", joinOrNone(favoriteNames))
	fmt.Fprintf(&b, "- Recipes rated 4+ stars: %d\n", len(uc.Signals.HighRatedRecipeIDs))
	fmt.Fprintf(&b, "- Distinct recipes cooked: %d\n\n", len(uc.Signals.CookedRecipeIDs))

	b.WriteString("CANDIDATE RECIPES BY MEAL TYPE (pick ids only from these):\n")
	for _, mt := range models.MealTypes {
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(mt))
		data, _ := json.Marshal(candidatesByMeal[mt])
		b.Write(data)
		b.WriteString("\n")
	}

	b.WriteString("\nRULES:\n")
	b.WriteString("1. Return exactly 7 days.\n")
	b.WriteString("2. Every day must have all 4 meal slots populated: breakfast, lunch, dinner, snack.\n")
	b.WriteString("3. Use only recipe ids from the candidate lists above.\n")
	b.WriteString("4. Do not repeat any recipe more than twice across the week.\n")
	fmt.Fprintf(&b, "5. Keep each meal within %d kcal of its per-meal target.\n", planMealTolerance)
	b.WriteString("6. Prefer favorites, high-rated and community-popular recipes where they fit.\n")

	return b.String()
}

// BuildRecommendationPrompt asks the model to pick the best meal-swap
// alternatives from an already-prioritized candidate list.
func BuildRecommendationPrompt(uc *UserContext, mealType string, targetCalories float64, candidates []CandidateRecipe, max int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pick the %d best %s alternatives for this user, best first.\n\n", max, mealType)
	fmt.Fprintf(&b, "Target calories for this meal: %.0f kcal (tolerance ±%d).\n", targetCalories, recommendTolerance)
	fmt.Fprintf(&b, "Dietary preferences: %s\n", joinOrNone(uc.Profile.DietaryPreferences))
	fmt.Fprintf(&b, "Health goal: %s\n\n", valueOrNone(uc.Profile.HealthGoal))
	b.WriteString("CANDIDATES (already filtered and prioritized; pick ids only from these):\n")
	data, _ := json.Marshal(candidates)
	b.Write(data)
	b.WriteString("\n\nReturn the chosen recipe ids in ranked order with a short reasoning.")
	return b.String()
}

// BuildDiscoverPrompt asks the model for personalized discovery picks.
func BuildDiscoverPrompt(uc *UserContext, candidates []CandidateRecipe, max int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommend up to %d recipes this user should try next, best first.\n\n", max)
	fmt.Fprintf(&b, "Dietary preferences: %s\n", joinOrNone(uc.Profile.DietaryPreferences))
	fmt.Fprintf(&b, "Disliked ingredients: %s\n", joinOrNone(uc.Profile.DislikedIngredients))
	fmt.Fprintf(&b, "Health goal: %s\n", valueOrNone(uc.Profile.HealthGoal))
	fmt.Fprintf(&b, "Daily calorie target: %d kcal\n", uc.Profile.DailyCalorieTarget)
	fmt.Fprintf(&b, "Favorites count: %d\n\n", len(uc.Signals.FavoriteRecipeIDs))
	b.WriteString("CANDIDATES (pick ids only from these):\n")
	data, _ := json.Marshal(candidates)
	b.Write(data)
	b.WriteString("\n\nReturn the recommended recipe ids in ranked order with a short reasoning.")
	return b.String()
}

// BuildSearchPrompt asks the model to translate a natural-language query
// into a structured filter specification. The model never picks recipes;
// its output is re-applied deterministically against the catalog.
func BuildSearchPrompt(query string) string {
	var b strings.Builder
	b.WriteString("Translate this recipe search query into a structured filter specification.\n\n")
	fmt.Fprintf(&b, "Query: %q\n\n", query)
	b.WriteString("Leave fields empty or zero when the query does not constrain them. ")
	b.WriteString("meal_type must be one of breakfast, lunch, dinner, snack or empty. ")
	b.WriteString("sortBy must be one of relevance, calories, protein, prepTime.")
	return b.String()
}

// SearchFilters is the deterministic second-pass query specification the
// model returns for natural-language search.
type SearchFilters struct {
	SearchTerms        []string `json:"searchTerms"`
	MealType           string   `json:"meal_type"`
	CuisineType        string   `json:"cuisine_type"`
	DietaryTags        []string `json:"dietary_tags"`
	IncludeIngredients []string `json:"includeIngredients"`
	ExcludeIngredients []string `json:"excludeIngredients"`
	MaxPrepTime        int      `json:"maxPrepTime"`
	MaxCalories        float64  `json:"maxCalories"`
	SortBy             string   `json:"sortBy"`
}

// MealPlanSchema is the response schema for weekly plan generation:
// exactly 7 days, all four slots per day, plus a reasoning string.
func MealPlanSchema() map[string]interface{} {
	day := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"day_name":            map[string]interface{}{"type": "string"},
			"breakfast_recipe_id": map[string]interface{}{"type": "string"},
			"lunch_recipe_id":     map[string]interface{}{"type": "string"},
			"dinner_recipe_id":    map[string]interface{}{"type": "string"},
			"snack_recipe_id":     map[string]interface{}{"type": "string"},
		},
		"required": []string{"day_name", "breakfast_recipe_id", "lunch_recipe_id", "dinner_recipe_id", "snack_recipe_id"},
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"days": map[string]interface{}{
				"type":     "array",
				"minItems": 7,
				"maxItems": 7,
				"items":    day,
			},
			"reasoning": map[string]interface{}{"type": "string"},
		},
		"required": []string{"days", "reasoning"},
	}
}

// RankedRecipeIDsSchema is the response schema for the flat ranked-list
// flows (meal-swap alternatives, discovery).
func RankedRecipeIDsSchema(max int) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"recipe_ids": map[string]interface{}{
				"type":     "array",
				"maxItems": max,
				"items":    map[string]interface{}{"type": "string"},
			},
			"reasoning": map[string]interface{}{"type": "string"},
		},
		"required": []string{"recipe_ids"},
	}
}

// SearchFiltersSchema is the response schema for natural-language search.
func SearchFiltersSchema() map[string]interface{} {
	stringArray := map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "string"},
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"searchTerms":        stringArray,
			"meal_type":          map[string]interface{}{"type": "string"},
			"cuisine_type":       map[string]interface{}{"type": "string"},
			"dietary_tags":       stringArray,
			"includeIngredients": stringArray,
			"excludeIngredients": stringArray,
			"maxPrepTime":        map[string]interface{}{"type": "integer"},
			"maxCalories":        map[string]interface{}{"type": "number"},
			"sortBy":             map[string]interface{}{"type": "string"},
		},
		"required": []string{"searchTerms", "sortBy"},
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func valueOrNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
