package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
)

func TestResolvePlanDaysRecomputesTotals(t *testing.T) {
	breakfast := testRecipe("oatmeal", models.MealTypeBreakfast, 300, nil, nil)
	lunch := testRecipe("salad", models.MealTypeLunch, 450, nil, nil)
	catalog := map[string]models.Recipe{
		breakfast.ID.String(): breakfast,
		lunch.ID.String():     lunch,
	}

	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	days := ResolvePlanDays([]llmPlanDay{{
		DayName:           "Monday",
		BreakfastRecipeID: breakfast.ID.String(),
		LunchRecipeID:     lunch.ID.String(),
		DinnerRecipeID:    "not-a-real-id",
		SnackRecipeID:     "",
	}}, catalog, weekStart)

	assert.Len(t, days, 1)
	day := days[0]
	assert.Equal(t, "Monday", day.DayName)
	assert.Equal(t, "2026-08-31", day.Date)
	// Unresolvable dinner and empty snack contribute 0, never an error.
	assert.Equal(t, 750.0, day.TotalCalories)
}

func TestResolvePlanDaysFillsDayNameAndDates(t *testing.T) {
	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	raw := make([]llmPlanDay, 7)
	days := ResolvePlanDays(raw, map[string]models.Recipe{}, weekStart)

	assert.Len(t, days, 7)
	assert.Equal(t, "Monday", days[0].DayName)
	assert.Equal(t, "Sunday", days[6].DayName)
	assert.Equal(t, "2026-08-31", days[0].Date)
	assert.Equal(t, "2026-09-06", days[6].Date)
}

func TestNextWeekStart(t *testing.T) {
	// A Friday: next Monday is three days later.
	friday := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-31", NextWeekStart(friday).Format("2006-01-02"))

	// A Monday rolls to the following Monday, never the same day.
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-09-07", NextWeekStart(monday).Format("2006-01-02"))
}

func TestApplySearchFiltersDeterministic(t *testing.T) {
	catalog := []models.Recipe{
		testRecipe("chicken curry", models.MealTypeDinner, 650, nil, []string{"chicken", "curry paste", "rice"}),
		testRecipe("veggie stir fry", models.MealTypeDinner, 400, []string{"vegan"}, []string{"broccoli", "tofu"}),
		testRecipe("pancakes", models.MealTypeBreakfast, 500, nil, []string{"flour", "eggs"}),
	}

	filters := SearchFilters{
		SearchTerms: []string{"chicken"},
		MealType:    models.MealTypeDinner,
	}

	first := ApplySearchFilters(catalog, filters)
	second := ApplySearchFilters(catalog, filters)
	assert.Equal(t, first, second)
	assert.Len(t, first, 1)
	assert.Equal(t, "chicken curry", first[0].Name)
}

func TestApplySearchFiltersSearchTermsMatchNameOrIngredient(t *testing.T) {
	byName := testRecipe("tofu scramble", models.MealTypeBreakfast, 350, nil, []string{"turmeric"})
	byIngredient := testRecipe("breakfast bowl", models.MealTypeBreakfast, 400, nil, []string{"tofu", "spinach"})
	neither := testRecipe("omelette", models.MealTypeBreakfast, 300, nil, []string{"eggs"})

	out := ApplySearchFilters([]models.Recipe{byName, byIngredient, neither}, SearchFilters{
		SearchTerms: []string{"tofu"},
	})
	assert.Len(t, out, 2)
}

func TestApplySearchFiltersIngredients(t *testing.T) {
	both := testRecipe("both", models.MealTypeDinner, 500, nil, []string{"chicken breast", "garlic", "lemon"})
	onlyOne := testRecipe("one", models.MealTypeDinner, 500, nil, []string{"chicken thigh"})

	// All includeIngredients must be present.
	out := ApplySearchFilters([]models.Recipe{both, onlyOne}, SearchFilters{
		IncludeIngredients: []string{"chicken", "garlic"},
	})
	assert.Len(t, out, 1)
	assert.Equal(t, "both", out[0].Name)

	// Any excludeIngredient removes the recipe.
	out = ApplySearchFilters([]models.Recipe{both, onlyOne}, SearchFilters{
		ExcludeIngredients: []string{"lemon"},
	})
	assert.Len(t, out, 1)
	assert.Equal(t, "one", out[0].Name)
}

func TestApplySearchFiltersNumericBounds(t *testing.T) {
	quick := testRecipe("quick", models.MealTypeLunch, 350, nil, nil)
	quick.PrepTimeMins = 10
	slow := testRecipe("slow", models.MealTypeLunch, 800, nil, nil)
	slow.PrepTimeMins = 45

	out := ApplySearchFilters([]models.Recipe{quick, slow}, SearchFilters{MaxPrepTime: 30})
	assert.Len(t, out, 1)
	assert.Equal(t, "quick", out[0].Name)

	out = ApplySearchFilters([]models.Recipe{quick, slow}, SearchFilters{MaxCalories: 400})
	assert.Len(t, out, 1)
	assert.Equal(t, "quick", out[0].Name)

	// Zero bounds are "no constraint".
	out = ApplySearchFilters([]models.Recipe{quick, slow}, SearchFilters{})
	assert.Len(t, out, 2)
}

func TestSortSearchResults(t *testing.T) {
	a := testRecipe("a", models.MealTypeLunch, 600, nil, nil)
	a.ProteinG = 20
	a.PrepTimeMins = 30
	b := testRecipe("b", models.MealTypeLunch, 400, nil, nil)
	b.ProteinG = 35
	b.PrepTimeMins = 10

	recipes := []models.Recipe{a, b}
	SortSearchResults(recipes, "calories")
	assert.Equal(t, "b", recipes[0].Name)

	recipes = []models.Recipe{a, b}
	SortSearchResults(recipes, "protein")
	assert.Equal(t, "b", recipes[0].Name)

	recipes = []models.Recipe{a, b}
	SortSearchResults(recipes, "prepTime")
	assert.Equal(t, "b", recipes[0].Name)

	// relevance keeps filter order.
	recipes = []models.Recipe{a, b}
	SortSearchResults(recipes, "relevance")
	assert.Equal(t, "a", recipes[0].Name)
}
