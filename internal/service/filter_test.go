package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
)

func testRecipe(name, mealType string, calories float64, tags, ingredients []string) models.Recipe {
	return models.Recipe{
		ID:          uuid.New(),
		Name:        name,
		MealType:    mealType,
		Calories:    calories,
		DietaryTags: models.JSONBStringArray(tags),
		Ingredients: models.JSONBStringArray(ingredients),
	}
}

func TestFilterRecipesMealType(t *testing.T) {
	recipes := []models.Recipe{
		testRecipe("oatmeal", models.MealTypeBreakfast, 300, nil, nil),
		testRecipe("salad", models.MealTypeLunch, 400, nil, nil),
	}

	out := FilterRecipes(recipes, FilterCriteria{MealType: models.MealTypeLunch})
	assert.Len(t, out, 1)
	assert.Equal(t, "salad", out[0].Name)
}

func TestFilterRecipesExcludeIDs(t *testing.T) {
	a := testRecipe("a", models.MealTypeDinner, 500, nil, nil)
	b := testRecipe("b", models.MealTypeDinner, 550, nil, nil)

	out := FilterRecipes([]models.Recipe{a, b}, FilterCriteria{
		ExcludeIDs: map[uuid.UUID]bool{a.ID: true},
	})
	assert.Len(t, out, 1)
	assert.Equal(t, b.ID, out[0].ID)
}

func TestFilterRecipesDietaryPreferences(t *testing.T) {
	vegan := testRecipe("tofu bowl", models.MealTypeDinner, 500, []string{"Vegan", "High-Protein"}, nil)
	meaty := testRecipe("steak", models.MealTypeDinner, 700, []string{"High-Protein"}, nil)
	recipes := []models.Recipe{vegan, meaty}

	out := FilterRecipes(recipes, FilterCriteria{DietaryPreferences: []string{"vegan"}})
	assert.Len(t, out, 1)
	assert.Equal(t, "tofu bowl", out[0].Name)

	// Empty preferences pass everything.
	out = FilterRecipes(recipes, FilterCriteria{})
	assert.Len(t, out, 2)

	// "No Restrictions" disables dietary filtering entirely.
	out = FilterRecipes(recipes, FilterCriteria{DietaryPreferences: []string{"No Restrictions"}})
	assert.Len(t, out, 2)
}

func TestFilterRecipesDislikedIngredients(t *testing.T) {
	mushroomy := testRecipe("risotto", models.MealTypeDinner, 600, nil, []string{"arborio rice", "Mushrooms", "parmesan"})
	plain := testRecipe("pasta", models.MealTypeDinner, 550, nil, []string{"pasta", "tomato"})

	out := FilterRecipes([]models.Recipe{mushroomy, plain}, FilterCriteria{
		DislikedIngredients: []string{"mushroom"},
	})
	assert.Len(t, out, 1)
	assert.Equal(t, "pasta", out[0].Name)
}

func TestFilterRecipesCalorieWindow(t *testing.T) {
	low := testRecipe("snack", models.MealTypeSnack, 150, nil, nil)
	mid := testRecipe("bar", models.MealTypeSnack, 200, nil, nil)
	high := testRecipe("shake", models.MealTypeSnack, 420, nil, nil)

	window := WindowAround(200, 100)
	out := FilterRecipes([]models.Recipe{low, mid, high}, FilterCriteria{Window: &window})
	assert.Len(t, out, 2)

	// Window bounds are inclusive.
	edge := testRecipe("edge", models.MealTypeSnack, 300, nil, nil)
	out = FilterRecipes([]models.Recipe{edge}, FilterCriteria{Window: &window})
	assert.Len(t, out, 1)
}

func TestFilterRecipesPreservesOrder(t *testing.T) {
	recipes := []models.Recipe{
		testRecipe("first", models.MealTypeLunch, 400, nil, nil),
		testRecipe("second", models.MealTypeLunch, 450, nil, nil),
		testRecipe("third", models.MealTypeLunch, 500, nil, nil),
	}

	out := FilterRecipes(recipes, FilterCriteria{MealType: models.MealTypeLunch})
	assert.Equal(t, []string{"first", "second", "third"}, []string{out[0].Name, out[1].Name, out[2].Name})
}

// Adding criteria never grows the result set.
func TestFilterRecipesMonotonic(t *testing.T) {
	recipes := []models.Recipe{
		testRecipe("a", models.MealTypeLunch, 400, []string{"vegan"}, []string{"rice"}),
		testRecipe("b", models.MealTypeLunch, 800, nil, []string{"peanut"}),
		testRecipe("c", models.MealTypeDinner, 500, []string{"vegan"}, nil),
	}

	loose := FilterRecipes(recipes, FilterCriteria{MealType: models.MealTypeLunch})
	window := WindowAround(450, 100)
	tight := FilterRecipes(recipes, FilterCriteria{
		MealType:            models.MealTypeLunch,
		DietaryPreferences:  []string{"vegan"},
		DislikedIngredients: []string{"peanut"},
		Window:              &window,
	})
	assert.LessOrEqual(t, len(tight), len(loose))
	for _, r := range tight {
		assert.Contains(t, loose, r)
	}
}

func TestMatchesDietaryCaseInsensitiveSubstring(t *testing.T) {
	r := testRecipe("bowl", models.MealTypeLunch, 400, []string{"Gluten-Free Friendly"}, nil)
	assert.True(t, MatchesDietary(r, []string{"gluten-free"}))
	assert.False(t, MatchesDietary(r, []string{"vegan"}))
}
