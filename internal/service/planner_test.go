package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/markbryceit/eatwell.ai-sub000/internal/mocks"
	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
	"github.com/markbryceit/eatwell.ai-sub000/internal/service"
	"github.com/markbryceit/eatwell.ai-sub000/internal/testhelpers"
)

func newPlanner(db *gorm.DB, llm service.LLMInvoker) *service.PlannerService {
	return service.NewPlannerService(db, llm, service.NewSignalService(db), nil)
}

// seedWeekCatalog inserts one recipe per meal type and returns them keyed
// by meal type.
func seedWeekCatalog(t *testing.T, db *gorm.DB) map[string]models.Recipe {
	t.Helper()
	out := make(map[string]models.Recipe, len(models.MealTypes))
	calories := map[string]float64{
		models.MealTypeBreakfast: 500,
		models.MealTypeLunch:     700,
		models.MealTypeDinner:    600,
		models.MealTypeSnack:     200,
	}
	for _, mt := range models.MealTypes {
		out[mt] = testhelpers.SeedRecipe(t, db, models.Recipe{
			Name:     mt + " dish",
			MealType: mt,
			Calories: calories[mt],
		})
	}
	return out
}

func planResponse(byMeal map[string]models.Recipe, days int) json.RawMessage {
	type day struct {
		DayName           string `json:"day_name"`
		BreakfastRecipeID string `json:"breakfast_recipe_id"`
		LunchRecipeID     string `json:"lunch_recipe_id"`
		DinnerRecipeID    string `json:"dinner_recipe_id"`
		SnackRecipeID     string `json:"snack_recipe_id"`
	}
	out := struct {
		Days      []day  `json:"days"`
		Reasoning string `json:"reasoning"`
	}{Reasoning: "balanced week"}
	for i := 0; i < days; i++ {
		out.Days = append(out.Days, day{
			BreakfastRecipeID: byMeal[models.MealTypeBreakfast].ID.String(),
			LunchRecipeID:     byMeal[models.MealTypeLunch].ID.String(),
			DinnerRecipeID:    byMeal[models.MealTypeDinner].ID.String(),
			SnackRecipeID:     byMeal[models.MealTypeSnack].ID.String(),
		})
	}
	data, _ := json.Marshal(out)
	return data
}

func TestGenerateMealPlan(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	byMeal := seedWeekCatalog(t, db)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{
		DietaryPreferences: models.JSONBStringArray{"No Restrictions"},
		HealthGoal:         "maintain",
		DailyCalorieTarget: 2000,
	})

	llm := &mocks.StubLLM{Response: planResponse(byMeal, 7)}
	planner := newPlanner(db, llm)

	result, err := planner.GenerateMealPlan(context.Background(), userID, 2000)
	require.NoError(t, err)

	assert.Len(t, result.Days, 7)
	assert.Equal(t, 2000, result.CalorieTarget)
	assert.Equal(t, "balanced week", result.Reasoning)
	assert.Equal(t, "maintain", result.UserPreferencesApplied.HealthGoal)
	for i, d := range result.Days {
		assert.NotEmpty(t, d.DayName, "day %d", i)
		assert.NotEmpty(t, d.Date, "day %d", i)
		// Totals are recomputed from the catalog, not echoed by the model.
		assert.Equal(t, 2000.0, d.TotalCalories, "day %d", i)
	}

	// The prompt carried the candidate ids and the split targets.
	require.Len(t, llm.Prompts, 1)
	assert.Contains(t, llm.Prompts[0], byMeal[models.MealTypeLunch].ID.String())
	assert.Contains(t, llm.Prompts[0], "breakfast 500, lunch 700, dinner 600, snack 200")
}

func TestGenerateMealPlanUnresolvableIDContributesZero(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	byMeal := seedWeekCatalog(t, db)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{DailyCalorieTarget: 2000})

	raw := planResponse(byMeal, 7)
	// Corrupt every dinner slot with an id not in the catalog.
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	for _, d := range parsed["days"].([]interface{}) {
		d.(map[string]interface{})["dinner_recipe_id"] = uuid.New().String()
	}
	corrupted, _ := json.Marshal(parsed)

	planner := newPlanner(db, &mocks.StubLLM{Response: corrupted})
	result, err := planner.GenerateMealPlan(context.Background(), userID, 2000)
	require.NoError(t, err)

	for _, d := range result.Days {
		assert.Equal(t, 1400.0, d.TotalCalories)
	}
}

func TestGenerateMealPlanProfileNotFound(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	planner := newPlanner(db, &mocks.StubLLM{})

	_, err := planner.GenerateMealPlan(context.Background(), uuid.New(), 2000)
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}

func TestGenerateMealPlanWrongDayCount(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	byMeal := seedWeekCatalog(t, db)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{DailyCalorieTarget: 2000})

	planner := newPlanner(db, &mocks.StubLLM{Response: planResponse(byMeal, 5)})
	_, err := planner.GenerateMealPlan(context.Background(), userID, 2000)
	assert.ErrorContains(t, err, "expected 7")
}

func TestGenerateMealPlanUpstreamErrorSurfaces(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	seedWeekCatalog(t, db)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{DailyCalorieTarget: 2000})

	planner := newPlanner(db, &mocks.StubLLM{Err: fmt.Errorf("model overloaded")})
	_, err := planner.GenerateMealPlan(context.Background(), userID, 2000)
	assert.ErrorContains(t, err, "model overloaded")
}

func TestRecommendForMealSmallPoolSkipsModel(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{})
	fav := testhelpers.SeedRecipe(t, db, models.Recipe{Name: "fav lunch", MealType: models.MealTypeLunch, Calories: 650})
	other := testhelpers.SeedRecipe(t, db, models.Recipe{Name: "other lunch", MealType: models.MealTypeLunch, Calories: 700})
	testhelpers.SeedFavorite(t, db, userID, fav.ID)

	llm := &mocks.StubLLM{}
	planner := newPlanner(db, llm)

	result, err := planner.RecommendForMeal(context.Background(), userID, 700, models.MealTypeLunch, nil)
	require.NoError(t, err)

	// The favorite within the window leads; the pool pads it toward the
	// minimum. Five or fewer candidates never reach the model.
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, fav.ID, result.Recommendations[0].ID)
	assert.Equal(t, 2, result.TotalAvailable)
	assert.Contains(t, idsOfRecipes(result.Recommendations), other.ID)
	assert.Empty(t, llm.Prompts)
}

func TestRecommendForMealEverythingExcluded(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{})
	only := testhelpers.SeedRecipe(t, db, models.Recipe{Name: "only lunch", MealType: models.MealTypeLunch, Calories: 650})

	llm := &mocks.StubLLM{}
	planner := newPlanner(db, llm)

	result, err := planner.RecommendForMeal(context.Background(), userID, 700, models.MealTypeLunch, []string{only.ID.String()})
	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, 0, result.TotalAvailable)
	assert.Empty(t, llm.Prompts)
}

func TestRecommendForMealModelReranksLargePool(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{})

	var seeded []models.Recipe
	for i := 0; i < 8; i++ {
		seeded = append(seeded, testhelpers.SeedRecipe(t, db, models.Recipe{
			Name:     fmt.Sprintf("lunch %d", i),
			MealType: models.MealTypeLunch,
			Calories: 650,
		}))
	}

	ranked := struct {
		RecipeIDs []string `json:"recipe_ids"`
		Reasoning string   `json:"reasoning"`
	}{
		RecipeIDs: []string{
			seeded[3].ID.String(),
			seeded[1].ID.String(),
			uuid.New().String(), // hallucinated, dropped
			seeded[5].ID.String(),
		},
	}
	response, _ := json.Marshal(ranked)

	llm := &mocks.StubLLM{Response: response}
	planner := newPlanner(db, llm)

	result, err := planner.RecommendForMeal(context.Background(), userID, 700, models.MealTypeLunch, nil)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{seeded[3].ID, seeded[1].ID, seeded[5].ID}, idsOfRecipes(result.Recommendations))
	assert.Equal(t, 8, result.TotalAvailable)
	assert.Len(t, llm.Prompts, 1)
}

func TestDiscoverNoPositiveScoresSkipsModel(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{})
	testhelpers.SeedRecipe(t, db, models.Recipe{Name: "nothing special", MealType: models.MealTypeLunch, Calories: 900})

	llm := &mocks.StubLLM{}
	planner := newPlanner(db, llm)

	result, err := planner.Discover(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Empty(t, llm.Prompts)
}

func TestDiscoverValidatesModelIDs(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{
		DietaryPreferences: models.JSONBStringArray{"vegan"},
	})
	match := testhelpers.SeedRecipe(t, db, models.Recipe{
		Name:        "vegan bowl",
		MealType:    models.MealTypeLunch,
		Calories:    500,
		DietaryTags: models.JSONBStringArray{"vegan"},
	})

	ranked := struct {
		RecipeIDs []string `json:"recipe_ids"`
		Reasoning string   `json:"reasoning"`
	}{
		RecipeIDs: []string{match.ID.String(), uuid.New().String()},
		Reasoning: "fits your preferences",
	}
	response, _ := json.Marshal(ranked)

	planner := newPlanner(db, &mocks.StubLLM{Response: response})
	result, err := planner.Discover(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, []string{match.ID.String()}, result.Recommendations)
	assert.Equal(t, "fits your preferences", result.Reasoning)
}

func TestSmartSearchDeterministicSecondPass(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	curry := testhelpers.SeedRecipe(t, db, models.Recipe{
		Name:        "chicken curry",
		MealType:    models.MealTypeDinner,
		Calories:    650,
		Ingredients: models.JSONBStringArray{"chicken", "curry paste"},
	})
	testhelpers.SeedRecipe(t, db, models.Recipe{
		Name:     "pancakes",
		MealType: models.MealTypeBreakfast,
		Calories: 500,
	})

	filters := service.SearchFilters{
		SearchTerms: []string{"chicken"},
		MealType:    models.MealTypeDinner,
		SortBy:      "relevance",
	}
	response, _ := json.Marshal(filters)

	planner := newPlanner(db, &mocks.StubLLM{Response: response})
	result, err := planner.SmartSearch(context.Background(), "chicken dinner")
	require.NoError(t, err)

	require.Len(t, result.Recipes, 1)
	assert.Equal(t, curry.ID, result.Recipes[0].ID)
	assert.Equal(t, 1, result.TotalResults)
	assert.Equal(t, filters.SearchTerms, result.Filters.SearchTerms)
}

func TestSmartSearchCapsResults(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	for i := 0; i < 25; i++ {
		testhelpers.SeedRecipe(t, db, models.Recipe{
			Name:     fmt.Sprintf("chicken dish %d", i),
			MealType: models.MealTypeDinner,
			Calories: 600,
		})
	}

	filters := service.SearchFilters{SearchTerms: []string{"chicken"}, SortBy: "relevance"}
	response, _ := json.Marshal(filters)

	planner := newPlanner(db, &mocks.StubLLM{Response: response})
	result, err := planner.SmartSearch(context.Background(), "chicken")
	require.NoError(t, err)

	assert.Len(t, result.Recipes, 20)
	assert.Equal(t, 25, result.TotalResults)
}

func TestSavePlanUpsertsByWeek(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{})
	planner := newPlanner(db, &mocks.StubLLM{})
	ctx := context.Background()

	first, err := planner.SavePlan(ctx, userID, "2026-08-31", []models.PlanDay{{DayName: "Monday"}})
	require.NoError(t, err)

	second, err := planner.SavePlan(ctx, userID, "2026-08-31", []models.PlanDay{{DayName: "Monday"}, {DayName: "Tuesday"}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.MealPlan{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLatestPlanFallsBackToDatabase(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	userID := testhelpers.SeedUser(t, db, "alice", models.UserProfile{})
	planner := newPlanner(db, &mocks.StubLLM{})
	ctx := context.Background()

	_, err := planner.LatestPlan(ctx, userID)
	assert.ErrorIs(t, err, service.ErrPlanNotFound)

	testhelpers.SeedMealPlan(t, db, userID, "2026-08-24", models.PlanDays{{DayName: "Monday"}})
	newest := testhelpers.SeedMealPlan(t, db, userID, "2026-08-31", models.PlanDays{{DayName: "Monday"}, {DayName: "Tuesday"}})

	result, err := planner.LatestPlan(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, result.Days, len(newest.Days))
}

func idsOfRecipes(recipes []models.Recipe) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}
