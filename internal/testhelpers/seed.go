package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
	"github.com/markbryceit/eatwell.ai-sub000/internal/service"
)

// SeedUser inserts a user with a profile and returns the user id.
func SeedUser(t *testing.T, db *gorm.DB, username string, profile models.UserProfile) uuid.UUID {
	t.Helper()

	user := models.User{
		ID:           uuid.New(),
		Name:         username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	profile.ID = uuid.New()
	profile.UserID = user.ID
	profile.Username = username
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	return user.ID
}

// SeedRecipe inserts a recipe, filling in an id and embedding.
func SeedRecipe(t *testing.T, db *gorm.DB, recipe models.Recipe) models.Recipe {
	t.Helper()

	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	if recipe.DietaryTags == nil {
		recipe.DietaryTags = models.JSONBStringArray{}
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = models.JSONBStringArray{}
	}
	recipe.Embedding = service.GenerateEmbedding(recipe.Name)

	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to seed recipe %q: %v", recipe.Name, err)
	}
	return recipe
}

// SeedFavorite marks a recipe as favorited by the user.
func SeedFavorite(t *testing.T, db *gorm.DB, userID, recipeID uuid.UUID) {
	t.Helper()

	fav := models.RecipeFavorite{ID: uuid.New(), UserID: userID, RecipeID: recipeID}
	if err := db.Create(&fav).Error; err != nil {
		t.Fatalf("failed to seed favorite: %v", err)
	}
}

// SeedRating inserts a rating for a recipe.
func SeedRating(t *testing.T, db *gorm.DB, userID, recipeID uuid.UUID, rating int) {
	t.Helper()

	row := models.RecipeRating{ID: uuid.New(), UserID: userID, RecipeID: recipeID, Rating: rating}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed rating: %v", err)
	}
}

// SeedMealPlan inserts a saved weekly plan.
func SeedMealPlan(t *testing.T, db *gorm.DB, userID uuid.UUID, weekStart string, days models.PlanDays) models.MealPlan {
	t.Helper()

	plan := models.MealPlan{ID: uuid.New(), UserID: userID, WeekStartDate: weekStart, Days: days}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("failed to seed meal plan: %v", err)
	}
	return plan
}

// SeedCalorieLog inserts a day's food log.
func SeedCalorieLog(t *testing.T, db *gorm.DB, userID uuid.UUID, date string, meals models.LoggedMeals) {
	t.Helper()

	row := models.CalorieLog{ID: uuid.New(), UserID: userID, Date: date, MealsLogged: meals}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed calorie log: %v", err)
	}
}
