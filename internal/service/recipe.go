package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
	"github.com/markbryceit/eatwell.ai-sub000/internal/types"
)

// RecipeListFilters are the optional query parameters of the catalog list
// endpoint.
type RecipeListFilters struct {
	Query              string
	MealType           string
	Dietary            []string
	ExcludeIngredients []string
}

// RecipeService is the catalog accessor plus the social write paths
// (favorites, ratings).
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe creates a catalog entry owned by the user.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := models.Recipe{
		ID:           uuid.New(),
		Name:         req.Name,
		MealType:     req.MealType,
		Calories:     req.Calories,
		ProteinG:     req.ProteinG,
		CarbsG:       req.CarbsG,
		FatG:         req.FatG,
		FiberG:       req.FiberG,
		DietaryTags:  models.JSONBStringArray(req.DietaryTags),
		Ingredients:  models.JSONBStringArray(req.Ingredients),
		PrepTimeMins: req.PrepTimeMins,
		CookTimeMins: req.CookTimeMins,
		CuisineType:  req.CuisineType,
		CreatedBy:    userID,
		Embedding:    GenerateEmbedding(req.Name + " " + strings.Join(req.Ingredients, " ")),
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe updates the fields that were sent and refreshes the
// embedding when the name or ingredients change.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	reembed := false
	if req.Name != "" {
		recipe.Name = req.Name
		reembed = true
	}
	if req.MealType != "" {
		recipe.MealType = req.MealType
	}
	if req.Calories != nil {
		recipe.Calories = *req.Calories
	}
	if req.ProteinG != nil {
		recipe.ProteinG = *req.ProteinG
	}
	if req.CarbsG != nil {
		recipe.CarbsG = *req.CarbsG
	}
	if req.FatG != nil {
		recipe.FatG = *req.FatG
	}
	if req.FiberG != nil {
		recipe.FiberG = *req.FiberG
	}
	if req.DietaryTags != nil {
		recipe.DietaryTags = models.JSONBStringArray(req.DietaryTags)
	}
	if req.Ingredients != nil {
		recipe.Ingredients = models.JSONBStringArray(req.Ingredients)
		reembed = true
	}
	if req.PrepTimeMins != nil {
		recipe.PrepTimeMins = *req.PrepTimeMins
	}
	if req.CookTimeMins != nil {
		recipe.CookTimeMins = *req.CookTimeMins
	}
	if req.CuisineType != "" {
		recipe.CuisineType = req.CuisineType
	}
	if reembed {
		recipe.Embedding = GenerateEmbedding(recipe.Name + " " + strings.Join(recipe.Ingredients, " "))
	}

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe deletes a recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetRecipe(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// ListRecipes lists catalog entries, optionally narrowed by query. On
// Postgres the free-text query orders by embedding distance; elsewhere it
// falls back to a LIKE match.
func (s *RecipeService) ListRecipes(ctx context.Context, filters RecipeListFilters) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx)

	if search := filters.Query; search != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(search)
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ?", like)
		}
	}

	if filters.MealType != "" {
		query = query.Where("meal_type = ?", filters.MealType)
	}

	for _, p := range filters.Dietary {
		like := "%" + strings.ToLower(strings.TrimSpace(p)) + "%"
		if s.db.Dialector.Name() == "postgres" {
			query = query.Where("LOWER(dietary_tags::text) LIKE ?", like)
		} else {
			query = query.Where("LOWER(dietary_tags) LIKE ?", like)
		}
	}

	for _, a := range filters.ExcludeIngredients {
		like := "%" + strings.ToLower(strings.TrimSpace(a)) + "%"
		if s.db.Dialector.Name() == "postgres" {
			query = query.Where("LOWER(ingredients::text) NOT LIKE ?", like)
		} else {
			query = query.Where("LOWER(ingredients) NOT LIKE ?", like)
		}
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FavoriteRecipe marks a recipe as a favorite; favoriting twice is a no-op.
func (s *RecipeService) FavoriteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return err
	}

	var existing models.RecipeFavorite
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.WithContext(ctx).Create(&models.RecipeFavorite{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	}).Error
}

// UnfavoriteRecipe removes the favorite mark.
func (s *RecipeService) UnfavoriteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.RecipeFavorite{}).Error
}

// GetFavoriteRecipes returns all recipes the user has favorited.
func (s *RecipeService) GetFavoriteRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var favorites []models.RecipeFavorite
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&favorites).Error; err != nil {
		return nil, err
	}
	if len(favorites) == 0 {
		return []models.Recipe{}, nil
	}

	ids := make([]uuid.UUID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.RecipeID)
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// RateRecipe upserts the user's rating; one rating per (user, recipe).
func (s *RecipeService) RateRecipe(ctx context.Context, userID, recipeID uuid.UUID, rating int) error {
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return err
	}

	var existing models.RecipeRating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error
	switch {
	case err == nil:
		existing.Rating = rating
		return s.db.WithContext(ctx).Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.WithContext(ctx).Create(&models.RecipeRating{
			ID:       uuid.New(),
			UserID:   userID,
			RecipeID: recipeID,
			Rating:   rating,
		}).Error
	default:
		return err
	}
}

// SetImageURL records the stored image location on the recipe.
func (s *RecipeService) SetImageURL(ctx context.Context, recipeID uuid.UUID, url string) error {
	return s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		Update("image_url", url).Error
}
