package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
)

// highRatedThreshold: ratings at or above this count as a "loved it"
// signal for scoring and prompt enrichment.
const highRatedThreshold = 4

// UserSignals combines a user's favorites, ratings and cook history into
// the preference sets the filter/scorer stages read.
type UserSignals struct {
	FavoriteRecipeIDs  map[uuid.UUID]bool
	HighRatedRecipeIDs map[uuid.UUID]bool
	CookedRecipeIDs    map[uuid.UUID]bool
}

// UserContext is the fully aggregated per-user input to the pipeline:
// profile plus behavioral signals.
type UserContext struct {
	Profile          *models.UserProfile
	Signals          UserSignals
	FavoriteRecipes  []models.Recipe
	PlannedRecipeIDs map[uuid.UUID]bool
}

// CommunityTrend is the across-all-users view of one recipe.
type CommunityTrend struct {
	FavoriteCount int
	AvgRating     float64
}

// SignalService aggregates user and community signals from the store.
type SignalService struct {
	db *gorm.DB
}

func NewSignalService(db *gorm.DB) *SignalService {
	return &SignalService{db: db}
}

// Aggregate builds the UserContext for a user. Returns ErrProfileNotFound
// when the user has no profile; callers create one during onboarding.
func (s *SignalService) Aggregate(ctx context.Context, userID uuid.UUID) (*UserContext, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	uc := &UserContext{
		Profile: &profile,
		Signals: UserSignals{
			FavoriteRecipeIDs:  make(map[uuid.UUID]bool),
			HighRatedRecipeIDs: make(map[uuid.UUID]bool),
			CookedRecipeIDs:    make(map[uuid.UUID]bool),
		},
		PlannedRecipeIDs: make(map[uuid.UUID]bool),
	}

	var favorites []models.RecipeFavorite
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&favorites).Error; err != nil {
		return nil, err
	}
	favIDs := make([]uuid.UUID, 0, len(favorites))
	for _, f := range favorites {
		uc.Signals.FavoriteRecipeIDs[f.RecipeID] = true
		favIDs = append(favIDs, f.RecipeID)
	}
	if len(favIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", favIDs).Find(&uc.FavoriteRecipes).Error; err != nil {
			return nil, err
		}
	}

	var ratings []models.RecipeRating
	if err := s.db.WithContext(ctx).Where("user_id = ? AND rating >= ?", userID, highRatedThreshold).Find(&ratings).Error; err != nil {
		return nil, err
	}
	for _, r := range ratings {
		uc.Signals.HighRatedRecipeIDs[r.RecipeID] = true
	}

	var logs []models.CalorieLog
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&logs).Error; err != nil {
		return nil, err
	}
	for _, l := range logs {
		for _, meal := range l.MealsLogged {
			if !meal.Completed {
				continue
			}
			if id, err := uuid.Parse(meal.RecipeID); err == nil {
				uc.Signals.CookedRecipeIDs[id] = true
			}
		}
	}

	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&plans).Error; err != nil {
		return nil, err
	}
	for _, p := range plans {
		for _, day := range p.Days {
			for _, mt := range models.MealTypes {
				if id, err := uuid.Parse(day.SlotID(mt)); err == nil {
					uc.PlannedRecipeIDs[id] = true
				}
			}
		}
	}

	return uc, nil
}

// CommunityTrends computes per-recipe favorite counts and average ratings
// across all users. Average ratings are rounded to one decimal; a recipe
// with no ratings reports 0, never NaN.
func (s *SignalService) CommunityTrends(ctx context.Context) (map[uuid.UUID]CommunityTrend, error) {
	trends := make(map[uuid.UUID]CommunityTrend)

	var favorites []models.RecipeFavorite
	if err := s.db.WithContext(ctx).Find(&favorites).Error; err != nil {
		return nil, err
	}
	for _, f := range favorites {
		t := trends[f.RecipeID]
		t.FavoriteCount++
		trends[f.RecipeID] = t
	}

	var ratings []models.RecipeRating
	if err := s.db.WithContext(ctx).Find(&ratings).Error; err != nil {
		return nil, err
	}
	sums := make(map[uuid.UUID]int)
	counts := make(map[uuid.UUID]int)
	for _, r := range ratings {
		sums[r.RecipeID] += r.Rating
		counts[r.RecipeID]++
	}
	for id, count := range counts {
		if count == 0 {
			continue
		}
		t := trends[id]
		t.AvgRating = math.Round(float64(sums[id])/float64(count)*10) / 10
		trends[id] = t
	}

	return trends, nil
}
