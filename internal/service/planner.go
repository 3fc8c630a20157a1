package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
)

const (
	// Per-meal calorie tolerance in the weekly plan flow.
	planMealTolerance = 200
	// Calorie tolerance in the meal-swap recommendation flow.
	recommendTolerance = 150
	// The recommendation flow never returns fewer than this many options
	// while the suitable pool can still provide them.
	minRecommendations = 3
	// Meal-swap alternatives returned after model re-ranking.
	maxSwapAlternatives = 5
	// Candidates handed to the model in the discovery flow.
	maxDiscoverCandidates = 8
	// Ranked ids requested from the model in the discovery flow.
	maxDiscoverResults = 12
	// Search results cap.
	maxSearchResults = 20

	planCacheTTL = 24 * time.Hour
)

func planCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("mealplan:latest:%s", userID)
}

// PreferencesApplied summarizes what the pipeline honored, echoed back for
// the caller to display.
type PreferencesApplied struct {
	DietaryPreferences []string `json:"dietary_preferences"`
	FavoritesCount     int      `json:"favorites_count"`
	HealthGoal         string   `json:"health_goal"`
}

// MealPlanResult is the consumer-ready weekly plan.
type MealPlanResult struct {
	Days                   []models.PlanDay   `json:"days"`
	Reasoning              string             `json:"reasoning"`
	CalorieTarget          int                `json:"calorie_target"`
	UserPreferencesApplied PreferencesApplied `json:"user_preferences_applied"`
}

// RecommendationsResult holds meal-swap alternatives.
type RecommendationsResult struct {
	Recommendations []models.Recipe `json:"recommendations"`
	TotalAvailable  int             `json:"total_available"`
}

// DiscoverResult holds ranked discovery recipe ids.
type DiscoverResult struct {
	Recommendations []string           `json:"recommendations"`
	Reasoning       string             `json:"reasoning"`
	UserContext     PreferencesApplied `json:"user_context"`
}

// SearchResult holds deterministic second-pass search output.
type SearchResult struct {
	Recipes      []models.Recipe `json:"recipes"`
	Filters      SearchFilters   `json:"filters"`
	TotalResults int             `json:"total_results"`
}

// PlannerService runs the meal-plan generation and recommendation
// pipeline: fetch signals, filter, score, build the prompt, invoke the
// model, post-process. Each invocation is stateless; concurrent runs for
// different users share nothing.
type PlannerService struct {
	db       *gorm.DB
	llm      LLMInvoker
	signals  *SignalService
	bucket   Scorer
	additive Scorer
	redis    *redis.Client
}

// NewPlannerService wires the pipeline. redisClient may be nil; plan
// caching is then skipped.
func NewPlannerService(db *gorm.DB, llm LLMInvoker, signals *SignalService, redisClient *redis.Client) *PlannerService {
	return &PlannerService{
		db:       db,
		llm:      llm,
		signals:  signals,
		bucket:   BucketScorer{},
		additive: AdditiveScorer{},
		redis:    redisClient,
	}
}

func (s *PlannerService) catalog(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe catalog: %w", err)
	}
	return recipes, nil
}

func preferencesApplied(uc *UserContext) PreferencesApplied {
	return PreferencesApplied{
		DietaryPreferences: uc.Profile.DietaryPreferences,
		FavoritesCount:     len(uc.Signals.FavoriteRecipeIDs),
		HealthGoal:         uc.Profile.HealthGoal,
	}
}

// GenerateMealPlan produces a full 7-day plan for the user. The model
// picks recipes; everything around it (candidates, totals) is computed
// here.
func (s *PlannerService) GenerateMealPlan(ctx context.Context, userID uuid.UUID, calorieTarget int) (*MealPlanResult, error) {
	uc, err := s.signals.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	trends, err := s.signals.CommunityTrends(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	targets := SplitCalorieTarget(calorieTarget)
	candidatesByMeal := make(map[string][]CandidateRecipe, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		suitable := FilterRecipes(catalog, FilterCriteria{
			MealType:            mt,
			DietaryPreferences:  uc.Profile.DietaryPreferences,
			DislikedIngredients: uc.Profile.DislikedIngredients,
		})
		window := WindowAround(float64(targets.ForMealType(mt)), planMealTolerance)
		candidates := FilterRecipes(suitable, FilterCriteria{Window: &window})
		if len(candidates) == 0 {
			// Window left nothing; fall back to the suitable pool rather
			// than sending the model an empty slot.
			candidates = suitable
		}
		candidatesByMeal[mt] = EnrichCandidates(candidates, uc, trends)
	}

	prompt := BuildMealPlanPrompt(uc, calorieTarget, targets, candidatesByMeal)
	raw, err := s.llm.Invoke(ctx, prompt, MealPlanSchema())
	if err != nil {
		return nil, fmt.Errorf("meal plan generation failed: %w", err)
	}

	var parsed struct {
		Days      []llmPlanDay `json:"days"`
		Reasoning string       `json:"reasoning"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse plan response: %w", err)
	}
	if len(parsed.Days) != 7 {
		return nil, fmt.Errorf("plan response has %d days, expected 7", len(parsed.Days))
	}

	byID := make(map[string]models.Recipe, len(catalog))
	for _, r := range catalog {
		byID[r.ID.String()] = r
	}

	result := &MealPlanResult{
		Days:                   ResolvePlanDays(parsed.Days, byID, NextWeekStart(time.Now())),
		Reasoning:              parsed.Reasoning,
		CalorieTarget:          calorieTarget,
		UserPreferencesApplied: preferencesApplied(uc),
	}

	s.cachePlan(ctx, userID, result)
	return result, nil
}

// RecommendForMeal returns alternatives for one meal slot. Candidates are
// chosen by strict bucket precedence; when more survive than the response
// cap, the model re-ranks them.
func (s *PlannerService) RecommendForMeal(ctx context.Context, userID uuid.UUID, targetCalories float64, mealType string, excludeRecipeIDs []string) (*RecommendationsResult, error) {
	uc, err := s.signals.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	exclude := make(map[uuid.UUID]bool, len(excludeRecipeIDs))
	for _, raw := range excludeRecipeIDs {
		if id, err := uuid.Parse(raw); err == nil {
			exclude[id] = true
		}
	}

	suitable := FilterRecipes(catalog, FilterCriteria{
		MealType:            mealType,
		ExcludeIDs:          exclude,
		DietaryPreferences:  uc.Profile.DietaryPreferences,
		DislikedIngredients: uc.Profile.DislikedIngredients,
	})

	window := WindowAround(targetCalories, recommendTolerance)
	ranked := s.bucket.Score(suitable, ScoreContext{
		Favorites:  uc.Signals.FavoriteRecipeIDs,
		HighRated:  uc.Signals.HighRatedRecipeIDs,
		Window:     &window,
		MinResults: minRecommendations,
	})

	if len(ranked) == 0 {
		// Nothing suitable at all (e.g. the whole meal-type catalog was
		// excluded). Not an error; the pad step cannot pad an empty pool.
		return &RecommendationsResult{Recommendations: []models.Recipe{}, TotalAvailable: 0}, nil
	}

	if len(ranked) > maxSwapAlternatives {
		trends, err := s.signals.CommunityTrends(ctx)
		if err != nil {
			return nil, err
		}
		candidates := EnrichCandidates(ranked, uc, trends)
		prompt := BuildRecommendationPrompt(uc, mealType, targetCalories, candidates, maxSwapAlternatives)
		raw, err := s.llm.Invoke(ctx, prompt, RankedRecipeIDsSchema(maxSwapAlternatives))
		if err != nil {
			return nil, fmt.Errorf("recommendation ranking failed: %w", err)
		}
		reranked := resolveRankedIDs(raw, ranked, maxSwapAlternatives)
		if len(reranked) > 0 {
			ranked = reranked
		} else {
			// The model returned nothing usable; keep the deterministic
			// ordering rather than failing the request.
			ranked = ranked[:maxSwapAlternatives]
		}
	}

	return &RecommendationsResult{
		Recommendations: ranked,
		TotalAvailable:  len(suitable),
	}, nil
}

// Discover returns personalized discovery picks: additive scoring narrows
// the catalog, the model ranks the survivors.
func (s *PlannerService) Discover(ctx context.Context, userID uuid.UUID) (*DiscoverResult, error) {
	uc, err := s.signals.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	scored := s.additive.Score(catalog, ScoreContext{
		Favorites:           uc.Signals.FavoriteRecipeIDs,
		HighRated:           uc.Signals.HighRatedRecipeIDs,
		DietaryPreferences:  uc.Profile.DietaryPreferences,
		DislikedIngredients: uc.Profile.DislikedIngredients,
		FavoriteRecipes:     uc.FavoriteRecipes,
		PlannedRecipeIDs:    uc.PlannedRecipeIDs,
		DailyCalorieTarget:  float64(uc.Profile.DailyCalorieTarget),
		Limit:               maxDiscoverCandidates,
	})

	result := &DiscoverResult{
		Recommendations: []string{},
		UserContext:     preferencesApplied(uc),
	}
	if len(scored) == 0 {
		return result, nil
	}

	trends, err := s.signals.CommunityTrends(ctx)
	if err != nil {
		return nil, err
	}
	prompt := BuildDiscoverPrompt(uc, EnrichCandidates(scored, uc, trends), maxDiscoverResults)
	raw, err := s.llm.Invoke(ctx, prompt, RankedRecipeIDsSchema(maxDiscoverResults))
	if err != nil {
		return nil, fmt.Errorf("discovery ranking failed: %w", err)
	}

	var parsed struct {
		RecipeIDs []string `json:"recipe_ids"`
		Reasoning string   `json:"reasoning"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse discovery response: %w", err)
	}

	known := make(map[string]bool, len(scored))
	for _, r := range scored {
		known[r.ID.String()] = true
	}
	for _, id := range parsed.RecipeIDs {
		if known[id] {
			result.Recommendations = append(result.Recommendations, id)
		}
	}
	result.Reasoning = parsed.Reasoning
	return result, nil
}

// SmartSearch translates a natural-language query into a filter
// specification via the model, then re-applies that specification
// deterministically against the catalog so results are always real
// catalog entries.
func (s *PlannerService) SmartSearch(ctx context.Context, query string) (*SearchResult, error) {
	raw, err := s.llm.Invoke(ctx, BuildSearchPrompt(query), SearchFiltersSchema())
	if err != nil {
		return nil, fmt.Errorf("search query parsing failed: %w", err)
	}

	var filters SearchFilters
	if err := json.Unmarshal(raw, &filters); err != nil {
		return nil, fmt.Errorf("failed to parse search filters: %w", err)
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	matched := ApplySearchFilters(catalog, filters)
	SortSearchResults(matched, filters.SortBy)
	total := len(matched)
	if len(matched) > maxSearchResults {
		matched = matched[:maxSearchResults]
	}

	return &SearchResult{
		Recipes:      matched,
		Filters:      filters,
		TotalResults: total,
	}, nil
}

// SavePlan persists a generated plan, replacing any existing plan for the
// same week.
func (s *PlannerService) SavePlan(ctx context.Context, userID uuid.UUID, weekStartDate string, days []models.PlanDay) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND week_start_date = ?", userID, weekStartDate).
		First(&plan).Error
	switch {
	case err == nil:
		plan.Days = days
		if err := s.db.WithContext(ctx).Save(&plan).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		plan = models.MealPlan{
			ID:            uuid.New(),
			UserID:        userID,
			WeekStartDate: weekStartDate,
			Days:          days,
		}
		if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return &plan, nil
}

// LatestPlan returns the most recently generated result from the cache,
// falling back to the newest persisted plan.
func (s *PlannerService) LatestPlan(ctx context.Context, userID uuid.UUID) (*MealPlanResult, error) {
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, planCacheKey(userID)).Bytes(); err == nil {
			var cached MealPlanResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start_date DESC").
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return &MealPlanResult{Days: plan.Days}, nil
}

func (s *PlannerService) cachePlan(ctx context.Context, userID uuid.UUID, result *MealPlanResult) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, planCacheKey(userID), data, planCacheTTL).Err(); err != nil {
		log.Printf("failed to cache meal plan for user %s: %v", userID, err)
	}
}

// resolveRankedIDs maps the model's ranked id list back onto known
// candidates, dropping anything it hallucinated.
func resolveRankedIDs(raw json.RawMessage, candidates []models.Recipe, max int) []models.Recipe {
	var parsed struct {
		RecipeIDs []string `json:"recipe_ids"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}

	byID := make(map[string]models.Recipe, len(candidates))
	for _, r := range candidates {
		byID[r.ID.String()] = r
	}

	out := make([]models.Recipe, 0, max)
	seen := make(map[string]bool, max)
	for _, id := range parsed.RecipeIDs {
		if len(out) >= max {
			break
		}
		if r, ok := byID[id]; ok && !seen[id] {
			out = append(out, r)
			seen[id] = true
		}
	}
	return out
}
