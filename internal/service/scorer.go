package service

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
)

// ScoreContext carries the per-user signals a scorer reads. The two
// strategies use different subsets of the fields.
type ScoreContext struct {
	Favorites map[uuid.UUID]bool
	HighRated map[uuid.UUID]bool

	// Bucket strategy
	Window     *CalorieWindow
	MinResults int

	// Additive strategy
	DietaryPreferences  []string
	DislikedIngredients []string
	FavoriteRecipes     []models.Recipe
	PlannedRecipeIDs    map[uuid.UUID]bool
	DailyCalorieTarget  float64

	// Maximum results; 0 means unlimited.
	Limit int
}

// Scorer orders or trims a filtered candidate set. BucketScorer and
// AdditiveScorer are deliberately separate strategies with different
// observable behavior; do not merge them.
type Scorer interface {
	Score(candidates []models.Recipe, sc ScoreContext) []models.Recipe
}

// BucketScorer implements strict bucket precedence for the meal-swap
// recommendation flow: the first non-empty tier is the entire result.
// Tiers: favorited within the calorie window, high-rated within the
// window, anything within the window, then the whole suitable pool.
type BucketScorer struct{}

func (BucketScorer) Score(candidates []models.Recipe, sc ScoreContext) []models.Recipe {
	inWindow := func(r models.Recipe) bool {
		return sc.Window == nil || sc.Window.Contains(r.Calories)
	}

	var favWindow, ratedWindow, window []models.Recipe
	for _, r := range candidates {
		if !inWindow(r) {
			continue
		}
		window = append(window, r)
		if sc.Favorites[r.ID] {
			favWindow = append(favWindow, r)
		}
		if sc.HighRated[r.ID] {
			ratedWindow = append(ratedWindow, r)
		}
	}

	var result []models.Recipe
	switch {
	case len(favWindow) > 0:
		result = favWindow
	case len(ratedWindow) > 0:
		result = ratedWindow
	case len(window) > 0:
		result = window
	default:
		result = append(result, candidates...)
	}

	// Never leave the user with too few options: top up from the suitable
	// pool, in catalog order, until MinResults or the pool runs out.
	if sc.MinResults > 0 && len(result) < sc.MinResults {
		included := make(map[uuid.UUID]bool, len(result))
		for _, r := range result {
			included[r.ID] = true
		}
		for _, r := range candidates {
			if len(result) >= sc.MinResults {
				break
			}
			if !included[r.ID] {
				result = append(result, r)
				included[r.ID] = true
			}
		}
	}

	if sc.Limit > 0 && len(result) > sc.Limit {
		result = result[:sc.Limit]
	}
	return result
}

// AdditiveScorer implements the weighted scoring used by the Discover
// personalization flow. Scores accumulate per candidate; only positive
// scores survive, sorted descending (input order breaks ties).
type AdditiveScorer struct{}

func (AdditiveScorer) Score(candidates []models.Recipe, sc ScoreContext) []models.Recipe {
	type scored struct {
		recipe models.Recipe
		score  int
	}

	list := make([]scored, 0, len(candidates))
	for _, r := range candidates {
		score := 0
		if hasDietaryTagMatch(r, sc.DietaryPreferences) {
			score += 3
		}
		if !sc.Favorites[r.ID] && similarToFavorite(r, sc.FavoriteRecipes) {
			score += 2
		}
		if sc.PlannedRecipeIDs[r.ID] {
			score++
		}
		if sc.HighRated[r.ID] {
			score += 2
		}
		if ContainsDisliked(r, sc.DislikedIngredients) {
			score -= 10
		}
		if sc.DailyCalorieTarget > 0 && math.Abs(r.Calories-sc.DailyCalorieTarget/4) <= 150 {
			score++
		}
		if score > 0 {
			list = append(list, scored{recipe: r, score: score})
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})

	n := len(list)
	if sc.Limit > 0 && n > sc.Limit {
		n = sc.Limit
	}
	result := make([]models.Recipe, 0, n)
	for _, s := range list[:n] {
		result = append(result, s.recipe)
	}
	return result
}

// similarToFavorite reports whether the recipe shares a meal type or a
// dietary tag with any of the user's favorites.
func similarToFavorite(r models.Recipe, favorites []models.Recipe) bool {
	for _, fav := range favorites {
		if fav.MealType == r.MealType {
			return true
		}
		for _, tag := range fav.DietaryTags {
			for _, rt := range r.DietaryTags {
				if tag == rt {
					return true
				}
			}
		}
	}
	return false
}
