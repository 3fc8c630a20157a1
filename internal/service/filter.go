package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
)

// NoRestrictions is the dietary preference value that disables dietary
// filtering for a user.
const NoRestrictions = "No Restrictions"

// CalorieWindow is an inclusive [Min, Max] range on recipe calories.
type CalorieWindow struct {
	Min float64
	Max float64
}

// WindowAround builds the window target±tolerance. The tolerance is always
// caller-supplied; different entry points use different values.
func WindowAround(target, tolerance float64) CalorieWindow {
	return CalorieWindow{Min: target - tolerance, Max: target + tolerance}
}

func (w CalorieWindow) Contains(calories float64) bool {
	return calories >= w.Min && calories <= w.Max
}

// FilterCriteria narrows a recipe set. All fields are optional and
// AND-combined.
type FilterCriteria struct {
	MealType            string
	ExcludeIDs          map[uuid.UUID]bool
	DietaryPreferences  []string
	DislikedIngredients []string
	Window              *CalorieWindow
}

// FilterRecipes applies the criteria, preserving input order. Recipe ids
// are unique by catalog invariant, so no dedup happens here.
func FilterRecipes(recipes []models.Recipe, c FilterCriteria) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if c.MealType != "" && r.MealType != c.MealType {
			continue
		}
		if c.ExcludeIDs != nil && c.ExcludeIDs[r.ID] {
			continue
		}
		if !MatchesDietary(r, c.DietaryPreferences) {
			continue
		}
		if ContainsDisliked(r, c.DislikedIngredients) {
			continue
		}
		if c.Window != nil && !c.Window.Contains(r.Calories) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MatchesDietary reports whether the recipe satisfies the user's dietary
// preferences. An empty preference list or "No Restrictions" passes
// everything; otherwise at least one preference must be contained
// (case-insensitive) in one of the recipe's tags.
func MatchesDietary(r models.Recipe, prefs []string) bool {
	if len(prefs) == 0 {
		return true
	}
	for _, p := range prefs {
		if strings.EqualFold(strings.TrimSpace(p), NoRestrictions) {
			return true
		}
	}
	return hasDietaryTagMatch(r, prefs)
}

// hasDietaryTagMatch is the raw tag test, without the empty/No Restrictions
// pass-through. The additive scorer awards points for an actual match only.
func hasDietaryTagMatch(r models.Recipe, prefs []string) bool {
	for _, p := range prefs {
		lp := strings.ToLower(strings.TrimSpace(p))
		if lp == "" || strings.EqualFold(p, NoRestrictions) {
			continue
		}
		for _, tag := range r.DietaryTags {
			if strings.Contains(strings.ToLower(tag), lp) {
				return true
			}
		}
	}
	return false
}

// ContainsDisliked reports whether any ingredient contains one of the
// disliked ingredient strings (case-insensitive substring).
func ContainsDisliked(r models.Recipe, disliked []string) bool {
	for _, d := range disliked {
		ld := strings.ToLower(strings.TrimSpace(d))
		if ld == "" {
			continue
		}
		for _, ing := range r.Ingredients {
			if strings.Contains(strings.ToLower(ing), ld) {
				return true
			}
		}
	}
	return false
}
