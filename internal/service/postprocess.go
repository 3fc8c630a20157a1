package service

import (
	"sort"
	"strings"
	"time"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
)

// llmPlanDay is the shape of a day as returned by the model.
type llmPlanDay struct {
	DayName           string `json:"day_name"`
	BreakfastRecipeID string `json:"breakfast_recipe_id"`
	LunchRecipeID     string `json:"lunch_recipe_id"`
	DinnerRecipeID    string `json:"dinner_recipe_id"`
	SnackRecipeID     string `json:"snack_recipe_id"`
}

// ResolvePlanDays validates the model's day list against the catalog and
// recomputes per-day totals. Totals are always recalculated here; numbers
// echoed by the model are never trusted. An id that does not resolve
// contributes 0 kcal to its slot instead of failing the plan — a tolerated
// degraded case.
func ResolvePlanDays(raw []llmPlanDay, catalog map[string]models.Recipe, weekStart time.Time) []models.PlanDay {
	days := make([]models.PlanDay, 0, len(raw))
	for i, d := range raw {
		date := weekStart.AddDate(0, 0, i)
		day := models.PlanDay{
			DayName:           d.DayName,
			Date:              date.Format("2006-01-02"),
			BreakfastRecipeID: d.BreakfastRecipeID,
			LunchRecipeID:     d.LunchRecipeID,
			DinnerRecipeID:    d.DinnerRecipeID,
			SnackRecipeID:     d.SnackRecipeID,
		}
		if day.DayName == "" {
			day.DayName = date.Weekday().String()
		}

		total := 0.0
		for _, mt := range models.MealTypes {
			if r, ok := catalog[day.SlotID(mt)]; ok {
				total += r.Calories
			}
		}
		day.TotalCalories = total
		days = append(days, day)
	}
	return days
}

// NextWeekStart returns the Monday strictly after the given time, the
// first day of the plan being generated.
func NextWeekStart(now time.Time) time.Time {
	day := now
	for {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == time.Monday {
			return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		}
	}
}

// ApplySearchFilters re-applies the model's filter specification against
// the catalog as a deterministic second pass. The model's output is a
// query specification, never a recipe list: every result here is a real,
// current catalog entry.
func ApplySearchFilters(catalog []models.Recipe, f SearchFilters) []models.Recipe {
	out := make([]models.Recipe, 0, len(catalog))
	for _, r := range catalog {
		if f.MealType != "" && r.MealType != f.MealType {
			continue
		}
		if f.CuisineType != "" && !strings.EqualFold(r.CuisineType, f.CuisineType) {
			continue
		}
		if len(f.SearchTerms) > 0 && !matchesSearchTerms(r, f.SearchTerms) {
			continue
		}
		if len(f.DietaryTags) > 0 && !hasDietaryTagMatch(r, f.DietaryTags) {
			continue
		}
		if !containsAllIngredients(r, f.IncludeIngredients) {
			continue
		}
		if containsAnyIngredient(r, f.ExcludeIngredients) {
			continue
		}
		if f.MaxPrepTime > 0 && r.PrepTimeMins > f.MaxPrepTime {
			continue
		}
		if f.MaxCalories > 0 && r.Calories > f.MaxCalories {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortSearchResults orders results by the requested key. "relevance" (and
// anything unrecognized) leaves the filter order untouched. Stable sorts
// keep the output deterministic for equal keys.
func SortSearchResults(recipes []models.Recipe, sortBy string) {
	switch sortBy {
	case "calories":
		sort.SliceStable(recipes, func(i, j int) bool { return recipes[i].Calories < recipes[j].Calories })
	case "protein":
		sort.SliceStable(recipes, func(i, j int) bool { return recipes[i].ProteinG > recipes[j].ProteinG })
	case "prepTime":
		sort.SliceStable(recipes, func(i, j int) bool { return recipes[i].PrepTimeMins < recipes[j].PrepTimeMins })
	}
}

func matchesSearchTerms(r models.Recipe, terms []string) bool {
	name := strings.ToLower(r.Name)
	for _, term := range terms {
		lt := strings.ToLower(strings.TrimSpace(term))
		if lt == "" {
			continue
		}
		if strings.Contains(name, lt) {
			return true
		}
		for _, ing := range r.Ingredients {
			if strings.Contains(strings.ToLower(ing), lt) {
				return true
			}
		}
	}
	return false
}

func containsAllIngredients(r models.Recipe, ingredients []string) bool {
	for _, want := range ingredients {
		lw := strings.ToLower(strings.TrimSpace(want))
		if lw == "" {
			continue
		}
		found := false
		for _, ing := range r.Ingredients {
			if strings.Contains(strings.ToLower(ing), lw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsAnyIngredient(r models.Recipe, ingredients []string) bool {
	for _, avoid := range ingredients {
		la := strings.ToLower(strings.TrimSpace(avoid))
		if la == "" {
			continue
		}
		for _, ing := range r.Ingredients {
			if strings.Contains(strings.ToLower(ing), la) {
				return true
			}
		}
	}
	return false
}
