package service

import "errors"

var (
	// ErrProfileNotFound means the user has never completed onboarding, so
	// the planning pipeline has no preferences or calorie target to work
	// from. Handlers map it to 404.
	ErrProfileNotFound = errors.New("user profile not found")

	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrPlanNotFound       = errors.New("meal plan not found")
)
