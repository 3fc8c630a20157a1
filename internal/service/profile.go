package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
	"github.com/markbryceit/eatwell.ai-sub000/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies the onboarding/check-in fields that were sent.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		profile.Username = req.Username
	}
	if req.DietaryPreferences != nil {
		profile.DietaryPreferences = models.JSONBStringArray(*req.DietaryPreferences)
	}
	if req.DislikedIngredients != nil {
		profile.DislikedIngredients = models.JSONBStringArray(*req.DislikedIngredients)
	}
	if req.HealthGoal != nil {
		profile.HealthGoal = *req.HealthGoal
	}
	if req.DailyCalorieTarget != nil {
		profile.DailyCalorieTarget = *req.DailyCalorieTarget
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
