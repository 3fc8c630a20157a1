package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
	"github.com/markbryceit/eatwell.ai-sub000/internal/types"
)

// CalorieLogService records logged meals. One row per (user, date); meals
// append to the day's JSONB array.
type CalorieLogService struct {
	db *gorm.DB
}

func NewCalorieLogService(db *gorm.DB) *CalorieLogService {
	return &CalorieLogService{db: db}
}

// LogMeal appends a meal to the user's log for the given date, creating
// the day's row if it does not exist yet.
func (s *CalorieLogService) LogMeal(ctx context.Context, userID uuid.UUID, req *types.LogMealRequest) (*models.CalorieLog, error) {
	entry := models.LoggedMeal{
		MealType:  req.MealType,
		RecipeID:  req.RecipeID,
		Calories:  req.Calories,
		Completed: req.Completed,
	}

	var logRow models.CalorieLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, req.Date).
		First(&logRow).Error
	switch {
	case err == nil:
		logRow.MealsLogged = append(logRow.MealsLogged, entry)
		if err := s.db.WithContext(ctx).Save(&logRow).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		logRow = models.CalorieLog{
			ID:          uuid.New(),
			UserID:      userID,
			Date:        req.Date,
			MealsLogged: models.LoggedMeals{entry},
		}
		if err := s.db.WithContext(ctx).Create(&logRow).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &logRow, nil
}

// LogForDate returns the user's log for one date; an empty log when
// nothing was recorded.
func (s *CalorieLogService) LogForDate(ctx context.Context, userID uuid.UUID, date string) (*models.CalorieLog, error) {
	var logRow models.CalorieLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&logRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.CalorieLog{
			UserID:      userID,
			Date:        date,
			MealsLogged: models.LoggedMeals{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &logRow, nil
}
