package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/markbryceit/eatwell.ai-sub000/internal/models"
)

// RunMigrations creates or updates the schema. On Postgres the pgvector
// extension must exist before the recipes table (embedding column).
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to create vector extension: %w", err)
		}
	}

	log.Printf("Running schema migrations")
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Recipe{},
		&models.RecipeFavorite{},
		&models.RecipeRating{},
		&models.CalorieLog{},
		&models.MealPlan{},
	)
}
