package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/markbryceit/eatwell.ai-sub000/config"
	"github.com/markbryceit/eatwell.ai-sub000/internal/api"
	"github.com/markbryceit/eatwell.ai-sub000/internal/database"
	"github.com/markbryceit/eatwell.ai-sub000/internal/middleware"
	"github.com/markbryceit/eatwell.ai-sub000/internal/service"
)

// Deps carries the shared infrastructure handed to the router. Redis, the
// LLM client, and S3 are optional so tests can wire only what they need.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	LLM      service.LLMInvoker
	S3Config *config.S3Config
	Cfg      *config.Config
}

// New builds the gin engine with all routes registered.
func New(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.CORS())

	engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), deps.DB); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authService := service.NewAuthService(deps.DB, deps.Cfg.JWTSecret)
	profileService := service.NewProfileService(deps.DB)
	recipeService := service.NewRecipeService(deps.DB)
	logService := service.NewCalorieLogService(deps.DB)
	signalService := service.NewSignalService(deps.DB)
	planner := service.NewPlannerService(deps.DB, deps.LLM, signalService, deps.Redis)

	var imageService *service.ImageService
	if deps.S3Config != nil {
		imageService = service.NewImageService(deps.S3Config)
	}

	var planLimiter *middleware.RateLimiter
	if deps.Redis != nil {
		planLimiter = middleware.NewPlanGenerationRateLimiter(deps.Redis)
	}

	v1 := engine.Group("/api/v1")
	{
		api.NewAuthHandler(authService).RegisterRoutes(v1)
		api.NewProfileHandler(profileService, authService).RegisterRoutes(v1)
		api.NewRecipeHandler(recipeService, authService, imageService).RegisterRoutes(v1)
		api.NewLogHandler(logService, authService).RegisterRoutes(v1)
		api.NewPlanHandler(planner, authService, planLimiter).RegisterRoutes(v1)
	}

	return engine
}
