package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markbryceit/eatwell.ai-sub000/internal/middleware"
	"github.com/markbryceit/eatwell.ai-sub000/internal/service"
	"github.com/markbryceit/eatwell.ai-sub000/internal/types"
)

// PlanHandler exposes the meal-plan pipeline: weekly generation, meal-swap
// recommendations, discovery, and natural-language search.
type PlanHandler struct {
	planner     *service.PlannerService
	authService *service.AuthService
	rateLimiter *middleware.RateLimiter
}

// NewPlanHandler creates the plan handler. rateLimiter may be nil; plan
// generation is then unthrottled.
func NewPlanHandler(planner *service.PlannerService, authService *service.AuthService, rateLimiter *middleware.RateLimiter) *PlanHandler {
	return &PlanHandler{
		planner:     planner,
		authService: authService,
		rateLimiter: rateLimiter,
	}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/plans", middleware.AuthMiddleware(h.authService))
	{
		generate := []gin.HandlerFunc{h.GeneratePlan}
		if h.rateLimiter != nil {
			generate = append([]gin.HandlerFunc{h.rateLimiter.Middleware()}, generate...)
		}
		plans.POST("/generate", generate...)
		plans.POST("", h.SavePlan)
		plans.GET("/latest", h.LatestPlan)
	}

	recs := router.Group("/recommendations", middleware.AuthMiddleware(h.authService))
	{
		recs.POST("", h.Recommendations)
		recs.POST("/discover", h.Discover)
	}

	router.POST("/recipes/search", middleware.AuthMiddleware(h.authService), h.Search)
}

func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.planner.GenerateMealPlan(c.Request.Context(), userID, req.CalorieTarget)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		// Upstream model errors surface as-is so the client can see the cause.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlanHandler) Recommendations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.planner.RecommendForMeal(c.Request.Context(), userID, req.TargetCalories, req.MealType, req.ExcludeRecipeIDs)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlanHandler) Discover(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.planner.Discover(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlanHandler) Search(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	result, err := h.planner.SmartSearch(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlanHandler) SavePlan(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.planner.SavePlan(c.Request.Context(), userID, req.WeekStartDate, req.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) LatestPlan(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.planner.LatestPlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no saved plan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch plan"})
		return
	}

	c.JSON(http.StatusOK, result)
}
