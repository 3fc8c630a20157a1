package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markbryceit/eatwell.ai-sub000/internal/middleware"
	"github.com/markbryceit/eatwell.ai-sub000/internal/service"
	"github.com/markbryceit/eatwell.ai-sub000/internal/types"
)

type LogHandler struct {
	logService  *service.CalorieLogService
	authService *service.AuthService
}

func NewLogHandler(logService *service.CalorieLogService, authService *service.AuthService) *LogHandler {
	return &LogHandler{
		logService:  logService,
		authService: authService,
	}
}

func (h *LogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/logs", middleware.AuthMiddleware(h.authService))
	{
		logs.POST("", h.LogMeal)
		logs.GET("/:date", h.LogForDate)
	}
}

func (h *LogHandler) LogMeal(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logRow, err := h.logService.LogMeal(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log meal"})
		return
	}

	c.JSON(http.StatusCreated, logRow)
}

func (h *LogHandler) LogForDate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	logRow, err := h.logService.LogForDate(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch log"})
		return
	}

	c.JSON(http.StatusOK, logRow)
}
