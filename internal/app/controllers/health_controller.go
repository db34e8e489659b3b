package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/code"
	"vizinho-http-service/internal/error/response"
	"vizinho-http-service/internal/infrastructure/database"
)

// HealthController reports liveness and dependency status
type HealthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthController creates a new health controller
func NewHealthController(ctx *gin.Context, container *container.ServiceContainer) *HealthController {
	return &HealthController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc returns the gin handler for a health method
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		default:
			invalidMethod(ctx)
		}
	}
}

// Ping answers pong
// @Summary      Ping
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /ping [get]
func (c *HealthController) Ping() {
	response.Success(c.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status checks the database and Redis
// @Summary      Service status
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /health/status [get]
func (c *HealthController) Status() {
	ctx, cancel := context.WithTimeout(c.Ctx.Request.Context(), 3*time.Second)
	defer cancel()

	status := gin.H{
		"database": "up",
		"redis":    "disabled",
		"cache":    middleware.CacheStats(),
	}
	healthy := true

	db := c.Container.GetService("db").(*gorm.DB)
	if err := database.Ping(ctx, db); err != nil {
		status["database"] = "down: " + err.Error()
		healthy = false
	}

	if redisService, ok := c.Container.GetService("redis").(services.InterfaceRedisService); ok && redisService != nil {
		status["redis"] = "up"
		if err := redisService.Ping(ctx); err != nil {
			status["redis"] = "down: " + err.Error()
		}
	}

	if !healthy {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "database unavailable", status)
		return
	}
	response.Success(c.Ctx, status)
}
