package controllers

import (
	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/response"
)

// DashboardController serves the summary pages
type DashboardController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(ctx *gin.Context, container *container.ServiceContainer) *DashboardController {
	return &DashboardController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDashboardFunc returns the gin handler for a dashboard method
func HandleDashboardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDashboardController(ctx, container)

		switch method {
		case "summary":
			controller.Summary()
		case "adminStats":
			controller.AdminStats()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *DashboardController) service() services.InterfaceDashboardService {
	return c.Container.GetService("dashboard").(services.InterfaceDashboardService)
}

// Summary returns the caller's own counters
// @Summary      Resident dashboard
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  services.ResidentSummary
// @Router       /dashboard [get]
// @Security     BearerAuth
func (c *DashboardController) Summary() {
	summary, err := c.service().ResidentSummary(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, summary)
}

// AdminStats returns community-wide counters
// @Summary      Admin dashboard
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  services.AdminStats
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/dashboard [get]
// @Security     BearerAuth
func (c *DashboardController) AdminStats() {
	stats, err := c.service().AdminStats(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, stats)
}
