package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/response"
)

// PanicController handles panic alerts
type PanicController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPanicController creates a new panic alert controller
func NewPanicController(ctx *gin.Context, container *container.ServiceContainer) *PanicController {
	return &PanicController{
		Ctx:       ctx,
		Container: container,
	}
}

// PanicRequest carries an optional message
type PanicRequest struct {
	Message string `json:"message" example:"Someone is trying to break in"`
}

// HandlePanicFunc returns the gin handler for a panic alert method
func HandlePanicFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPanicController(ctx, container)

		switch method {
		case "listAlerts":
			controller.ListAlerts()
		case "createAlert":
			controller.CreateAlert()
		case "deactivateAlert":
			controller.DeactivateAlert()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *PanicController) service() services.InterfacePanicService {
	return c.Container.GetService("panic").(services.InterfacePanicService)
}

// ListAlerts returns alerts, newest first
// @Summary      List panic alerts
// @Description  Administrators see every alert, residents their own
// @Tags         Panic
// @Produce      json
// @Param        active    query  bool  false  "Only active alerts"
// @Param        pageNum   query  int   false  "Page number"
// @Param        pageSize  query  int   false  "Page size"
// @Success      200  {object}  ListResponse
// @Router       /panic-alerts [get]
// @Security     BearerAuth
func (c *PanicController) ListAlerts() {
	query, ok := bindPagination(c.Ctx)
	if !ok {
		return
	}
	activeOnly := false
	if raw := c.Ctx.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.ParamError(c.Ctx, "invalid active")
			return
		}
		activeOnly = parsed
	}

	alerts, pagination, err := c.service().ListAlerts(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.PanicFilter{
		PaginationQuery: query,
		ActiveOnly:      activeOnly,
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, ListResponse{Items: alerts, Pagination: pagination})
}

// CreateAlert raises a panic alert; a blank message gets the default text
// @Summary      Raise panic alert
// @Tags         Panic
// @Accept       json
// @Produce      json
// @Param        request body PanicRequest false "Message"
// @Success      201  {object}  models.PanicAlert
// @Router       /panic-alerts [post]
// @Security     BearerAuth
func (c *PanicController) CreateAlert() {
	var req PanicRequest
	if c.Ctx.Request.ContentLength != 0 && !bindJSON(c.Ctx, &req) {
		return
	}
	alert, err := c.service().CreateAlert(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), req.Message)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, alert)
}

// DeactivateAlert clears an active alert
// @Summary      Deactivate panic alert
// @Tags         Panic
// @Param        id  path  int  true  "Alert ID"
// @Success      200  {object}  models.PanicAlert
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /panic-alerts/{id}/deactivate [post]
// @Security     BearerAuth
func (c *PanicController) DeactivateAlert() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	alert, err := c.service().DeactivateAlert(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, alert)
}
