package controllers

import (
	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/response"
)

// InterfaceFineController defines the fine controller interface
type InterfaceFineController interface {
	ListFines()
	GetFine()
	CreateFine()
	UpdateFine()
	DeleteFine()
	PayFine()
	PendingTotal()
}

// FineController handles fines and their payment
type FineController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewFineController creates a new fine controller
func NewFineController(ctx *gin.Context, container *container.ServiceContainer) *FineController {
	return &FineController{
		Ctx:       ctx,
		Container: container,
	}
}

// FineRequest is the body for issuing or editing a fine
type FineRequest struct {
	OwnerID uint    `json:"owner_id" binding:"required" example:"2"`
	Amount  float64 `json:"amount" binding:"required" example:"150.00"`
	Reason  string  `json:"reason" binding:"required" example:"Noise after 22:00"`
}

// PayFineRequest is the optional payment body; without a card token the payment is simulated
type PayFineRequest struct {
	Method    string `json:"method" example:"card"`
	CardToken string `json:"card_token" example:"tokn_test_5g5mep4yq1ceq5ymhzy"`
}

// FineListResponse adds the caller's pending total to a page of fines
type FineListResponse struct {
	ListResponse
	PendingTotal float64 `json:"pending_total"`
}

// HandleFineFunc returns the gin handler for a fine method
func HandleFineFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewFineController(ctx, container)

		switch method {
		case "listFines":
			controller.ListFines()
		case "getFine":
			controller.GetFine()
		case "createFine":
			controller.CreateFine()
		case "updateFine":
			controller.UpdateFine()
		case "deleteFine":
			controller.DeleteFine()
		case "payFine":
			controller.PayFine()
		case "pendingTotal":
			controller.PendingTotal()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *FineController) service() services.InterfaceFineService {
	return c.Container.GetService("fine").(services.InterfaceFineService)
}

// 1. ListFines returns fines with the caller's pending total
// @Summary      List fines
// @Description  Administrators see every fine, residents their own
// @Tags         Fines
// @Produce      json
// @Param        status    query  string  false  "pending or paid"
// @Param        pageNum   query  int     false  "Page number"
// @Param        pageSize  query  int     false  "Page size"
// @Success      200  {object}  FineListResponse
// @Router       /fines [get]
// @Security     BearerAuth
func (c *FineController) ListFines() {
	query, ok := bindPagination(c.Ctx)
	if !ok {
		return
	}
	actor := middleware.CurrentUser(c.Ctx)
	ctx := c.Ctx.Request.Context()

	fines, pagination, err := c.service().ListFines(ctx, actor, services.FineFilter{
		PaginationQuery: query,
		Status:          models.FineStatus(c.Ctx.Query("status")),
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	total, err := c.service().TotalPendingForUser(ctx, actor.ID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, FineListResponse{
		ListResponse: ListResponse{Items: fines, Pagination: pagination},
		PendingTotal: total,
	})
}

// 2. GetFine returns one fine
// @Summary      Get fine
// @Tags         Fines
// @Produce      json
// @Param        id  path  int  true  "Fine ID"
// @Success      200  {object}  models.Fine
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /fines/{id} [get]
// @Security     BearerAuth
func (c *FineController) GetFine() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	fine, err := c.service().GetFine(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, fine)
}

// 3. CreateFine issues a fine to a resident
// @Summary      Create fine
// @Tags         Fines
// @Accept       json
// @Produce      json
// @Param        request body FineRequest true "Fine"
// @Success      201  {object}  models.Fine
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /fines [post]
// @Security     BearerAuth
func (c *FineController) CreateFine() {
	var req FineRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	fine, err := c.service().CreateFine(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.FineInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, fine)
}

// 4. UpdateFine edits an unpaid fine
// @Summary      Update fine
// @Tags         Fines
// @Accept       json
// @Produce      json
// @Param        id       path  int          true  "Fine ID"
// @Param        request  body  FineRequest  true  "Fine"
// @Success      200  {object}  models.Fine
// @Failure      409  {object}  ErrorResponse
// @Router       /fines/{id} [put]
// @Security     BearerAuth
func (c *FineController) UpdateFine() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req FineRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	fine, err := c.service().UpdateFine(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, services.FineInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, fine)
}

// 5. DeleteFine removes a fine
// @Summary      Delete fine
// @Tags         Fines
// @Param        id  path  int  true  "Fine ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /fines/{id} [delete]
// @Security     BearerAuth
func (c *FineController) DeleteFine() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	if err := c.service().DeleteFine(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"id": id})
}

// 6. PayFine settles the caller's own pending fine
// @Summary      Pay fine
// @Tags         Fines
// @Accept       json
// @Produce      json
// @Param        id       path  int             true   "Fine ID"
// @Param        request  body  PayFineRequest  false  "Payment details"
// @Success      200  {object}  models.Fine
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /fines/{id}/pay [post]
// @Security     BearerAuth
func (c *FineController) PayFine() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req PayFineRequest
	if c.Ctx.Request.ContentLength != 0 && !bindJSON(c.Ctx, &req) {
		return
	}
	fine, err := c.service().PayFine(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, services.PayFineInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, fine)
}

// 7. PendingTotal returns the sum of the caller's unpaid fines
// @Summary      Pending fine total
// @Tags         Fines
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /fines/pending-total [get]
// @Security     BearerAuth
func (c *FineController) PendingTotal() {
	actor := middleware.CurrentUser(c.Ctx)
	total, err := c.service().TotalPendingForUser(c.Ctx.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"user_id": actor.ID, "pending_total": total})
}
