package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/response"
)

// ReservationController handles common areas and their bookings
type ReservationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReservationController creates a new reservation controller
func NewReservationController(ctx *gin.Context, container *container.ServiceContainer) *ReservationController {
	return &ReservationController{
		Ctx:       ctx,
		Container: container,
	}
}

// CommonAreaRequest is the body for creating or editing a common area
type CommonAreaRequest struct {
	Name        string `json:"name" binding:"required" example:"Party room"`
	Description string `json:"description" example:"Ground floor, up to 40 guests"`
	Capacity    int    `json:"capacity" binding:"required" example:"40"`
}

// ReservationRequest books an area; times are RFC 3339
type ReservationRequest struct {
	AreaID    uint      `json:"area_id" binding:"required" example:"1"`
	StartTime time.Time `json:"start_time" binding:"required" example:"2026-11-01T18:00:00Z"`
	EndTime   time.Time `json:"end_time" binding:"required" example:"2026-11-01T22:00:00Z"`
}

// HandleReservationFunc returns the gin handler for a reservation method
func HandleReservationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReservationController(ctx, container)

		switch method {
		case "listAreas":
			controller.ListAreas()
		case "createArea":
			controller.CreateArea()
		case "updateArea":
			controller.UpdateArea()
		case "deleteArea":
			controller.DeleteArea()
		case "listReservations":
			controller.ListReservations()
		case "createReservation":
			controller.CreateReservation()
		case "cancelReservation":
			controller.CancelReservation()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *ReservationController) service() services.InterfaceReservationService {
	return c.Container.GetService("reservation").(services.InterfaceReservationService)
}

// 1. ListAreas returns every common area
// @Summary      List common areas
// @Tags         Reservations
// @Produce      json
// @Success      200  {array}  models.CommonArea
// @Router       /common-areas [get]
// @Security     BearerAuth
func (c *ReservationController) ListAreas() {
	areas, err := c.service().ListAreas(c.Ctx.Request.Context())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, areas)
}

// 2. CreateArea adds a common area
// @Summary      Create common area
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Param        request body CommonAreaRequest true "Area"
// @Success      201  {object}  models.CommonArea
// @Failure      400  {object}  ErrorResponse
// @Router       /common-areas [post]
// @Security     BearerAuth
func (c *ReservationController) CreateArea() {
	var req CommonAreaRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	area, err := c.service().CreateArea(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.CommonAreaInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, area)
}

// 3. UpdateArea edits a common area
// @Summary      Update common area
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Param        id       path  int                true  "Area ID"
// @Param        request  body  CommonAreaRequest  true  "Area"
// @Success      200  {object}  models.CommonArea
// @Router       /common-areas/{id} [put]
// @Security     BearerAuth
func (c *ReservationController) UpdateArea() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req CommonAreaRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	area, err := c.service().UpdateArea(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, services.CommonAreaInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, area)
}

// 4. DeleteArea removes a common area
// @Summary      Delete common area
// @Tags         Reservations
// @Param        id  path  int  true  "Area ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /common-areas/{id} [delete]
// @Security     BearerAuth
func (c *ReservationController) DeleteArea() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	if err := c.service().DeleteArea(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"id": id})
}

// 5. ListReservations returns bookings, soonest first
// @Summary      List reservations
// @Description  Administrators see every booking, residents their own
// @Tags         Reservations
// @Produce      json
// @Param        area_id   query  int  false  "Area ID"
// @Param        pageNum   query  int  false  "Page number"
// @Param        pageSize  query  int  false  "Page size"
// @Success      200  {object}  ListResponse
// @Router       /reservations [get]
// @Security     BearerAuth
func (c *ReservationController) ListReservations() {
	query, ok := bindPagination(c.Ctx)
	if !ok {
		return
	}
	areaID, ok := parseOptionalID(c.Ctx, "area_id")
	if !ok {
		return
	}
	filter := services.ReservationFilter{PaginationQuery: query}
	if areaID != nil {
		filter.AreaID = *areaID
	}

	reservations, pagination, err := c.service().ListReservations(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), filter)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, ListResponse{Items: reservations, Pagination: pagination})
}

// 6. CreateReservation books an area for a time slot
// @Summary      Book common area
// @Tags         Reservations
// @Accept       json
// @Produce      json
// @Param        request body ReservationRequest true "Booking"
// @Success      201  {object}  models.Reservation
// @Failure      400  {object}  ErrorResponse
// @Router       /reservations [post]
// @Security     BearerAuth
func (c *ReservationController) CreateReservation() {
	var req ReservationRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	reservation, err := c.service().CreateReservation(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.ReservationInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, reservation)
}

// 7. CancelReservation releases a booking
// @Summary      Cancel reservation
// @Tags         Reservations
// @Param        id  path  int  true  "Reservation ID"
// @Success      200  {object}  models.Reservation
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /reservations/{id}/cancel [post]
// @Security     BearerAuth
func (c *ReservationController) CancelReservation() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	reservation, err := c.service().CancelReservation(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, reservation)
}
