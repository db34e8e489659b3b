package controllers

import (
	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/response"
)

// LostItemController handles the lost-and-found board
type LostItemController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewLostItemController creates a new lost item controller
func NewLostItemController(ctx *gin.Context, container *container.ServiceContainer) *LostItemController {
	return &LostItemController{
		Ctx:       ctx,
		Container: container,
	}
}

// LostItemRequest is the body for posting or editing a lost item
type LostItemRequest struct {
	Title       string `json:"title" binding:"required" example:"Blue umbrella"`
	Description string `json:"description" example:"Left at the pool on Sunday"`
	ImageURL    string `json:"image_url" example:"https://example.com/umbrella.jpg"`
}

// HandleLostItemFunc returns the gin handler for a lost item method
func HandleLostItemFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewLostItemController(ctx, container)

		switch method {
		case "listItems":
			controller.ListItems()
		case "getItem":
			controller.GetItem()
		case "createItem":
			controller.CreateItem()
		case "updateItem":
			controller.UpdateItem()
		case "deleteItem":
			controller.DeleteItem()
		case "markFound":
			controller.MarkFound()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *LostItemController) service() services.InterfaceLostItemService {
	return c.Container.GetService("lost_item").(services.InterfaceLostItemService)
}

// ListItems returns unfound items first, then newest first
// @Summary      List lost items
// @Tags         Lost items
// @Produce      json
// @Param        pageNum   query  int  false  "Page number"
// @Param        pageSize  query  int  false  "Page size"
// @Success      200  {object}  ListResponse
// @Router       /lost-items [get]
// @Security     BearerAuth
func (c *LostItemController) ListItems() {
	query, ok := bindPagination(c.Ctx)
	if !ok {
		return
	}
	items, pagination, err := c.service().ListItems(c.Ctx.Request.Context(), query)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, ListResponse{Items: items, Pagination: pagination})
}

// GetItem returns one item
// @Summary      Get lost item
// @Tags         Lost items
// @Produce      json
// @Param        id  path  int  true  "Item ID"
// @Success      200  {object}  models.LostItem
// @Failure      404  {object}  ErrorResponse
// @Router       /lost-items/{id} [get]
// @Security     BearerAuth
func (c *LostItemController) GetItem() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	item, err := c.service().GetItem(c.Ctx.Request.Context(), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, item)
}

// CreateItem posts an item
// @Summary      Post lost item
// @Tags         Lost items
// @Accept       json
// @Produce      json
// @Param        request body LostItemRequest true "Item"
// @Success      201  {object}  models.LostItem
// @Failure      400  {object}  ErrorResponse
// @Router       /lost-items [post]
// @Security     BearerAuth
func (c *LostItemController) CreateItem() {
	var req LostItemRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	item, err := c.service().CreateItem(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.LostItemInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, item)
}

// UpdateItem edits an item
// @Summary      Update lost item
// @Tags         Lost items
// @Accept       json
// @Produce      json
// @Param        id       path  int              true  "Item ID"
// @Param        request  body  LostItemRequest  true  "Item"
// @Success      200  {object}  models.LostItem
// @Failure      403  {object}  ErrorResponse
// @Router       /lost-items/{id} [put]
// @Security     BearerAuth
func (c *LostItemController) UpdateItem() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req LostItemRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	item, err := c.service().UpdateItem(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, services.LostItemInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, item)
}

// DeleteItem removes an item
// @Summary      Delete lost item
// @Tags         Lost items
// @Param        id  path  int  true  "Item ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Router       /lost-items/{id} [delete]
// @Security     BearerAuth
func (c *LostItemController) DeleteItem() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	if err := c.service().DeleteItem(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"id": id})
}

// MarkFound flags an item as returned
// @Summary      Mark lost item found
// @Tags         Lost items
// @Param        id  path  int  true  "Item ID"
// @Success      200  {object}  models.LostItem
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /lost-items/{id}/found [post]
// @Security     BearerAuth
func (c *LostItemController) MarkFound() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	item, err := c.service().MarkFound(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, item)
}
