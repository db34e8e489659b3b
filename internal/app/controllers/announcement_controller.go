package controllers

import (
	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/response"
)

// AnnouncementController handles the notice board
type AnnouncementController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAnnouncementController creates a new announcement controller
func NewAnnouncementController(ctx *gin.Context, container *container.ServiceContainer) *AnnouncementController {
	return &AnnouncementController{
		Ctx:       ctx,
		Container: container,
	}
}

// AnnouncementRequest is the body for posting or editing an announcement
type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required" example:"Water shutoff on Friday"`
	Content string `json:"content" binding:"required" example:"Maintenance from 09:00 to 12:00"`
}

// HandleAnnouncementFunc returns the gin handler for an announcement method
func HandleAnnouncementFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAnnouncementController(ctx, container)

		switch method {
		case "listAnnouncements":
			controller.ListAnnouncements()
		case "getAnnouncement":
			controller.GetAnnouncement()
		case "createAnnouncement":
			controller.CreateAnnouncement()
		case "updateAnnouncement":
			controller.UpdateAnnouncement()
		case "deleteAnnouncement":
			controller.DeleteAnnouncement()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *AnnouncementController) service() services.InterfaceAnnouncementService {
	return c.Container.GetService("announcement").(services.InterfaceAnnouncementService)
}

// ListAnnouncements returns announcements, newest first
// @Summary      List announcements
// @Tags         Announcements
// @Produce      json
// @Param        pageNum   query  int  false  "Page number"
// @Param        pageSize  query  int  false  "Page size"
// @Success      200  {object}  ListResponse
// @Router       /announcements [get]
// @Security     BearerAuth
func (c *AnnouncementController) ListAnnouncements() {
	query, ok := bindPagination(c.Ctx)
	if !ok {
		return
	}
	announcements, pagination, err := c.service().ListAnnouncements(c.Ctx.Request.Context(), query)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, ListResponse{Items: announcements, Pagination: pagination})
}

// GetAnnouncement returns one announcement
// @Summary      Get announcement
// @Tags         Announcements
// @Produce      json
// @Param        id  path  int  true  "Announcement ID"
// @Success      200  {object}  models.Announcement
// @Failure      404  {object}  ErrorResponse
// @Router       /announcements/{id} [get]
// @Security     BearerAuth
func (c *AnnouncementController) GetAnnouncement() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	announcement, err := c.service().GetAnnouncement(c.Ctx.Request.Context(), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, announcement)
}

// CreateAnnouncement posts an announcement
// @Summary      Post announcement
// @Tags         Announcements
// @Accept       json
// @Produce      json
// @Param        request body AnnouncementRequest true "Announcement"
// @Success      201  {object}  models.Announcement
// @Failure      400  {object}  ErrorResponse
// @Router       /announcements [post]
// @Security     BearerAuth
func (c *AnnouncementController) CreateAnnouncement() {
	var req AnnouncementRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	announcement, err := c.service().CreateAnnouncement(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), req.Title, req.Content)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, announcement)
}

// UpdateAnnouncement edits an announcement
// @Summary      Update announcement
// @Tags         Announcements
// @Accept       json
// @Produce      json
// @Param        id       path  int                  true  "Announcement ID"
// @Param        request  body  AnnouncementRequest  true  "Announcement"
// @Success      200  {object}  models.Announcement
// @Failure      403  {object}  ErrorResponse
// @Router       /announcements/{id} [put]
// @Security     BearerAuth
func (c *AnnouncementController) UpdateAnnouncement() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req AnnouncementRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	announcement, err := c.service().UpdateAnnouncement(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, req.Title, req.Content)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, announcement)
}

// DeleteAnnouncement removes an announcement and its comments
// @Summary      Delete announcement
// @Tags         Announcements
// @Param        id  path  int  true  "Announcement ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Router       /announcements/{id} [delete]
// @Security     BearerAuth
func (c *AnnouncementController) DeleteAnnouncement() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	if err := c.service().DeleteAnnouncement(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"id": id})
}
