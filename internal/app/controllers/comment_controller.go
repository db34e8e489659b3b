package controllers

import (
	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/response"
)

// CommentController handles comment threads on reports and announcements
type CommentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCommentController creates a new comment controller
func NewCommentController(ctx *gin.Context, container *container.ServiceContainer) *CommentController {
	return &CommentController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateCommentRequest names exactly one parent
type CreateCommentRequest struct {
	Content        string `json:"content" binding:"required" example:"Same problem on the second floor"`
	ReportID       *uint  `json:"report_id" example:"3"`
	AnnouncementID *uint  `json:"announcement_id"`
}

// EditCommentRequest carries the new text
type EditCommentRequest struct {
	Content string `json:"content" binding:"required" example:"Same problem on the third floor"`
}

// HandleCommentFunc returns the gin handler for a comment method
func HandleCommentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCommentController(ctx, container)

		switch method {
		case "listComments":
			controller.ListComments()
		case "createComment":
			controller.CreateComment()
		case "editComment":
			controller.EditComment()
		case "deleteComment":
			controller.DeleteComment()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *CommentController) service() services.InterfaceCommentService {
	return c.Container.GetService("comment").(services.InterfaceCommentService)
}

// ListComments returns the thread of one parent, oldest first
// @Summary      List comments
// @Tags         Comments
// @Produce      json
// @Param        report_id        query  int  false  "Report ID"
// @Param        announcement_id  query  int  false  "Announcement ID"
// @Success      200  {array}   models.Comment
// @Failure      400  {object}  ErrorResponse
// @Router       /comments [get]
// @Security     BearerAuth
func (c *CommentController) ListComments() {
	reportID, ok := parseOptionalID(c.Ctx, "report_id")
	if !ok {
		return
	}
	announcementID, ok := parseOptionalID(c.Ctx, "announcement_id")
	if !ok {
		return
	}

	comments, err := c.service().ListComments(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.CommentParent{
		ReportID:       reportID,
		AnnouncementID: announcementID,
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, comments)
}

// CreateComment posts a comment
// @Summary      Post comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Param        request body CreateCommentRequest true "Comment"
// @Success      201  {object}  models.Comment
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /comments [post]
// @Security     BearerAuth
func (c *CommentController) CreateComment() {
	var req CreateCommentRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	comment, err := c.service().CreateComment(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.CommentParent{
		ReportID:       req.ReportID,
		AnnouncementID: req.AnnouncementID,
	}, req.Content)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, comment)
}

// EditComment replaces the text and marks the comment edited
// @Summary      Edit comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Param        id       path  int                 true  "Comment ID"
// @Param        request  body  EditCommentRequest  true  "Comment"
// @Success      200  {object}  models.Comment
// @Failure      403  {object}  ErrorResponse
// @Router       /comments/{id} [put]
// @Security     BearerAuth
func (c *CommentController) EditComment() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req EditCommentRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	comment, err := c.service().EditComment(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, req.Content)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, comment)
}

// DeleteComment removes a comment
// @Summary      Delete comment
// @Tags         Comments
// @Param        id  path  int  true  "Comment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Router       /comments/{id} [delete]
// @Security     BearerAuth
func (c *CommentController) DeleteComment() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	if err := c.service().DeleteComment(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"id": id})
}
