package controllers

import (
	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/response"
)

// InterfaceReportController defines the report controller interface
type InterfaceReportController interface {
	ListReports()
	GetReport()
	CreateReport()
	UpdateReport()
	DeleteReport()
	StartProgress()
	ResolveReport()
	RejectReport()
	AddAdminComment()
}

// ReportController handles incident reports
type ReportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReportController creates a new report controller
func NewReportController(ctx *gin.Context, container *container.ServiceContainer) *ReportController {
	return &ReportController{
		Ctx:       ctx,
		Container: container,
	}
}

// ReportRequest is the body for creating or editing a report
type ReportRequest struct {
	Title       string `json:"title" binding:"required" example:"Broken streetlight near gate"`
	Description string `json:"description" binding:"required" example:"The light at the main gate has been off for two nights"`
	Location    string `json:"location" binding:"required" example:"Main gate"`
}

// ResolveReportRequest carries the optional resolution note
type ResolveReportRequest struct {
	Comment string `json:"comment" example:"Fixed by maintenance"`
}

// RejectReportRequest carries the mandatory rejection reason
type RejectReportRequest struct {
	Reason string `json:"reason" binding:"required" example:"Duplicate of report 12"`
}

// AdminCommentRequest carries an administrator note
type AdminCommentRequest struct {
	Comment string `json:"comment" binding:"required" example:"Technician scheduled for Monday"`
}

// HandleReportFunc returns the gin handler for a report method
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReportController(ctx, container)

		switch method {
		case "listReports":
			controller.ListReports()
		case "getReport":
			controller.GetReport()
		case "createReport":
			controller.CreateReport()
		case "updateReport":
			controller.UpdateReport()
		case "deleteReport":
			controller.DeleteReport()
		case "startProgress":
			controller.StartProgress()
		case "resolveReport":
			controller.ResolveReport()
		case "rejectReport":
			controller.RejectReport()
		case "addAdminComment":
			controller.AddAdminComment()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *ReportController) service() services.InterfaceReportService {
	return c.Container.GetService("report").(services.InterfaceReportService)
}

// 1. ListReports returns reports, newest first
// @Summary      List reports
// @Description  Administrators see every report, residents their own
// @Tags         Reports
// @Produce      json
// @Param        status    query  string  false  "received, in_progress, resolved or rejected"
// @Param        pageNum   query  int     false  "Page number"
// @Param        pageSize  query  int     false  "Page size"
// @Success      200  {object}  ListResponse
// @Router       /reports [get]
// @Security     BearerAuth
func (c *ReportController) ListReports() {
	query, ok := bindPagination(c.Ctx)
	if !ok {
		return
	}

	reports, pagination, err := c.service().ListReports(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.ReportFilter{
		PaginationQuery: query,
		Status:          models.ReportStatus(c.Ctx.Query("status")),
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, ListResponse{Items: reports, Pagination: pagination})
}

// 2. GetReport returns one report
// @Summary      Get report
// @Tags         Reports
// @Produce      json
// @Param        id  path  int  true  "Report ID"
// @Success      200  {object}  models.Report
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /reports/{id} [get]
// @Security     BearerAuth
func (c *ReportController) GetReport() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	report, err := c.service().GetReport(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, report)
}

// 3. CreateReport files a report
// @Summary      Create report
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Param        request body ReportRequest true "Report"
// @Success      201  {object}  models.Report
// @Failure      400  {object}  ErrorResponse
// @Router       /reports [post]
// @Security     BearerAuth
func (c *ReportController) CreateReport() {
	var req ReportRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	report, err := c.service().CreateReport(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.ReportInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, report)
}

// 4. UpdateReport edits title, description and location
// @Summary      Update report
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Param        id       path  int            true  "Report ID"
// @Param        request  body  ReportRequest  true  "Report"
// @Success      200  {object}  models.Report
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /reports/{id} [put]
// @Security     BearerAuth
func (c *ReportController) UpdateReport() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req ReportRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	report, err := c.service().UpdateReport(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, services.ReportInput(req))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, report)
}

// 5. DeleteReport removes a report
// @Summary      Delete report
// @Tags         Reports
// @Param        id  path  int  true  "Report ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Router       /reports/{id} [delete]
// @Security     BearerAuth
func (c *ReportController) DeleteReport() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	if err := c.service().DeleteReport(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"id": id})
}

// 6. StartProgress moves a received report to in_progress
// @Summary      Start work on report
// @Tags         Reports
// @Param        id  path  int  true  "Report ID"
// @Success      200  {object}  models.Report
// @Failure      409  {object}  ErrorResponse
// @Router       /reports/{id}/start [post]
// @Security     BearerAuth
func (c *ReportController) StartProgress() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	report, err := c.service().StartProgress(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, report)
}

// 7. ResolveReport marks a report resolved
// @Summary      Resolve report
// @Tags         Reports
// @Accept       json
// @Param        id       path  int                   true   "Report ID"
// @Param        request  body  ResolveReportRequest  false  "Resolution note"
// @Success      200  {object}  models.Report
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /reports/{id}/resolve [post]
// @Security     BearerAuth
func (c *ReportController) ResolveReport() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req ResolveReportRequest
	if c.Ctx.Request.ContentLength != 0 && !bindJSON(c.Ctx, &req) {
		return
	}
	report, err := c.service().ResolveReport(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, req.Comment)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, report)
}

// 8. RejectReport closes a report with a reason
// @Summary      Reject report
// @Tags         Reports
// @Accept       json
// @Param        id       path  int                  true  "Report ID"
// @Param        request  body  RejectReportRequest  true  "Reason"
// @Success      200  {object}  models.Report
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /reports/{id}/reject [post]
// @Security     BearerAuth
func (c *ReportController) RejectReport() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req RejectReportRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	report, err := c.service().RejectReport(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, req.Reason)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, report)
}

// 9. AddAdminComment attaches an administrator note
// @Summary      Add admin comment
// @Tags         Reports
// @Accept       json
// @Param        id       path  int                  true  "Report ID"
// @Param        request  body  AdminCommentRequest  true  "Note"
// @Success      200  {object}  models.Report
// @Router       /reports/{id}/admin-comment [post]
// @Security     BearerAuth
func (c *ReportController) AddAdminComment() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req AdminCommentRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	report, err := c.service().AddAdminComment(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, req.Comment)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, report)
}
