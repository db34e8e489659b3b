package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/error/code"
	"vizinho-http-service/internal/error/response"
)

// ErrorResponse is the envelope of a failed request
type ErrorResponse struct {
	Code    int         `json:"code" example:"100003"`
	Message string      `json:"message" example:"title is required"`
	Data    interface{} `json:"data"`
}

// ListResponse wraps a page of records
type ListResponse struct {
	Items      interface{}             `json:"items"`
	Pagination models.PaginationResult `json:"pagination"`
}

// parseID reads the :id path parameter, writing a 400 when it is not a positive integer
func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ParamError(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// parseOptionalID reads an optional positive integer query parameter
func parseOptionalID(ctx *gin.Context, name string) (*uint, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.ParamError(ctx, "invalid "+name)
		return nil, false
	}
	value := uint(id)
	return &value, true
}

// bindPagination reads pageNum, pageSize and desc from the query string
func bindPagination(ctx *gin.Context) (models.PaginationQuery, bool) {
	var query models.PaginationQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.FailWithMessage(ctx, code.ErrBind, "invalid pagination parameters: "+err.Error(), nil)
		return query, false
	}
	return query.Normalize(), true
}

// bindJSON binds the request body, writing a 400 on failure
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.FailWithMessage(ctx, code.ErrBind, "invalid request body: "+err.Error(), nil)
		return false
	}
	return true
}

func invalidMethod(ctx *gin.Context) {
	response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
}
