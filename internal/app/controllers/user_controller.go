package controllers

import (
	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/error/response"
)

// InterfaceUserController defines the user controller interface
type InterfaceUserController interface {
	GetMe()
	GetProfile()
	UpdateProfile()
	ListUsers()
	CreateUser()
	ChangeRole()
}

// UserController handles accounts and profiles
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController creates a new user controller
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateUserRequest is the body for creating an account
type CreateUserRequest struct {
	Username string `json:"username" binding:"required" example:"maria"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Email    string `json:"email" example:"maria@example.com"`
	Phone    string `json:"phone" example:"55998877"`
	Role     string `json:"role" example:"resident"`
}

// ChangeRoleRequest is the body for changing a role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required" example:"administrator"`
}

// UpdateProfileRequest is the body for editing the own profile; omitted fields stay unchanged
type UpdateProfileRequest struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	PhotoURL *string `json:"photo_url"`
	Bio      *string `json:"bio"`
}

// HandleUserFunc returns the gin handler for a user method
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getMe":
			controller.GetMe()
		case "getProfile":
			controller.GetProfile()
		case "updateProfile":
			controller.UpdateProfile()
		case "listUsers":
			controller.ListUsers()
		case "createUser":
			controller.CreateUser()
		case "changeRole":
			controller.ChangeRole()
		default:
			invalidMethod(ctx)
		}
	}
}

func (c *UserController) service() services.InterfaceUserService {
	return c.Container.GetService("user").(services.InterfaceUserService)
}

// 1. GetMe returns the authenticated user
// @Summary      Current user
// @Tags         Users
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  ErrorResponse
// @Router       /me [get]
// @Security     BearerAuth
func (c *UserController) GetMe() {
	response.Success(c.Ctx, middleware.CurrentUser(c.Ctx))
}

// 2. GetProfile returns the own profile
// @Summary      Own profile
// @Tags         Users
// @Produce      json
// @Success      200  {object}  models.Profile
// @Router       /me/profile [get]
// @Security     BearerAuth
func (c *UserController) GetProfile() {
	profile, err := c.service().GetProfile(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, profile)
}

// 3. UpdateProfile edits contact details, photo and bio
// @Summary      Update own profile
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200  {object}  models.Profile
// @Failure      400  {object}  ErrorResponse
// @Router       /me/profile [put]
// @Security     BearerAuth
func (c *UserController) UpdateProfile() {
	var req UpdateProfileRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	profile, err := c.service().UpdateProfile(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.UpdateProfileInput{
		Email:    req.Email,
		Phone:    req.Phone,
		PhotoURL: req.PhotoURL,
		Bio:      req.Bio,
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, profile)
}

// 4. ListUsers returns a page of accounts
// @Summary      List users
// @Tags         Admin
// @Produce      json
// @Param        pageNum   query  int  false  "Page number"
// @Param        pageSize  query  int  false  "Page size"
// @Success      200  {object}  ListResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/users [get]
// @Security     BearerAuth
func (c *UserController) ListUsers() {
	query, ok := bindPagination(c.Ctx)
	if !ok {
		return
	}

	users, pagination, err := c.service().ListUsers(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), query)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, ListResponse{Items: users, Pagination: pagination})
}

// 5. CreateUser registers an account with an empty profile
// @Summary      Create user
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "Account"
// @Success      201  {object}  models.User
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/users [post]
// @Security     BearerAuth
func (c *UserController) CreateUser() {
	var req CreateUserRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	user, err := c.service().CreateUser(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     role,
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, user)
}

// 6. ChangeRole promotes or demotes an account
// @Summary      Change role
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id       path  int                true  "User ID"
// @Param        request  body  ChangeRoleRequest  true  "New role"
// @Success      200  {object}  models.User
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/users/{id}/role [put]
// @Security     BearerAuth
func (c *UserController) ChangeRole() {
	id, ok := parseID(c.Ctx)
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	user, err := c.service().ChangeRole(c.Ctx.Request.Context(), middleware.CurrentUser(c.Ctx), id, role)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, user)
}
