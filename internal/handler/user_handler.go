package handler

import (
	"net/http"

	"saleshub/internal/middleware"
	"saleshub/internal/model"
	"saleshub/internal/service"
	"saleshub/pkg/pagination"
	"saleshub/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleSalesman, model.RoleCustomer, model.RoleWorker)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	users := router.Group("/api/users")
	{
		users.POST("/login", h.Login)
		users.POST("/logout", h.Logout)
		users.GET("/me", anyRole, h.Me)

		users.POST("", adminOnly, h.CreateUser)
		users.GET("", adminOnly, h.ListUsers)
		users.GET("/:id", adminOnly, h.GetUser)
		users.PUT("/:id", adminOnly, h.UpdateUser)
	}
}

// CreateUser creates a new user account
// @Summary      Create a user
// @Description  Creates an account with one of the roles admin, salesman, customer or worker
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.CreateUserRequest  true  "User payload"
// @Success      201  {object}  response.Response{data=service.UserResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// Login authenticates a user and sets the access token cookie
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      service.LoginUserRequest  true  "Credentials"
// @Success      200  {object}  response.Response{data=service.TokenResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookie(c, token.Token)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, token))
}

// Logout clears the access token cookie
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "logged out"}))
}

// Me returns the authenticated user's profile
// @Summary      Current user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// ListUsers returns a paginated user list, optionally filtered by role
// @Summary      List users
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int     false  "Page number (default 1)"
// @Param        limit  query  int     false  "Items per page (default 20)"
// @Param        role   query  string  false  "Filter by role"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := pagination.Parse(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), params.Page, params.Limit, c.Query("role"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve users: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetUser returns a single user by id
// @Summary      Get user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateUser changes profile fields, approval and discount ceiling
// @Summary      Update user
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "User ID"
// @Param        request  body      service.UpdateUserRequest  true  "Fields to update"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}
