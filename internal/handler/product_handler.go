package handler

import (
	"net/http"

	"saleshub/internal/middleware"
	"saleshub/internal/model"
	"saleshub/internal/repository"
	"saleshub/internal/service"
	"saleshub/pkg/pagination"
	"saleshub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleSalesman, model.RoleCustomer, model.RoleWorker)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	products := router.Group("/api")
	{
		products.GET("/products", anyRole, h.ListProducts)
		products.GET("/products/:id", anyRole, h.GetProduct)
		products.POST("/products", adminOnly, h.CreateProduct)
		products.PUT("/products/:id", adminOnly, h.UpdateProduct)
		products.DELETE("/products/:id", adminOnly, h.DeactivateProduct)

		products.GET("/categories", anyRole, h.ListCategories)
		products.POST("/categories", adminOnly, h.CreateCategory)
		products.PUT("/categories/:id", adminOnly, h.UpdateCategory)
		products.DELETE("/categories/:id", adminOnly, h.DeleteCategory)
	}
}

// ListProducts returns a paginated product catalog
// @Summary      List products
// @Description  Retrieves a paginated list of products with variants and stock
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        page         query  int     false  "Page number (default 1)"
// @Param        limit        query  int     false  "Items per page (default 20)"
// @Param        search       query  string  false  "Search by product title"
// @Param        category_id  query  string  false  "Filter by category"
// @Param        active       query  bool    false  "Active products only"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.ProductFilter{
		Search:     c.Query("search"),
		ActiveOnly: c.DefaultQuery("active", "true") == "true",
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryID = &id
		}
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), params.Page, params.Limit, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve products: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetProduct returns one product with its variants
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// CreateProduct creates a new product with its variant list
// @Summary      Create product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// UpdateProduct updates a product, replacing its variant list when provided
// @Summary      Update product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest true  "Update Product Payload"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeactivateProduct soft-deletes a product (active=false)
// @Summary      Deactivate product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) DeactivateProduct(c *gin.Context) {
	if err := h.productService.DeactivateProduct(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]bool{"deactivated": true}))
}

// ListCategories returns all categories
// @Summary      List categories
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Category}
// @Failure      500  {object}  response.Response
// @Router       /api/categories [get]
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// CreateCategory creates a category
// @Summary      Create category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CategoryRequest  true  "Category Payload"
// @Success      201      {object}  response.Response{data=model.Category}
// @Failure      400      {object}  response.Response
// @Router       /api/categories [post]
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.productService.CreateCategory(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// UpdateCategory renames a category
// @Summary      Update category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Category ID"
// @Param        payload  body      service.CategoryRequest  true  "Category Payload"
// @Success      200      {object}  response.Response{data=model.Category}
// @Failure      400      {object}  response.Response
// @Router       /api/categories/{id} [put]
func (h *ProductHandler) UpdateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.productService.UpdateCategory(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// DeleteCategory deletes a category
// @Summary      Delete category
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/categories/{id} [delete]
func (h *ProductHandler) DeleteCategory(c *gin.Context) {
	if err := h.productService.DeleteCategory(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]bool{"deleted": true}))
}
