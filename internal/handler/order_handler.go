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

type OrderHandler struct {
	orderService    service.OrderService
	deliveryService service.DeliveryService
	stockService    service.StockService
}

func NewOrderHandler(orderService service.OrderService, deliveryService service.DeliveryService, stockService service.StockService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		deliveryService: deliveryService,
		stockService:    stockService,
	}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleSalesman, model.RoleWorker)
	sellers := middleware.RequireRole(model.RoleAdmin, model.RoleSalesman)
	fulfillers := middleware.RequireRole(model.RoleAdmin, model.RoleWorker)

	orders := router.Group("/api")
	{
		orders.POST("/orders/check-stock", sellers, h.CheckStock)
		orders.POST("/orders", sellers, h.CreateOrder)
		orders.GET("/orders", staff, h.ListOrders)
		orders.GET("/orders/:id", staff, h.GetOrder)
		orders.PATCH("/orders/:id/delivery", fulfillers, h.UpdateDelivery)
		orders.GET("/orders/:id/delivery-summary", staff, h.DeliverySummary)
	}
}

type checkStockRequest struct {
	Items []service.StockCheckItem `json:"items" binding:"required,min=1,dive"`
}

// CheckStock pre-flights a cart against current stock without creating
// anything or mutating any state
// @Summary      Check order stock
// @Description  Read-only probe reporting every under-stocked line of a draft order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      checkStockRequest  true  "Draft order items"
// @Success      200      {object}  response.Response{data=service.StockCheckResult}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/orders/check-stock [post]
func (h *OrderHandler) CheckStock(c *gin.Context) {
	var req checkStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.stockService.CheckOrderStock(c.Request.Context(), req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CreateOrder validates and creates an order
// @Summary      Create order
// @Description  Validates discounts and stock, persists the order and applies stock decrements and salesman statistics
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Order draft"
// @Success      201      {object}  response.Response{data=service.CreateOrderResult}
// @Success      200      {object}  response.Response{data=service.CreateOrderResult}  "Business-rule rejection"
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to create order: "+err.Error()))
		return
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusOK
	}
	c.JSON(status, response.Success(status, result))
}

// ListOrders returns a paginated order list
// @Summary      List orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), params.Page, params.Limit, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve orders: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// GetOrder returns one order with its items
// @Summary      Get order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=model.Order}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

type deliveryRequest struct {
	Items []service.DeliveryItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateDelivery applies a batch of partial-delivery events to an order
// @Summary      Update partial delivery
// @Description  Applies delivery events, clamping per-line delivered quantities and recomputing the order status
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Order ID"
// @Param        payload  body      deliveryRequest  true  "Delivery events"
// @Success      200      {object}  response.Response{data=service.DeliveryUpdateResult}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/orders/{id}/delivery [patch]
func (h *OrderHandler) UpdateDelivery(c *gin.Context) {
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.deliveryService.UpdatePartialDelivery(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to update delivery: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeliverySummary derives delivery progress for an order
// @Summary      Get delivery summary
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.DeliverySummary}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id}/delivery-summary [get]
func (h *OrderHandler) DeliverySummary(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, service.GetOrderDeliverySummary(order)))
}
