package handler

import (
	"net/http"
	"strconv"

	"saleshub/internal/middleware"
	"saleshub/internal/model"
	"saleshub/internal/service"
	"saleshub/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleSalesman)

	reports := router.Group("/api/reports")
	{
		reports.GET("/profit", adminOnly, h.ProfitSeries)
		reports.GET("/top-products", adminOnly, h.TopProducts)
		reports.GET("/salesmen/:id/performance", staff, h.SalesmanPerformance)
		reports.GET("/top-customers", adminOnly, h.TopCustomers)
	}
}

// ProfitSeries returns a time-bucketed profit/sales series
// @Summary      Profit series
// @Description  Weekly, monthly or yearly profit buckets; only delivered orders contribute
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        period  query  string  false  "weekly | monthly | yearly (default monthly)"
// @Success      200  {object}  response.Response{data=[]report.ProfitPoint}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/reports/profit [get]
func (h *ReportHandler) ProfitSeries(c *gin.Context) {
	points, err := h.reportService.ProfitSeries(c.Request.Context(), c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}

// TopProducts returns the product leaderboard
// @Summary      Top products
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query  int  false  "Number of entries (default 5)"
// @Success      200  {object}  response.Response{data=[]report.ProductRanking}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	rankings, err := h.reportService.TopProducts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rankings))
}

// SalesmanPerformance summarizes one salesman's order book
// @Summary      Salesman performance
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Salesman ID"
// @Success      200  {object}  response.Response{data=report.SalesmanPerformance}
// @Failure      400  {object}  response.Response
// @Router       /api/reports/salesmen/{id}/performance [get]
func (h *ReportHandler) SalesmanPerformance(c *gin.Context) {
	perf, err := h.reportService.SalesmanPerformance(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, perf))
}

// TopCustomers returns the customer leaderboard by delivered pieces
// @Summary      Top customers
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query  int  false  "Number of entries (default 5)"
// @Success      200  {object}  response.Response{data=[]report.CustomerRanking}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/top-customers [get]
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	rankings, err := h.reportService.TopCustomers(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rankings))
}
