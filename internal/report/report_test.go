package report

import (
	"testing"
	"time"

	"saleshub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func deliveredOrder(created time.Time, amount, profit float64) model.Order {
	return model.Order{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		SalesmanID:  uuid.New(),
		TotalAmount: amount,
		TotalProfit: profit,
		Status:      model.OrderStatusDelivered,
		CreatedAt:   created,
	}
}

func TestWeeklyProfit(t *testing.T) {
	orders := []model.Order{
		deliveredOrder(now, 300, 120),
		deliveredOrder(now.AddDate(0, 0, -2), 200, 80),
		deliveredOrder(now.AddDate(0, 0, -8), 999, 999), // outside the window
	}
	pending := deliveredOrder(now, 500, 250)
	pending.Status = model.OrderStatusPending
	orders = append(orders, pending)

	points := WeeklyProfit(orders, now)
	require.Len(t, points, 7)

	// Oldest day first, today last.
	assert.Equal(t, now.AddDate(0, 0, -6).Weekday().String(), points[0].Period)
	last := points[6]
	assert.Equal(t, now.Weekday().String(), last.Period)

	// Pending money never lands in the series.
	assert.Equal(t, 300.0, last.Sales)
	assert.Equal(t, 120.0, last.Profit)
	assert.Equal(t, 1, last.Orders)

	assert.Equal(t, 200.0, points[4].Sales)
}

func TestMonthlyProfit(t *testing.T) {
	orders := []model.Order{
		deliveredOrder(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), 100, 40),
		deliveredOrder(time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC), 150, 60),
		deliveredOrder(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), 300, 120),
	}

	points := MonthlyProfit(orders)
	require.Len(t, points, 2)

	assert.Equal(t, "Jan 2026", points[0].Period)
	assert.Equal(t, 250.0, points[0].Sales)
	assert.Equal(t, 100.0, points[0].Profit)
	assert.Equal(t, 2, points[0].Orders)

	assert.Equal(t, "Mar 2026", points[1].Period)
	assert.Equal(t, 300.0, points[1].Sales)
}

func TestYearlyProfit(t *testing.T) {
	orders := []model.Order{
		deliveredOrder(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 400, 160),
		deliveredOrder(time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), 999, 999), // last year
	}

	points := YearlyProfit(orders, now)
	require.Len(t, points, 12)

	assert.Equal(t, "January", points[0].Period)
	assert.Equal(t, "February", points[1].Period)
	assert.Equal(t, 400.0, points[1].Sales)
	assert.Equal(t, 1, points[1].Orders)
	assert.Equal(t, 0.0, points[0].Sales)
	assert.Equal(t, "December", points[11].Period)
}

func TestTopProducts(t *testing.T) {
	shirtID := uuid.New()
	pantsID := uuid.New()
	capID := uuid.New()
	orders := []model.Order{
		{Items: []model.OrderItem{
			{ProductID: shirtID, ProductName: "Classic Shirt", Quantity: 5, CostPrice: 60, FinalPrice: 100},
			{ProductID: pantsID, ProductName: "Cargo Pants", Quantity: 5, CostPrice: 40, FinalPrice: 80},
		}},
		{Items: []model.OrderItem{
			{ProductID: shirtID, ProductName: "Classic Shirt", Quantity: 2, CostPrice: 60, FinalPrice: 100},
			{ProductID: capID, ProductName: "Baseball Cap", Quantity: 1, CostPrice: 5, FinalPrice: 20},
		}},
	}

	rankings := TopProducts(orders, 2)
	require.Len(t, rankings, 2)

	assert.Equal(t, "Classic Shirt", rankings[0].ProductName)
	assert.Equal(t, 7, rankings[0].UnitsSold)
	assert.Equal(t, 280.0, rankings[0].Profit)
	assert.Equal(t, "Cargo Pants", rankings[1].ProductName)
}

func TestTopProductsProfitBreaksTies(t *testing.T) {
	cheapID := uuid.New()
	richID := uuid.New()
	orders := []model.Order{
		{Items: []model.OrderItem{
			{ProductID: cheapID, ProductName: "Baseball Cap", Quantity: 3, CostPrice: 5, FinalPrice: 10},
			{ProductID: richID, ProductName: "Leather Jacket", Quantity: 3, CostPrice: 100, FinalPrice: 250},
		}},
	}

	rankings := TopProducts(orders, 0)
	require.Len(t, rankings, 2)
	assert.Equal(t, "Leather Jacket", rankings[0].ProductName)
}

func TestPerformanceForSalesman(t *testing.T) {
	salesmanID := uuid.New()
	orders := []model.Order{
		deliveredOrder(now, 300, 120),
		deliveredOrder(now, 100, 40),
		deliveredOrder(now, 200, 80),
		{ID: uuid.New(), SalesmanID: salesmanID, SalesmanName: "maria", TotalAmount: 999, Status: model.OrderStatusPending},
	}
	for i := 0; i < 3; i++ {
		orders[i].SalesmanID = salesmanID
		orders[i].SalesmanName = "maria"
	}

	perf := PerformanceForSalesman(orders, salesmanID)

	assert.Equal(t, "maria", perf.SalesmanName)
	assert.Equal(t, 4, perf.TotalOrders)
	assert.Equal(t, 3, perf.DeliveredOrders)
	assert.Equal(t, 600.0, perf.TotalSales)
	assert.Equal(t, 240.0, perf.TotalProfit)
	assert.Equal(t, 75, perf.CompletionRate)
	assert.Equal(t, 200.0, perf.AverageOrderValue)
}

func TestPerformanceForSalesmanNoOrders(t *testing.T) {
	perf := PerformanceForSalesman(nil, uuid.New())

	assert.Equal(t, 0, perf.TotalOrders)
	assert.Equal(t, 0, perf.CompletionRate)
	assert.Equal(t, 0.0, perf.AverageOrderValue)
}

func TestTopCustomers(t *testing.T) {
	bigID := uuid.New()
	smallID := uuid.New()
	orders := []model.Order{
		{CustomerID: bigID, CustomerName: "acme-store", DeliveredAmount: 800, Items: []model.OrderItem{
			{Quantity: 10, DeliveredQuantity: 8},
		}},
		{CustomerID: bigID, CustomerName: "acme-store", DeliveredAmount: 200, Items: []model.OrderItem{
			{Quantity: 2, DeliveredQuantity: 2},
		}},
		{CustomerID: smallID, CustomerName: "corner-shop", DeliveredAmount: 300, Items: []model.OrderItem{
			{Quantity: 3, DeliveredQuantity: 3},
		}},
	}

	rankings := TopCustomers(orders, 5)
	require.Len(t, rankings, 2)

	assert.Equal(t, "acme-store", rankings[0].CustomerName)
	assert.Equal(t, 10, rankings[0].DeliveredPieces)
	assert.Equal(t, 1000.0, rankings[0].DeliveredAmount)
	assert.Equal(t, "corner-shop", rankings[1].CustomerName)
}
