// Package report contains pure, side-effect-free folds over order
// collections. Every function is deterministic given the same orders and
// reference time; none of them touches persistence. Realized profit and
// sales figures count fully delivered orders only — pending and partially
// delivered orders contribute nothing to the money series.
package report

import (
	"sort"
	"time"

	"saleshub/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfitPoint is one bucket of a time-series report.
type ProfitPoint struct {
	Period string  `json:"period"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
	Orders int     `json:"orders"`
}

// ProductRanking ranks a product by units sold, profit breaking ties.
type ProductRanking struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitsSold   int     `json:"units_sold"`
	Profit      float64 `json:"profit"`
}

// SalesmanPerformance summarizes one salesman's order book. TotalOrders
// counts every status; the money figures count delivered orders only.
type SalesmanPerformance struct {
	SalesmanID        string  `json:"salesman_id"`
	SalesmanName      string  `json:"salesman_name"`
	TotalOrders       int     `json:"total_orders"`
	DeliveredOrders   int     `json:"delivered_orders"`
	TotalSales        float64 `json:"total_sales"`
	TotalProfit       float64 `json:"total_profit"`
	CompletionRate    int     `json:"completion_rate"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// CustomerRanking ranks a customer by total delivered piece count.
type CustomerRanking struct {
	CustomerID      string  `json:"customer_id"`
	CustomerName    string  `json:"customer_name"`
	DeliveredPieces int     `json:"delivered_pieces"`
	DeliveredAmount float64 `json:"delivered_amount"`
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WeeklyProfit buckets delivered orders over the last 7 calendar days
// (ending today), keyed by weekday name, oldest day first.
func WeeklyProfit(orders []model.Order, now time.Time) []ProfitPoint {
	points := make([]ProfitPoint, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		sales := decimal.Zero
		profit := decimal.Zero
		count := 0
		for _, order := range orders {
			if order.Status != model.OrderStatusDelivered || !sameDay(order.CreatedAt, day) {
				continue
			}
			sales = sales.Add(decimal.NewFromFloat(order.TotalAmount))
			profit = profit.Add(decimal.NewFromFloat(order.TotalProfit))
			count++
		}
		points = append(points, ProfitPoint{
			Period: day.Weekday().String(),
			Sales:  sales.InexactFloat64(),
			Profit: profit.InexactFloat64(),
			Orders: count,
		})
	}
	return points
}

// MonthlyProfit buckets delivered orders into calendar months across the
// whole collection, sorted chronologically by first-of-month timestamp.
func MonthlyProfit(orders []model.Order) []ProfitPoint {
	type bucket struct {
		start  time.Time
		sales  decimal.Decimal
		profit decimal.Decimal
		orders int
	}
	buckets := make(map[string]*bucket)
	for _, order := range orders {
		if order.Status != model.OrderStatusDelivered {
			continue
		}
		start := time.Date(order.CreatedAt.Year(), order.CreatedAt.Month(), 1, 0, 0, 0, 0, order.CreatedAt.Location())
		key := start.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{start: start, sales: decimal.Zero, profit: decimal.Zero}
			buckets[key] = b
		}
		b.sales = b.sales.Add(decimal.NewFromFloat(order.TotalAmount))
		b.profit = b.profit.Add(decimal.NewFromFloat(order.TotalProfit))
		b.orders++
	}

	sorted := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		sorted = append(sorted, b)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start.Before(sorted[j].start) })

	points := make([]ProfitPoint, 0, len(sorted))
	for _, b := range sorted {
		points = append(points, ProfitPoint{
			Period: b.start.Format("Jan 2006"),
			Sales:  b.sales.InexactFloat64(),
			Profit: b.profit.InexactFloat64(),
			Orders: b.orders,
		})
	}
	return points
}

// YearlyProfit buckets the current year's delivered orders into the twelve
// months, January through December.
func YearlyProfit(orders []model.Order, now time.Time) []ProfitPoint {
	points := make([]ProfitPoint, 0, 12)
	for month := time.January; month <= time.December; month++ {
		sales := decimal.Zero
		profit := decimal.Zero
		count := 0
		for _, order := range orders {
			if order.Status != model.OrderStatusDelivered {
				continue
			}
			if order.CreatedAt.Year() != now.Year() || order.CreatedAt.Month() != month {
				continue
			}
			sales = sales.Add(decimal.NewFromFloat(order.TotalAmount))
			profit = profit.Add(decimal.NewFromFloat(order.TotalProfit))
			count++
		}
		points = append(points, ProfitPoint{
			Period: month.String(),
			Sales:  sales.InexactFloat64(),
			Profit: profit.InexactFloat64(),
			Orders: count,
		})
	}
	return points
}

// TopProducts ranks products by units sold across all orders, profit
// contribution breaking ties.
func TopProducts(orders []model.Order, limit int) []ProductRanking {
	type acc struct {
		name   string
		units  int
		profit decimal.Decimal
	}
	byProduct := make(map[uuid.UUID]*acc)
	for _, order := range orders {
		for _, item := range order.Items {
			a, ok := byProduct[item.ProductID]
			if !ok {
				a = &acc{name: item.ProductName, profit: decimal.Zero}
				byProduct[item.ProductID] = a
			}
			a.units += item.Quantity
			lineProfit := decimal.NewFromFloat(item.FinalPrice).
				Sub(decimal.NewFromFloat(item.CostPrice)).
				Mul(decimal.NewFromInt(int64(item.Quantity)))
			a.profit = a.profit.Add(lineProfit)
		}
	}

	rankings := make([]ProductRanking, 0, len(byProduct))
	for id, a := range byProduct {
		rankings = append(rankings, ProductRanking{
			ProductID:   id.String(),
			ProductName: a.name,
			UnitsSold:   a.units,
			Profit:      a.profit.InexactFloat64(),
		})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].UnitsSold != rankings[j].UnitsSold {
			return rankings[i].UnitsSold > rankings[j].UnitsSold
		}
		return rankings[i].Profit > rankings[j].Profit
	})

	if limit > 0 && len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings
}

// PerformanceForSalesman folds one salesman's orders. CompletionRate is
// delivered over total, rounded to the nearest percent; AverageOrderValue
// divides delivered sales by delivered order count.
func PerformanceForSalesman(orders []model.Order, salesmanID uuid.UUID) SalesmanPerformance {
	perf := SalesmanPerformance{SalesmanID: salesmanID.String()}
	sales := decimal.Zero
	profit := decimal.Zero
	for _, order := range orders {
		if order.SalesmanID != salesmanID {
			continue
		}
		perf.SalesmanName = order.SalesmanName
		perf.TotalOrders++
		if order.Status != model.OrderStatusDelivered {
			continue
		}
		perf.DeliveredOrders++
		sales = sales.Add(decimal.NewFromFloat(order.TotalAmount))
		profit = profit.Add(decimal.NewFromFloat(order.TotalProfit))
	}
	perf.TotalSales = sales.InexactFloat64()
	perf.TotalProfit = profit.InexactFloat64()
	if perf.TotalOrders > 0 {
		rate := decimal.NewFromInt(int64(perf.DeliveredOrders)).
			Div(decimal.NewFromInt(int64(perf.TotalOrders))).
			Mul(decimal.NewFromInt(100))
		perf.CompletionRate = int(rate.Round(0).IntPart())
	}
	if perf.DeliveredOrders > 0 {
		perf.AverageOrderValue = sales.Div(decimal.NewFromInt(int64(perf.DeliveredOrders))).InexactFloat64()
	}
	return perf
}

// TopCustomers ranks customers by total delivered piece count.
func TopCustomers(orders []model.Order, limit int) []CustomerRanking {
	type acc struct {
		name   string
		pieces int
		amount decimal.Decimal
	}
	byCustomer := make(map[uuid.UUID]*acc)
	for _, order := range orders {
		a, ok := byCustomer[order.CustomerID]
		if !ok {
			a = &acc{name: order.CustomerName, amount: decimal.Zero}
			byCustomer[order.CustomerID] = a
		}
		for _, item := range order.Items {
			a.pieces += item.DeliveredQuantity
		}
		a.amount = a.amount.Add(decimal.NewFromFloat(order.DeliveredAmount))
	}

	rankings := make([]CustomerRanking, 0, len(byCustomer))
	for id, a := range byCustomer {
		rankings = append(rankings, CustomerRanking{
			CustomerID:      id.String(),
			CustomerName:    a.name,
			DeliveredPieces: a.pieces,
			DeliveredAmount: a.amount.InexactFloat64(),
		})
	}
	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].DeliveredPieces > rankings[j].DeliveredPieces
	})

	if limit > 0 && len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings
}
