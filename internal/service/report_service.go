package service

import (
	"context"
	"fmt"
	"time"

	"saleshub/internal/report"
	"saleshub/internal/repository"

	"github.com/google/uuid"
)

type ReportService interface {
	ProfitSeries(ctx context.Context, period string) ([]report.ProfitPoint, error)
	TopProducts(ctx context.Context, limit int) ([]report.ProductRanking, error)
	SalesmanPerformance(ctx context.Context, salesmanID string) (report.SalesmanPerformance, error)
	TopCustomers(ctx context.Context, limit int) ([]report.CustomerRanking, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewReportService builds the reporting facade. The clock is injectable so
// week and year boundaries are testable.
func NewReportService(orderRepo repository.OrderRepository, now func() time.Time) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{orderRepo: orderRepo, now: now}
}

func (s *reportService) ProfitSeries(ctx context.Context, period string) ([]report.ProfitPoint, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	switch period {
	case "weekly":
		return report.WeeklyProfit(orders, s.now()), nil
	case "yearly":
		return report.YearlyProfit(orders, s.now()), nil
	case "monthly", "":
		return report.MonthlyProfit(orders), nil
	default:
		return nil, fmt.Errorf("unknown period %q: expected weekly, monthly or yearly", period)
	}
}

func (s *reportService) TopProducts(ctx context.Context, limit int) ([]report.ProductRanking, error) {
	if limit <= 0 {
		limit = 5
	}
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return report.TopProducts(orders, limit), nil
}

func (s *reportService) SalesmanPerformance(ctx context.Context, salesmanID string) (report.SalesmanPerformance, error) {
	id, err := uuid.Parse(salesmanID)
	if err != nil {
		return report.SalesmanPerformance{}, fmt.Errorf("invalid salesman id: %w", err)
	}
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return report.SalesmanPerformance{}, fmt.Errorf("failed to load orders: %w", err)
	}
	return report.PerformanceForSalesman(orders, id), nil
}

func (s *reportService) TopCustomers(ctx context.Context, limit int) ([]report.CustomerRanking, error) {
	if limit <= 0 {
		limit = 5
	}
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return report.TopCustomers(orders, limit), nil
}
