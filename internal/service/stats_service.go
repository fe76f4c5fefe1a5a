package service

import (
	"context"
	"fmt"
	"time"

	"prime-pizza/internal/domain"
	"prime-pizza/internal/repository"
)

const (
	// dailySalesWindow is the fixed trailing window for the daily chart
	dailySalesWindow = 30 * 24 * time.Hour

	monthlySalesLimit = 12
	topProductsLimit  = 10
)

// StatsService computes the sales report for admins
type StatsService interface {
	ComputeStats(ctx context.Context, dateRange domain.DateRange) (*domain.StatsReport, error)
}

type statsService struct {
	orderRepo repository.OrderRepository

	// now is swappable for tests
	now func() time.Time
}

// NewStatsService creates a new instance of StatsService
func NewStatsService(orderRepo repository.OrderRepository) StatsService {
	return &statsService{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// ComputeStats runs the five sales aggregates and combines them into one
// report. Each aggregate is an independent read; nothing is shared between
// them. The date filter applies to total sales, the status breakdown and
// top products; daily sales always cover the trailing 30 days and monthly
// sales always cover all time.
func (s *statsService) ComputeStats(ctx context.Context, dateRange domain.DateRange) (*domain.StatsReport, error) {
	totalSales, err := s.orderRepo.TotalSales(ctx, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to compute total sales: %w", err)
	}

	ordersByStatus, err := s.orderRepo.CountByStatus(ctx, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to compute orders by status: %w", err)
	}

	dailySales, err := s.orderRepo.DailySales(ctx, s.now().Add(-dailySalesWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily sales: %w", err)
	}

	monthlySales, err := s.orderRepo.MonthlySales(ctx, monthlySalesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly sales: %w", err)
	}

	topProducts, err := s.orderRepo.TopProducts(ctx, dateRange, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute top products: %w", err)
	}

	return &domain.StatsReport{
		TotalSales:     totalSales,
		OrdersByStatus: ordersByStatus,
		DailySales:     dailySales,
		MonthlySales:   monthlySales,
		TopProducts:    topProducts,
	}, nil
}
