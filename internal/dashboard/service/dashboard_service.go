package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ridloal/retail-pos/internal/dashboard/domain"
	"github.com/ridloal/retail-pos/internal/dashboard/repository"
	"github.com/ridloal/retail-pos/internal/platform/cache"
	"github.com/ridloal/retail-pos/internal/platform/clock"
	"github.com/ridloal/retail-pos/internal/platform/logger"
	"github.com/ridloal/retail-pos/internal/platform/money"
	"github.com/shopspring/decimal"
)

const analyticsCacheKey = "analytics"

type DashboardService interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
	GetAnalytics(ctx context.Context) (*domain.Analytics, error)
	// RefreshAnalytics recomputes the cached analytics. It is run by the scheduler.
	RefreshAnalytics(ctx context.Context) error
	// InvalidateAnalytics drops the cached analytics. Failures are only logged.
	InvalidateAnalytics(ctx context.Context)
}

type dashboardServiceImpl struct {
	repo     repository.DashboardRepository
	cache    cache.Cache
	clock    clock.Clock
	location *time.Location
}

func NewDashboardService(repo repository.DashboardRepository, c cache.Cache, clk clock.Clock, loc *time.Location) DashboardService {
	if c == nil {
		c = cache.Noop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardServiceImpl{repo: repo, cache: c, clock: clk, location: loc}
}

func (s *dashboardServiceImpl) GetStats(ctx context.Context) (*domain.Stats, error) {
	today := clock.StartOfDay(s.clock.Now(), s.location)
	sales, err := s.repo.SalesBetween(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	active, err := s.repo.CountActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count active products: %w", err)
	}
	lowStock, err := s.repo.CountLowStockProducts(ctx, domain.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("count low stock products: %w", err)
	}
	recent, err := s.repo.RecentInvoices(ctx, domain.RecentInvoices)
	if err != nil {
		return nil, fmt.Errorf("recent invoices: %w", err)
	}
	if recent == nil {
		recent = []domain.InvoiceSummary{}
	}

	return &domain.Stats{
		DailySales:       money.Round(sales),
		TotalProducts:    active,
		LowStockProducts: lowStock,
		RecentInvoices:   recent,
	}, nil
}

func (s *dashboardServiceImpl) GetAnalytics(ctx context.Context) (*domain.Analytics, error) {
	var cached domain.Analytics
	found, err := s.cache.Get(ctx, analyticsCacheKey, &cached)
	if err != nil {
		logger.Warn("GetAnalytics: cache read failed, computing", "error", err)
	} else if found {
		return &cached, nil
	}

	analytics, err := s.computeAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, analyticsCacheKey, analytics); err != nil {
		logger.Warn("GetAnalytics: cache write failed", "error", err)
	}
	return analytics, nil
}

func (s *dashboardServiceImpl) RefreshAnalytics(ctx context.Context) error {
	analytics, err := s.computeAnalytics(ctx)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, analyticsCacheKey, analytics); err != nil {
		logger.Warn("RefreshAnalytics: cache write failed", "error", err)
	}

	lowStock, err := s.repo.CountLowStockProducts(ctx, domain.LowStockThreshold)
	if err != nil {
		return fmt.Errorf("count low stock products: %w", err)
	}
	if lowStock > 0 {
		logger.Warn("Active products running low on stock", "count", lowStock, "threshold", domain.LowStockThreshold)
	}
	return nil
}

func (s *dashboardServiceImpl) InvalidateAnalytics(ctx context.Context) {
	if err := s.cache.Delete(ctx, analyticsCacheKey); err != nil {
		logger.Warn("InvalidateAnalytics: cache delete failed", "error", err)
	}
}

func (s *dashboardServiceImpl) computeAnalytics(ctx context.Context) (*domain.Analytics, error) {
	today := clock.StartOfDay(s.clock.Now(), s.location)
	first := today.AddDate(0, 0, -(domain.TrailingDays - 1))

	rows, err := s.repo.DailySales(ctx, first, s.location.String())
	if err != nil {
		return nil, fmt.Errorf("daily sales series: %w", err)
	}
	byDate := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row.Sales
	}
	daily := make([]domain.DailySales, 0, domain.TrailingDays)
	for i := 0; i < domain.TrailingDays; i++ {
		date := first.AddDate(0, 0, i).Format("2006-01-02")
		sales, ok := byDate[date]
		if !ok {
			sales = decimal.Zero
		}
		daily = append(daily, domain.DailySales{Date: date, Sales: money.Round(sales)})
	}

	categories, err := s.repo.SalesByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}
	if categories == nil {
		categories = []domain.CategorySales{}
	}
	top, err := s.repo.TopProducts(ctx, domain.TopProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	if top == nil {
		top = []domain.ProductRevenue{}
	}

	return &domain.Analytics{DailySales: daily, SalesByCategory: categories, TopProducts: top}, nil
}
