package mocks

import (
	"context"
	"time"

	"github.com/ridloal/retail-pos/internal/dashboard/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) SalesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDashboardRepository) CountActiveProducts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountLowStockProducts(ctx context.Context, threshold int) (int64, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) RecentInvoices(ctx context.Context, limit int) ([]domain.InvoiceSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.InvoiceSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboardRepository) DailySales(ctx context.Context, from time.Time, timezone string) ([]domain.DailySales, error) {
	args := m.Called(ctx, from, timezone)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.DailySales), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboardRepository) SalesByCategory(ctx context.Context) ([]domain.CategorySales, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.CategorySales), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboardRepository) TopProducts(ctx context.Context, limit int) ([]domain.ProductRevenue, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ProductRevenue), args.Error(1)
	}
	return nil, args.Error(1)
}
