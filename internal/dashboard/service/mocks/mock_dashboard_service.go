package mocks

import (
	"context"

	"github.com/ridloal/retail-pos/internal/dashboard/domain"
	"github.com/stretchr/testify/mock"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetStats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Stats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboardService) GetAnalytics(ctx context.Context) (*domain.Analytics, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Analytics), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboardService) RefreshAnalytics(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDashboardService) InvalidateAnalytics(ctx context.Context) {
	m.Called(ctx)
}
