package mocks

import (
	"context"

	"github.com/ridloal/retail-pos/internal/invoice/domain"
	"github.com/stretchr/testify/mock"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest, createdBy *int64) (*domain.Invoice, error) {
	args := m.Called(ctx, req, createdBy)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, q domain.ListQuery) ([]domain.Invoice, error) {
	args := m.Called(ctx, q)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}
