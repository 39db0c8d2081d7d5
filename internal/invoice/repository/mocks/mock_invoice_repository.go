package mocks

import (
	"context"
	"time"

	"github.com/ridloal/retail-pos/internal/invoice/domain"
	"github.com/ridloal/retail-pos/internal/invoice/numbering"
	"github.com/stretchr/testify/mock"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateInvoiceWithItems(ctx context.Context, prefix string, day time.Time, inv *domain.Invoice) error {
	args := m.Called(ctx, prefix, day, inv)
	if inv != nil && args.Error(0) == nil {
		inv.ID = 1
		inv.InvoiceNumber = numbering.Format(prefix, day, 1)
		for i := range inv.Items {
			inv.Items[i].ID = int64(i + 1)
			inv.Items[i].InvoiceID = inv.ID
			inv.Items[i].CreatedAt = inv.CreatedAt
		}
	}
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*domain.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter domain.ListFilter) ([]domain.Invoice, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]domain.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}
