package mocks

import (
	"context"

	pDomain "github.com/ridloal/retail-pos/internal/product/domain"

	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListProducts(ctx context.Context, filter pDomain.ListFilter) ([]pDomain.Product, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id int64) (*pDomain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, p *pDomain.Product, createdBy *int64) error {
	args := m.Called(ctx, p, createdBy)
	if p != nil && args.Error(0) == nil {
		p.ID = 101 // ID dari mock
	}
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, id int64, patch pDomain.ProductPatch, createdBy *int64) (*pDomain.Product, error) {
	args := m.Called(ctx, id, patch, createdBy)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id int64) (*pDomain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*pDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListStockMovements(ctx context.Context, productID int64, limit, offset int) ([]pDomain.StockMovement, error) {
	args := m.Called(ctx, productID, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]pDomain.StockMovement), args.Error(1)
	}
	return nil, args.Error(1)
}
