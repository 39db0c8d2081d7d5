package mocks

import (
	"context"

	"github.com/ridloal/retail-pos/internal/product/domain"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, req domain.CreateProductRequest, createdBy *int64) (*domain.Product, error) {
	args := m.Called(ctx, req, createdBy)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id int64, req domain.UpdateProductRequest, updatedBy *int64) (*domain.Product, error) {
	args := m.Called(ctx, id, req, updatedBy)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductService) ListStockMovements(ctx context.Context, productID int64, limit, offset int) ([]domain.StockMovement, error) {
	args := m.Called(ctx, productID, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]domain.StockMovement), args.Error(1)
	}
	return nil, args.Error(1)
}
