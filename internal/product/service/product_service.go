package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/ridloal/retail-pos/internal/platform/logger"
	"github.com/ridloal/retail-pos/internal/product/domain"
	"github.com/ridloal/retail-pos/internal/product/repository"
)

type ProductService interface {
	ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest, createdBy *int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req domain.UpdateProductRequest, updatedBy *int64) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListStockMovements(ctx context.Context, productID int64, limit, offset int) ([]domain.StockMovement, error)
}

type productServiceImpl struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productServiceImpl{repo: repo}
}

var errNotFound = apperror.NotFound(domain.CodeProductNotFound, "Product not found")

// classify maps repository sentinels to client errors and wraps the rest.
func classify(op string, err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return errNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *productServiceImpl) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, classify("list products", err)
	}
	return products, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, classify("get product", err)
	}
	return p, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest, createdBy *int64) (*domain.Product, error) {
	p, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateProduct(ctx, p, createdBy); err != nil {
		return nil, classify("create product", err)
	}
	logger.Info("Product created", "product_id", p.ID, "category", p.Category)
	return p, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id int64, req domain.UpdateProductRequest, updatedBy *int64) (*domain.Product, error) {
	patch, err := req.Validate()
	if err != nil {
		return nil, err
	}
	p, err := s.repo.UpdateProduct(ctx, id, patch, updatedBy)
	if err != nil {
		return nil, classify("update product", err)
	}
	return p, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return nil, classify("delete product", err)
	}
	logger.Info("Product deleted", "product_id", id)
	return p, nil
}

func (s *productServiceImpl) ListStockMovements(ctx context.Context, productID int64, limit, offset int) ([]domain.StockMovement, error) {
	if _, err := s.repo.GetProductByID(ctx, productID); err != nil {
		return nil, classify("get product", err)
	}
	movements, err := s.repo.ListStockMovements(ctx, productID, limit, offset)
	if err != nil {
		return nil, classify("list stock movements", err)
	}
	return movements, nil
}
