package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ridloal/retail-pos/internal/platform/logger"
	"github.com/ridloal/retail-pos/internal/product/domain"
	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	// CreateProduct inserts p and fills its id and timestamps. Non-zero opening
	// stock is recorded as an adjustment movement in the same transaction.
	CreateProduct(ctx context.Context, p *domain.Product, createdBy *int64) error
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch, createdBy *int64) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListStockMovements(ctx context.Context, productID int64, limit, offset int) ([]domain.StockMovement, error)
}

const productColumns = `id, name, category, mrp, selling_price, unit, barcode, stock_quantity, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.MRP, &p.SellingPrice, &p.Unit,
		&p.Barcode, &p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR category ILIKE $%d OR barcode ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error("ListProducts: scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("ListProducts: rows iteration error", err)
		return nil, err
	}
	return products, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err, "product_id", id)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, p *domain.Product, createdBy *int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CreateProduct: failed to begin tx", err)
		return err
	}
	defer tx.Rollback() // Rollback jika tidak di-commit

	query := `INSERT INTO products (name, category, mrp, selling_price, unit, barcode, stock_quantity, is_active, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
              RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query, p.Name, p.Category, p.MRP, p.SellingPrice, p.Unit, p.Barcode, p.StockQuantity, p.IsActive).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		logger.Error("CreateProduct: failed to insert product", err)
		return err
	}

	if p.StockQuantity != 0 {
		if err := insertMovement(ctx, tx, p.ID, domain.MovementAdjustment, decimal.NewFromInt(int64(p.StockQuantity)), nil, "Opening stock", createdBy); err != nil {
			logger.Error("CreateProduct: failed to record opening stock", err, "product_id", p.ID)
			return err
		}
	}
	return tx.Commit()
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch, createdBy *int64) (*domain.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("UpdateProduct: failed to begin tx", err)
		return nil, err
	}
	defer tx.Rollback()

	current, err := scanProduct(tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("UpdateProduct: failed to lock product", err, "product_id", id)
		return nil, err
	}

	delta := patch.Apply(&current)

	query := `UPDATE products
              SET name = $1, category = $2, mrp = $3, selling_price = $4, unit = $5, barcode = $6,
                  stock_quantity = $7, is_active = $8, updated_at = NOW()
              WHERE id = $9
              RETURNING updated_at`
	err = tx.QueryRowContext(ctx, query, current.Name, current.Category, current.MRP, current.SellingPrice,
		current.Unit, current.Barcode, current.StockQuantity, current.IsActive, id).Scan(&current.UpdatedAt)
	if err != nil {
		logger.Error("UpdateProduct: failed to update product", err, "product_id", id)
		return nil, err
	}

	if delta != 0 {
		if err := insertMovement(ctx, tx, id, domain.MovementAdjustment, decimal.NewFromInt(int64(delta)), nil, "Stock updated", createdBy); err != nil {
			logger.Error("UpdateProduct: failed to record stock adjustment", err, "product_id", id)
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &current, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("DeleteProduct: exec failed", err, "product_id", id)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) ListStockMovements(ctx context.Context, productID int64, limit, offset int) ([]domain.StockMovement, error) {
	query := `SELECT id, product_id, movement_type, quantity, reference_id, notes, created_at, created_by
              FROM stock_movements
              WHERE product_id = $1
              ORDER BY created_at DESC, id DESC
              LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, productID, limit, offset)
	if err != nil {
		logger.Error("ListStockMovements: query failed", err, "product_id", productID)
		return nil, err
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.MovementType, &m.Quantity, &m.ReferenceID, &m.Notes, &m.CreatedAt, &m.CreatedBy); err != nil {
			logger.Error("ListStockMovements: scan failed", err)
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func insertMovement(ctx context.Context, tx *sql.Tx, productID int64, kind domain.MovementType, qty decimal.Decimal, referenceID *int64, notes string, createdBy *int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO stock_movements (product_id, movement_type, quantity, reference_id, notes, created_at, created_by)
         VALUES ($1, $2, $3, $4, $5, NOW(), $6)`,
		productID, string(kind), qty, referenceID, notes, createdBy)
	return err
}
