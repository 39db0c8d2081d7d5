package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ridloal/retail-pos/internal/dashboard/domain"
	"github.com/ridloal/retail-pos/internal/platform/logger"
	"github.com/shopspring/decimal"
)

// DashboardRepository runs the read-only aggregate queries behind the
// dashboard. Every method returns zero values, not errors, for an empty store.
type DashboardRepository interface {
	// SalesBetween sums grand totals of invoices created in [from, to).
	SalesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountActiveProducts(ctx context.Context) (int64, error)
	CountLowStockProducts(ctx context.Context, threshold int) (int64, error)
	RecentInvoices(ctx context.Context, limit int) ([]domain.InvoiceSummary, error)
	// DailySales groups sales since from by calendar day in the named time
	// zone. Days without invoices are absent.
	DailySales(ctx context.Context, from time.Time, timezone string) ([]domain.DailySales, error)
	SalesByCategory(ctx context.Context) ([]domain.CategorySales, error)
	TopProducts(ctx context.Context, limit int) ([]domain.ProductRevenue, error)
}

type postgresDashboardRepository struct {
	db *sql.DB
}

func NewPostgresDashboardRepository(db *sql.DB) DashboardRepository {
	return &postgresDashboardRepository{db: db}
}

func (r *postgresDashboardRepository) SalesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(grand_total), 0) FROM invoices WHERE created_at >= $1 AND created_at < $2`,
		from, to).Scan(&total)
	if err != nil {
		logger.Error("SalesBetween: query failed", err)
		return decimal.Zero, err
	}
	return total, nil
}

func (r *postgresDashboardRepository) CountActiveProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE is_active = TRUE`).Scan(&n); err != nil {
		logger.Error("CountActiveProducts: query failed", err)
		return 0, err
	}
	return n, nil
}

func (r *postgresDashboardRepository) CountLowStockProducts(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE is_active = TRUE AND stock_quantity < $1`, threshold).Scan(&n)
	if err != nil {
		logger.Error("CountLowStockProducts: query failed", err)
		return 0, err
	}
	return n, nil
}

func (r *postgresDashboardRepository) RecentInvoices(ctx context.Context, limit int) ([]domain.InvoiceSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, invoice_number, customer_name, grand_total, created_at
         FROM invoices ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		logger.Error("RecentInvoices: query failed", err)
		return nil, err
	}
	defer rows.Close()

	invoices := []domain.InvoiceSummary{}
	for rows.Next() {
		var s domain.InvoiceSummary
		if err := rows.Scan(&s.ID, &s.InvoiceNumber, &s.CustomerName, &s.GrandTotal, &s.CreatedAt); err != nil {
			logger.Error("RecentInvoices: scan failed", err)
			return nil, err
		}
		invoices = append(invoices, s)
	}
	return invoices, rows.Err()
}

func (r *postgresDashboardRepository) DailySales(ctx context.Context, from time.Time, timezone string) ([]domain.DailySales, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT to_char((created_at AT TIME ZONE $2)::date, 'YYYY-MM-DD') AS day, COALESCE(SUM(grand_total), 0)
         FROM invoices
         WHERE created_at >= $1
         GROUP BY day
         ORDER BY day`, from, timezone)
	if err != nil {
		logger.Error("DailySales: query failed", err)
		return nil, err
	}
	defer rows.Close()

	days := []domain.DailySales{}
	for rows.Next() {
		var d domain.DailySales
		if err := rows.Scan(&d.Date, &d.Sales); err != nil {
			logger.Error("DailySales: scan failed", err)
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *postgresDashboardRepository) SalesByCategory(ctx context.Context) ([]domain.CategorySales, error) {
	// Items whose product was deleted drop out of the join.
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.category, COALESCE(SUM(ii.line_total), 0) AS sales
         FROM invoice_items ii
         JOIN products p ON p.id = ii.product_id
         GROUP BY p.category
         ORDER BY sales DESC, p.category ASC`)
	if err != nil {
		logger.Error("SalesByCategory: query failed", err)
		return nil, err
	}
	defer rows.Close()

	categories := []domain.CategorySales{}
	for rows.Next() {
		var c domain.CategorySales
		if err := rows.Scan(&c.Category, &c.Sales); err != nil {
			logger.Error("SalesByCategory: scan failed", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresDashboardRepository) TopProducts(ctx context.Context, limit int) ([]domain.ProductRevenue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, COALESCE(SUM(ii.line_total), 0) AS revenue
         FROM invoice_items ii
         JOIN products p ON p.id = ii.product_id
         GROUP BY p.id, p.name
         ORDER BY revenue DESC, p.id ASC
         LIMIT $1`, limit)
	if err != nil {
		logger.Error("TopProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.ProductRevenue{}
	for rows.Next() {
		var p domain.ProductRevenue
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Revenue); err != nil {
			logger.Error("TopProducts: scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
