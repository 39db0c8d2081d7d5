package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ridloal/retail-pos/internal/invoice/domain"
	"github.com/ridloal/retail-pos/internal/invoice/numbering"
	"github.com/ridloal/retail-pos/internal/platform/database"
	"github.com/ridloal/retail-pos/internal/platform/logger"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrDuplicateInvoiceNumber means another writer took the number first.
	// The whole write was rolled back and can be retried.
	ErrDuplicateInvoiceNumber = errors.New("duplicate invoice number")
	// ErrUnknownProduct means an item referenced a product that does not exist.
	ErrUnknownProduct = errors.New("unknown product")
)

type InvoiceRepository interface {
	// CreateInvoiceWithItems numbers inv for day, then stores it, its items and
	// one sale movement per catalog item in a single transaction. inv.CreatedAt
	// must be set; ids and the number are filled in on success.
	CreateInvoiceWithItems(ctx context.Context, prefix string, day time.Time, inv *domain.Invoice) error
	GetInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, filter domain.ListFilter) ([]domain.Invoice, error)
}

const invoiceColumns = `id, invoice_number, customer_name, customer_phone, subtotal, discount_amount,
       discount_percentage, tax_percentage, tax_amount, grand_total, created_at, created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerName, &inv.CustomerPhone, &inv.Subtotal,
		&inv.DiscountAmount, &inv.DiscountPercentage, &inv.TaxPercentage, &inv.TaxAmount, &inv.GrandTotal,
		&inv.CreatedAt, &inv.CreatedBy)
	return inv, err
}

type postgresInvoiceRepository struct {
	db *sql.DB
}

func NewPostgresInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &postgresInvoiceRepository{db: db}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// classify turns constraint violations into the package sentinels.
func classify(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%w (%s)", ErrDuplicateInvoiceNumber, database.ConstraintName(err))
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w (%s)", ErrUnknownProduct, database.ConstraintName(err))
	default:
		return err
	}
}

// nextSequence allocates the day's next sequence. The per-day row is seeded
// from the highest number already issued, so the counter also survives a
// table that was filled before invoice_sequences existed. The upsert holds the
// row lock until the surrounding transaction ends, serialising writers.
func nextSequence(ctx context.Context, tx *sql.Tx, prefix string, day time.Time) (int, error) {
	var last string
	err := tx.QueryRowContext(ctx,
		`SELECT invoice_number FROM invoices
         WHERE invoice_number LIKE $1
         ORDER BY LENGTH(invoice_number) DESC, invoice_number DESC
         LIMIT 1`,
		escapeLike(numbering.DatePrefix(prefix, day))+"%").Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up last invoice number: %w", err)
	}
	_, seed, err := numbering.Next(prefix, day, last)
	if err != nil {
		return 0, err
	}

	var seq int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO invoice_sequences (seq_date, last_value, updated_at)
         VALUES ($1, $2, NOW())
         ON CONFLICT (seq_date) DO UPDATE
         SET last_value = GREATEST(invoice_sequences.last_value + 1, EXCLUDED.last_value),
             updated_at = NOW()
         RETURNING last_value`,
		day.Format("2006-01-02"), seed).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate invoice sequence: %w", err)
	}
	return seq, nil
}

func (r *postgresInvoiceRepository) CreateInvoiceWithItems(ctx context.Context, prefix string, day time.Time, inv *domain.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CreateInvoiceWithItems: failed to begin tx", err)
		return err
	}
	defer tx.Rollback() // Rollback jika tidak di-commit

	// 1. Nomor invoice
	seq, err := nextSequence(ctx, tx, prefix, day)
	if err != nil {
		logger.Error("CreateInvoiceWithItems: numbering failed", err)
		return err
	}
	inv.InvoiceNumber = numbering.Format(prefix, day, seq)

	// 2. Simpan invoice
	invoiceQuery := `INSERT INTO invoices (invoice_number, customer_name, customer_phone, subtotal, discount_amount,
                         discount_percentage, tax_percentage, tax_amount, grand_total, created_at, created_by)
                     VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                     RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, invoiceQuery, inv.InvoiceNumber, inv.CustomerName, inv.CustomerPhone,
		inv.Subtotal, inv.DiscountAmount, inv.DiscountPercentage, inv.TaxPercentage, inv.TaxAmount,
		inv.GrandTotal, inv.CreatedAt, inv.CreatedBy).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		logger.Error("CreateInvoiceWithItems: failed to insert invoice", err, "invoice_number", inv.InvoiceNumber)
		return classify(err)
	}

	// 3. Simpan item dan catat pergerakan stok
	itemQuery := `INSERT INTO invoice_items (invoice_id, product_id, product_name, quantity, price, line_total, created_at)
                  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	notes := "Invoice " + inv.InvoiceNumber
	for i := range inv.Items {
		item := &inv.Items[i]
		item.InvoiceID = inv.ID
		item.CreatedAt = inv.CreatedAt
		err = tx.QueryRowContext(ctx, itemQuery, item.InvoiceID, item.ProductID, item.ProductName,
			item.Quantity, item.Price, item.LineTotal, item.CreatedAt).Scan(&item.ID)
		if err != nil {
			logger.Error("CreateInvoiceWithItems: failed to insert invoice item", err, "item_index", i)
			return classify(err)
		}

		if item.ProductID == nil {
			continue
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO stock_movements (product_id, movement_type, quantity, reference_id, notes, created_at, created_by)
             VALUES ($1, 'sale', $2, $3, $4, $5, $6)`,
			*item.ProductID, item.Quantity.Neg(), inv.ID, notes, inv.CreatedAt, inv.CreatedBy)
		if err != nil {
			logger.Error("CreateInvoiceWithItems: failed to record sale movement", err, "product_id", *item.ProductID)
			return classify(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

func (r *postgresInvoiceRepository) GetInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		logger.Error("GetInvoiceByID: query failed", err, "invoice_id", id)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, invoice_id, product_id, product_name, quantity, price, line_total, created_at
         FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, id)
	if err != nil {
		logger.Error("GetInvoiceByID: items query failed", err, "invoice_id", id)
		return nil, err
	}
	defer rows.Close()

	inv.Items = []domain.InvoiceItem{}
	for rows.Next() {
		var item domain.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.LineTotal, &item.CreatedAt); err != nil {
			logger.Error("GetInvoiceByID: item scan failed", err)
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *postgresInvoiceRepository) ListInvoices(ctx context.Context, filter domain.ListFilter) ([]domain.Invoice, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)))
	}
	if filter.CustomerPhone != "" {
		args = append(args, "%"+escapeLike(filter.CustomerPhone)+"%")
		conditions = append(conditions, fmt.Sprintf("customer_phone LIKE $%d", len(args)))
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListInvoices: query failed", err)
		return nil, err
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			logger.Error("ListInvoices: scan failed", err)
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
