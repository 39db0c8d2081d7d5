package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ridloal/retail-pos/internal/invoice/domain"
	"github.com/ridloal/retail-pos/internal/invoice/pricing"
	"github.com/ridloal/retail-pos/internal/invoice/repository"
	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/ridloal/retail-pos/internal/platform/clock"
	"github.com/ridloal/retail-pos/internal/platform/logger"
)

// maxNumberingAttempts bounds retries after losing an invoice number race.
const maxNumberingAttempts = 3

const dateLayout = "2006-01-02"

// AnalyticsInvalidator drops cached dashboard data once a sale is recorded.
type AnalyticsInvalidator interface {
	InvalidateAnalytics(ctx context.Context)
}

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest, createdBy *int64) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, q domain.ListQuery) ([]domain.Invoice, error)
}

type Options struct {
	Prefix   string
	Location *time.Location
}

type invoiceServiceImpl struct {
	repo        repository.InvoiceRepository
	calc        *pricing.Calculator
	clock       clock.Clock
	opts        Options
	invalidator AnalyticsInvalidator
}

// NewInvoiceService wires the invoice use cases. invalidator may be nil.
func NewInvoiceService(repo repository.InvoiceRepository, clk clock.Clock, opts Options, invalidator AnalyticsInvalidator) InvoiceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &invoiceServiceImpl{
		repo:        repo,
		calc:        pricing.NewCalculator(),
		clock:       clk,
		opts:        opts,
		invalidator: invalidator,
	}
}

func (s *invoiceServiceImpl) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest, createdBy *int64) (*domain.Invoice, error) {
	inv, err := req.Validate(s.calc)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	inv.CreatedAt = now.UTC()
	inv.CreatedBy = createdBy
	day := clock.StartOfDay(now, s.opts.Location)

	for attempt := 1; ; attempt++ {
		err = s.repo.CreateInvoiceWithItems(ctx, s.opts.Prefix, day, inv)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrUnknownProduct) {
			return nil, apperror.Validation(domain.CodeInvalidProduct, "An item references a product that does not exist")
		}
		if !errors.Is(err, repository.ErrDuplicateInvoiceNumber) || attempt >= maxNumberingAttempts {
			return nil, fmt.Errorf("create invoice: %w", err)
		}
		logger.Warn("Invoice number taken by a concurrent writer, retrying", "attempt", attempt)
	}

	logger.Info("Invoice created", "invoice_id", inv.ID, "invoice_number", inv.InvoiceNumber, "grand_total", inv.GrandTotal.StringFixed(2))
	if s.invalidator != nil {
		s.invalidator.InvalidateAnalytics(ctx)
	}
	return inv, nil
}

func (s *invoiceServiceImpl) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			return nil, apperror.NotFound(domain.CodeInvoiceNotFound, "Invoice not found")
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (s *invoiceServiceImpl) ListInvoices(ctx context.Context, q domain.ListQuery) ([]domain.Invoice, error) {
	filter := domain.ListFilter{
		CustomerPhone: strings.TrimSpace(q.CustomerPhone),
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
	if q.StartDate != "" {
		from, err := time.ParseInLocation(dateLayout, q.StartDate, s.opts.Location)
		if err != nil {
			return nil, apperror.Validation(domain.CodeInvalidDate, "startDate must be YYYY-MM-DD")
		}
		filter.From = &from
	}
	if q.EndDate != "" {
		end, err := time.ParseInLocation(dateLayout, q.EndDate, s.opts.Location)
		if err != nil {
			return nil, apperror.Validation(domain.CodeInvalidDate, "endDate must be YYYY-MM-DD")
		}
		// endDate is inclusive through the end of that day.
		to := end.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, apperror.Validation(domain.CodeInvalidDate, "startDate must not be after endDate")
	}

	invoices, err := s.repo.ListInvoices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}
