package domain

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ridloal/retail-pos/internal/invoice/pricing"
	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/ridloal/retail-pos/internal/platform/money"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest is the POST /invoices body. Totals are what the client
// computed; they are checked against the server's own calculation.
type CreateInvoiceRequest struct {
	Items              []CreateInvoiceItemRequest `json:"items"`
	Subtotal           json.RawMessage            `json:"subtotal"`
	GrandTotal         json.RawMessage            `json:"grandTotal"`
	CustomerName       *string                    `json:"customerName"`
	CustomerPhone      *string                    `json:"customerPhone"`
	DiscountAmount     json.RawMessage            `json:"discountAmount"`
	DiscountPercentage json.RawMessage            `json:"discountPercentage"`
	TaxPercentage      json.RawMessage            `json:"taxPercentage"`
	TaxAmount          json.RawMessage            `json:"taxAmount"`
}

type CreateInvoiceItemRequest struct {
	ProductID   *int64          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    json.RawMessage `json:"quantity"`
	Price       json.RawMessage `json:"price"`
	LineTotal   json.RawMessage `json:"lineTotal"`
}

// positive parses raw and requires a value above zero.
func positive(raw json.RawMessage) (decimal.Decimal, bool) {
	v, present, err := money.ParseJSON(raw)
	if !present || err != nil || !v.IsPositive() {
		return decimal.Zero, false
	}
	return v, true
}

// optional parses raw, defaulting to zero, and rejects negative values.
func optional(raw json.RawMessage) (v decimal.Decimal, present, ok bool) {
	v, present, err := money.ParseJSON(raw)
	if err != nil || v.IsNegative() {
		return decimal.Zero, present, false
	}
	return v, present, true
}

// Validate checks the request field by field, reprices the cart and returns the
// invoice to store, with server-derived totals and no number or ids yet.
func (r CreateInvoiceRequest) Validate(calc *pricing.Calculator) (*Invoice, error) {
	if r.Items == nil {
		return nil, apperror.Validation(CodeMissingItems, "Items array is required")
	}
	if len(r.Items) == 0 {
		return nil, apperror.Validation(CodeEmptyItems, "Items array cannot be empty")
	}
	subtotal, ok := positive(r.Subtotal)
	if !ok {
		return nil, apperror.Validation(CodeInvalidSubtotal, "Valid subtotal is required")
	}
	grandTotal, ok := positive(r.GrandTotal)
	if !ok {
		return nil, apperror.Validation(CodeInvalidGrandTotal, "Valid grand total is required")
	}

	lines := make([]pricing.Line, len(r.Items))
	lineTotals := make([]decimal.Decimal, len(r.Items))
	names := make([]string, len(r.Items))
	for i, item := range r.Items {
		n := i + 1
		names[i] = strings.TrimSpace(item.ProductName)
		if names[i] == "" {
			return nil, apperror.Validation(CodeMissingProductName, "Item %d: Product name is required", n)
		}
		qty, ok := positive(item.Quantity)
		if !ok {
			return nil, apperror.Validation(CodeInvalidQuantity, "Item %d: Valid quantity is required", n)
		}
		price, ok := positive(item.Price)
		if !ok {
			return nil, apperror.Validation(CodeInvalidPrice, "Item %d: Valid price is required", n)
		}
		if lineTotals[i], ok = positive(item.LineTotal); !ok {
			return nil, apperror.Validation(CodeInvalidLineTotal, "Item %d: Valid line total is required", n)
		}
		lines[i] = pricing.Line{Quantity: qty, Price: price}
	}

	discountAmount, discountAmountGiven, ok := optional(r.DiscountAmount)
	if !ok {
		return nil, apperror.Validation(CodeInvalidDiscount, "Discount amount must be a non-negative number")
	}
	discountPct, _, ok := optional(r.DiscountPercentage)
	if !ok || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperror.Validation(CodeInvalidDiscount, "Discount percentage must be between 0 and 100")
	}
	taxPct, _, ok := optional(r.TaxPercentage)
	if !ok {
		return nil, apperror.Validation(CodeInvalidTax, "Tax percentage must be a non-negative number")
	}
	taxAmount, taxAmountGiven, ok := optional(r.TaxAmount)
	if !ok {
		return nil, apperror.Validation(CodeInvalidTaxAmount, "Tax amount must be a non-negative number")
	}

	discount := pricing.Discount{Mode: pricing.DiscountAmount, Value: discountAmount}
	if discountPct.IsPositive() {
		discount = pricing.Discount{Mode: pricing.DiscountPercentage, Value: discountPct}
	} else {
		discountPct = decimal.Zero
	}

	totals, err := calc.Calculate(lines, discount, taxPct)
	if err != nil {
		return nil, pricingError(err)
	}

	for i, pl := range totals.Lines {
		if !money.Within(lineTotals[i], pl.LineTotal) {
			return nil, apperror.Validation(CodeInvalidLineTotal, "Item %d: Line total %s does not match quantity × price (%s)", i+1, lineTotals[i], pl.LineTotal)
		}
	}
	if !money.Within(subtotal, totals.Subtotal) {
		return nil, apperror.Validation(CodeInvalidSubtotal, "Subtotal %s does not match the items (%s)", subtotal, totals.Subtotal)
	}
	if discountAmountGiven && !money.Within(discountAmount, totals.DiscountAmount) {
		return nil, apperror.Validation(CodeInvalidDiscount, "Discount amount %s does not match the discount (%s)", discountAmount, totals.DiscountAmount)
	}
	if taxAmountGiven && !money.Within(taxAmount, totals.TaxAmount) {
		return nil, apperror.Validation(CodeInvalidTaxAmount, "Tax amount %s does not match the tax (%s)", taxAmount, totals.TaxAmount)
	}
	if !money.Within(grandTotal, totals.GrandTotal) {
		return nil, apperror.Validation(CodeInvalidGrandTotal, "Grand total %s does not match the computed total (%s)", grandTotal, totals.GrandTotal)
	}

	inv := &Invoice{
		CustomerName:       trimmedOrNil(r.CustomerName),
		CustomerPhone:      trimmedOrNil(r.CustomerPhone),
		Subtotal:           totals.Subtotal,
		DiscountAmount:     totals.DiscountAmount,
		DiscountPercentage: discountPct,
		TaxPercentage:      taxPct,
		TaxAmount:          totals.TaxAmount,
		GrandTotal:         totals.GrandTotal,
		Items:              make([]InvoiceItem, len(totals.Lines)),
	}
	for i, pl := range totals.Lines {
		productID := r.Items[i].ProductID
		if productID != nil && *productID <= 0 {
			productID = nil
		}
		inv.Items[i] = InvoiceItem{
			ProductID:   productID,
			ProductName: names[i],
			Quantity:    pl.Quantity,
			Price:       pl.Price,
			LineTotal:   pl.LineTotal,
		}
	}
	return inv, nil
}

func pricingError(err error) error {
	var lineErr *pricing.LineError
	n := 0
	if errors.As(err, &lineErr) {
		n = lineErr.Index + 1
	}
	switch {
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return apperror.Validation(CodeInvalidQuantity, "Item %d: Valid quantity is required", n)
	case errors.Is(err, pricing.ErrInvalidPrice):
		return apperror.Validation(CodeInvalidPrice, "Item %d: Valid price is required", n)
	case errors.Is(err, pricing.ErrInvalidSubtotal):
		return apperror.Validation(CodeInvalidSubtotal, "Subtotal must be positive")
	case errors.Is(err, pricing.ErrNonPositiveDue):
		return apperror.Validation(CodeInvalidGrandTotal, "Grand total must be positive")
	case errors.Is(err, pricing.ErrInvalidDiscount):
		return apperror.Validation(CodeInvalidDiscount, "Discount must not be negative")
	case errors.Is(err, pricing.ErrInvalidTax):
		return apperror.Validation(CodeInvalidTax, "Tax percentage must not be negative")
	default:
		return apperror.Validation(apperror.CodeInvalidRequest, "%v", err)
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
