package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Error codes reported for invoice input.
const (
	CodeMissingItems       = "MISSING_ITEMS"
	CodeEmptyItems         = "EMPTY_ITEMS"
	CodeInvalidSubtotal    = "INVALID_SUBTOTAL"
	CodeInvalidGrandTotal  = "INVALID_GRAND_TOTAL"
	CodeMissingProductName = "MISSING_PRODUCT_NAME"
	CodeInvalidQuantity    = "INVALID_QUANTITY"
	CodeInvalidPrice       = "INVALID_PRICE"
	CodeInvalidLineTotal   = "INVALID_LINE_TOTAL"
	CodeInvalidDiscount    = "INVALID_DISCOUNT"
	CodeInvalidTax         = "INVALID_TAX"
	CodeInvalidTaxAmount   = "INVALID_TAX_AMOUNT"
	CodeInvalidProduct     = "INVALID_PRODUCT"
	CodeInvalidDate        = "INVALID_DATE"
	CodeInvoiceNotFound    = "INVOICE_NOT_FOUND"
)

type Invoice struct {
	ID                 int64           `json:"id"`
	InvoiceNumber      string          `json:"invoiceNumber"`
	CustomerName       *string         `json:"customerName"`
	CustomerPhone      *string         `json:"customerPhone"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	TaxPercentage      decimal.Decimal `json:"taxPercentage"`
	TaxAmount          decimal.Decimal `json:"taxAmount"`
	GrandTotal         decimal.Decimal `json:"grandTotal"`
	CreatedAt          time.Time       `json:"createdAt"`
	CreatedBy          *int64          `json:"createdBy"`
	// Items is nil in list responses.
	Items []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem snapshots the product name and price at sale time. ProductID is
// nil for ad hoc lines and for products deleted since.
type InvoiceItem struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoiceId"`
	ProductID   *int64          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ListQuery holds the raw GET /invoices parameters. Dates are YYYY-MM-DD in
// store-local time and both ends are inclusive.
type ListQuery struct {
	StartDate     string
	EndDate       string
	CustomerPhone string
	Limit         int
	Offset        int
}

// ListFilter is a resolved ListQuery: From is inclusive, To exclusive.
type ListFilter struct {
	From          *time.Time
	To            *time.Time
	CustomerPhone string
	Limit         int
	Offset        int
}
