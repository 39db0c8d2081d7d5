package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// LowStockThreshold is the stock level below which an active product is
	// reported as low on stock.
	LowStockThreshold = 10
	TrailingDays      = 7
	TopProductsLimit  = 5
	RecentInvoices    = 5
)

// Stats is the same-day summary shown at the top of the dashboard.
type Stats struct {
	DailySales       decimal.Decimal  `json:"dailySales"`
	TotalProducts    int64            `json:"totalProducts"`
	LowStockProducts int64            `json:"lowStockProducts"`
	RecentInvoices   []InvoiceSummary `json:"recentInvoices"`
}

type InvoiceSummary struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  *string         `json:"customerName"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Analytics holds the chart series. Slices are never nil so that an empty
// store still renders as [].
type Analytics struct {
	DailySales      []DailySales     `json:"dailySales"`
	SalesByCategory []CategorySales  `json:"salesByCategory"`
	TopProducts     []ProductRevenue `json:"topProducts"`
}

// DailySales is one store-local calendar day, Date formatted YYYY-MM-DD.
type DailySales struct {
	Date  string          `json:"date"`
	Sales decimal.Decimal `json:"sales"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Sales    decimal.Decimal `json:"sales"`
}

type ProductRevenue struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Revenue   decimal.Decimal `json:"revenue"`
}
