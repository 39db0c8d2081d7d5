package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/ridloal/retail-pos/internal/platform/money"
	"github.com/shopspring/decimal"
)

const DefaultUnit = "piece"

// Error codes reported for product input.
const (
	CodeMissingName          = "MISSING_NAME"
	CodeMissingCategory      = "MISSING_CATEGORY"
	CodeMissingMRP           = "MISSING_MRP"
	CodeMissingSellingPrice  = "MISSING_SELLING_PRICE"
	CodeInvalidMRP           = "INVALID_MRP"
	CodeInvalidSellingPrice  = "INVALID_SELLING_PRICE"
	CodeInvalidStockQuantity = "INVALID_STOCK_QUANTITY"
	CodeProductNotFound      = "PRODUCT_NOT_FOUND"
)

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	MRP           decimal.Decimal `json:"mrp"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Unit          string          `json:"unit"`
	Barcode       *string         `json:"barcode"`
	StockQuantity int             `json:"stockQuantity"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ListFilter narrows GET /products. A nil IsActive matches both states.
type ListFilter struct {
	Search   string
	Category string
	IsActive *bool
	Limit    int
	Offset   int
}

// CreateProductRequest is the POST /products body. Numeric fields are kept raw
// so that absent, null and malformed values can be told apart.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	MRP           json.RawMessage `json:"mrp"`
	SellingPrice  json.RawMessage `json:"sellingPrice"`
	Unit          string          `json:"unit"`
	Barcode       *string         `json:"barcode"`
	StockQuantity json.RawMessage `json:"stockQuantity"`
	IsActive      *bool           `json:"isActive"`
}

// Validate checks the request in a fixed order and returns the product to insert.
func (r CreateProductRequest) Validate() (*Product, error) {
	p := &Product{
		Name:     strings.TrimSpace(r.Name),
		Category: strings.TrimSpace(r.Category),
		Unit:     strings.TrimSpace(r.Unit),
		Barcode:  trimmedOrNil(r.Barcode),
		IsActive: true,
	}
	if p.Name == "" {
		return nil, apperror.Validation(CodeMissingName, "Product name is required")
	}
	if p.Category == "" {
		return nil, apperror.Validation(CodeMissingCategory, "Product category is required")
	}

	mrp, present, err := money.ParseJSON(r.MRP)
	if !present {
		return nil, apperror.Validation(CodeMissingMRP, "MRP is required")
	}
	sellingPrice, present, sellingErr := money.ParseJSON(r.SellingPrice)
	if !present {
		return nil, apperror.Validation(CodeMissingSellingPrice, "Selling price is required")
	}
	if p.MRP, err = positivePrice(mrp, err, CodeInvalidMRP, "MRP must be a positive number"); err != nil {
		return nil, err
	}
	if p.SellingPrice, err = positivePrice(sellingPrice, sellingErr, CodeInvalidSellingPrice, "Selling price must be a positive number"); err != nil {
		return nil, err
	}

	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
	if stock, present, err := parseStock(r.StockQuantity); err != nil {
		return nil, err
	} else if present {
		p.StockQuantity = stock
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return p, nil
}

// UpdateProductRequest is the PUT /products/{id} body. Only provided fields change.
type UpdateProductRequest struct {
	Name          *string         `json:"name"`
	Category      *string         `json:"category"`
	MRP           json.RawMessage `json:"mrp"`
	SellingPrice  json.RawMessage `json:"sellingPrice"`
	Unit          *string         `json:"unit"`
	Barcode       json.RawMessage `json:"barcode"`
	StockQuantity json.RawMessage `json:"stockQuantity"`
	IsActive      *bool           `json:"isActive"`
}

// ProductPatch is a validated partial update.
type ProductPatch struct {
	Name          *string
	Category      *string
	MRP           *decimal.Decimal
	SellingPrice  *decimal.Decimal
	Unit          *string
	BarcodeSet    bool
	Barcode       *string
	StockQuantity *int
	IsActive      *bool
}

func (r UpdateProductRequest) Validate() (ProductPatch, error) {
	var patch ProductPatch

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return ProductPatch{}, apperror.Validation(CodeMissingName, "Product name cannot be empty")
		}
		patch.Name = &name
	}
	if r.Category != nil {
		category := strings.TrimSpace(*r.Category)
		if category == "" {
			return ProductPatch{}, apperror.Validation(CodeMissingCategory, "Product category cannot be empty")
		}
		patch.Category = &category
	}
	if v, present, err := money.ParseJSON(r.MRP); present {
		mrp, err := positivePrice(v, err, CodeInvalidMRP, "MRP must be a positive number")
		if err != nil {
			return ProductPatch{}, err
		}
		patch.MRP = &mrp
	}
	if v, present, err := money.ParseJSON(r.SellingPrice); present {
		price, err := positivePrice(v, err, CodeInvalidSellingPrice, "Selling price must be a positive number")
		if err != nil {
			return ProductPatch{}, err
		}
		patch.SellingPrice = &price
	}
	if r.Unit != nil {
		unit := strings.TrimSpace(*r.Unit)
		if unit == "" {
			unit = DefaultUnit
		}
		patch.Unit = &unit
	}
	if len(r.Barcode) > 0 {
		var barcode *string
		if err := json.Unmarshal(r.Barcode, &barcode); err != nil {
			return ProductPatch{}, apperror.Validation(apperror.CodeInvalidRequest, "Barcode must be a string")
		}
		patch.BarcodeSet = true
		patch.Barcode = trimmedOrNil(barcode)
	}
	if stock, present, err := parseStock(r.StockQuantity); err != nil {
		return ProductPatch{}, err
	} else if present {
		patch.StockQuantity = &stock
	}
	patch.IsActive = r.IsActive
	return patch, nil
}

// Apply writes the patch onto p and returns the change in stock quantity.
func (patch ProductPatch) Apply(p *Product) (stockDelta int) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.MRP != nil {
		p.MRP = *patch.MRP
	}
	if patch.SellingPrice != nil {
		p.SellingPrice = *patch.SellingPrice
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.BarcodeSet {
		p.Barcode = patch.Barcode
	}
	if patch.StockQuantity != nil {
		stockDelta = *patch.StockQuantity - p.StockQuantity
		p.StockQuantity = *patch.StockQuantity
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	return stockDelta
}

func positivePrice(v decimal.Decimal, parseErr error, code, msg string) (decimal.Decimal, error) {
	if parseErr != nil || !v.IsPositive() {
		return decimal.Zero, apperror.Validation(code, "%s", msg)
	}
	rounded := money.Round(v)
	if !rounded.IsPositive() {
		return decimal.Zero, apperror.Validation(code, "%s", msg)
	}
	return rounded, nil
}

// parseStock accepts a whole number given as a JSON number or numeric string.
func parseStock(raw json.RawMessage) (int, bool, error) {
	v, present, err := money.ParseJSON(raw)
	if !present {
		return 0, false, nil
	}
	if err != nil || !v.IsInteger() || v.Abs().GreaterThan(decimal.NewFromInt(1_000_000_000)) {
		return 0, true, apperror.Validation(CodeInvalidStockQuantity, "Stock quantity must be a valid whole number")
	}
	return int(v.IntPart()), true, nil
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
