// Package pricing derives invoice totals from cart lines.
//
// Every amount is a decimal. Line totals, the discount and the tax are each
// rounded half-up to two places as they are produced, so the grand total is an
// exact sum of stored values:
//
//	lineTotal     = round2(quantity × price)
//	subtotal      = Σ lineTotal
//	discount      = round2(subtotal × pct / 100)  or  round2(amount)
//	taxableAmount = subtotal − discount
//	taxAmount     = round2(taxableAmount × taxPct / 100)
//	grandTotal    = subtotal − discount + taxAmount
package pricing

import (
	"errors"
	"fmt"

	"github.com/ridloal/retail-pos/internal/platform/money"
	"github.com/shopspring/decimal"
)

// QuantityScale is the number of fraction digits kept for quantities.
const QuantityScale = 3

var (
	ErrNoLines         = errors.New("at least one line is required")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidDiscount = errors.New("discount must not be negative")
	ErrInvalidTax      = errors.New("tax percentage must not be negative")
	ErrInvalidSubtotal = errors.New("subtotal must be positive")
	ErrNonPositiveDue  = errors.New("grand total must be positive")
)

type DiscountMode string

const (
	DiscountPercentage DiscountMode = "percentage"
	DiscountAmount     DiscountMode = "amount"
)

type Discount struct {
	Mode  DiscountMode
	Value decimal.Decimal
}

// Line is one cart line as submitted.
type Line struct {
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// PricedLine is a line normalized to storage precision with its total.
type PricedLine struct {
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	LineTotal decimal.Decimal
}

type Totals struct {
	Lines          []PricedLine
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	GrandTotal     decimal.Decimal
}

// LineError reports which line failed.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate prices lines in order. Quantities are kept to three places and
// prices to two before multiplying.
func (pc *Calculator) Calculate(lines []Line, discount Discount, taxPercentage decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, ErrNoLines
	}
	if discount.Value.IsNegative() {
		return Totals{}, ErrInvalidDiscount
	}
	if taxPercentage.IsNegative() {
		return Totals{}, ErrInvalidTax
	}

	t := Totals{Lines: make([]PricedLine, len(lines))}
	for i, l := range lines {
		pl, err := pc.PriceLine(l)
		if err != nil {
			return Totals{}, &LineError{Index: i, Err: err}
		}
		t.Lines[i] = pl
		t.Subtotal = t.Subtotal.Add(pl.LineTotal)
	}
	if !t.Subtotal.IsPositive() {
		return Totals{}, ErrInvalidSubtotal
	}

	t.DiscountAmount = pc.DiscountAmount(t.Subtotal, discount)
	t.TaxableAmount = t.Subtotal.Sub(t.DiscountAmount)
	t.TaxAmount = money.Round(money.Percent(t.TaxableAmount, taxPercentage))
	t.GrandTotal = t.TaxableAmount.Add(t.TaxAmount)
	if !t.GrandTotal.IsPositive() {
		return Totals{}, ErrNonPositiveDue
	}
	return t, nil
}

// PriceLine normalizes one line and computes its total.
func (pc *Calculator) PriceLine(l Line) (PricedLine, error) {
	qty := l.Quantity.Round(QuantityScale)
	price := money.Round(l.Price)
	if !qty.IsPositive() {
		return PricedLine{}, ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return PricedLine{}, ErrInvalidPrice
	}
	return PricedLine{Quantity: qty, Price: price, LineTotal: money.Round(qty.Mul(price))}, nil
}

// DiscountAmount converts a discount to an amount off subtotal.
func (pc *Calculator) DiscountAmount(subtotal decimal.Decimal, d Discount) decimal.Decimal {
	if d.Mode == DiscountPercentage {
		return money.Round(money.Percent(subtotal, d.Value))
	}
	return money.Round(d.Value)
}
