package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementSale       MovementType = "sale"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
)

// StockMovement is one append-only ledger entry. Quantity is signed: sales are
// negative, additions positive.
type StockMovement struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	MovementType MovementType    `json:"movementType"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReferenceID  *int64          `json:"referenceId"`
	Notes        *string         `json:"notes"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    *int64          `json:"createdBy"`
}
