package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a point-of-sale transaction against the input stock. It carries a
// snapshot of the item so later stock edits cannot rewrite history, and it
// stays deductible at settlement time until a settlement absorbs it.
type Sale struct {
	ID           string          `json:"id"`
	FarmerID     string          `json:"farmer_id"`
	ItemType     StockCategory   `json:"item_type"`
	ItemName     string          `json:"item_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Absorbed     bool            `json:"absorbed"`
	SettlementID string          `json:"settlement_id,omitempty"`
	SoldAt       time.Time       `json:"sold_at"`
}

// Advance is a cash disbursement to a farmer, recovered at settlement.
type Advance struct {
	ID           string          `json:"id"`
	FarmerID     string          `json:"farmer_id"`
	Amount       decimal.Decimal `json:"amount"`
	Notes        string          `json:"notes,omitempty"`
	Absorbed     bool            `json:"absorbed"`
	SettlementID string          `json:"settlement_id,omitempty"`
	GivenAt      time.Time       `json:"given_at"`
}
