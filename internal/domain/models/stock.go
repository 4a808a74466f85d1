package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockCategory enumerates the input-supply categories the cooperative stocks.
type StockCategory string

const (
	CategoryPesticide  StockCategory = "Pesticide"
	CategoryFertilizer StockCategory = "Fertilizer"
)

// Valid reports whether the category is one the system knows.
func (c StockCategory) Valid() bool {
	return c == CategoryPesticide || c == CategoryFertilizer
}

// StockItem is an input-supply batch sold to farmers at the counter.
type StockItem struct {
	ID        string          `json:"id"`
	Category  StockCategory   `json:"type"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	MfgDate   string          `json:"mfg_date,omitempty"`
	ExpDate   string          `json:"exp_date,omitempty"`
	BuyerName string          `json:"buyer_name,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}
