package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementPreview is the computed, not-yet-persisted outcome of a payment
// calculation. The client echoes it back on confirm, where the inputs are
// re-validated and the amounts recomputed before anything is persisted.
//
// GrossAmount is ApprovedQty x RatePerKg. TotalCultivationQty is operator
// context only and never enters the money math: crop that did not pass
// grading earns nothing.
type SettlementPreview struct {
	FarmerID               string          `json:"farmer_id"`
	TotalCultivationQty    decimal.Decimal `json:"total_cultivation_qty"`
	ApprovedQty            decimal.Decimal `json:"approved_qty"`
	RatePerKg              decimal.Decimal `json:"rate_per_kg"`
	GrossAmount            decimal.Decimal `json:"gross_amount"`
	TotalSalesDeduction    decimal.Decimal `json:"total_sales_deduction"`
	TotalAdvancesDeduction decimal.Decimal `json:"total_advances_deduction"`
	NetPayable             decimal.Decimal `json:"net_payable_amount"`
}

// Settlement is the durable record written when a preview is confirmed.
type Settlement struct {
	ID                     string          `json:"id"`
	FarmerID               string          `json:"farmer_id"`
	TotalCultivationQty    decimal.Decimal `json:"total_cultivation_qty"`
	ApprovedQty            decimal.Decimal `json:"approved_qty"`
	RatePerKg              decimal.Decimal `json:"rate_per_kg"`
	GrossAmount            decimal.Decimal `json:"gross_amount"`
	TotalSalesDeduction    decimal.Decimal `json:"total_sales_deduction"`
	TotalAdvancesDeduction decimal.Decimal `json:"total_advances_deduction"`
	NetPayable             decimal.Decimal `json:"net_payable_amount"`
	PaymentMode            string          `json:"payment_mode"`
	SettledAt              time.Time       `json:"settlement_date"`
}
