package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport aggregates one day of counter activity for the day-book.
type DailyReport struct {
	Date             time.Time       `json:"date"`
	SalesCount       int             `json:"sales_count"`
	SalesAmount      decimal.Decimal `json:"sales_amount"`
	AdvancesCount    int             `json:"advances_count"`
	AdvancesAmount   decimal.Decimal `json:"advances_amount"`
	SettlementsCount int             `json:"settlements_count"`
	NetPaidOut       decimal.Decimal `json:"net_paid_out"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// DashboardStats is the at-a-glance summary served to the back-office home page.
type DashboardStats struct {
	TotalFarmers     int                               `json:"total_farmers"`
	TotalSalesAmount decimal.Decimal                   `json:"total_sales_amount"`
	TotalAdvances    decimal.Decimal                   `json:"total_advances_given"`
	StockSummary     map[StockCategory]decimal.Decimal `json:"stock_summary"`
}
