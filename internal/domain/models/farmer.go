package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankDetails holds the optional payout account of a farmer. Unlike the
// identity fields these stay editable after enrollment.
type BankDetails struct {
	AccountNumber string `json:"account_number,omitempty"`
	IFSCCode      string `json:"ifsc_code,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

// Farmer is the enrollment record every other entity references. Farmers are
// never deleted.
type Farmer struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Village     string          `json:"village"`
	Aadhaar     string          `json:"aadhaar"`
	Mobile      string          `json:"mobile"`
	SowingAcre  decimal.Decimal `json:"sowing_acre"`
	SeedPackets int             `json:"seed_packets"`
	Bank        BankDetails     `json:"bank"`
	EnrolledAt  time.Time       `json:"enrolled_at"`
}
