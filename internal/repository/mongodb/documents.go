package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/coop/internal/domain/models"
)

// Monetary and quantity fields are stored as decimal strings so nothing in
// the round trip ever passes through a float. A stored value that no longer
// parses is corruption and surfaces as an error, never as a zero amount.

// decimalParser collects the first parse failure across a document's decimal
// fields so the converters stay flat.
type decimalParser struct {
	err error
}

func (p *decimalParser) parse(field, s string) decimal.Decimal {
	if p.err != nil || s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.err = fmt.Errorf("stored %s %q is not a decimal: %w", field, s, err)
		return decimal.Zero
	}
	return d
}

type farmerDoc struct {
	ID            string    `bson:"_id"`
	Name          string    `bson:"name"`
	Village       string    `bson:"village"`
	Aadhaar       string    `bson:"aadhaar"`
	Mobile        string    `bson:"mobile"`
	SowingAcre    string    `bson:"sowing_acre"`
	SeedPackets   int       `bson:"seed_packets"`
	AccountNumber string    `bson:"account_number,omitempty"`
	IFSCCode      string    `bson:"ifsc_code,omitempty"`
	BankName      string    `bson:"bank_name,omitempty"`
	EnrolledAt    time.Time `bson:"enrolled_at"`
}

func farmerToDoc(f models.Farmer) farmerDoc {
	return farmerDoc{
		ID:            f.ID,
		Name:          f.Name,
		Village:       f.Village,
		Aadhaar:       f.Aadhaar,
		Mobile:        f.Mobile,
		SowingAcre:    f.SowingAcre.String(),
		SeedPackets:   f.SeedPackets,
		AccountNumber: f.Bank.AccountNumber,
		IFSCCode:      f.Bank.IFSCCode,
		BankName:      f.Bank.BankName,
		EnrolledAt:    f.EnrolledAt,
	}
}

func (d farmerDoc) toDomain() (models.Farmer, error) {
	var p decimalParser
	farmer := models.Farmer{
		ID:          d.ID,
		Name:        d.Name,
		Village:     d.Village,
		Aadhaar:     d.Aadhaar,
		Mobile:      d.Mobile,
		SowingAcre:  p.parse("sowing_acre", d.SowingAcre),
		SeedPackets: d.SeedPackets,
		Bank: models.BankDetails{
			AccountNumber: d.AccountNumber,
			IFSCCode:      d.IFSCCode,
			BankName:      d.BankName,
		},
		EnrolledAt: d.EnrolledAt,
	}
	if p.err != nil {
		return models.Farmer{}, p.err
	}
	return farmer, nil
}

type stockItemDoc struct {
	ID        string    `bson:"_id"`
	Category  string    `bson:"category"`
	Name      string    `bson:"name"`
	Size      string    `bson:"size"`
	MfgDate   string    `bson:"mfg_date,omitempty"`
	ExpDate   string    `bson:"exp_date,omitempty"`
	BuyerName string    `bson:"buyer_name,omitempty"`
	Quantity  string    `bson:"quantity"`
	AddedAt   time.Time `bson:"added_at"`
}

func stockItemToDoc(i models.StockItem) stockItemDoc {
	return stockItemDoc{
		ID:        i.ID,
		Category:  string(i.Category),
		Name:      i.Name,
		Size:      i.Size,
		MfgDate:   i.MfgDate,
		ExpDate:   i.ExpDate,
		BuyerName: i.BuyerName,
		Quantity:  i.Quantity.String(),
		AddedAt:   i.AddedAt,
	}
}

func (d stockItemDoc) toDomain() (models.StockItem, error) {
	var p decimalParser
	item := models.StockItem{
		ID:        d.ID,
		Category:  models.StockCategory(d.Category),
		Name:      d.Name,
		Size:      d.Size,
		MfgDate:   d.MfgDate,
		ExpDate:   d.ExpDate,
		BuyerName: d.BuyerName,
		Quantity:  p.parse("quantity", d.Quantity),
		AddedAt:   d.AddedAt,
	}
	if p.err != nil {
		return models.StockItem{}, p.err
	}
	return item, nil
}

type saleDoc struct {
	ID           string    `bson:"_id"`
	FarmerID     string    `bson:"farmer_id"`
	ItemType     string    `bson:"item_type"`
	ItemName     string    `bson:"item_name"`
	Quantity     string    `bson:"quantity"`
	Rate         string    `bson:"rate"`
	TotalAmount  string    `bson:"total_amount"`
	Absorbed     bool      `bson:"absorbed"`
	SettlementID string    `bson:"settlement_id,omitempty"`
	SoldAt       time.Time `bson:"sold_at"`
}

func saleToDoc(s models.Sale) saleDoc {
	return saleDoc{
		ID:           s.ID,
		FarmerID:     s.FarmerID,
		ItemType:     string(s.ItemType),
		ItemName:     s.ItemName,
		Quantity:     s.Quantity.String(),
		Rate:         s.Rate.String(),
		TotalAmount:  s.TotalAmount.String(),
		Absorbed:     s.Absorbed,
		SettlementID: s.SettlementID,
		SoldAt:       s.SoldAt,
	}
}

func (d saleDoc) toDomain() (models.Sale, error) {
	var p decimalParser
	sale := models.Sale{
		ID:           d.ID,
		FarmerID:     d.FarmerID,
		ItemType:     models.StockCategory(d.ItemType),
		ItemName:     d.ItemName,
		Quantity:     p.parse("quantity", d.Quantity),
		Rate:         p.parse("rate", d.Rate),
		TotalAmount:  p.parse("total_amount", d.TotalAmount),
		Absorbed:     d.Absorbed,
		SettlementID: d.SettlementID,
		SoldAt:       d.SoldAt,
	}
	if p.err != nil {
		return models.Sale{}, p.err
	}
	return sale, nil
}

type advanceDoc struct {
	ID           string    `bson:"_id"`
	FarmerID     string    `bson:"farmer_id"`
	Amount       string    `bson:"amount"`
	Notes        string    `bson:"notes,omitempty"`
	Absorbed     bool      `bson:"absorbed"`
	SettlementID string    `bson:"settlement_id,omitempty"`
	GivenAt      time.Time `bson:"given_at"`
}

func advanceToDoc(a models.Advance) advanceDoc {
	return advanceDoc{
		ID:           a.ID,
		FarmerID:     a.FarmerID,
		Amount:       a.Amount.String(),
		Notes:        a.Notes,
		Absorbed:     a.Absorbed,
		SettlementID: a.SettlementID,
		GivenAt:      a.GivenAt,
	}
}

func (d advanceDoc) toDomain() (models.Advance, error) {
	var p decimalParser
	advance := models.Advance{
		ID:           d.ID,
		FarmerID:     d.FarmerID,
		Amount:       p.parse("amount", d.Amount),
		Notes:        d.Notes,
		Absorbed:     d.Absorbed,
		SettlementID: d.SettlementID,
		GivenAt:      d.GivenAt,
	}
	if p.err != nil {
		return models.Advance{}, p.err
	}
	return advance, nil
}

type sampleDoc struct {
	ID          string    `bson:"_id"`
	FarmerID    string    `bson:"farmer_id"`
	CropType    string    `bson:"crop_type"`
	SampleQty   string    `bson:"sample_qty"`
	SampleDate  time.Time `bson:"sample_date"`
	Status      string    `bson:"status"`
	Grade       string    `bson:"grade,omitempty"`
	ApprovedQty string    `bson:"approved_qty"`
	GradedAt    time.Time `bson:"graded_at,omitempty"`
}

func sampleToDoc(s models.Sample) sampleDoc {
	return sampleDoc{
		ID:          s.ID,
		FarmerID:    s.FarmerID,
		CropType:    s.CropType,
		SampleQty:   s.SampleQty.String(),
		SampleDate:  s.SampleDate,
		Status:      string(s.Status),
		Grade:       string(s.Grade),
		ApprovedQty: s.ApprovedQty.String(),
		GradedAt:    s.GradedAt,
	}
}

func (d sampleDoc) toDomain() (models.Sample, error) {
	var p decimalParser
	sample := models.Sample{
		ID:          d.ID,
		FarmerID:    d.FarmerID,
		CropType:    d.CropType,
		SampleQty:   p.parse("sample_qty", d.SampleQty),
		SampleDate:  d.SampleDate,
		Status:      models.SampleStatus(d.Status),
		Grade:       models.SampleGrade(d.Grade),
		ApprovedQty: p.parse("approved_qty", d.ApprovedQty),
		GradedAt:    d.GradedAt,
	}
	if p.err != nil {
		return models.Sample{}, p.err
	}
	return sample, nil
}

type settlementDoc struct {
	ID                     string    `bson:"_id"`
	FarmerID               string    `bson:"farmer_id"`
	TotalCultivationQty    string    `bson:"total_cultivation_qty"`
	ApprovedQty            string    `bson:"approved_qty"`
	RatePerKg              string    `bson:"rate_per_kg"`
	GrossAmount            string    `bson:"gross_amount"`
	TotalSalesDeduction    string    `bson:"total_sales_deduction"`
	TotalAdvancesDeduction string    `bson:"total_advances_deduction"`
	NetPayable             string    `bson:"net_payable_amount"`
	PaymentMode            string    `bson:"payment_mode"`
	SettledAt              time.Time `bson:"settlement_date"`
}

func settlementToDoc(s models.Settlement) settlementDoc {
	return settlementDoc{
		ID:                     s.ID,
		FarmerID:               s.FarmerID,
		TotalCultivationQty:    s.TotalCultivationQty.String(),
		ApprovedQty:            s.ApprovedQty.String(),
		RatePerKg:              s.RatePerKg.String(),
		GrossAmount:            s.GrossAmount.String(),
		TotalSalesDeduction:    s.TotalSalesDeduction.String(),
		TotalAdvancesDeduction: s.TotalAdvancesDeduction.String(),
		NetPayable:             s.NetPayable.String(),
		PaymentMode:            s.PaymentMode,
		SettledAt:              s.SettledAt,
	}
}

func (d settlementDoc) toDomain() (models.Settlement, error) {
	var p decimalParser
	settlement := models.Settlement{
		ID:                     d.ID,
		FarmerID:               d.FarmerID,
		TotalCultivationQty:    p.parse("total_cultivation_qty", d.TotalCultivationQty),
		ApprovedQty:            p.parse("approved_qty", d.ApprovedQty),
		RatePerKg:              p.parse("rate_per_kg", d.RatePerKg),
		GrossAmount:            p.parse("gross_amount", d.GrossAmount),
		TotalSalesDeduction:    p.parse("total_sales_deduction", d.TotalSalesDeduction),
		TotalAdvancesDeduction: p.parse("total_advances_deduction", d.TotalAdvancesDeduction),
		NetPayable:             p.parse("net_payable_amount", d.NetPayable),
		PaymentMode:            d.PaymentMode,
		SettledAt:              d.SettledAt,
	}
	if p.err != nil {
		return models.Settlement{}, p.err
	}
	return settlement, nil
}
