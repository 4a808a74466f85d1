package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/apperr"
	"github.com/mamadbah2/coop/internal/domain/models"
	"github.com/mamadbah2/coop/internal/repository/mongodb"
)

// Store is the record-store slice the ledger service needs.
type Store interface {
	mongodb.LedgerStore
	GetFarmer(ctx context.Context, id string) (models.Farmer, error)
	GetStockItem(ctx context.Context, id string) (models.StockItem, error)
}

// SaleInput is the operator payload for a counter sale. The item snapshot and
// the total are resolved server-side from the referenced stock batch.
type SaleInput struct {
	FarmerID string
	ItemID   string
	Quantity decimal.Decimal
	Rate     decimal.Decimal
}

// Outstanding is a consistent snapshot of everything still deductible from a
// farmer at settlement time.
type Outstanding struct {
	Sales         []models.Sale
	Advances      []models.Advance
	SalesTotal    decimal.Decimal
	AdvancesTotal decimal.Decimal
}

// Service records sales and advances and aggregates the running deduction
// totals the settlement engine nets out.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a new ledger service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// RecordSale writes the sale with an item snapshot, so later stock edits
// cannot rewrite the transaction. The stock decrement and the sale insert
// happen in one store transaction; a failure leaves the batch untouched.
func (s *Service) RecordSale(ctx context.Context, in SaleInput) (models.Sale, error) {
	if !in.Quantity.IsPositive() {
		return models.Sale{}, apperr.Validation("quantity", "must be greater than zero")
	}
	if !in.Rate.IsPositive() {
		return models.Sale{}, apperr.Validation("rate", "must be greater than zero")
	}

	if _, err := s.store.GetFarmer(ctx, in.FarmerID); err != nil {
		return models.Sale{}, err
	}
	item, err := s.store.GetStockItem(ctx, in.ItemID)
	if err != nil {
		return models.Sale{}, err
	}

	sale := models.Sale{
		ID:          s.newID(),
		FarmerID:    in.FarmerID,
		ItemType:    item.Category,
		ItemName:    item.Name,
		Quantity:    in.Quantity,
		Rate:        in.Rate,
		TotalAmount: in.Quantity.Mul(in.Rate),
		SoldAt:      s.now().UTC(),
	}

	if err := s.store.CreateSale(ctx, sale, in.ItemID); err != nil {
		return models.Sale{}, err
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("farmer_id", sale.FarmerID),
		zap.String("item", sale.ItemName),
		zap.String("total_amount", sale.TotalAmount.String()))

	return sale, nil
}

// RecordAdvance writes a cash disbursement against the farmer.
func (s *Service) RecordAdvance(ctx context.Context, farmerID string, amount decimal.Decimal, notes string) (models.Advance, error) {
	if !amount.IsPositive() {
		return models.Advance{}, apperr.Validation("amount", "must be greater than zero")
	}
	if _, err := s.store.GetFarmer(ctx, farmerID); err != nil {
		return models.Advance{}, err
	}

	advance := models.Advance{
		ID:       s.newID(),
		FarmerID: farmerID,
		Amount:   amount,
		Notes:    notes,
		GivenAt:  s.now().UTC(),
	}

	if err := s.store.CreateAdvance(ctx, advance); err != nil {
		return models.Advance{}, err
	}

	s.logger.Info("advance recorded",
		zap.String("advance_id", advance.ID),
		zap.String("farmer_id", farmerID),
		zap.String("amount", amount.String()))

	return advance, nil
}

// Outstanding reads the farmer's unabsorbed sales and advances in one pass
// and sums them. The records come back too so a settlement can name exactly
// which ones it absorbed.
func (s *Service) Outstanding(ctx context.Context, farmerID string) (Outstanding, error) {
	sales, err := s.store.ListOutstandingSales(ctx, farmerID)
	if err != nil {
		return Outstanding{}, err
	}
	advances, err := s.store.ListOutstandingAdvances(ctx, farmerID)
	if err != nil {
		return Outstanding{}, err
	}

	out := Outstanding{
		Sales:         sales,
		Advances:      advances,
		SalesTotal:    decimal.Zero,
		AdvancesTotal: decimal.Zero,
	}
	for _, sale := range sales {
		out.SalesTotal = out.SalesTotal.Add(sale.TotalAmount)
	}
	for _, advance := range advances {
		out.AdvancesTotal = out.AdvancesTotal.Add(advance.Amount)
	}
	return out, nil
}

// OutstandingSales returns the farmer's running sales-deduction total.
func (s *Service) OutstandingSales(ctx context.Context, farmerID string) (decimal.Decimal, error) {
	out, err := s.Outstanding(ctx, farmerID)
	if err != nil {
		return decimal.Zero, err
	}
	return out.SalesTotal, nil
}

// OutstandingAdvances returns the farmer's running advance-deduction total.
func (s *Service) OutstandingAdvances(ctx context.Context, farmerID string) (decimal.Decimal, error) {
	out, err := s.Outstanding(ctx, farmerID)
	if err != nil {
		return decimal.Zero, err
	}
	return out.AdvancesTotal, nil
}

// FarmerSales returns the farmer's full sale history, newest first.
func (s *Service) FarmerSales(ctx context.Context, farmerID string) ([]models.Sale, error) {
	if _, err := s.store.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}
	return s.store.ListSalesByFarmer(ctx, farmerID)
}

// FarmerAdvances returns the farmer's full advance history, newest first.
func (s *Service) FarmerAdvances(ctx context.Context, farmerID string) ([]models.Advance, error) {
	if _, err := s.store.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}
	return s.store.ListAdvancesByFarmer(ctx, farmerID)
}
