package settlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/apperr"
	"github.com/mamadbah2/coop/internal/domain/models"
	"github.com/mamadbah2/coop/internal/service/ledger"
)

// ApprovedSampleSource resolves the authoritative approved quantity for a
// farmer. Operators never enter this value by hand.
type ApprovedSampleSource interface {
	LatestApprovedSample(ctx context.Context, farmerID string) (models.Sample, bool, error)
}

// LedgerSource supplies the deduction snapshot netted out at settlement.
type LedgerSource interface {
	Outstanding(ctx context.Context, farmerID string) (ledger.Outstanding, error)
}

// Store is the record-store slice the settlement engine needs.
type Store interface {
	GetFarmer(ctx context.Context, id string) (models.Farmer, error)
	ConfirmSettlement(ctx context.Context, settlement models.Settlement, saleIDs, advanceIDs []string) error
	ListSettlementsByFarmer(ctx context.Context, farmerID string) ([]models.Settlement, error)
}

// Notifier tells a farmer their payment went through. Failures are logged,
// never surfaced: the settlement is already durable by then.
type Notifier interface {
	NotifySettlement(ctx context.Context, farmer models.Farmer, settlement models.Settlement) error
}

// Service computes settlement previews and confirms them. Preview is a pure
// read; confirm re-validates under a per-farmer lock and commits atomically.
type Service struct {
	store    Store
	samples  ApprovedSampleSource
	ledgers  LedgerSource
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires a new settlement engine. notifier may be nil when no SMS
// gateway is configured.
func NewService(store Store, samples ApprovedSampleSource, ledgers LedgerSource, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		samples:  samples,
		ledgers:  ledgers,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
		locks:    make(map[string]*sync.Mutex),
	}
}

// farmerLock returns the mutex serializing settlement writes for one farmer.
// Different farmers proceed in parallel.
func (s *Service) farmerLock(farmerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[farmerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[farmerID] = lock
	}
	return lock
}

// PreviewSettlement computes what the farmer would be paid right now.
//
// Only the approved sample quantity is monetized: totalCultivationQty is the
// physically received quantity and is carried for the record, but crop that
// did not pass grading earns nothing. A negative net payable is returned
// as-is so the operator sees the real position; confirmation rejects it.
func (s *Service) PreviewSettlement(ctx context.Context, farmerID string, totalCultivationQty, ratePerKg decimal.Decimal) (models.SettlementPreview, error) {
	if !totalCultivationQty.IsPositive() {
		return models.SettlementPreview{}, apperr.Validation("total_cultivation_qty", "must be greater than zero")
	}
	if !ratePerKg.IsPositive() {
		return models.SettlementPreview{}, apperr.Validation("rate_per_kg", "must be greater than zero")
	}

	if _, err := s.store.GetFarmer(ctx, farmerID); err != nil {
		return models.SettlementPreview{}, err
	}

	approved, found, err := s.samples.LatestApprovedSample(ctx, farmerID)
	if err != nil {
		return models.SettlementPreview{}, err
	}
	if !found {
		return models.SettlementPreview{}, apperr.Precondition("no approved sample for farmer " + farmerID)
	}

	out, err := s.ledgers.Outstanding(ctx, farmerID)
	if err != nil {
		return models.SettlementPreview{}, err
	}

	gross := approved.ApprovedQty.Mul(ratePerKg)
	preview := models.SettlementPreview{
		FarmerID:               farmerID,
		TotalCultivationQty:    totalCultivationQty,
		ApprovedQty:            approved.ApprovedQty,
		RatePerKg:              ratePerKg,
		GrossAmount:            gross,
		TotalSalesDeduction:    out.SalesTotal,
		TotalAdvancesDeduction: out.AdvancesTotal,
		NetPayable:             gross.Sub(out.SalesTotal).Sub(out.AdvancesTotal),
	}

	s.logger.Info("settlement previewed",
		zap.String("farmer_id", farmerID),
		zap.String("approved_qty", preview.ApprovedQty.String()),
		zap.String("gross_amount", preview.GrossAmount.String()),
		zap.String("net_payable", preview.NetPayable.String()))

	return preview, nil
}

// ConfirmSettlement turns a preview into a durable settlement. Under the
// farmer's lock it re-checks that the approved quantity and the outstanding
// totals still match the preview; any drift means the operator is looking at
// stale numbers and must re-preview. The settlement insert and the
// absorption marking of the netted sales/advances commit as one transaction.
//
// Policy: recoupment settlements are not supported, so a negative net
// payable is rejected here even though preview surfaces it.
func (s *Service) ConfirmSettlement(ctx context.Context, preview models.SettlementPreview, paymentMode string) (models.Settlement, error) {
	if paymentMode == "" {
		return models.Settlement{}, apperr.Validation("payment_mode", "must not be empty")
	}
	if preview.FarmerID == "" {
		return models.Settlement{}, apperr.Validation("farmer_id", "must not be empty")
	}
	if !preview.RatePerKg.IsPositive() {
		return models.Settlement{}, apperr.Validation("rate_per_kg", "must be greater than zero")
	}
	if preview.NetPayable.IsNegative() {
		return models.Settlement{}, apperr.Validation("net_payable_amount", "negative settlements are not supported")
	}

	lock := s.farmerLock(preview.FarmerID)
	lock.Lock()
	defer lock.Unlock()

	farmer, err := s.store.GetFarmer(ctx, preview.FarmerID)
	if err != nil {
		return models.Settlement{}, err
	}

	approved, found, err := s.samples.LatestApprovedSample(ctx, preview.FarmerID)
	if err != nil {
		return models.Settlement{}, err
	}
	if !found || !approved.ApprovedQty.Equal(preview.ApprovedQty) {
		return models.Settlement{}, apperr.Conflict("approved quantity changed since preview; preview again")
	}

	out, err := s.ledgers.Outstanding(ctx, preview.FarmerID)
	if err != nil {
		return models.Settlement{}, err
	}
	if !out.SalesTotal.Equal(preview.TotalSalesDeduction) || !out.AdvancesTotal.Equal(preview.TotalAdvancesDeduction) {
		return models.Settlement{}, apperr.Conflict("outstanding balances changed since preview; preview again")
	}

	// The client echoes the preview back, so the amounts are recomputed from
	// the re-validated inputs rather than trusted.
	gross := approved.ApprovedQty.Mul(preview.RatePerKg)
	net := gross.Sub(out.SalesTotal).Sub(out.AdvancesTotal)
	if net.IsNegative() {
		return models.Settlement{}, apperr.Validation("net_payable_amount", "negative settlements are not supported")
	}

	settlement := models.Settlement{
		ID:                     s.newID(),
		FarmerID:               preview.FarmerID,
		TotalCultivationQty:    preview.TotalCultivationQty,
		ApprovedQty:            approved.ApprovedQty,
		RatePerKg:              preview.RatePerKg,
		GrossAmount:            gross,
		TotalSalesDeduction:    out.SalesTotal,
		TotalAdvancesDeduction: out.AdvancesTotal,
		NetPayable:             net,
		PaymentMode:            paymentMode,
		SettledAt:              s.now().UTC(),
	}

	saleIDs := make([]string, 0, len(out.Sales))
	for _, sale := range out.Sales {
		saleIDs = append(saleIDs, sale.ID)
	}
	advanceIDs := make([]string, 0, len(out.Advances))
	for _, advance := range out.Advances {
		advanceIDs = append(advanceIDs, advance.ID)
	}

	if err := s.store.ConfirmSettlement(ctx, settlement, saleIDs, advanceIDs); err != nil {
		return models.Settlement{}, err
	}

	s.logger.Info("settlement confirmed",
		zap.String("settlement_id", settlement.ID),
		zap.String("farmer_id", settlement.FarmerID),
		zap.String("net_payable", settlement.NetPayable.String()),
		zap.Int("sales_absorbed", len(saleIDs)),
		zap.Int("advances_absorbed", len(advanceIDs)))

	if s.notifier != nil {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.notifier.NotifySettlement(notifyCtx, farmer, settlement); err != nil {
			s.logger.Warn("settlement notification failed",
				zap.String("settlement_id", settlement.ID), zap.Error(err))
		}
	}

	return settlement, nil
}

// FarmerSettlements returns the farmer's settlement history, newest first.
func (s *Service) FarmerSettlements(ctx context.Context, farmerID string) ([]models.Settlement, error) {
	if _, err := s.store.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByFarmer(ctx, farmerID)
}
