package registry

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/apperr"
	"github.com/mamadbah2/coop/internal/domain/models"
)

// Store is the record-store slice the registry needs.
type Store interface {
	CreateFarmer(ctx context.Context, farmer models.Farmer) error
	GetFarmer(ctx context.Context, id string) (models.Farmer, error)
	ListFarmers(ctx context.Context) ([]models.Farmer, error)
	UpdateFarmerBank(ctx context.Context, id string, bank models.BankDetails) error
	CreateStockItem(ctx context.Context, item models.StockItem) error
	ListStockItems(ctx context.Context) ([]models.StockItem, error)
}

// FarmerInput is the enrollment payload.
type FarmerInput struct {
	Name        string
	Village     string
	Aadhaar     string
	Mobile      string
	SowingAcre  decimal.Decimal
	SeedPackets int
	Bank        models.BankDetails
}

// StockInput is the stock intake payload.
type StockInput struct {
	Category  models.StockCategory
	Name      string
	Size      string
	MfgDate   string
	ExpDate   string
	BuyerName string
	Quantity  decimal.Decimal
}

// Service handles farmer enrollment and input-stock intake.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a new registry service instance.
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

// EnrollFarmer creates the enrollment record. Identity fields are immutable
// afterwards; only the bank details can change.
func (s *Service) EnrollFarmer(ctx context.Context, in FarmerInput) (models.Farmer, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return models.Farmer{}, apperr.Validation("name", "must not be empty")
	case strings.TrimSpace(in.Village) == "":
		return models.Farmer{}, apperr.Validation("village", "must not be empty")
	case strings.TrimSpace(in.Aadhaar) == "":
		return models.Farmer{}, apperr.Validation("aadhaar", "must not be empty")
	case strings.TrimSpace(in.Mobile) == "":
		return models.Farmer{}, apperr.Validation("mobile", "must not be empty")
	case in.SowingAcre.IsNegative():
		return models.Farmer{}, apperr.Validation("sowing_acre", "must not be negative")
	case in.SeedPackets < 0:
		return models.Farmer{}, apperr.Validation("seed_packets", "must not be negative")
	}

	farmer := models.Farmer{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Village:     strings.TrimSpace(in.Village),
		Aadhaar:     strings.TrimSpace(in.Aadhaar),
		Mobile:      strings.TrimSpace(in.Mobile),
		SowingAcre:  in.SowingAcre,
		SeedPackets: in.SeedPackets,
		Bank:        in.Bank,
		EnrolledAt:  s.now().UTC(),
	}

	if err := s.store.CreateFarmer(ctx, farmer); err != nil {
		return models.Farmer{}, err
	}

	s.logger.Info("farmer enrolled",
		zap.String("farmer_id", farmer.ID),
		zap.String("village", farmer.Village))

	return farmer, nil
}

// GetFarmer fetches one farmer.
func (s *Service) GetFarmer(ctx context.Context, id string) (models.Farmer, error) {
	return s.store.GetFarmer(ctx, id)
}

// ListFarmers returns every enrolled farmer.
func (s *Service) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	return s.store.ListFarmers(ctx)
}

// UpdateBankDetails replaces the farmer's payout account.
func (s *Service) UpdateBankDetails(ctx context.Context, farmerID string, bank models.BankDetails) (models.Farmer, error) {
	if err := s.store.UpdateFarmerBank(ctx, farmerID, bank); err != nil {
		return models.Farmer{}, err
	}
	return s.store.GetFarmer(ctx, farmerID)
}

// AddStockItem records a fresh input-supply batch.
func (s *Service) AddStockItem(ctx context.Context, in StockInput) (models.StockItem, error) {
	switch {
	case !in.Category.Valid():
		return models.StockItem{}, apperr.Validation("type", "must be Pesticide or Fertilizer")
	case strings.TrimSpace(in.Name) == "":
		return models.StockItem{}, apperr.Validation("name", "must not be empty")
	case strings.TrimSpace(in.Size) == "":
		return models.StockItem{}, apperr.Validation("size", "must not be empty")
	case !in.Quantity.IsPositive():
		return models.StockItem{}, apperr.Validation("quantity", "must be greater than zero")
	}

	item := models.StockItem{
		ID:        s.newID(),
		Category:  in.Category,
		Name:      strings.TrimSpace(in.Name),
		Size:      strings.TrimSpace(in.Size),
		MfgDate:   in.MfgDate,
		ExpDate:   in.ExpDate,
		BuyerName: in.BuyerName,
		Quantity:  in.Quantity,
		AddedAt:   s.now().UTC(),
	}

	if err := s.store.CreateStockItem(ctx, item); err != nil {
		return models.StockItem{}, err
	}

	s.logger.Info("stock item added",
		zap.String("item_id", item.ID),
		zap.String("category", string(item.Category)),
		zap.String("name", item.Name))

	return item, nil
}

// ListStock returns every input-supply batch.
func (s *Service) ListStock(ctx context.Context) ([]models.StockItem, error) {
	return s.store.ListStockItems(ctx)
}
