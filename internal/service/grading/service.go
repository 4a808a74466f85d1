package grading

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/apperr"
	"github.com/mamadbah2/coop/internal/domain/models"
	"github.com/mamadbah2/coop/internal/repository/mongodb"
)

// Decision is the outcome of grading a pending sample. Grade and ApprovedQty
// are only read when Outcome is Approved.
type Decision struct {
	Outcome     models.SampleStatus
	Grade       models.SampleGrade
	ApprovedQty decimal.Decimal
}

// Store is the record-store slice the grading service needs.
type Store interface {
	mongodb.SampleStore
	GetFarmer(ctx context.Context, id string) (models.Farmer, error)
}

// Service manages the crop sample lifecycle from collection to the one-shot
// approve/reject decision, and owns the "which approved quantity counts"
// question for settlement.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a new grading service instance.
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

// SubmitSample records a freshly collected sample in Pending status.
func (s *Service) SubmitSample(ctx context.Context, farmerID, cropType string, qty decimal.Decimal) (models.Sample, error) {
	if strings.TrimSpace(cropType) == "" {
		return models.Sample{}, apperr.Validation("crop_type", "must not be empty")
	}
	if !qty.IsPositive() {
		return models.Sample{}, apperr.Validation("sample_qty", "must be greater than zero")
	}

	if _, err := s.store.GetFarmer(ctx, farmerID); err != nil {
		return models.Sample{}, err
	}

	sample := models.Sample{
		ID:          s.newID(),
		FarmerID:    farmerID,
		CropType:    strings.TrimSpace(cropType),
		SampleQty:   qty,
		SampleDate:  s.now().UTC(),
		Status:      models.SamplePending,
		ApprovedQty: decimal.Zero,
	}

	if err := s.store.CreateSample(ctx, sample); err != nil {
		return models.Sample{}, err
	}

	s.logger.Info("sample submitted",
		zap.String("sample_id", sample.ID),
		zap.String("farmer_id", farmerID),
		zap.String("crop_type", sample.CropType),
		zap.String("sample_qty", qty.String()))

	return sample, nil
}

// GradeSample applies the approve/reject decision to a pending sample. The
// transition is terminal: grading anything but a Pending sample fails.
func (s *Service) GradeSample(ctx context.Context, sampleID string, decision Decision) (models.Sample, error) {
	sample, err := s.store.GetSample(ctx, sampleID)
	if err != nil {
		return models.Sample{}, err
	}

	if sample.Status != models.SamplePending {
		return models.Sample{}, apperr.InvalidState("sample " + sampleID + " is already " + string(sample.Status))
	}

	switch decision.Outcome {
	case models.SampleRejected:
		sample.Status = models.SampleRejected
	case models.SampleApproved:
		if !decision.Grade.Valid() {
			return models.Sample{}, apperr.Validation("grade", "must be A, B or C")
		}
		if decision.ApprovedQty.IsNegative() {
			return models.Sample{}, apperr.Validation("approved_qty", "must not be negative")
		}
		if decision.ApprovedQty.GreaterThan(sample.SampleQty) {
			return models.Sample{}, apperr.Validation("approved_qty", "must not exceed the submitted quantity")
		}
		sample.Status = models.SampleApproved
		sample.Grade = decision.Grade
		sample.ApprovedQty = decision.ApprovedQty
	default:
		return models.Sample{}, apperr.Validation("status", "must be Approved or Rejected")
	}

	sample.GradedAt = s.now().UTC()

	if err := s.store.UpdateSample(ctx, sample); err != nil {
		return models.Sample{}, err
	}

	s.logger.Info("sample graded",
		zap.String("sample_id", sample.ID),
		zap.String("farmer_id", sample.FarmerID),
		zap.String("status", string(sample.Status)),
		zap.String("grade", string(sample.Grade)))

	return sample, nil
}

// LatestApprovedSample returns the farmer's most recently approved sample.
// When a farmer carries approved samples from several harvest cycles, the
// newest approval wins; ok is false when none exists.
func (s *Service) LatestApprovedSample(ctx context.Context, farmerID string) (models.Sample, bool, error) {
	samples, err := s.store.ListSamplesByFarmer(ctx, farmerID)
	if err != nil {
		return models.Sample{}, false, err
	}

	var latest models.Sample
	var found bool
	for _, sample := range samples {
		if sample.Status != models.SampleApproved {
			continue
		}
		if !found || sample.GradedAt.After(latest.GradedAt) {
			latest = sample
			found = true
		}
	}
	return latest, found, nil
}

// ListFarmerSamples returns the farmer's full sample history, most recent first.
func (s *Service) ListFarmerSamples(ctx context.Context, farmerID string) ([]models.Sample, error) {
	if _, err := s.store.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}
	return s.store.ListSamplesByFarmer(ctx, farmerID)
}
