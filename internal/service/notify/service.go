package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/models"
	"github.com/mamadbah2/coop/internal/repository/sheets"
	"github.com/mamadbah2/coop/pkg/clients/sms"
)

// Service fans a confirmed settlement out to the farmer's phone and the
// shared day-book spreadsheet. Both channels are optional and best-effort;
// the settlement itself is already durable when this runs.
type Service struct {
	client   sms.Client
	exporter sheets.Exporter
	logger   *zap.Logger
}

// NewService wires a notification service. client and exporter may each be
// nil when the corresponding integration is not configured.
func NewService(client sms.Client, exporter sheets.Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, exporter: exporter, logger: logger}
}

// NotifySettlement tells the farmer their payment went through and mirrors
// the settlement into the spreadsheet. The first failure is returned so the
// caller can log it; the other channel is still attempted.
func (s *Service) NotifySettlement(ctx context.Context, farmer models.Farmer, settlement models.Settlement) error {
	var firstErr error

	if s.client != nil && farmer.Mobile != "" {
		body := fmt.Sprintf(
			"Dear %s, your crop payment is settled: gross %s, deductions %s, net payable %s via %s.",
			farmer.Name,
			settlement.GrossAmount.StringFixed(2),
			settlement.TotalSalesDeduction.Add(settlement.TotalAdvancesDeduction).StringFixed(2),
			settlement.NetPayable.StringFixed(2),
			settlement.PaymentMode)

		if _, err := s.client.SendText(ctx, sms.SendTextRequest{To: farmer.Mobile, Body: body}); err != nil {
			s.logger.Warn("settlement sms failed", zap.String("farmer_id", farmer.ID), zap.Error(err))
			firstErr = err
		}
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSettlement(ctx, farmer, settlement); err != nil {
			s.logger.Warn("settlement sheet export failed", zap.String("settlement_id", settlement.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
