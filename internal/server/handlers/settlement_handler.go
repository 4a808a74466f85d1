package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/models"
	"github.com/mamadbah2/coop/internal/service/settlement"
)

// SettlementHandler handles settlement preview/confirm HTTP requests.
type SettlementHandler struct {
	svc    *settlement.Service
	logger *zap.Logger
}

// NewSettlementHandler constructs the HTTP handler adapter.
func NewSettlementHandler(svc *settlement.Service, logger *zap.Logger) *SettlementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementHandler{svc: svc, logger: logger}
}

type previewRequest struct {
	FarmerID            string          `json:"farmer_id"`
	TotalCultivationQty decimal.Decimal `json:"total_cultivation_qty"`
	RatePerKg           decimal.Decimal `json:"rate_per_kg"`
}

// Preview computes what the farmer would be paid right now. Nothing is
// persisted; the client echoes the preview back on confirm.
func (h *SettlementHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	preview, err := h.svc.PreviewSettlement(c.Request.Context(), req.FarmerID, req.TotalCultivationQty, req.RatePerKg)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

type confirmRequest struct {
	models.SettlementPreview
	PaymentMode string `json:"payment_mode"`
}

// Confirm turns a previously computed preview into a durable settlement.
func (h *SettlementHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	settled, err := h.svc.ConfirmSettlement(c.Request.Context(), req.SettlementPreview, req.PaymentMode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, settled)
}

// FarmerSettlements returns the farmer's settlement history.
func (h *SettlementHandler) FarmerSettlements(c *gin.Context) {
	settlements, err := h.svc.FarmerSettlements(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if settlements == nil {
		settlements = []models.Settlement{}
	}
	c.JSON(http.StatusOK, settlements)
}
