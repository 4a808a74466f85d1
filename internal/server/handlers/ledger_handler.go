package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/models"
	"github.com/mamadbah2/coop/internal/service/ledger"
)

// LedgerHandler handles sale and advance HTTP requests.
type LedgerHandler struct {
	svc    *ledger.Service
	logger *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(svc *ledger.Service, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, logger: logger}
}

type recordSaleRequest struct {
	FarmerID string          `json:"farmer_id"`
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
}

// RecordSale sells stock to a farmer on credit against the harvest.
func (h *LedgerHandler) RecordSale(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	sale, err := h.svc.RecordSale(c.Request.Context(), ledger.SaleInput{
		FarmerID: req.FarmerID,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Rate:     req.Rate,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// FarmerSales returns the farmer's sale history.
func (h *LedgerHandler) FarmerSales(c *gin.Context) {
	sales, err := h.svc.FarmerSales(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	c.JSON(http.StatusOK, sales)
}

type recordAdvanceRequest struct {
	FarmerID string          `json:"farmer_id"`
	Amount   decimal.Decimal `json:"amount"`
	Notes    string          `json:"notes"`
}

// RecordAdvance disburses cash to a farmer.
func (h *LedgerHandler) RecordAdvance(c *gin.Context) {
	var req recordAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	advance, err := h.svc.RecordAdvance(c.Request.Context(), req.FarmerID, req.Amount, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, advance)
}

// FarmerAdvances returns the farmer's advance history.
func (h *LedgerHandler) FarmerAdvances(c *gin.Context) {
	advances, err := h.svc.FarmerAdvances(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if advances == nil {
		advances = []models.Advance{}
	}
	c.JSON(http.StatusOK, advances)
}
