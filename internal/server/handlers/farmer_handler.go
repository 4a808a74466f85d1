package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/models"
	"github.com/mamadbah2/coop/internal/service/registry"
)

// FarmerHandler handles enrollment and stock intake HTTP requests.
type FarmerHandler struct {
	svc    *registry.Service
	logger *zap.Logger
}

// NewFarmerHandler constructs the HTTP handler adapter.
func NewFarmerHandler(svc *registry.Service, logger *zap.Logger) *FarmerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmerHandler{svc: svc, logger: logger}
}

type enrollFarmerRequest struct {
	Name          string          `json:"name"`
	Village       string          `json:"village"`
	Aadhaar       string          `json:"aadhaar"`
	Mobile        string          `json:"mobile"`
	SowingAcre    decimal.Decimal `json:"sowing_acre"`
	SeedPackets   int             `json:"seed_packets"`
	AccountNumber string          `json:"account_number"`
	IFSCCode      string          `json:"ifsc_code"`
	BankName      string          `json:"bank_name"`
}

// Enroll registers a new farmer.
func (h *FarmerHandler) Enroll(c *gin.Context) {
	var req enrollFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	farmer, err := h.svc.EnrollFarmer(c.Request.Context(), registry.FarmerInput{
		Name:        req.Name,
		Village:     req.Village,
		Aadhaar:     req.Aadhaar,
		Mobile:      req.Mobile,
		SowingAcre:  req.SowingAcre,
		SeedPackets: req.SeedPackets,
		Bank: models.BankDetails{
			AccountNumber: req.AccountNumber,
			IFSCCode:      req.IFSCCode,
			BankName:      req.BankName,
		},
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, farmer)
}

// List returns every enrolled farmer.
func (h *FarmerHandler) List(c *gin.Context) {
	farmers, err := h.svc.ListFarmers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if farmers == nil {
		farmers = []models.Farmer{}
	}
	c.JSON(http.StatusOK, farmers)
}

type bankDetailsRequest struct {
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code"`
	BankName      string `json:"bank_name"`
}

// UpdateBank replaces a farmer's payout account.
func (h *FarmerHandler) UpdateBank(c *gin.Context) {
	var req bankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	farmer, err := h.svc.UpdateBankDetails(c.Request.Context(), c.Param("id"), models.BankDetails{
		AccountNumber: req.AccountNumber,
		IFSCCode:      req.IFSCCode,
		BankName:      req.BankName,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, farmer)
}

type addStockRequest struct {
	Category  models.StockCategory `json:"type"`
	Name      string               `json:"name"`
	Size      string               `json:"size"`
	MfgDate   string               `json:"mfg_date"`
	ExpDate   string               `json:"exp_date"`
	BuyerName string               `json:"buyer_name"`
	Quantity  decimal.Decimal      `json:"quantity"`
}

// AddStock records a fresh input-supply batch.
func (h *FarmerHandler) AddStock(c *gin.Context) {
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	item, err := h.svc.AddStockItem(c.Request.Context(), registry.StockInput{
		Category:  req.Category,
		Name:      req.Name,
		Size:      req.Size,
		MfgDate:   req.MfgDate,
		ExpDate:   req.ExpDate,
		BuyerName: req.BuyerName,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListStock returns every input-supply batch.
func (h *FarmerHandler) ListStock(c *gin.Context) {
	items, err := h.svc.ListStock(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if items == nil {
		items = []models.StockItem{}
	}
	c.JSON(http.StatusOK, items)
}
