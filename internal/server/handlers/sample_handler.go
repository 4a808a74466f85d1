package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/models"
	"github.com/mamadbah2/coop/internal/service/grading"
)

// SampleHandler handles crop sample HTTP requests.
type SampleHandler struct {
	svc    *grading.Service
	logger *zap.Logger
}

// NewSampleHandler constructs the HTTP handler adapter.
func NewSampleHandler(svc *grading.Service, logger *zap.Logger) *SampleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SampleHandler{svc: svc, logger: logger}
}

type submitSampleRequest struct {
	FarmerID  string          `json:"farmer_id"`
	CropType  string          `json:"crop_type"`
	SampleQty decimal.Decimal `json:"sample_qty"`
}

// Submit records a freshly collected sample.
func (h *SampleHandler) Submit(c *gin.Context) {
	var req submitSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	sample, err := h.svc.SubmitSample(c.Request.Context(), req.FarmerID, req.CropType, req.SampleQty)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, sample)
}

type gradeSampleRequest struct {
	Status      models.SampleStatus `json:"status"`
	Grade       models.SampleGrade  `json:"grade"`
	ApprovedQty decimal.Decimal     `json:"approved_qty"`
}

// Grade applies the one-shot approve/reject decision.
func (h *SampleHandler) Grade(c *gin.Context) {
	var req gradeSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	sample, err := h.svc.GradeSample(c.Request.Context(), c.Param("id"), grading.Decision{
		Outcome:     req.Status,
		Grade:       req.Grade,
		ApprovedQty: req.ApprovedQty,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, sample)
}

// FarmerSamples returns the farmer's sample history, most recent first.
func (h *SampleHandler) FarmerSamples(c *gin.Context) {
	samples, err := h.svc.ListFarmerSamples(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if samples == nil {
		samples = []models.Sample{}
	}
	c.JSON(http.StatusOK, samples)
}
