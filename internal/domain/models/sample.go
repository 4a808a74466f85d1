package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SampleStatus is the lifecycle state of a crop sample. Grading is one-shot:
// Pending moves to Approved or Rejected exactly once and is terminal after.
type SampleStatus string

const (
	SamplePending  SampleStatus = "Pending"
	SampleApproved SampleStatus = "Approved"
	SampleRejected SampleStatus = "Rejected"
)

// SampleGrade is the quality grade assigned on approval.
type SampleGrade string

const (
	GradeA SampleGrade = "A"
	GradeB SampleGrade = "B"
	GradeC SampleGrade = "C"
)

// Valid reports whether the grade is within the accepted set.
func (g SampleGrade) Valid() bool {
	return g == GradeA || g == GradeB || g == GradeC
}

// Sample is a crop quality-test record. Grade and ApprovedQty are only
// meaningful once Status is Approved.
type Sample struct {
	ID          string          `json:"id"`
	FarmerID    string          `json:"farmer_id"`
	CropType    string          `json:"crop_type"`
	SampleQty   decimal.Decimal `json:"sample_qty"`
	SampleDate  time.Time       `json:"sample_date"`
	Status      SampleStatus    `json:"status"`
	Grade       SampleGrade     `json:"grade,omitempty"`
	ApprovedQty decimal.Decimal `json:"approved_qty"`
	GradedAt    time.Time       `json:"graded_at"`
}
