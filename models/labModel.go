package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Lab request status lifecycle
const (
	LabStatusRequested       = "requested"
	LabStatusSampleCollected = "sample_collected"
	LabStatusProcessing      = "processing"
	LabStatusCompleted       = "completed"
)

// DefaultLabTestPrice is charged when a lab request has no priced investigation.
var DefaultLabTestPrice = decimal.NewFromInt(500)

// LabRequest is an ordered lab investigation.
type LabRequest struct {
	ID              uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID       uint      `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ConsultationID  *uint     `gorm:"column:consultation_id;index" json:"consultation_id"`
	InvestigationID *uint     `gorm:"column:investigation_id;index" json:"investigation_id"`
	TestName        string    `gorm:"column:test_name;size:255" json:"test_name"`
	Status          string    `gorm:"column:status;size:32" json:"status"`
	Notes           string    `gorm:"column:notes;type:text" json:"notes"`
	RequestedAt     time.Time `gorm:"column:requested_at;autoCreateTime" json:"requested_at"`

	Patient       *Patient       `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Consultation  *Consultation  `gorm:"foreignKey:ConsultationID;references:ID" json:"-"`
	Investigation *Investigation `gorm:"foreignKey:InvestigationID;references:ID" json:"investigation,omitempty"`
	Result        *LabResult     `gorm:"foreignKey:LabRequestID;references:ID" json:"result,omitempty"`
}

func (LabRequest) TableName() string {
	return "lab_request"
}

// DisplayName prefers the linked investigation name over the free-text test name.
func (lr *LabRequest) DisplayName() string {
	if lr.Investigation != nil && lr.Investigation.Name != "" {
		return lr.Investigation.Name
	}
	return lr.TestName
}

// ServiceLabel is the deterministic billing service label for this request.
// The request id makes the label unique per request, which keeps the
// get-or-create billing lookup idempotent. Callers may depend on this grammar.
func (lr *LabRequest) ServiceLabel() string {
	return fmt.Sprintf("Lab Test: %s (request_id=%d)", lr.DisplayName(), lr.ID)
}

// Price resolves the charge for this request: the linked investigation's
// price when present, otherwise the fixed fallback.
func (lr *LabRequest) Price() decimal.Decimal {
	if lr.Investigation != nil {
		return lr.Investigation.ChargeAmount()
	}
	return DefaultLabTestPrice
}

// LabResult stores the outcome for a LabRequest, one result per request.
type LabResult struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	LabRequestID  uint      `gorm:"column:lab_request_id;not null;uniqueIndex" json:"lab_request_id"`
	PerformedByID *int64    `gorm:"column:performed_by_id" json:"performed_by_id"`
	ResultText    string    `gorm:"column:result_text;type:text;not null" json:"result_text"`
	ResultJSON    string    `gorm:"column:result_json;type:text" json:"result_json"`
	Verified      bool      `gorm:"column:verified" json:"verified"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	LabRequest *LabRequest `gorm:"foreignKey:LabRequestID;references:ID" json:"-"`
}

func (LabResult) TableName() string {
	return "lab_result"
}
