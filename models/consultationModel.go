package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Priceable is implemented by catalog entries that carry a fixed charge.
// Billing code asks for the charge through this accessor instead of probing
// attribute names at runtime.
type Priceable interface {
	ChargeAmount() decimal.Decimal
}

// Availability of catalog items (investigations, drugs).
const (
	AvailabilityAvailable = "Available"
	AvailabilityOut       = "Out of stock"
)

// Investigation is a billable test or procedure (lab tests, x-rays).
type Investigation struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name               string          `gorm:"column:name;size:255;not null" json:"name"`
	Price              decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	AvailabilityStatus string          `gorm:"column:availability_status;size:20" json:"availability_status"`
}

func (Investigation) TableName() string {
	return "investigation"
}

func (i *Investigation) ChargeAmount() decimal.Decimal {
	return i.Price
}

// Diagnosis catalog entry (Malaria, Diabetes, ...).
type Diagnosis struct {
	ID   uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name string `gorm:"column:name;size:255;unique;not null" json:"name"`
}

func (Diagnosis) TableName() string {
	return "diagnosis"
}

// VitalsSnapshot is the vitals block captured during a consultation.
type VitalsSnapshot struct {
	Sys   int     `json:"sys,omitempty"`
	Dia   int     `json:"dia,omitempty"`
	Pulse int     `json:"pulse,omitempty"`
	Temp  float64 `json:"temp,omitempty"`
	RR    int     `json:"rr,omitempty"`
	RBS   float64 `json:"rbs,omitempty"`
	SpO2  int     `json:"spo2,omitempty"`
}

// Consultation is one doctor encounter. Patient and doctor names are stored
// as snapshots so the record reads the same even if the source rows change.
type Consultation struct {
	ID          uint           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID   *uint          `gorm:"column:patient_id;index" json:"patient_id"`
	PatientName string         `gorm:"column:patient_name;size:255" json:"patient_name"`
	DoctorName  string         `gorm:"column:doctor_name;size:255" json:"doctor_name"`
	Complaints  string         `gorm:"column:complaints;type:text" json:"complaints"`
	History     string         `gorm:"column:history;type:text" json:"history"`
	Vitals      VitalsSnapshot `gorm:"embedded;embeddedPrefix:vitals_" json:"vitals"`
	CreatedByID *int64         `gorm:"column:created_by_id" json:"created_by_id"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Investigations []Investigation `gorm:"many2many:consultation_investigations;" json:"investigations,omitempty"`
	Diagnoses      []Diagnosis     `gorm:"many2many:consultation_diagnoses;" json:"diagnoses,omitempty"`
	Prescriptions  []Prescription  `gorm:"foreignKey:ConsultationID;references:ID" json:"prescriptions,omitempty"`
	Patient        *Patient        `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Consultation) TableName() string {
	return "consultation"
}

// InvestigationsTotal sums the prices of the linked investigations.
func (c *Consultation) InvestigationsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Investigations {
		total = total.Add(c.Investigations[i].ChargeAmount())
	}
	return total
}

// Prescription status lifecycle
const (
	PrescriptionStatusPending   = "pending"
	PrescriptionStatusPartial   = "partial"
	PrescriptionStatusDispensed = "dispensed"
	PrescriptionStatusCancelled = "cancelled"
)

type Prescription struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ConsultationID uint      `gorm:"column:consultation_id;not null;index" json:"consultation_id"`
	Status         string    `gorm:"column:status;size:20" json:"status"`
	CreatedByID    *int64    `gorm:"column:created_by_id" json:"created_by_id"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Items        []PrescriptionItem `gorm:"foreignKey:PrescriptionID;references:ID" json:"items,omitempty"`
	Consultation *Consultation      `gorm:"foreignKey:ConsultationID;references:ID" json:"-"`
}

func (Prescription) TableName() string {
	return "prescription"
}

// Route, unit and frequency codes for prescription items.
var (
	PrescriptionRoutes      = []string{"oral", "iv", "im", "sc", "topical", "inhalation", "sublingual"}
	PrescriptionUnits       = []string{"mg", "g", "ml", "tablet", "capsule", "drop", "puff"}
	PrescriptionFrequencies = []string{"od", "bd", "tds", "qid", "q4h", "q6h", "stat"}
)

// PrescriptionItem links a drug with dosage instructions and quantities.
type PrescriptionItem struct {
	ID                uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PrescriptionID    uint   `gorm:"column:prescription_id;not null;index" json:"prescription_id"`
	DrugID            uint   `gorm:"column:drug_id;not null;index" json:"drug_id"`
	QuantityRequested int64  `gorm:"column:quantity_requested;not null" json:"quantity_requested"`
	QuantityDispensed int64  `gorm:"column:quantity_dispensed" json:"quantity_dispensed"`
	Route             string `gorm:"column:route;size:50" json:"route"`
	Unit              string `gorm:"column:unit;size:50" json:"unit"`
	Frequency         string `gorm:"column:frequency;size:50" json:"frequency"`
	Dose              int64  `gorm:"column:dose" json:"dose"`
	Duration          int64  `gorm:"column:duration" json:"duration"`

	Drug         *Drug         `gorm:"foreignKey:DrugID;references:ID" json:"drug,omitempty"`
	Prescription *Prescription `gorm:"foreignKey:PrescriptionID;references:ID" json:"-"`
}

func (PrescriptionItem) TableName() string {
	return "prescription_item"
}

// EstimatedTotalUnits approximates total units as dose x duration, falling
// back to the requested quantity when either is missing.
func (pi *PrescriptionItem) EstimatedTotalUnits() int64 {
	if pi.Dose > 0 && pi.Duration > 0 {
		return pi.Dose * pi.Duration
	}
	return pi.QuantityRequested
}
