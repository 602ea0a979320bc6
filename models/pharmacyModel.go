package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInsufficientStock is returned when a dispense line asks for more units
// than the drug has on hand. The write is rejected; no partial dispense.
var ErrInsufficientStock = errors.New("insufficient drug stock")

// Drug is a pharmacy inventory item.
type Drug struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name               string          `gorm:"column:name;size:255;not null;index" json:"name"`
	StrengthOrPack     string          `gorm:"column:strength_or_pack;size:255" json:"strength_or_pack"`
	Quantity           int64           `gorm:"column:quantity;not null;check:quantity >= 0" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"column:unit_price;type:decimal(10,2);not null" json:"unit_price"`
	AvailabilityStatus string          `gorm:"column:availability_status;size:20" json:"availability_status"`
}

func (Drug) TableName() string {
	return "drug"
}

// EnsureAvailability recomputes the derived availability flag from quantity.
func (d *Drug) EnsureAvailability() string {
	if d.Quantity <= 0 {
		d.AvailabilityStatus = AvailabilityOut
	} else {
		d.AvailabilityStatus = AvailabilityAvailable
	}
	return d.AvailabilityStatus
}

// Dispense is one pharmacy dispensing transaction against a prescription.
type Dispense struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PrescriptionID uint      `gorm:"column:prescription_id;not null;index" json:"prescription_id"`
	PerformedByID  *int64    `gorm:"column:performed_by_id" json:"performed_by_id"`
	Timestamp      time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`

	Lines        []DispenseLine `gorm:"foreignKey:DispenseID;references:ID" json:"lines,omitempty"`
	Prescription *Prescription  `gorm:"foreignKey:PrescriptionID;references:ID" json:"-"`
}

func (Dispense) TableName() string {
	return "dispense"
}

// ServiceLabel is the deterministic billing service label for this dispense,
// mirroring the lab request convention.
func (d *Dispense) ServiceLabel() string {
	return fmt.Sprintf("Pharmacy Dispense (dispense_id=%d)", d.ID)
}

// LinesTotal sums quantity x unit-price-at-dispense across lines.
func (d *Dispense) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range d.Lines {
		line := &d.Lines[i]
		total = total.Add(line.UnitPriceAtDispense.Mul(decimal.NewFromInt(line.QuantityDispensed)))
	}
	return total
}

// DispenseLine is one drug line within a dispense. The unit price is
// snapshotted at dispense time so later price changes do not rewrite history.
type DispenseLine struct {
	ID                  uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	DispenseID          uint            `gorm:"column:dispense_id;not null;index" json:"dispense_id"`
	PrescriptionItemID  uint            `gorm:"column:prescription_item_id;not null;index" json:"prescription_item_id"`
	DrugID              uint            `gorm:"column:drug_id;not null;index" json:"drug_id"`
	QuantityDispensed   int64           `gorm:"column:quantity_dispensed;not null" json:"quantity_dispensed"`
	UnitPriceAtDispense decimal.Decimal `gorm:"column:unit_price_at_dispense;type:decimal(10,2)" json:"unit_price_at_dispense"`

	Drug     *Drug     `gorm:"foreignKey:DrugID;references:ID" json:"drug,omitempty"`
	Dispense *Dispense `gorm:"foreignKey:DispenseID;references:ID" json:"-"`
}

func (DispenseLine) TableName() string {
	return "dispense_line"
}

// Audit log actions
const (
	AuditActionPrescriptionCreated = "prescription_created"
	AuditActionDispenseConfirmed   = "dispense_confirmed"
)

// AuditLog records pharmacy workflow events with a JSON detail payload.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID    *int64    `gorm:"column:user_id" json:"user_id"`
	Action    string    `gorm:"column:action;size:64;index" json:"action"`
	Details   string    `gorm:"column:details;type:text" json:"details"`
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
