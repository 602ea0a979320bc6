package models

import (
	"fmt"
	"strings"
	"time"
)

// Patient status lifecycle
const (
	PatientStatusRegistered       = "registered"
	PatientStatusSentToBilling    = "sent_to_billing"
	PatientStatusTriaged          = "triaged"
	PatientStatusWaitingForDoctor = "waiting_for_doctor"
	PatientStatusReadyForDoctor   = "ready_for_doctor"
	PatientStatusInConsultation   = "in_consultation"
	PatientStatusReadyForPharmacy = "ready_for_pharmacy"
	PatientStatusDischarged       = "discharged"
)

var patientStatuses = map[string]bool{
	PatientStatusRegistered:       true,
	PatientStatusSentToBilling:    true,
	PatientStatusTriaged:          true,
	PatientStatusWaitingForDoctor: true,
	PatientStatusReadyForDoctor:   true,
	PatientStatusInConsultation:   true,
	PatientStatusReadyForPharmacy: true,
	PatientStatusDischarged:       true,
}

// ValidPatientStatus reports whether s is a known workflow status.
func ValidPatientStatus(s string) bool {
	return patientStatuses[s]
}

// Gender values accepted by the registry.
const (
	GenderMale     = "male"
	GenderFemale   = "female"
	GenderIntersex = "intersex"
	GenderOther    = "other"
)

// Patient model
type Patient struct {
	ID            uint       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientNumber string     `gorm:"column:patient_number;size:32;uniqueIndex" json:"patient_number"`
	FirstName     string     `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName      string     `gorm:"column:last_name;size:100;not null;index" json:"last_name"`
	Gender        string     `gorm:"column:gender;size:50;check:gender IN ('male', 'female', 'intersex', 'other')" json:"gender"`
	DOB           *time.Time `gorm:"column:dob;type:date" json:"dob"`
	NationalID    string     `gorm:"column:national_id;size:50;index" json:"national_id"`
	PhoneNumber   string     `gorm:"column:phone_number;size:50;index" json:"phone_number"`
	Address       string     `gorm:"column:address;type:text" json:"address"`
	Status        string     `gorm:"column:status;size:32;index" json:"status"`
	CreatedByID   *int64     `gorm:"column:created_by_id" json:"created_by_id"`
	LastVisit     *time.Time `gorm:"column:last_visit" json:"last_visit"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	StatusHistory []PatientStatusHistory `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Billings      []Billing              `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Consultations []Consultation         `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	TriageRecords []TriageRecord         `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	LabRequests   []LabRequest           `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", p.FirstName, p.LastName))
}

// Normalize applies registration defaults before the row is persisted.
// Gender is optional at the desk; the gender column's check constraint
// rejects the empty string, so unset defaults to "other".
func (p *Patient) Normalize() {
	if p.Gender == "" {
		p.Gender = GenderOther
	}
}

// PatientNumberFor derives the canonical patient number from the DB id,
// e.g. PAT-0000123. The id is assigned by the database, so the number is
// collision-free without extra coordination.
func PatientNumberFor(id uint) string {
	return fmt.Sprintf("PAT-%07d", id)
}

// PatientStatusHistory records every status transition for auditing.
type PatientStatusHistory struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID   uint      `gorm:"column:patient_id;not null;index" json:"patient_id"`
	OldStatus   string    `gorm:"column:old_status;size:32" json:"old_status"`
	NewStatus   string    `gorm:"column:new_status;size:32;not null" json:"new_status"`
	ChangedByID *int64    `gorm:"column:changed_by_id" json:"changed_by_id"`
	ChangedAt   time.Time `gorm:"column:changed_at;autoCreateTime" json:"changed_at"`
	Patient     *Patient  `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (PatientStatusHistory) TableName() string {
	return "patient_status_history"
}
