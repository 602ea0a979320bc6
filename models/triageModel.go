package models

import (
	"math"
	"time"
)

// TriageRecord stores one set of vital signs for a patient.
type TriageRecord struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID          uint      `gorm:"column:patient_id;not null;index" json:"patient_id"`
	AttendedByID       *int64    `gorm:"column:attended_by_id" json:"attended_by_id"`
	TemperatureC       float64   `gorm:"column:temperature_c" json:"temperature_c"`
	HeartRateBPM       int       `gorm:"column:heart_rate_bpm" json:"heart_rate_bpm"`
	RespiratoryRateBPM int       `gorm:"column:respiratory_rate_bpm" json:"respiratory_rate_bpm"`
	SystolicBP         int       `gorm:"column:systolic_bp" json:"systolic_bp"`
	DiastolicBP        int       `gorm:"column:diastolic_bp" json:"diastolic_bp"`
	SpO2Percent        float64   `gorm:"column:spo2_percent" json:"spo2_percent"`
	WeightKg           float64   `gorm:"column:weight_kg" json:"weight_kg"`
	HeightCm           float64   `gorm:"column:height_cm" json:"height_cm"`
	BMI                *float64  `gorm:"column:bmi" json:"bmi"`
	Alerts             string    `gorm:"column:alerts;type:text" json:"alerts"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Patient *Patient `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (TriageRecord) TableName() string {
	return "triage_record"
}

// CalculateBMI derives BMI (kg/m^2) from weight and height, rounded to two
// decimals. Returns nil when height is missing.
func (t *TriageRecord) CalculateBMI() *float64 {
	if t.HeightCm <= 0 {
		return nil
	}
	heightM := t.HeightCm / 100
	bmi := math.Round(t.WeightKg/(heightM*heightM)*100) / 100
	return &bmi
}
