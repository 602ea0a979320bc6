package repositories

import (
	"AfyaCare/cache"
	"AfyaCare/database"
	"AfyaCare/models"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ReportRepository struct {
	cache *cache.Cache
}

func NewReportRepository(cache *cache.Cache) *ReportRepository {
	return &ReportRepository{cache: cache}
}

// StatusCount is one row of a grouped count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// OperationsReport is the hospital-wide snapshot served to the dashboard.
type OperationsReport struct {
	GeneratedAt          time.Time       `json:"generated_at"`
	TotalUsers           int64           `json:"total_users"`
	TotalPatients        int64           `json:"total_patients"`
	TotalConsultations   int64           `json:"total_consultations"`
	TotalTriageRecords   int64           `json:"total_triage_records"`
	PatientsByStatus     []StatusCount   `json:"patients_by_status"`
	BillingsByStatus     []StatusCount   `json:"billings_by_status"`
	PendingLabRequests   int64           `json:"pending_lab_requests"`
	PendingPrescriptions int64           `json:"pending_prescriptions"`
	LowStockDrugs        []models.Drug   `json:"low_stock_drugs"`
	RevenueToday         decimal.Decimal `json:"revenue_today"`
	RevenueTotal         decimal.Decimal `json:"revenue_total"`
}

// lowStockThreshold marks drugs worth reordering.
const lowStockThreshold = 10

// Operations assembles the cross-module summary in one pass.
func (r *ReportRepository) Operations(ctx context.Context) (*OperationsReport, error) {
	report := &OperationsReport{GeneratedAt: time.Now()}

	if err := database.DB.Model(&models.User{}).Count(&report.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := database.DB.Model(&models.Patient{}).Count(&report.TotalPatients).Error; err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	if err := database.DB.Model(&models.Consultation{}).Count(&report.TotalConsultations).Error; err != nil {
		return nil, fmt.Errorf("failed to count consultations: %w", err)
	}
	if err := database.DB.Model(&models.TriageRecord{}).Count(&report.TotalTriageRecords).Error; err != nil {
		return nil, fmt.Errorf("failed to count triage records: %w", err)
	}
	err := database.DB.Model(&models.Patient{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&report.PatientsByStatus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group patients by status: %w", err)
	}

	err = database.DB.Model(&models.Billing{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&report.BillingsByStatus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group billings by status: %w", err)
	}

	err = database.DB.Model(&models.LabRequest{}).
		Where("status IN ?", []string{models.LabStatusRequested, models.LabStatusSampleCollected, models.LabStatusProcessing}).
		Count(&report.PendingLabRequests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending lab requests: %w", err)
	}

	err = database.DB.Model(&models.Prescription{}).
		Where("status IN ?", []string{models.PrescriptionStatusPending, models.PrescriptionStatusPartial}).
		Count(&report.PendingPrescriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending prescriptions: %w", err)
	}

	err = database.DB.Where("quantity <= ?", lowStockThreshold).
		Order("quantity ASC").
		Find(&report.LowStockDrugs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock drugs: %w", err)
	}

	var today struct{ Total decimal.Decimal }
	startOfDay := time.Now().Truncate(24 * time.Hour)
	err = database.DB.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("created_at >= ?", startOfDay).
		Scan(&today).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum today's revenue: %w", err)
	}
	report.RevenueToday = today.Total

	var total struct{ Total decimal.Decimal }
	err = database.DB.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Scan(&total).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum total revenue: %w", err)
	}
	report.RevenueTotal = total.Total

	return report, nil
}
