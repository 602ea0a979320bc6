package repositories

import (
	"AfyaCare/cache"
	"AfyaCare/database"
	"AfyaCare/models"
	"AfyaCare/utils"
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

type TriageRepository struct {
	cache *cache.Cache
}

func NewTriageRepository(cache *cache.Cache) *TriageRepository {
	return &TriageRepository{cache: cache}
}

// CreateRecord stores a set of vitals, derives BMI and alerts, and moves the
// patient to waiting_for_doctor with a history row, in one transaction.
func (r *TriageRepository) CreateRecord(ctx context.Context, record *models.TriageRecord) error {
	record.BMI = record.CalculateBMI()
	record.Alerts = utils.AnalyzeVitals(record)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, "id = ?", record.PatientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("patient not found")
			}
			return fmt.Errorf("failed to find patient: %w", err)
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to create triage record: %w", err)
		}
		return transitionPatientTx(tx, &patient, models.PatientStatusWaitingForDoctor, record.AttendedByID)
	})
	if err != nil {
		return err
	}

	if cerr := r.cache.DeleteAll(ctx, "patients_cache"); cerr != nil {
		log.Printf("Failed to delete patients cache: %v", cerr)
	}
	return nil
}

func (r *TriageRepository) GetByID(ctx context.Context, id uint) (*models.TriageRecord, error) {
	var record models.TriageRecord
	err := database.DB.First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get triage record: %w", err)
	}
	return &record, nil
}

func (r *TriageRepository) GetByPatient(ctx context.Context, patientID uint) ([]models.TriageRecord, error) {
	var records []models.TriageRecord
	err := database.DB.Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get triage records: %w", err)
	}
	return records, nil
}

func (r *TriageRepository) GetAll(ctx context.Context) ([]models.TriageRecord, error) {
	var records []models.TriageRecord
	if err := database.DB.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get triage records: %w", err)
	}
	return records, nil
}
