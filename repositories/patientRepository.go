package repositories

import (
	"AfyaCare/cache"
	"AfyaCare/database"
	"AfyaCare/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PatientCacheExpiry = 7 * 24 * time.Hour
)

// RegistrationResult reports the outcome of a registration attempt. When
// close matches exist the patient is not created and the matches are
// returned for the caller to resolve.
type RegistrationResult struct {
	Patient *models.Patient  `json:"patient"`
	Created bool             `json:"created"`
	Matches []models.Patient `json:"matches"`
}

type PatientRepository struct {
	cache *cache.Cache
}

func NewPatientRepository(cache *cache.Cache) *PatientRepository {
	return &PatientRepository{cache: cache}
}

// FindPossibleMatches applies the dedupe heuristics: exact national id,
// exact phone number, or name + date of birth.
func (r *PatientRepository) FindPossibleMatches(ctx context.Context, patient *models.Patient) ([]models.Patient, error) {
	db := database.DB.Model(&models.Patient{})
	var conds []string
	var args []interface{}

	if patient.NationalID != "" {
		conds = append(conds, "LOWER(national_id) = ?")
		args = append(args, strings.ToLower(patient.NationalID))
	}
	if patient.PhoneNumber != "" {
		conds = append(conds, "LOWER(phone_number) = ?")
		args = append(args, strings.ToLower(patient.PhoneNumber))
	}
	if patient.DOB != nil {
		if patient.FirstName != "" {
			conds = append(conds, "(LOWER(first_name) = ? AND dob = ?)")
			args = append(args, strings.ToLower(patient.FirstName), *patient.DOB)
		}
		if patient.LastName != "" {
			conds = append(conds, "(LOWER(last_name) = ? AND dob = ?)")
			args = append(args, strings.ToLower(patient.LastName), *patient.DOB)
		}
	}
	if len(conds) == 0 {
		return nil, nil
	}

	var matches []models.Patient
	err := db.Where(strings.Join(conds, " OR "), args...).Limit(10).Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find patient matches: %w", err)
	}
	return matches, nil
}

// Register creates a patient unless a close match already exists. The
// canonical patient number is derived from the DB id inside the same
// transaction, and the status moves registered -> sent_to_billing with a
// history row per transition.
func (r *PatientRepository) Register(ctx context.Context, patient *models.Patient) (*RegistrationResult, error) {
	matches, err := r.FindPossibleMatches(ctx, patient)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return &RegistrationResult{Created: false, Matches: matches}, nil
	}

	lockKey := fmt.Sprintf("patient_lock:%s_%s_%s", patient.FirstName, patient.LastName, patient.PhoneNumber)
	lockValue := uuid.New().String()
	if database.RedisClient != nil {
		maxRetries := 3
		retryDelay := 2 * time.Second
		var locked bool
		for i := 0; i < maxRetries; i++ {
			locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
			if err == nil && locked {
				break
			}
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
			}
		}
		if !locked {
			return nil, lockAcquireError(err)
		}
		defer func() {
			if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
				log.Printf("Failed to release lock: %v", err)
			}
		}()
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		patient.Status = models.PatientStatusRegistered
		patient.Normalize()
		if err := tx.Create(patient).Error; err != nil {
			return fmt.Errorf("failed to create patient: %w", err)
		}
		// Patient number uses the DB-assigned id, so it cannot collide.
		patient.PatientNumber = models.PatientNumberFor(patient.ID)
		if err := tx.Model(&models.Patient{}).Where("id = ?", patient.ID).
			Update("patient_number", patient.PatientNumber).Error; err != nil {
			return fmt.Errorf("failed to assign patient number: %w", err)
		}
		if err := tx.Create(&models.PatientStatusHistory{
			PatientID: patient.ID,
			NewStatus: models.PatientStatusRegistered,
			ChangedByID: patient.CreatedByID,
		}).Error; err != nil {
			return err
		}
		// Fresh registrations head straight to the billing desk.
		return transitionPatientTx(tx, patient, models.PatientStatusSentToBilling, patient.CreatedByID)
	})
	if err != nil {
		return nil, err
	}

	if err := r.cache.DeleteAll(ctx, "patients_cache"); err != nil {
		log.Printf("Failed to delete patients cache: %v", err)
	}
	return &RegistrationResult{Patient: patient, Created: true}, nil
}

// transitionPatientTx updates the status and appends the history row in the
// caller's transaction.
func transitionPatientTx(tx *gorm.DB, patient *models.Patient, newStatus string, changedBy *int64) error {
	oldStatus := patient.Status
	if oldStatus == newStatus {
		return nil
	}
	if err := tx.Model(&models.Patient{}).Where("id = ?", patient.ID).
		Update("status", newStatus).Error; err != nil {
		return fmt.Errorf("failed to update patient status: %w", err)
	}
	patient.Status = newStatus
	return tx.Create(&models.PatientStatusHistory{
		PatientID:   patient.ID,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ChangedByID: changedBy,
	}).Error
}

// UpdateStatus moves a patient through the workflow, recording history.
func (r *PatientRepository) UpdateStatus(ctx context.Context, patientID uint, newStatus string, changedBy *int64) (*models.Patient, error) {
	var patient models.Patient
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&patient, "id = ?", patientID).Error; err != nil {
			return err
		}
		return transitionPatientTx(tx, &patient, newStatus, changedBy)
	})
	if err != nil {
		return nil, err
	}
	if err := r.cache.Delete(ctx, r.getPatientCacheKey(patientID)); err != nil {
		log.Printf("Failed to delete patient cache: %v", err)
	}
	if err := r.cache.DeleteAll(ctx, "patients_cache"); err != nil {
		log.Printf("Failed to delete patients cache: %v", err)
	}
	return &patient, nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	cacheKey := r.getPatientCacheKey(id)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var patient models.Patient
		if err := json.Unmarshal([]byte(cached), &patient); err == nil {
			return &patient, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get patient from cache: %v", err)
	}

	var patient models.Patient
	err = database.DB.First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if data, err := json.Marshal(patient); err == nil {
		if err := r.cache.Set(ctx, cacheKey, data, PatientCacheExpiry); err != nil {
			log.Printf("Failed to set patient in cache: %v", err)
		}
	}
	return &patient, nil
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := database.DB.Order("created_at DESC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to get all patients: %w", err)
	}
	return patients, nil
}

// Search matches patients by number, name, phone or national id.
func (r *PatientRepository) Search(ctx context.Context, q string) ([]models.Patient, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	var patients []models.Patient
	err := database.DB.
		Where("LOWER(patient_number) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(phone_number) LIKE ? OR LOWER(national_id) LIKE ?",
			like, like, like, like, like).
		Order("created_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	if err := database.DB.Save(patient).Error; err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if err := r.cache.Delete(ctx, r.getPatientCacheKey(patient.ID)); err != nil {
		log.Printf("Failed to delete patient cache: %v", err)
	}
	if err := r.cache.DeleteAll(ctx, "patients_cache"); err != nil {
		log.Printf("Failed to delete patients cache: %v", err)
	}
	return nil
}

// StatusHistory returns the patient's status transitions, newest first.
func (r *PatientRepository) StatusHistory(ctx context.Context, patientID uint) ([]models.PatientStatusHistory, error) {
	var history []models.PatientStatusHistory
	err := database.DB.Where("patient_id = ?", patientID).
		Order("changed_at DESC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}
	return history, nil
}

func (r *PatientRepository) getPatientCacheKey(id uint) string {
	return fmt.Sprintf("patient_cache:%d", id)
}
