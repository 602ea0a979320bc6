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

	"gorm.io/gorm"
)

type ConsultationRepository struct {
	cache *cache.Cache
}

func NewConsultationRepository(cache *cache.Cache) *ConsultationRepository {
	return &ConsultationRepository{cache: cache}
}

// PatientEligible reports whether the patient has at least one paid
// consultation invoice. Consultations may only be created for eligible
// patients; callers get ErrPaymentRequired instead of a silent not-found.
func (r *ConsultationRepository) PatientEligible(ctx context.Context, patientID uint) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Billing{}).
		Where("patient_id = ? AND service = ? AND is_paid = ?", patientID, "consultation", true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check consultation eligibility: %w", err)
	}
	return count > 0, nil
}

// CreateConsultation records a doctor encounter with its investigations,
// diagnoses and nested prescriptions, then bills the investigation total —
// all inside one transaction. The investigations invoice is created even
// when the total is zero.
func (r *ConsultationRepository) CreateConsultation(ctx context.Context, consultation *models.Consultation, investigationIDs, diagnosisIDs []uint) error {
	if consultation.PatientID == nil {
		return errors.New("patient is required")
	}

	eligible, err := r.PatientEligible(ctx, *consultation.PatientID)
	if err != nil {
		return err
	}
	if !eligible {
		return fmt.Errorf("patient %d has no paid consultation invoice: %w",
			*consultation.PatientID, models.ErrPaymentRequired)
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, "id = ?", *consultation.PatientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("patient not found")
			}
			return fmt.Errorf("failed to find patient: %w", err)
		}
		consultation.PatientName = patient.FullName()

		if consultation.CreatedByID != nil {
			var doctor models.User
			if err := tx.First(&doctor, "id = ?", *consultation.CreatedByID).Error; err == nil {
				consultation.DoctorName = doctor.Username
			}
		}

		if len(investigationIDs) > 0 {
			if err := tx.Find(&consultation.Investigations, investigationIDs).Error; err != nil {
				return fmt.Errorf("failed to load investigations: %w", err)
			}
			if len(consultation.Investigations) != len(investigationIDs) {
				return errors.New("one or more investigations not found")
			}
		}
		if len(diagnosisIDs) > 0 {
			if err := tx.Find(&consultation.Diagnoses, diagnosisIDs).Error; err != nil {
				return fmt.Errorf("failed to load diagnoses: %w", err)
			}
			if len(consultation.Diagnoses) != len(diagnosisIDs) {
				return errors.New("one or more diagnoses not found")
			}
		}

		for i := range consultation.Prescriptions {
			consultation.Prescriptions[i].Status = models.PrescriptionStatusPending
			consultation.Prescriptions[i].CreatedByID = consultation.CreatedByID
		}

		if err := tx.Create(consultation).Error; err != nil {
			return fmt.Errorf("failed to create consultation: %w", err)
		}

		for i := range consultation.Prescriptions {
			prescription := &consultation.Prescriptions[i]
			details, _ := json.Marshal(map[string]interface{}{
				"consultation_id": consultation.ID,
				"prescription_id": prescription.ID,
				"item_count":      len(prescription.Items),
			})
			if err := tx.Create(&models.AuditLog{
				UserID:  consultation.CreatedByID,
				Action:  models.AuditActionPrescriptionCreated,
				Details: string(details),
			}).Error; err != nil {
				return fmt.Errorf("failed to write audit log: %w", err)
			}
		}

		billing := models.Billing{
			PatientID:   consultation.PatientID,
			PatientName: consultation.PatientName,
			Service:     fmt.Sprintf("Investigations (consultation_id=%d)", consultation.ID),
			Amount:      consultation.InvestigationsTotal(),
			ChargedByID: consultation.CreatedByID,
		}
		return CreateBillingTx(tx, &billing)
	})
	if err != nil {
		return err
	}

	if cerr := r.cache.DeleteAll(ctx, "billings_cache"); cerr != nil {
		log.Printf("Failed to delete billings cache: %v", cerr)
	}
	return nil
}

func (r *ConsultationRepository) GetByID(ctx context.Context, id uint) (*models.Consultation, error) {
	var consultation models.Consultation
	err := database.DB.
		Preload("Investigations").
		Preload("Diagnoses").
		Preload("Prescriptions").
		Preload("Prescriptions.Items").
		First(&consultation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return &consultation, nil
}

func (r *ConsultationRepository) GetAll(ctx context.Context) ([]models.Consultation, error) {
	var consultations []models.Consultation
	err := database.DB.
		Preload("Investigations").
		Preload("Diagnoses").
		Order("created_at DESC").
		Find(&consultations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get consultations: %w", err)
	}
	return consultations, nil
}

// ---- Investigation catalog ----

func (r *ConsultationRepository) CreateInvestigation(ctx context.Context, inv *models.Investigation) error {
	if inv.AvailabilityStatus == "" {
		inv.AvailabilityStatus = models.AvailabilityAvailable
	}
	if err := database.DB.Create(inv).Error; err != nil {
		return fmt.Errorf("failed to create investigation: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) GetAllInvestigations(ctx context.Context) ([]models.Investigation, error) {
	var investigations []models.Investigation
	if err := database.DB.Order("name ASC").Find(&investigations).Error; err != nil {
		return nil, fmt.Errorf("failed to get investigations: %w", err)
	}
	return investigations, nil
}

func (r *ConsultationRepository) UpdateInvestigation(ctx context.Context, inv *models.Investigation) error {
	if err := database.DB.Save(inv).Error; err != nil {
		return fmt.Errorf("failed to update investigation: %w", err)
	}
	return nil
}

// ---- Diagnosis catalog ----

func (r *ConsultationRepository) CreateDiagnosis(ctx context.Context, diagnosis *models.Diagnosis) error {
	if err := database.DB.Create(diagnosis).Error; err != nil {
		return fmt.Errorf("failed to create diagnosis: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) GetAllDiagnoses(ctx context.Context) ([]models.Diagnosis, error) {
	var diagnoses []models.Diagnosis
	if err := database.DB.Order("name ASC").Find(&diagnoses).Error; err != nil {
		return nil, fmt.Errorf("failed to get diagnoses: %w", err)
	}
	return diagnoses, nil
}
