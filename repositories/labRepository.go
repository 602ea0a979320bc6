package repositories

import (
	"AfyaCare/cache"
	"AfyaCare/database"
	"AfyaCare/models"
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

type LabRepository struct {
	cache *cache.Cache
}

func NewLabRepository(cache *cache.Cache) *LabRepository {
	return &LabRepository{cache: cache}
}

// CreateRequest persists a lab request and its billing counterpart in one
// transaction: once the request commits, its invoice exists too. The billing
// lookup is keyed on (patient, service label) with a get-or-create, so a
// retried create never produces a duplicate invoice.
func (r *LabRepository) CreateRequest(ctx context.Context, request *models.LabRequest) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, "id = ?", request.PatientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("patient not found")
			}
			return fmt.Errorf("failed to find patient: %w", err)
		}

		if request.InvestigationID != nil {
			var investigation models.Investigation
			if err := tx.First(&investigation, "id = ?", *request.InvestigationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("investigation not found")
				}
				return fmt.Errorf("failed to find investigation: %w", err)
			}
			request.Investigation = &investigation
		}
		if request.Status == "" {
			request.Status = models.LabStatusRequested
		}
		if err := tx.Create(request).Error; err != nil {
			return fmt.Errorf("failed to create lab request: %w", err)
		}

		// The label embeds the request id, so it is unique per request and
		// the get-or-create below is idempotent under retry.
		label := request.ServiceLabel()
		var billing models.Billing
		err := tx.Where("patient_id = ? AND service = ?", request.PatientID, label).
			First(&billing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up lab billing: %w", err)
		}

		billing = models.Billing{
			PatientID:    &request.PatientID,
			Service:      label,
			Amount:       request.Price(),
			LabRequestID: &request.ID,
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

// BillingForRequest resolves the invoice generated for a lab request using
// the same deterministic service label as creation time.
func (r *LabRepository) BillingForRequest(ctx context.Context, request *models.LabRequest) (*models.Billing, error) {
	var billing models.Billing
	err := database.DB.
		Where("patient_id = ? AND service = ?", request.PatientID, request.ServiceLabel()).
		First(&billing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find lab billing: %w", err)
	}
	return &billing, nil
}

// CreateResult records a lab result. Entry is payment-gated: the matching
// invoice must exist and be paid, otherwise ErrPaymentRequired is returned
// and nothing is written.
func (r *LabRepository) CreateResult(ctx context.Context, result *models.LabResult) error {
	var request models.LabRequest
	err := database.DB.Preload("Investigation").
		First(&request, "id = ?", result.LabRequestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("lab request not found")
		}
		return fmt.Errorf("failed to find lab request: %w", err)
	}

	billing, err := r.BillingForRequest(ctx, &request)
	if err != nil {
		return err
	}
	if billing == nil {
		return fmt.Errorf("no billing record found for this lab request: %w", models.ErrPaymentRequired)
	}
	if !billing.IsPaid {
		return fmt.Errorf("lab request %d is not paid: %w", request.ID, models.ErrPaymentRequired)
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return fmt.Errorf("failed to create lab result: %w", err)
		}
		return tx.Model(&models.LabRequest{}).Where("id = ?", request.ID).
			Update("status", models.LabStatusCompleted).Error
	})
}

func (r *LabRepository) GetRequestByID(ctx context.Context, id uint) (*models.LabRequest, error) {
	var request models.LabRequest
	err := database.DB.Preload("Investigation").Preload("Result").
		First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lab request: %w", err)
	}
	return &request, nil
}

func (r *LabRepository) GetAllRequests(ctx context.Context) ([]models.LabRequest, error) {
	var requests []models.LabRequest
	err := database.DB.Preload("Investigation").
		Order("requested_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get lab requests: %w", err)
	}
	return requests, nil
}

func (r *LabRepository) UpdateRequestStatus(ctx context.Context, id uint, status string) error {
	res := database.DB.Model(&models.LabRequest{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update lab request status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LabRepository) GetResultByRequestID(ctx context.Context, requestID uint) (*models.LabResult, error) {
	var result models.LabResult
	err := database.DB.First(&result, "lab_request_id = ?", requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lab result: %w", err)
	}
	return &result, nil
}
