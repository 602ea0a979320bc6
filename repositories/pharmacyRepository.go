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

type PharmacyRepository struct {
	cache *cache.Cache
}

func NewPharmacyRepository(cache *cache.Cache) *PharmacyRepository {
	return &PharmacyRepository{cache: cache}
}

// ---- Drug inventory ----

func (r *PharmacyRepository) CreateDrug(ctx context.Context, drug *models.Drug) error {
	drug.EnsureAvailability()
	if err := database.DB.Create(drug).Error; err != nil {
		return fmt.Errorf("failed to create drug: %w", err)
	}
	return nil
}

func (r *PharmacyRepository) GetDrugByID(ctx context.Context, id uint) (*models.Drug, error) {
	var drug models.Drug
	err := database.DB.First(&drug, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get drug: %w", err)
	}
	return &drug, nil
}

func (r *PharmacyRepository) GetAllDrugs(ctx context.Context) ([]models.Drug, error) {
	var drugs []models.Drug
	if err := database.DB.Order("name ASC").Find(&drugs).Error; err != nil {
		return nil, fmt.Errorf("failed to get drugs: %w", err)
	}
	return drugs, nil
}

func (r *PharmacyRepository) UpdateDrug(ctx context.Context, drug *models.Drug) error {
	drug.EnsureAvailability()
	if err := database.DB.Save(drug).Error; err != nil {
		return fmt.Errorf("failed to update drug: %w", err)
	}
	return nil
}

// decrementStockTx performs the atomic conditional decrement:
// UPDATE drug SET quantity = quantity - n WHERE id = ? AND quantity >= n.
// Zero rows affected means the floor would be crossed, so the dispense is
// rejected with ErrInsufficientStock. Concurrent dispenses against the same
// drug serialize on this row update instead of racing a read-check-write.
func decrementStockTx(tx *gorm.DB, drugID uint, quantity int64) error {
	res := tx.Model(&models.Drug{}).
		Where("id = ? AND quantity >= ?", drugID, quantity).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity - ?", quantity),
			"availability_status": gorm.Expr(
				"CASE WHEN quantity - ? > 0 THEN ? ELSE ? END",
				quantity, models.AvailabilityAvailable, models.AvailabilityOut),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("drug %d: %w", drugID, models.ErrInsufficientStock)
	}
	return nil
}

// CreateDispense records a dispense with its lines, decrements stock, updates
// the prescription and creates the billing counterpart, all in a single
// transaction. A zero-total dispense creates no invoice.
func (r *PharmacyRepository) CreateDispense(ctx context.Context, dispense *models.Dispense, lines []models.DispenseLine) error {
	if len(lines) == 0 {
		return errors.New("dispense requires at least one line")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var prescription models.Prescription
		err := tx.Preload("Items").Preload("Consultation").
			First(&prescription, "id = ?", dispense.PrescriptionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("prescription not found")
			}
			return fmt.Errorf("failed to find prescription: %w", err)
		}

		if err := tx.Create(dispense).Error; err != nil {
			return fmt.Errorf("failed to create dispense: %w", err)
		}

		for i := range lines {
			line := &lines[i]
			line.DispenseID = dispense.ID

			var drug models.Drug
			if err := tx.First(&drug, "id = ?", line.DrugID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("drug %d not found", line.DrugID)
				}
				return fmt.Errorf("failed to find drug: %w", err)
			}
			// Snapshot the price before decrementing so the billed amount
			// reflects the price at dispense time.
			line.UnitPriceAtDispense = drug.UnitPrice

			if err := decrementStockTx(tx, line.DrugID, line.QuantityDispensed); err != nil {
				return err
			}
			if err := tx.Create(line).Error; err != nil {
				return fmt.Errorf("failed to create dispense line: %w", err)
			}
			if err := tx.Model(&models.PrescriptionItem{}).
				Where("id = ?", line.PrescriptionItemID).
				Update("quantity_dispensed", gorm.Expr("quantity_dispensed + ?", line.QuantityDispensed)).
				Error; err != nil {
				return fmt.Errorf("failed to advance prescription item: %w", err)
			}
		}
		dispense.Lines = lines

		if err := refreshPrescriptionStatusTx(tx, prescription.ID); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]interface{}{
			"dispense_id":     dispense.ID,
			"prescription_id": prescription.ID,
			"line_count":      len(lines),
		})
		if err := tx.Create(&models.AuditLog{
			UserID:  dispense.PerformedByID,
			Action:  models.AuditActionDispenseConfirmed,
			Details: string(details),
		}).Error; err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		total := dispense.LinesTotal()
		if total.Sign() <= 0 {
			return nil
		}

		billing := models.Billing{
			PatientID:  resolveDispensePatientTx(tx, &prescription),
			Service:    dispense.ServiceLabel(),
			Amount:     total,
			DispenseID: &dispense.ID,
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

// resolveDispensePatientTx walks dispense -> prescription -> consultation ->
// patient. A broken link leaves the bill anonymous rather than failing the
// dispense.
func resolveDispensePatientTx(tx *gorm.DB, prescription *models.Prescription) *uint {
	var consultation models.Consultation
	if err := tx.First(&consultation, "id = ?", prescription.ConsultationID).Error; err != nil {
		return nil
	}
	return consultation.PatientID
}

// refreshPrescriptionStatusTx recomputes the prescription status from its
// items: every item fully dispensed -> dispensed, any movement -> partial.
func refreshPrescriptionStatusTx(tx *gorm.DB, prescriptionID uint) error {
	var items []models.PrescriptionItem
	if err := tx.Where("prescription_id = ?", prescriptionID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load prescription items: %w", err)
	}

	allDone := len(items) > 0
	anyMoved := false
	for i := range items {
		if items[i].QuantityDispensed > 0 {
			anyMoved = true
		}
		if items[i].QuantityDispensed < items[i].QuantityRequested {
			allDone = false
		}
	}

	status := models.PrescriptionStatusPending
	if allDone {
		status = models.PrescriptionStatusDispensed
	} else if anyMoved {
		status = models.PrescriptionStatusPartial
	}
	return tx.Model(&models.Prescription{}).Where("id = ?", prescriptionID).
		Update("status", status).Error
}

func (r *PharmacyRepository) GetDispenseByID(ctx context.Context, id uint) (*models.Dispense, error) {
	var dispense models.Dispense
	err := database.DB.Preload("Lines").Preload("Lines.Drug").
		First(&dispense, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dispense: %w", err)
	}
	return &dispense, nil
}

func (r *PharmacyRepository) GetAllDispenses(ctx context.Context) ([]models.Dispense, error) {
	var dispenses []models.Dispense
	err := database.DB.Preload("Lines").
		Order("timestamp DESC").
		Find(&dispenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get dispenses: %w", err)
	}
	return dispenses, nil
}

func (r *PharmacyRepository) GetAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := database.DB.Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}
	return logs, nil
}
