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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BillingCacheExpiry = 7 * 24 * time.Hour
)

// BillingRepository owns the invoice lifecycle: creation with price-list
// defaults, the payment ledger, status recomputation and cancellation.
type BillingRepository struct {
	cache *cache.Cache
}

func NewBillingRepository(cache *cache.Cache) *BillingRepository {
	return &BillingRepository{cache: cache}
}

// BillingReport aggregates totals by status and by service.
type BillingReport struct {
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalUnpaid    decimal.Decimal `json:"total_unpaid"`
	TotalPartial   decimal.Decimal `json:"total_partial"`
	TotalCancelled decimal.Decimal `json:"total_cancelled"`
	ByService      []ServiceTotal  `json:"by_service"`
}

// ServiceTotal is one row of the by-service breakdown.
type ServiceTotal struct {
	Service string          `json:"service"`
	Total   decimal.Decimal `json:"total"`
}

// lockAcquireError reports an exhausted lock retry loop. The final attempt
// can fail without an error when the lock is simply held by someone else,
// so the nil case gets a plain message instead of wrapping nil.
func lockAcquireError(err error) error {
	if err == nil {
		return errors.New("failed to acquire lock after retries")
	}
	return fmt.Errorf("failed to acquire lock after retries: %w", err)
}

// withInvoiceLock serializes payment mutations per invoice via a redis lock.
// Without redis (tests, degraded mode) it falls through to the database
// transaction alone.
func (r *BillingRepository) withInvoiceLock(ctx context.Context, billingID uint, fn func() error) error {
	if database.RedisClient == nil {
		return fn()
	}

	lockKey := fmt.Sprintf("billing_lock:%d", billingID)
	lockValue := uuid.New().String()
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
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
		return lockAcquireError(err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	return fn()
}

// Create persists a new billing record. Known service categories get their
// fixed catalog price regardless of the caller-supplied amount.
func (r *BillingRepository) Create(ctx context.Context, billing *models.Billing) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return CreateBillingTx(tx, billing)
	})
	if err != nil {
		return err
	}
	r.invalidate(ctx, billing.ID, billing.PatientID)
	return nil
}

// CreateBillingTx creates a billing row inside an existing transaction. It is
// shared with the lab/pharmacy/consultation repositories so auto-billing
// commits or rolls back together with the triggering entity.
func CreateBillingTx(tx *gorm.DB, billing *models.Billing) error {
	if billing.PatientID != nil && billing.PatientName == "" {
		var patient models.Patient
		if err := tx.First(&patient, "id = ?", *billing.PatientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("patient not found")
			}
			return fmt.Errorf("failed to find patient: %w", err)
		}
		billing.CacheNames(&patient, nil)
	}
	if billing.ChargedByID != nil && billing.ChargedByName == "" {
		var user models.User
		if err := tx.First(&user, "id = ?", *billing.ChargedByID).Error; err == nil {
			billing.CacheNames(nil, &user)
		}
	}
	billing.Normalize()

	// The 6-hex invoice token is short enough to collide under load. The
	// unique index catches the collision; mint a fresh number and retry
	// from a savepoint so the surrounding transaction survives the failed
	// insert on postgres.
	const maxInvoiceAttempts = 5
	var err error
	for attempt := 0; attempt < maxInvoiceAttempts; attempt++ {
		if spErr := tx.SavePoint("create_billing").Error; spErr != nil {
			return fmt.Errorf("failed to create billing savepoint: %w", spErr)
		}
		err = tx.Create(billing).Error
		if err == nil {
			return nil
		}
		if !isDuplicateKeyError(err) {
			break
		}
		tx.RollbackTo("create_billing")
		billing.InvoiceNumber = models.NewInvoiceNumber(time.Now())
	}
	return fmt.Errorf("failed to create billing: %w", err)
}

// isDuplicateKeyError matches unique-index violations across the postgres
// and sqlite drivers.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// RecordPayment appends a payment ledger row and then recomputes the invoice
// status. The recompute is best-effort: a failure there is logged and never
// propagated, so the ledger write always wins.
func (r *BillingRepository) RecordPayment(ctx context.Context, billingID uint, rawAmount, method, reference string, userID *int64) (*models.Payment, *models.Billing, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil || amount.Sign() <= 0 {
		return nil, nil, models.ErrInvalidAmount
	}
	if method == "" {
		method = models.PaymentMethodCash
	}

	var payment models.Payment
	err = r.withInvoiceLock(ctx, billingID, func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			var billing models.Billing
			if err := tx.First(&billing, "id = ?", billingID).Error; err != nil {
				return err
			}
			payment = models.Payment{
				BillingID:       billing.ID,
				Amount:          amount,
				PaymentMethod:   method,
				ReferenceNumber: reference,
				CreatedByID:     userID,
			}
			return tx.Create(&payment).Error
		})
	})
	if err != nil {
		return nil, nil, err
	}

	// Status refresh must not fail the payment that triggered it.
	if err := r.RecomputeStatus(ctx, billingID); err != nil {
		log.Printf("billing %d: status recompute after payment failed: %v", billingID, err)
	}
	r.invalidate(ctx, billingID, nil)

	billing, err := r.GetByID(ctx, billingID)
	if err != nil {
		return &payment, nil, nil
	}
	return &payment, billing, nil
}

// MarkPaid settles the outstanding balance with a single payment. A bill
// with no balance is returned unchanged.
func (r *BillingRepository) MarkPaid(ctx context.Context, billingID uint, method, reference string, userID *int64) (*models.Payment, *models.Billing, error) {
	var billing models.Billing
	if err := database.DB.First(&billing, "id = ?", billingID).Error; err != nil {
		return nil, nil, err
	}
	paid, err := r.paidSum(database.DB, billingID)
	if err != nil {
		return nil, nil, err
	}
	balance := models.OutstandingBalance(billing.Amount, paid)
	if balance.Sign() <= 0 {
		return nil, &billing, nil
	}
	return r.RecordPayment(ctx, billingID, balance.String(), method, reference, userID)
}

// Cancel forces the bill to cancelled, even when partially or fully paid.
// The reason is appended to the notes field with a timestamp and payments
// are kept for audit; nothing is refunded.
func (r *BillingRepository) Cancel(ctx context.Context, billingID uint, reason string, userID *int64) (*models.Billing, error) {
	var billing models.Billing
	err := r.withInvoiceLock(ctx, billingID, func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&billing, "id = ?", billingID).Error; err != nil {
				return err
			}
			billing.Status = models.BillingStatusCancelled
			billing.AppendCancelReason(reason, time.Now())
			if userID != nil && billing.ChargedByID == nil {
				billing.ChargedByID = userID
				var user models.User
				if err := tx.First(&user, "id = ?", *userID).Error; err == nil {
					billing.CacheNames(nil, &user)
				}
			}
			billing.Normalize()
			return tx.Save(&billing).Error
		})
	})
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, billingID, billing.PatientID)
	return &billing, nil
}

// DeletePayment removes a ledger row (refund/correction path) and recomputes
// the owning invoice's status, so a refund demotes paid -> partial -> pending.
func (r *BillingRepository) DeletePayment(ctx context.Context, paymentID uint) error {
	var payment models.Payment
	if err := database.DB.First(&payment, "id = ?", paymentID).Error; err != nil {
		return err
	}
	if err := database.DB.Delete(&models.Payment{}, "id = ?", paymentID).Error; err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if err := r.RecomputeStatus(ctx, payment.BillingID); err != nil {
		log.Printf("billing %d: status recompute after payment delete failed: %v", payment.BillingID, err)
	}
	r.invalidate(ctx, payment.BillingID, nil)
	return nil
}

// RecomputeStatus derives the invoice status from the payment sum and
// persists it only when it differs from the stored status. Calling it twice
// in a row with no ledger change issues no second write.
func (r *BillingRepository) RecomputeStatus(ctx context.Context, billingID uint) error {
	var billing models.Billing
	if err := database.DB.First(&billing, "id = ?", billingID).Error; err != nil {
		return err
	}
	paid, err := r.paidSum(database.DB, billingID)
	if err != nil {
		return err
	}

	newStatus := models.StatusForPaid(paid, billing.Amount)
	if newStatus == billing.Status {
		return nil
	}

	err = database.DB.Model(&models.Billing{}).
		Where("id = ?", billingID).
		Updates(map[string]interface{}{
			"status":  newStatus,
			"is_paid": newStatus == models.BillingStatusPaid,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to persist billing status: %w", err)
	}

	// Paid bills move the patient into the doctor queue. Best-effort: a
	// failure here must not surface to the payment caller.
	if newStatus == models.BillingStatusPaid && billing.PatientID != nil {
		if err := promotePatientForPaidBilling(ctx, *billing.PatientID); err != nil {
			log.Printf("patient %d: promotion after paid billing failed: %v", *billing.PatientID, err)
		}
	}
	r.invalidate(ctx, billingID, billing.PatientID)
	return nil
}

// promotePatientForPaidBilling moves the patient to ready_for_doctor once a
// bill of theirs is settled, recording the transition in the history table.
func promotePatientForPaidBilling(ctx context.Context, patientID uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, "id = ?", patientID).Error; err != nil {
			return err
		}
		if patient.Status == models.PatientStatusReadyForDoctor {
			return nil
		}
		oldStatus := patient.Status
		if err := tx.Model(&models.Patient{}).Where("id = ?", patientID).
			Update("status", models.PatientStatusReadyForDoctor).Error; err != nil {
			return err
		}
		return tx.Create(&models.PatientStatusHistory{
			PatientID: patientID,
			OldStatus: oldStatus,
			NewStatus: models.PatientStatusReadyForDoctor,
		}).Error
	})
}

// BalanceFor returns max(0, amount - paid) for the invoice.
func (r *BillingRepository) BalanceFor(ctx context.Context, billingID uint) (decimal.Decimal, error) {
	var billing models.Billing
	if err := database.DB.First(&billing, "id = ?", billingID).Error; err != nil {
		return decimal.Zero, err
	}
	paid, err := r.paidSum(database.DB, billingID)
	if err != nil {
		return decimal.Zero, err
	}
	return models.OutstandingBalance(billing.Amount, paid), nil
}

func (r *BillingRepository) paidSum(db *gorm.DB, billingID uint) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("billing_id = ?", billingID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return row.Total, nil
}

func (r *BillingRepository) GetByID(ctx context.Context, id uint) (*models.Billing, error) {
	cacheKey := r.getBillingCacheKey(id)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var billing models.Billing
		if err := json.Unmarshal([]byte(cached), &billing); err == nil {
			return &billing, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get billing from cache: %v", err)
	}

	var billing models.Billing
	err = database.DB.Preload("Payments").First(&billing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get billing: %w", err)
	}

	if data, err := json.Marshal(billing); err == nil {
		if err := r.cache.Set(ctx, cacheKey, data, BillingCacheExpiry); err != nil {
			log.Printf("Failed to set billing in cache: %v", err)
		}
	}
	return &billing, nil
}

func (r *BillingRepository) GetAll(ctx context.Context) ([]models.Billing, error) {
	cacheKey := "billings_cache"
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var billings []models.Billing
		if err := json.Unmarshal([]byte(cached), &billings); err == nil {
			return billings, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get billings from cache: %v", err)
	}

	var billings []models.Billing
	if err := database.DB.Order("created_at DESC").Find(&billings).Error; err != nil {
		return nil, fmt.Errorf("failed to get all billings: %w", err)
	}

	if data, err := json.Marshal(billings); err == nil {
		if err := r.cache.Set(ctx, cacheKey, data, BillingCacheExpiry); err != nil {
			log.Printf("Failed to set billings in cache: %v", err)
		}
	}
	return billings, nil
}

// Search matches bills by cached patient name, invoice number, service label,
// recorder name or the patient's canonical number.
func (r *BillingRepository) Search(ctx context.Context, q string) ([]models.Billing, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	var billings []models.Billing
	err := database.DB.
		Where("LOWER(patient_name) LIKE ? OR LOWER(invoice_number) LIKE ? OR LOWER(service) LIKE ? OR LOWER(charged_by_name) LIKE ?",
			like, like, like, like).
		Or("patient_id IN (?)", database.DB.Model(&models.Patient{}).Select("id").
			Where("LOWER(patient_number) LIKE ?", like)).
		Order("created_at DESC").
		Find(&billings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search billings: %w", err)
	}
	return billings, nil
}

// Reports aggregates billing totals for dashboards.
func (r *BillingRepository) Reports(ctx context.Context) (*BillingReport, error) {
	report := &BillingReport{}

	sumWhere := func(query string, args ...interface{}) (decimal.Decimal, error) {
		var row struct {
			Total decimal.Decimal
		}
		err := database.DB.Model(&models.Billing{}).
			Select("COALESCE(SUM(amount), 0) AS total").
			Where(query, args...).
			Scan(&row).Error
		return row.Total, err
	}

	var err error
	if report.TotalPaid, err = sumWhere("status = ?", models.BillingStatusPaid); err != nil {
		return nil, fmt.Errorf("failed to aggregate paid total: %w", err)
	}
	if report.TotalUnpaid, err = sumWhere("status IN ?", []string{models.BillingStatusPending, models.BillingStatusPartial}); err != nil {
		return nil, fmt.Errorf("failed to aggregate unpaid total: %w", err)
	}
	if report.TotalPartial, err = sumWhere("status = ?", models.BillingStatusPartial); err != nil {
		return nil, fmt.Errorf("failed to aggregate partial total: %w", err)
	}
	if report.TotalCancelled, err = sumWhere("status = ?", models.BillingStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to aggregate cancelled total: %w", err)
	}

	err = database.DB.Model(&models.Billing{}).
		Select("service, COALESCE(SUM(amount), 0) AS total").
		Group("service").
		Order("total DESC").
		Scan(&report.ByService).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate totals by service: %w", err)
	}
	return report, nil
}

// invalidate clears the read caches touched by a billing write. Cache
// invalidation failures are logged, never returned: the database is the
// source of truth and stale entries expire.
func (r *BillingRepository) invalidate(ctx context.Context, billingID uint, patientID *uint) {
	if err := r.cache.Delete(ctx, r.getBillingCacheKey(billingID)); err != nil {
		log.Printf("Failed to delete billing cache: %v", err)
	}
	if err := r.cache.DeleteAll(ctx, "billings_cache"); err != nil {
		log.Printf("Failed to delete all billings cache: %v", err)
	}
	if patientID != nil {
		if err := r.cache.Delete(ctx, fmt.Sprintf("patient_cache:%d", *patientID)); err != nil {
			log.Printf("Failed to delete patient cache: %v", err)
		}
	}
}

func (r *BillingRepository) getBillingCacheKey(id uint) string {
	return fmt.Sprintf("billing_cache:%d", id)
}
