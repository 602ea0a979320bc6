package repositories

import (
	"AfyaCare/models"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceNumberRe = regexp.MustCompile(`^INV-AC-\d{8}-[0-9A-F]{6}$`)

func TestCreateBillingAppliesCatalogPrice(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Grace", "Wanjiru")
	billing := &models.Billing{
		PatientID: &patient.ID,
		Service:   "consultation",
		Amount:    decimal.NewFromInt(999), // free-typed, must be overridden
	}
	require.NoError(t, repo.Create(ctx, billing))

	assert.True(t, billing.Amount.Equal(decimal.NewFromInt(1000)), "catalog price should win, got %s", billing.Amount)
	assert.Equal(t, models.BillingStatusPending, billing.Status)
	assert.Equal(t, models.DefaultCurrency, billing.Currency)
	assert.False(t, billing.IsPaid)
	assert.Regexp(t, invoiceNumberRe, billing.InvoiceNumber)
	assert.Equal(t, "Grace Wanjiru", billing.PatientName)
}

func TestCreateBillingKeepsNonCatalogAmount(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)

	billing := &models.Billing{
		Service: "Lab Test: Full Blood Count (request_id=7)",
		Amount:  decimal.NewFromInt(450),
	}
	require.NoError(t, repo.Create(context.Background(), billing))
	assert.True(t, billing.Amount.Equal(decimal.NewFromInt(450)))
}

func TestCreateBillingRetriesOnInvoiceNumberCollision(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Grace", "Wanjiru")
	first := &models.Billing{PatientID: &patient.ID, Service: "consultation"}
	require.NoError(t, repo.Create(ctx, first))

	// Force the unique index to fire on the first insert attempt; the
	// repository must mint a fresh number and persist the row anyway.
	second := &models.Billing{
		PatientID:     &patient.ID,
		Service:       "laboratory",
		InvoiceNumber: first.InvoiceNumber,
	}
	require.NoError(t, repo.Create(ctx, second))

	assert.NotEqual(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Regexp(t, invoiceNumberRe, second.InvoiceNumber)

	var count int64
	require.NoError(t, dbCount(&models.Billing{}, &count, "1 = 1"))
	assert.Equal(t, int64(2), count)
}

func TestLockAcquireErrorWithoutCause(t *testing.T) {
	err := lockAcquireError(nil)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "%!w", "nil cause must not be wrapped")

	cause := errors.New("redis unreachable")
	err = lockAcquireError(cause)
	assert.ErrorIs(t, err, cause)
}

func TestRecordPaymentLifecycle(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "John", "Otieno")
	billing := &models.Billing{PatientID: &patient.ID, Service: "consultation"}
	require.NoError(t, repo.Create(ctx, billing))

	payment, updated, err := repo.RecordPayment(ctx, billing.ID, "400", models.PaymentMethodMpesa, "MPX123", nil)
	require.NoError(t, err)
	require.NotNil(t, payment)
	require.NotNil(t, updated)
	assert.Equal(t, models.BillingStatusPartial, updated.Status)
	assert.False(t, updated.IsPaid)

	balance, err := repo.BalanceFor(ctx, billing.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(600)))

	_, updated, err = repo.RecordPayment(ctx, billing.ID, "600", models.PaymentMethodCash, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusPaid, updated.Status)
	assert.True(t, updated.IsPaid)

	// Settling the bill moves the patient into the doctor queue.
	var fresh models.Patient
	require.NoError(t, dbFirst(&fresh, patient.ID))
	assert.Equal(t, models.PatientStatusReadyForDoctor, fresh.Status)

	var history []models.PatientStatusHistory
	require.NoError(t, dbFind(&history, "patient_id = ?", patient.ID))
	require.NotEmpty(t, history)
	assert.Equal(t, models.PatientStatusReadyForDoctor, history[len(history)-1].NewStatus)
}

func TestRecordPaymentRejectsInvalidAmounts(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	billing := &models.Billing{Service: "consultation"}
	require.NoError(t, repo.Create(ctx, billing))

	for _, raw := range []string{"", "abc", "-5", "0", "  "} {
		_, _, err := repo.RecordPayment(ctx, billing.ID, raw, "", "", nil)
		assert.ErrorIs(t, err, models.ErrInvalidAmount, "amount %q", raw)
	}

	var count int64
	require.NoError(t, dbCount(&models.Payment{}, &count, "billing_id = ?", billing.ID))
	assert.Zero(t, count, "rejected payments must leave no ledger rows")
}

func TestOverpaymentFloorsBalance(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	billing := &models.Billing{Service: "consultation"}
	require.NoError(t, repo.Create(ctx, billing))

	_, updated, err := repo.RecordPayment(ctx, billing.ID, "1500", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusPaid, updated.Status)

	balance, err := repo.BalanceFor(ctx, billing.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "balance floors at zero, got %s", balance)
}

func TestMarkPaidSettlesOutstandingBalance(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	billing := &models.Billing{Service: "consultation"}
	require.NoError(t, repo.Create(ctx, billing))
	_, _, err := repo.RecordPayment(ctx, billing.ID, "250", "", "", nil)
	require.NoError(t, err)

	payment, updated, err := repo.MarkPaid(ctx, billing.ID, models.PaymentMethodCash, "", nil)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(750)))
	assert.Equal(t, models.BillingStatusPaid, updated.Status)

	// Already settled: no second payment is written.
	payment, _, err = repo.MarkPaid(ctx, billing.ID, models.PaymentMethodCash, "", nil)
	require.NoError(t, err)
	assert.Nil(t, payment)
}

func TestDeletePaymentDemotesStatus(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	billing := &models.Billing{Service: "consultation"}
	require.NoError(t, repo.Create(ctx, billing))
	payment, updated, err := repo.RecordPayment(ctx, billing.ID, "1000", "", "", nil)
	require.NoError(t, err)
	require.Equal(t, models.BillingStatusPaid, updated.Status)

	require.NoError(t, repo.DeletePayment(ctx, payment.ID))

	refreshed, err := repo.GetByID(ctx, billing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusPending, refreshed.Status)
	assert.False(t, refreshed.IsPaid)
}

func TestCancelAppendsReasonWithoutOverwriting(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	billing := &models.Billing{Service: "consultation", ReportReference: "initial note"}
	require.NoError(t, repo.Create(ctx, billing))

	cancelled, err := repo.Cancel(ctx, billing.ID, "duplicate entry", nil)
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusCancelled, cancelled.Status)
	assert.Contains(t, cancelled.ReportReference, "initial note")
	assert.Contains(t, cancelled.ReportReference, "CANCELLED[")
	assert.Contains(t, cancelled.ReportReference, ":duplicate entry")

	cancelled, err = repo.Cancel(ctx, billing.ID, "second reason", nil)
	require.NoError(t, err)
	assert.Contains(t, cancelled.ReportReference, ":duplicate entry")
	assert.Contains(t, cancelled.ReportReference, ":second reason")
}

func TestRecomputeStatusIsWriteSuppressed(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	billing := &models.Billing{Service: "consultation"}
	require.NoError(t, repo.Create(ctx, billing))
	_, _, err := repo.RecordPayment(ctx, billing.ID, "400", "", "", nil)
	require.NoError(t, err)

	first, err := repo.GetByID(ctx, billing.ID)
	require.NoError(t, err)

	// No ledger change: recompute must not issue a write.
	require.NoError(t, repo.RecomputeStatus(ctx, billing.ID))
	second, err := repo.GetByID(ctx, billing.ID)
	require.NoError(t, err)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	assert.Equal(t, models.BillingStatusPartial, second.Status)
}

func TestBillingSearchAndReports(t *testing.T) {
	setupTestDB(t)
	repo := NewBillingRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Amina", "Hassan")
	paid := &models.Billing{PatientID: &patient.ID, Service: "consultation"}
	require.NoError(t, repo.Create(ctx, paid))
	_, _, err := repo.RecordPayment(ctx, paid.ID, "1000", "", "", nil)
	require.NoError(t, err)

	pending := &models.Billing{PatientID: &patient.ID, Service: "laboratory"}
	require.NoError(t, repo.Create(ctx, pending))

	results, err := repo.Search(ctx, "amina")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = repo.Search(ctx, patient.PatientNumber)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	report, err := repo.Reports(ctx)
	require.NoError(t, err)
	assert.True(t, report.TotalPaid.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.TotalUnpaid.Equal(decimal.NewFromInt(1200)))
	assert.Len(t, report.ByService, 2)
}
