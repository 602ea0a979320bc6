package repositories

import (
	"AfyaCare/models"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationsReportCounts(t *testing.T) {
	setupTestDB(t)
	billingRepo := NewBillingRepository(nil)
	repo := NewReportRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Achieng", "Otieno")
	createTestPatient(t, "Brian", "Mwangi")
	payConsultationBill(t, billingRepo, patient.ID)

	unpaid := &models.Billing{PatientID: &patient.ID, Service: "laboratory"}
	require.NoError(t, billingRepo.Create(ctx, unpaid))

	createTestDrug(t, "Amoxicillin 500mg", 3, 50)
	createTestDrug(t, "Paracetamol 500mg", 400, 10)

	report, err := repo.Operations(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.TotalPatients)
	assert.Zero(t, report.PendingLabRequests)
	assert.Zero(t, report.PendingPrescriptions)
	assert.Zero(t, report.TotalConsultations)
	assert.True(t, report.RevenueTotal.Equal(decimal.NewFromInt(1000)),
		"revenue should equal the settled consultation invoice, got %s", report.RevenueTotal)
	assert.True(t, report.RevenueToday.Equal(report.RevenueTotal))

	require.Len(t, report.LowStockDrugs, 1)
	assert.Equal(t, "Amoxicillin 500mg", report.LowStockDrugs[0].Name)

	byStatus := map[string]int64{}
	for _, row := range report.BillingsByStatus {
		byStatus[row.Status] = row.Count
	}
	assert.Equal(t, int64(1), byStatus[models.BillingStatusPaid])
	assert.Equal(t, int64(1), byStatus[models.BillingStatusPending])

	patientStatuses := map[string]int64{}
	for _, row := range report.PatientsByStatus {
		patientStatuses[row.Status] = row.Count
	}
	// payConsultationBill promotes its patient to ready_for_doctor.
	assert.Equal(t, int64(1), patientStatuses[models.PatientStatusReadyForDoctor])
	assert.Equal(t, int64(1), patientStatuses[models.PatientStatusSentToBilling])
}
