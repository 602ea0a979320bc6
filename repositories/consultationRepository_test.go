package repositories

import (
	"AfyaCare/database"
	"AfyaCare/models"
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConsultationRequiresPaidConsultationInvoice(t *testing.T) {
	setupTestDB(t)
	repo := NewConsultationRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Kevin", "Odhiambo")
	consultation := &models.Consultation{PatientID: &patient.ID, Complaints: "Headache"}

	err := repo.CreateConsultation(ctx, consultation, nil, nil)
	assert.ErrorIs(t, err, models.ErrPaymentRequired)

	var count int64
	require.NoError(t, dbCount(&models.Consultation{}, &count, "patient_id = ?", patient.ID))
	assert.Zero(t, count)
}

func TestCreateConsultationBillsInvestigationsTotal(t *testing.T) {
	setupTestDB(t)
	repo := NewConsultationRepository(nil)
	billingRepo := NewBillingRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Janet", "Moraa")
	payConsultationBill(t, billingRepo, patient.ID)

	fbc := createTestInvestigation(t, "Full Blood Count", 800)
	xray := createTestInvestigation(t, "Chest X-Ray", 1200)
	malaria := &models.Diagnosis{Name: "Malaria"}
	require.NoError(t, database.DB.Create(malaria).Error)

	consultation := &models.Consultation{
		PatientID:  &patient.ID,
		Complaints: "Fever and cough",
	}
	require.NoError(t, repo.CreateConsultation(ctx, consultation, []uint{fbc.ID, xray.ID}, []uint{malaria.ID}))
	assert.Equal(t, "Janet Moraa", consultation.PatientName)

	var billing models.Billing
	require.NoError(t, database.DB.
		First(&billing, "service = ?", fmt.Sprintf("Investigations (consultation_id=%d)", consultation.ID)).Error)
	assert.True(t, billing.Amount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, models.BillingStatusPending, billing.Status)

	loaded, err := repo.GetByID(ctx, consultation.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Investigations, 2)
	assert.Len(t, loaded.Diagnoses, 1)
}

func TestCreateConsultationZeroTotalStillBills(t *testing.T) {
	setupTestDB(t)
	repo := NewConsultationRepository(nil)
	billingRepo := NewBillingRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "George", "Barasa")
	payConsultationBill(t, billingRepo, patient.ID)

	consultation := &models.Consultation{PatientID: &patient.ID, Complaints: "Follow-up"}
	require.NoError(t, repo.CreateConsultation(ctx, consultation, nil, nil))

	// Unlike pharmacy, a consultation always leaves an invoice, even at zero.
	var billing models.Billing
	require.NoError(t, database.DB.
		First(&billing, "service = ?", fmt.Sprintf("Investigations (consultation_id=%d)", consultation.ID)).Error)
	assert.True(t, billing.Amount.IsZero())
}

func TestCreateConsultationWithPrescriptions(t *testing.T) {
	setupTestDB(t)
	repo := NewConsultationRepository(nil)
	billingRepo := NewBillingRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Alice", "Nyambura")
	payConsultationBill(t, billingRepo, patient.ID)
	drug := createTestDrug(t, "Artemether 80mg", 100, 120)

	consultation := &models.Consultation{
		PatientID: &patient.ID,
		Prescriptions: []models.Prescription{
			{Items: []models.PrescriptionItem{
				{DrugID: drug.ID, QuantityRequested: 6, Route: "oral", Unit: "tablet", Frequency: "bd", Dose: 1, Duration: 3},
			}},
		},
	}
	require.NoError(t, repo.CreateConsultation(ctx, consultation, nil, nil))

	loaded, err := repo.GetByID(ctx, consultation.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Prescriptions, 1)
	assert.Equal(t, models.PrescriptionStatusPending, loaded.Prescriptions[0].Status)
	require.Len(t, loaded.Prescriptions[0].Items, 1)
	assert.EqualValues(t, 6, loaded.Prescriptions[0].Items[0].QuantityRequested)

	var logs []models.AuditLog
	require.NoError(t, dbFind(&logs, "action = ?", models.AuditActionPrescriptionCreated))
	assert.Len(t, logs, 1)
}

func TestEligibilityNeedsConsultationService(t *testing.T) {
	setupTestDB(t)
	repo := NewConsultationRepository(nil)
	billingRepo := NewBillingRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Victor", "Maina")

	// A paid lab bill does not unlock consultations.
	labBill := &models.Billing{PatientID: &patient.ID, Service: "laboratory"}
	require.NoError(t, billingRepo.Create(ctx, labBill))
	_, _, err := billingRepo.RecordPayment(ctx, labBill.ID, labBill.Amount.String(), "", "", nil)
	require.NoError(t, err)

	eligible, err := repo.PatientEligible(ctx, patient.ID)
	require.NoError(t, err)
	assert.False(t, eligible)

	payConsultationBill(t, billingRepo, patient.ID)
	eligible, err = repo.PatientEligible(ctx, patient.ID)
	require.NoError(t, err)
	assert.True(t, eligible)
}
