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

// prescriptionFixture builds patient -> consultation -> prescription -> item.
func prescriptionFixture(t *testing.T, drug *models.Drug, quantityRequested int64) (*models.Patient, *models.Prescription) {
	t.Helper()
	patient := createTestPatient(t, "Naomi", "Wairimu")
	consultation := &models.Consultation{PatientID: &patient.ID, PatientName: patient.FullName()}
	require.NoError(t, database.DB.Create(consultation).Error)
	prescription := &models.Prescription{
		ConsultationID: consultation.ID,
		Status:         models.PrescriptionStatusPending,
		Items: []models.PrescriptionItem{
			{DrugID: drug.ID, QuantityRequested: quantityRequested, Route: "oral", Unit: "tablet", Frequency: "bd"},
		},
	}
	require.NoError(t, database.DB.Create(prescription).Error)
	return patient, prescription
}

func TestCreateDispenseDecrementsStockAndBills(t *testing.T) {
	setupTestDB(t)
	repo := NewPharmacyRepository(nil)
	ctx := context.Background()

	drug := createTestDrug(t, "Amoxicillin 500mg", 10, 50)
	patient, prescription := prescriptionFixture(t, drug, 4)

	dispense := &models.Dispense{PrescriptionID: prescription.ID}
	lines := []models.DispenseLine{
		{PrescriptionItemID: prescription.Items[0].ID, DrugID: drug.ID, QuantityDispensed: 4},
	}
	require.NoError(t, repo.CreateDispense(ctx, dispense, lines))

	var freshDrug models.Drug
	require.NoError(t, dbFirst(&freshDrug, drug.ID))
	assert.EqualValues(t, 6, freshDrug.Quantity)
	assert.Equal(t, models.AvailabilityAvailable, freshDrug.AvailabilityStatus)

	// Unit price snapshotted at dispense time, billed at qty x price.
	var billing models.Billing
	require.NoError(t, database.DB.First(&billing, "dispense_id = ?", dispense.ID).Error)
	assert.True(t, billing.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, fmt.Sprintf("Pharmacy Dispense (dispense_id=%d)", dispense.ID), billing.Service)
	require.NotNil(t, billing.PatientID)
	assert.Equal(t, patient.ID, *billing.PatientID)

	var freshPrescription models.Prescription
	require.NoError(t, dbFirst(&freshPrescription, prescription.ID))
	assert.Equal(t, models.PrescriptionStatusDispensed, freshPrescription.Status)

	var logs []models.AuditLog
	require.NoError(t, dbFind(&logs, "action = ?", models.AuditActionDispenseConfirmed))
	assert.Len(t, logs, 1)
}

func TestCreateDispensePartialQuantity(t *testing.T) {
	setupTestDB(t)
	repo := NewPharmacyRepository(nil)
	ctx := context.Background()

	drug := createTestDrug(t, "Paracetamol 500mg", 20, 10)
	_, prescription := prescriptionFixture(t, drug, 10)

	dispense := &models.Dispense{PrescriptionID: prescription.ID}
	lines := []models.DispenseLine{
		{PrescriptionItemID: prescription.Items[0].ID, DrugID: drug.ID, QuantityDispensed: 4},
	}
	require.NoError(t, repo.CreateDispense(ctx, dispense, lines))

	var freshPrescription models.Prescription
	require.NoError(t, dbFirst(&freshPrescription, prescription.ID))
	assert.Equal(t, models.PrescriptionStatusPartial, freshPrescription.Status)

	var item models.PrescriptionItem
	require.NoError(t, dbFirst(&item, prescription.Items[0].ID))
	assert.EqualValues(t, 4, item.QuantityDispensed)
}

func TestCreateDispenseInsufficientStockRollsBack(t *testing.T) {
	setupTestDB(t)
	repo := NewPharmacyRepository(nil)
	ctx := context.Background()

	drug := createTestDrug(t, "Insulin 100IU", 3, 900)
	_, prescription := prescriptionFixture(t, drug, 5)

	dispense := &models.Dispense{PrescriptionID: prescription.ID}
	lines := []models.DispenseLine{
		{PrescriptionItemID: prescription.Items[0].ID, DrugID: drug.ID, QuantityDispensed: 5},
	}
	err := repo.CreateDispense(ctx, dispense, lines)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	// Nothing from the failed transaction persists.
	var freshDrug models.Drug
	require.NoError(t, dbFirst(&freshDrug, drug.ID))
	assert.EqualValues(t, 3, freshDrug.Quantity)

	var count int64
	require.NoError(t, dbCount(&models.Dispense{}, &count, "prescription_id = ?", prescription.ID))
	assert.Zero(t, count)
}

func TestCreateDispenseExhaustingStockMarksOut(t *testing.T) {
	setupTestDB(t)
	repo := NewPharmacyRepository(nil)
	ctx := context.Background()

	drug := createTestDrug(t, "Ceftriaxone 1g", 2, 300)
	_, prescription := prescriptionFixture(t, drug, 2)

	dispense := &models.Dispense{PrescriptionID: prescription.ID}
	lines := []models.DispenseLine{
		{PrescriptionItemID: prescription.Items[0].ID, DrugID: drug.ID, QuantityDispensed: 2},
	}
	require.NoError(t, repo.CreateDispense(ctx, dispense, lines))

	var freshDrug models.Drug
	require.NoError(t, dbFirst(&freshDrug, drug.ID))
	assert.EqualValues(t, 0, freshDrug.Quantity)
	assert.Equal(t, models.AvailabilityOut, freshDrug.AvailabilityStatus)
}

func TestCreateDispenseZeroTotalSkipsInvoice(t *testing.T) {
	setupTestDB(t)
	repo := NewPharmacyRepository(nil)
	ctx := context.Background()

	drug := createTestDrug(t, "Donated ARV Pack", 50, 0)
	_, prescription := prescriptionFixture(t, drug, 30)

	dispense := &models.Dispense{PrescriptionID: prescription.ID}
	lines := []models.DispenseLine{
		{PrescriptionItemID: prescription.Items[0].ID, DrugID: drug.ID, QuantityDispensed: 30},
	}
	require.NoError(t, repo.CreateDispense(ctx, dispense, lines))

	var count int64
	require.NoError(t, dbCount(&models.Billing{}, &count, "dispense_id = ?", dispense.ID))
	assert.Zero(t, count, "free dispenses create no invoice")
}

func TestDrugAvailabilityDerivedOnSave(t *testing.T) {
	setupTestDB(t)
	repo := NewPharmacyRepository(nil)
	ctx := context.Background()

	drug := &models.Drug{Name: "ORS Sachet", Quantity: 0, UnitPrice: decimal.NewFromInt(20)}
	require.NoError(t, repo.CreateDrug(ctx, drug))
	assert.Equal(t, models.AvailabilityOut, drug.AvailabilityStatus)

	drug.Quantity = 15
	require.NoError(t, repo.UpdateDrug(ctx, drug))
	assert.Equal(t, models.AvailabilityAvailable, drug.AvailabilityStatus)
}
