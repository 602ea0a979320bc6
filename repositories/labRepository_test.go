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

func createTestInvestigation(t *testing.T, name string, price int64) *models.Investigation {
	t.Helper()
	inv := &models.Investigation{
		Name:               name,
		Price:              decimal.NewFromInt(price),
		AvailabilityStatus: models.AvailabilityAvailable,
	}
	if err := database.DB.Create(inv).Error; err != nil {
		t.Fatalf("create investigation: %v", err)
	}
	return inv
}

func TestCreateLabRequestAutoBillsInvestigationPrice(t *testing.T) {
	setupTestDB(t)
	repo := NewLabRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Faith", "Chebet")
	inv := createTestInvestigation(t, "Full Blood Count", 800)

	request := &models.LabRequest{
		PatientID:       patient.ID,
		InvestigationID: &inv.ID,
	}
	require.NoError(t, repo.CreateRequest(ctx, request))
	assert.Equal(t, models.LabStatusRequested, request.Status)

	billing, err := repo.BillingForRequest(ctx, request)
	require.NoError(t, err)
	require.NotNil(t, billing)
	assert.True(t, billing.Amount.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, fmt.Sprintf("Lab Test: Full Blood Count (request_id=%d)", request.ID), billing.Service)
	assert.Equal(t, models.BillingStatusPending, billing.Status)
	require.NotNil(t, billing.LabRequestID)
	assert.Equal(t, request.ID, *billing.LabRequestID)

	var count int64
	require.NoError(t, dbCount(&models.Billing{}, &count, "lab_request_id = ?", request.ID))
	assert.EqualValues(t, 1, count, "exactly one invoice per lab request")
}

func TestCreateLabRequestFallbackPrice(t *testing.T) {
	setupTestDB(t)
	repo := NewLabRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Daniel", "Kiprop")
	request := &models.LabRequest{
		PatientID: patient.ID,
		TestName:  "Stool Analysis",
	}
	require.NoError(t, repo.CreateRequest(ctx, request))

	billing, err := repo.BillingForRequest(ctx, request)
	require.NoError(t, err)
	require.NotNil(t, billing)
	assert.True(t, billing.Amount.Equal(models.DefaultLabTestPrice))
}

func TestCreateLabResultPaymentGate(t *testing.T) {
	setupTestDB(t)
	labRepo := NewLabRepository(nil)
	billingRepo := NewBillingRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Esther", "Wambui")
	request := &models.LabRequest{PatientID: patient.ID, TestName: "Malaria Smear"}
	require.NoError(t, labRepo.CreateRequest(ctx, request))

	result := &models.LabResult{LabRequestID: request.ID, ResultText: "No parasites seen"}
	err := labRepo.CreateResult(ctx, result)
	assert.ErrorIs(t, err, models.ErrPaymentRequired)

	var count int64
	require.NoError(t, dbCount(&models.LabResult{}, &count, "lab_request_id = ?", request.ID))
	assert.Zero(t, count, "gated result must not be written")

	billing, err := labRepo.BillingForRequest(ctx, request)
	require.NoError(t, err)
	_, _, err = billingRepo.RecordPayment(ctx, billing.ID, billing.Amount.String(), models.PaymentMethodCash, "", nil)
	require.NoError(t, err)

	require.NoError(t, labRepo.CreateResult(ctx, result))

	refreshed, err := labRepo.GetRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LabStatusCompleted, refreshed.Status)
	require.NotNil(t, refreshed.Result)
	assert.Equal(t, "No parasites seen", refreshed.Result.ResultText)
}

func TestUpdateLabRequestStatus(t *testing.T) {
	setupTestDB(t)
	repo := NewLabRepository(nil)
	ctx := context.Background()

	patient := createTestPatient(t, "Samuel", "Njoroge")
	request := &models.LabRequest{PatientID: patient.ID, TestName: "Urinalysis"}
	require.NoError(t, repo.CreateRequest(ctx, request))

	require.NoError(t, repo.UpdateRequestStatus(ctx, request.ID, models.LabStatusSampleCollected))
	refreshed, err := repo.GetRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LabStatusSampleCollected, refreshed.Status)

	err = repo.UpdateRequestStatus(ctx, 99999, models.LabStatusProcessing)
	assert.Error(t, err)
}
