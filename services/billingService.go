package services

import (
	"AfyaCare/models"
	"AfyaCare/repositories"
	"context"

	"github.com/shopspring/decimal"
)

type BillingService struct {
	repository *repositories.BillingRepository
}

func NewBillingService(repository *repositories.BillingRepository) *BillingService {
	return &BillingService{repository: repository}
}

func (s *BillingService) Create(ctx context.Context, billing *models.Billing) error {
	return s.repository.Create(ctx, billing)
}

func (s *BillingService) GetByID(ctx context.Context, id uint) (*models.Billing, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *BillingService) GetAll(ctx context.Context) ([]models.Billing, error) {
	return s.repository.GetAll(ctx)
}

func (s *BillingService) RecordPayment(ctx context.Context, billingID uint, rawAmount, method, reference string, userID *int64) (*models.Payment, *models.Billing, error) {
	return s.repository.RecordPayment(ctx, billingID, rawAmount, method, reference, userID)
}

func (s *BillingService) MarkPaid(ctx context.Context, billingID uint, method, reference string, userID *int64) (*models.Payment, *models.Billing, error) {
	return s.repository.MarkPaid(ctx, billingID, method, reference, userID)
}

func (s *BillingService) Cancel(ctx context.Context, billingID uint, reason string, userID *int64) (*models.Billing, error) {
	return s.repository.Cancel(ctx, billingID, reason, userID)
}

func (s *BillingService) DeletePayment(ctx context.Context, paymentID uint) error {
	return s.repository.DeletePayment(ctx, paymentID)
}

func (s *BillingService) BalanceFor(ctx context.Context, billingID uint) (decimal.Decimal, error) {
	return s.repository.BalanceFor(ctx, billingID)
}

func (s *BillingService) Search(ctx context.Context, q string) ([]models.Billing, error) {
	return s.repository.Search(ctx, q)
}

func (s *BillingService) Reports(ctx context.Context) (*repositories.BillingReport, error) {
	return s.repository.Reports(ctx)
}
