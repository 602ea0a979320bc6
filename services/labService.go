package services

import (
	"AfyaCare/models"
	"AfyaCare/repositories"
	"context"
)

type LabService struct {
	repository *repositories.LabRepository
}

func NewLabService(repository *repositories.LabRepository) *LabService {
	return &LabService{repository: repository}
}

func (s *LabService) CreateRequest(ctx context.Context, request *models.LabRequest) error {
	return s.repository.CreateRequest(ctx, request)
}

func (s *LabService) GetRequestByID(ctx context.Context, id uint) (*models.LabRequest, error) {
	return s.repository.GetRequestByID(ctx, id)
}

func (s *LabService) GetAllRequests(ctx context.Context) ([]models.LabRequest, error) {
	return s.repository.GetAllRequests(ctx)
}

func (s *LabService) UpdateRequestStatus(ctx context.Context, id uint, status string) error {
	return s.repository.UpdateRequestStatus(ctx, id, status)
}

func (s *LabService) BillingForRequest(ctx context.Context, request *models.LabRequest) (*models.Billing, error) {
	return s.repository.BillingForRequest(ctx, request)
}

func (s *LabService) CreateResult(ctx context.Context, result *models.LabResult) error {
	return s.repository.CreateResult(ctx, result)
}

func (s *LabService) GetResultByRequestID(ctx context.Context, requestID uint) (*models.LabResult, error) {
	return s.repository.GetResultByRequestID(ctx, requestID)
}
