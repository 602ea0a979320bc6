package services

import (
	"AfyaCare/models"
	"AfyaCare/repositories"
	"context"
)

type TriageService struct {
	repository *repositories.TriageRepository
}

func NewTriageService(repository *repositories.TriageRepository) *TriageService {
	return &TriageService{repository: repository}
}

func (s *TriageService) CreateRecord(ctx context.Context, record *models.TriageRecord) error {
	return s.repository.CreateRecord(ctx, record)
}

func (s *TriageService) GetByID(ctx context.Context, id uint) (*models.TriageRecord, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *TriageService) GetByPatient(ctx context.Context, patientID uint) ([]models.TriageRecord, error) {
	return s.repository.GetByPatient(ctx, patientID)
}

func (s *TriageService) GetAll(ctx context.Context) ([]models.TriageRecord, error) {
	return s.repository.GetAll(ctx)
}
