package services

import (
	"AfyaCare/models"
	"AfyaCare/repositories"
	"context"
)

type PharmacyService struct {
	repository *repositories.PharmacyRepository
}

func NewPharmacyService(repository *repositories.PharmacyRepository) *PharmacyService {
	return &PharmacyService{repository: repository}
}

func (s *PharmacyService) CreateDrug(ctx context.Context, drug *models.Drug) error {
	return s.repository.CreateDrug(ctx, drug)
}

func (s *PharmacyService) GetDrugByID(ctx context.Context, id uint) (*models.Drug, error) {
	return s.repository.GetDrugByID(ctx, id)
}

func (s *PharmacyService) GetAllDrugs(ctx context.Context) ([]models.Drug, error) {
	return s.repository.GetAllDrugs(ctx)
}

func (s *PharmacyService) UpdateDrug(ctx context.Context, drug *models.Drug) error {
	return s.repository.UpdateDrug(ctx, drug)
}

func (s *PharmacyService) CreateDispense(ctx context.Context, dispense *models.Dispense, lines []models.DispenseLine) error {
	return s.repository.CreateDispense(ctx, dispense, lines)
}

func (s *PharmacyService) GetDispenseByID(ctx context.Context, id uint) (*models.Dispense, error) {
	return s.repository.GetDispenseByID(ctx, id)
}

func (s *PharmacyService) GetAllDispenses(ctx context.Context) ([]models.Dispense, error) {
	return s.repository.GetAllDispenses(ctx)
}

func (s *PharmacyService) GetAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	return s.repository.GetAuditLogs(ctx)
}
