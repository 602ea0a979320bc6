package services

import (
	"AfyaCare/models"
	"AfyaCare/repositories"
	"context"
)

type PatientService struct {
	repository *repositories.PatientRepository
}

func NewPatientService(repository *repositories.PatientRepository) *PatientService {
	return &PatientService{repository: repository}
}

func (s *PatientService) Register(ctx context.Context, patient *models.Patient) (*repositories.RegistrationResult, error) {
	return s.repository.Register(ctx, patient)
}

func (s *PatientService) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *PatientService) GetAll(ctx context.Context) ([]models.Patient, error) {
	return s.repository.GetAll(ctx)
}

func (s *PatientService) Search(ctx context.Context, q string) ([]models.Patient, error) {
	return s.repository.Search(ctx, q)
}

func (s *PatientService) Update(ctx context.Context, patient *models.Patient) error {
	return s.repository.Update(ctx, patient)
}

func (s *PatientService) UpdateStatus(ctx context.Context, patientID uint, newStatus string, changedBy *int64) (*models.Patient, error) {
	return s.repository.UpdateStatus(ctx, patientID, newStatus, changedBy)
}

func (s *PatientService) StatusHistory(ctx context.Context, patientID uint) ([]models.PatientStatusHistory, error) {
	return s.repository.StatusHistory(ctx, patientID)
}
