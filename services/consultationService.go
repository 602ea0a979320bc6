package services

import (
	"AfyaCare/models"
	"AfyaCare/repositories"
	"context"
)

type ConsultationService struct {
	repository *repositories.ConsultationRepository
}

func NewConsultationService(repository *repositories.ConsultationRepository) *ConsultationService {
	return &ConsultationService{repository: repository}
}

func (s *ConsultationService) Create(ctx context.Context, consultation *models.Consultation, investigationIDs, diagnosisIDs []uint) error {
	return s.repository.CreateConsultation(ctx, consultation, investigationIDs, diagnosisIDs)
}

func (s *ConsultationService) GetByID(ctx context.Context, id uint) (*models.Consultation, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *ConsultationService) GetAll(ctx context.Context) ([]models.Consultation, error) {
	return s.repository.GetAll(ctx)
}

func (s *ConsultationService) PatientEligible(ctx context.Context, patientID uint) (bool, error) {
	return s.repository.PatientEligible(ctx, patientID)
}

func (s *ConsultationService) CreateInvestigation(ctx context.Context, inv *models.Investigation) error {
	return s.repository.CreateInvestigation(ctx, inv)
}

func (s *ConsultationService) GetAllInvestigations(ctx context.Context) ([]models.Investigation, error) {
	return s.repository.GetAllInvestigations(ctx)
}

func (s *ConsultationService) UpdateInvestigation(ctx context.Context, inv *models.Investigation) error {
	return s.repository.UpdateInvestigation(ctx, inv)
}

func (s *ConsultationService) CreateDiagnosis(ctx context.Context, diagnosis *models.Diagnosis) error {
	return s.repository.CreateDiagnosis(ctx, diagnosis)
}

func (s *ConsultationService) GetAllDiagnoses(ctx context.Context) ([]models.Diagnosis, error) {
	return s.repository.GetAllDiagnoses(ctx)
}
