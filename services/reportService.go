package services

import (
	"AfyaCare/repositories"
	"context"
)

type ReportService struct {
	repository *repositories.ReportRepository
}

func NewReportService(repository *repositories.ReportRepository) *ReportService {
	return &ReportService{repository: repository}
}

func (s *ReportService) Operations(ctx context.Context) (*repositories.OperationsReport, error) {
	return s.repository.Operations(ctx)
}
