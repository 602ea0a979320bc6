package services

import (
	"AfyaCare/models"
	"AfyaCare/repositories"
	"context"
)

type UserService struct {
	repository *repositories.UserRepository
}

func NewUserService(repository *repositories.UserRepository) *UserService {
	return &UserService{repository: repository}
}

func (s *UserService) Create(ctx context.Context, user *models.User) error {
	return s.repository.Create(ctx, user)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repository.GetByUsername(ctx, username)
}

func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.repository.GetAll(ctx)
}

func (s *UserService) Update(ctx context.Context, user *models.User) error {
	return s.repository.Update(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repository.Delete(ctx, id)
}

func (s *UserService) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	return s.repository.VerifyPassword(ctx, username, password)
}

func (s *UserService) GetRoles(ctx context.Context) ([]models.Role, error) {
	return s.repository.GetRoles(ctx)
}
