package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/validator"
)

const (
	minServiceMinutes = 5
	maxServiceMinutes = 480
)

// CatalogServiceImpl manages the services an establishment offers.
type CatalogServiceImpl struct {
	repo   repository.ServiceRepository
	access *accessChecker
	logger *zap.Logger
}

func NewCatalogService(repo repository.ServiceRepository, access *accessChecker, logger *zap.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		repo:   repo,
		access: access,
		logger: logger,
	}
}

func validateDuration(minutes int) error {
	if minutes < minServiceMinutes || minutes > maxServiceMinutes {
		return validationError("длительность услуги должна быть от %d до %d минут", minServiceMinutes, maxServiceMinutes)
	}
	return nil
}

func (s *CatalogServiceImpl) Create(ctx context.Context, p domain.Principal, establishmentID uuid.UUID, dto domain.CreateServiceDTO) (*domain.Service, error) {
	name := validator.SanitizeString(dto.Name)
	if name == "" {
		return nil, validationError("название услуги не может быть пустым")
	}
	if err := validateDuration(dto.DurationMinutes); err != nil {
		return nil, err
	}
	if dto.Price < 0 {
		return nil, validationError("цена не может быть отрицательной")
	}

	if _, err := s.access.establishment(ctx, p, establishmentID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	svc := domain.Service{
		ID:              uuid.New(),
		EstablishmentID: establishmentID,
		Name:            name,
		Description:     validator.SanitizeString(dto.Description),
		DurationMinutes: dto.DurationMinutes,
		Price:           dto.Price,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		s.logger.Error("ошибка создания услуги", zap.Error(err))
		return nil, err
	}

	return &svc, nil
}

func (s *CatalogServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения услуги", zap.Error(err))
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}

func (s *CatalogServiceImpl) Update(ctx context.Context, p domain.Principal, id uuid.UUID, dto domain.UpdateServiceDTO) (*domain.Service, error) {
	svc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.establishment(ctx, p, svc.EstablishmentID); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := validator.SanitizeString(*dto.Name)
		if name == "" {
			return nil, validationError("название услуги не может быть пустым")
		}
		svc.Name = name
	}
	if dto.Description != nil {
		svc.Description = validator.SanitizeString(*dto.Description)
	}
	if dto.DurationMinutes != nil {
		if err := validateDuration(*dto.DurationMinutes); err != nil {
			return nil, err
		}
		svc.DurationMinutes = *dto.DurationMinutes
	}
	if dto.Price != nil {
		if *dto.Price < 0 {
			return nil, validationError("цена не может быть отрицательной")
		}
		svc.Price = *dto.Price
	}
	if dto.IsActive != nil {
		svc.IsActive = *dto.IsActive
	}
	svc.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *svc); err != nil {
		s.logger.Error("ошибка обновления услуги", zap.Error(err))
		return nil, err
	}

	return svc, nil
}

func (s *CatalogServiceImpl) Deactivate(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	svc, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.access.establishment(ctx, p, svc.EstablishmentID); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		s.logger.Error("ошибка деактивации услуги", zap.Error(err))
		return err
	}
	return nil
}

func (s *CatalogServiceImpl) List(ctx context.Context, establishmentID uuid.UUID, onlyActive bool) ([]domain.Service, error) {
	services, err := s.repo.List(ctx, establishmentID, onlyActive)
	if err != nil {
		s.logger.Error("ошибка получения списка услуг", zap.Error(err))
		return nil, err
	}
	return services, nil
}
