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

type EmployeeServiceImpl struct {
	repo   repository.EmployeeRepository
	access *accessChecker
	logger *zap.Logger
}

func NewEmployeeService(repo repository.EmployeeRepository, access *accessChecker, logger *zap.Logger) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		repo:   repo,
		access: access,
		logger: logger,
	}
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, p domain.Principal, establishmentID uuid.UUID, dto domain.CreateEmployeeDTO) (*domain.Employee, error) {
	name := validator.FormatName(dto.Name)
	if name == "" {
		return nil, validationError("имя сотрудника не может быть пустым")
	}
	phone := validator.FormatPhone(dto.Phone)
	if phone != "" && !validator.ValidatePhone(phone) {
		return nil, validationError("неверный формат телефона")
	}

	if _, err := s.access.establishment(ctx, p, establishmentID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	emp := domain.Employee{
		ID:              uuid.New(),
		EstablishmentID: establishmentID,
		Name:            name,
		Email:           dto.Email,
		Phone:           phone,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, emp); err != nil {
		s.logger.Error("ошибка создания сотрудника", zap.Error(err))
		return nil, err
	}

	return &emp, nil
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения сотрудника", zap.Error(err))
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	return emp, nil
}

func (s *EmployeeServiceImpl) Update(ctx context.Context, p domain.Principal, id uuid.UUID, dto domain.UpdateEmployeeDTO) (*domain.Employee, error) {
	emp, err := s.access.employee(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := validator.FormatName(*dto.Name)
		if name == "" {
			return nil, validationError("имя сотрудника не может быть пустым")
		}
		emp.Name = name
	}
	if dto.Email != nil {
		emp.Email = *dto.Email
	}
	if dto.Phone != nil {
		phone := validator.FormatPhone(*dto.Phone)
		if phone != "" && !validator.ValidatePhone(phone) {
			return nil, validationError("неверный формат телефона")
		}
		emp.Phone = phone
	}
	if dto.IsActive != nil {
		emp.IsActive = *dto.IsActive
	}
	emp.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *emp); err != nil {
		s.logger.Error("ошибка обновления сотрудника", zap.Error(err))
		return nil, err
	}

	return emp, nil
}

func (s *EmployeeServiceImpl) Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	if _, err := s.access.employee(ctx, p, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления сотрудника", zap.Error(err))
		return err
	}
	return nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context, establishmentID uuid.UUID) ([]domain.Employee, error) {
	employees, err := s.repo.List(ctx, establishmentID)
	if err != nil {
		s.logger.Error("ошибка получения списка сотрудников", zap.Error(err))
		return nil, err
	}
	return employees, nil
}
