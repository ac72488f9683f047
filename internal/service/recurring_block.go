package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/internal/availability"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/validator"
)

type RecurringBlockServiceImpl struct {
	repo     repository.RecurringBlockRepository
	access   *accessChecker
	notifier AvailabilityNotifier
	logger   *zap.Logger
}

func NewRecurringBlockService(repo repository.RecurringBlockRepository, access *accessChecker, notifier AvailabilityNotifier, logger *zap.Logger) *RecurringBlockServiceImpl {
	return &RecurringBlockServiceImpl{
		repo:     repo,
		access:   access,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *RecurringBlockServiceImpl) Create(ctx context.Context, p domain.Principal, employeeID uuid.UUID, dto domain.CreateRecurringBlockDTO) (*domain.RecurringBlock, error) {
	if dto.Weekday == nil || !validator.ValidateWeekday(*dto.Weekday) {
		return nil, validationError("день недели должен быть от 0 до 6")
	}
	start, err := availability.ParseTimeOfDay(dto.StartTime)
	if err != nil {
		return nil, validationError("неверный формат времени начала")
	}
	end, err := availability.ParseTimeOfDay(dto.EndTime)
	if err != nil {
		return nil, validationError("неверный формат времени окончания")
	}
	if start >= end {
		return nil, validationError("начало блокировки должно быть раньше окончания")
	}

	emp, err := s.access.employee(ctx, p, employeeID)
	if err != nil {
		return nil, err
	}

	block := domain.RecurringBlock{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Weekday:    *dto.Weekday,
		StartTime:  start.String(),
		EndTime:    end.String(),
		Reason:     validator.SanitizeString(dto.Reason),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, block); err != nil {
		s.logger.Error("ошибка создания повторяющейся блокировки", zap.Error(err))
		return nil, err
	}

	s.publish(emp, domain.ReasonRecurringBlockCreated)
	return &block, nil
}

func (s *RecurringBlockServiceImpl) Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения повторяющейся блокировки", zap.Error(err))
		return err
	}
	if block == nil {
		return domain.ErrNotFound
	}

	emp, err := s.access.employee(ctx, p, block.EmployeeID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления повторяющейся блокировки", zap.Error(err))
		return err
	}

	s.publish(emp, domain.ReasonRecurringBlockDeleted)
	return nil
}

func (s *RecurringBlockServiceImpl) List(ctx context.Context, p domain.Principal, employeeID uuid.UUID) ([]domain.RecurringBlock, error) {
	if _, err := s.access.employee(ctx, p, employeeID); err != nil {
		return nil, err
	}

	blocks, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("ошибка получения повторяющихся блокировок", zap.Error(err))
		return nil, err
	}
	return blocks, nil
}

// publish leaves Date empty: a weekly block affects every matching weekday.
func (s *RecurringBlockServiceImpl) publish(emp *domain.Employee, reason string) {
	s.notifier.Publish(domain.AvailabilityChanged{
		EstablishmentID: emp.EstablishmentID,
		EmployeeID:      emp.ID,
		Reason:          reason,
		Timestamp:       time.Now().UTC(),
	})
}
