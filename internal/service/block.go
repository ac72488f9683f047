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

type BlockServiceImpl struct {
	repo     repository.BlockRepository
	access   *accessChecker
	notifier AvailabilityNotifier
	logger   *zap.Logger
}

func NewBlockService(repo repository.BlockRepository, access *accessChecker, notifier AvailabilityNotifier, logger *zap.Logger) *BlockServiceImpl {
	return &BlockServiceImpl{
		repo:     repo,
		access:   access,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *BlockServiceImpl) Create(ctx context.Context, p domain.Principal, employeeID uuid.UUID, dto domain.CreateBlockDTO) (*domain.Block, error) {
	if !dto.StartsAt.Before(dto.EndsAt) {
		return nil, validationError("начало блокировки должно быть раньше окончания")
	}

	emp, err := s.access.employee(ctx, p, employeeID)
	if err != nil {
		return nil, err
	}

	block := domain.Block{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		StartsAt:   dto.StartsAt.UTC(),
		EndsAt:     dto.EndsAt.UTC(),
		Reason:     validator.SanitizeString(dto.Reason),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, block); err != nil {
		s.logger.Error("ошибка создания блокировки", zap.Error(err))
		return nil, err
	}

	s.publish(emp, block, domain.ReasonBlockCreated)
	return &block, nil
}

func (s *BlockServiceImpl) Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения блокировки", zap.Error(err))
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
		s.logger.Error("ошибка удаления блокировки", zap.Error(err))
		return err
	}

	s.publish(emp, *block, domain.ReasonBlockDeleted)
	return nil
}

// List returns the employee's blocks that have not ended yet.
func (s *BlockServiceImpl) List(ctx context.Context, p domain.Principal, employeeID uuid.UUID) ([]domain.Block, error) {
	if _, err := s.access.employee(ctx, p, employeeID); err != nil {
		return nil, err
	}

	blocks, err := s.repo.ListByEmployee(ctx, employeeID, time.Now().UTC())
	if err != nil {
		s.logger.Error("ошибка получения блокировок", zap.Error(err))
		return nil, err
	}
	return blocks, nil
}

func (s *BlockServiceImpl) publish(emp *domain.Employee, block domain.Block, reason string) {
	date := ""
	if sameUTCDay(block.StartsAt, block.EndsAt.Add(-time.Nanosecond)) {
		date = block.StartsAt.UTC().Format(validator.DateLayout)
	}

	s.notifier.Publish(domain.AvailabilityChanged{
		EstablishmentID: emp.EstablishmentID,
		EmployeeID:      emp.ID,
		Date:            date,
		Reason:          reason,
		Timestamp:       time.Now().UTC(),
	})
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
