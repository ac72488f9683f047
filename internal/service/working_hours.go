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

type WorkingHoursServiceImpl struct {
	repo     repository.WorkingHoursRepository
	access   *accessChecker
	notifier AvailabilityNotifier
	logger   *zap.Logger
}

func NewWorkingHoursService(repo repository.WorkingHoursRepository, access *accessChecker, notifier AvailabilityNotifier, logger *zap.Logger) *WorkingHoursServiceImpl {
	return &WorkingHoursServiceImpl{
		repo:     repo,
		access:   access,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *WorkingHoursServiceImpl) Upsert(ctx context.Context, p domain.Principal, establishmentID uuid.UUID, weekday int, dto domain.UpsertWorkingHoursDTO) (*domain.WorkingHours, error) {
	if !validator.ValidateWeekday(weekday) {
		return nil, validationError("день недели должен быть от 0 до 6")
	}

	hours := domain.WorkingHours{
		ID:              uuid.New(),
		EstablishmentID: establishmentID,
		Weekday:         weekday,
		OpensAt:         dto.OpensAt,
		ClosesAt:        dto.ClosesAt,
		BreakStart:      dto.BreakStart,
		BreakEnd:        dto.BreakEnd,
		UpdatedAt:       time.Now().UTC(),
	}

	window, err := availability.WindowFromHours(hours)
	if err != nil {
		return nil, validationError("неверный формат времени: %v", err)
	}
	if err := window.Validate(); err != nil {
		return nil, validationError("некорректное рабочее время: %v", err)
	}
	normalizeHours(&hours, window)

	if _, err := s.access.establishment(ctx, p, establishmentID); err != nil {
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, hours)
	if err != nil {
		s.logger.Error("ошибка сохранения рабочего времени", zap.Error(err))
		return nil, err
	}

	s.notifier.Publish(domain.AvailabilityChanged{
		EstablishmentID: establishmentID,
		Reason:          domain.ReasonWorkingHoursChanged,
		Timestamp:       time.Now().UTC(),
	})

	return saved, nil
}

func (s *WorkingHoursServiceImpl) List(ctx context.Context, establishmentID uuid.UUID) ([]domain.WorkingHours, error) {
	hours, err := s.repo.List(ctx, establishmentID)
	if err != nil {
		s.logger.Error("ошибка получения рабочего времени", zap.Error(err))
		return nil, err
	}
	return hours, nil
}

func (s *WorkingHoursServiceImpl) Delete(ctx context.Context, p domain.Principal, establishmentID uuid.UUID, weekday int) error {
	if !validator.ValidateWeekday(weekday) {
		return validationError("день недели должен быть от 0 до 6")
	}
	if _, err := s.access.establishment(ctx, p, establishmentID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, establishmentID, weekday); err != nil {
		return err
	}

	s.notifier.Publish(domain.AvailabilityChanged{
		EstablishmentID: establishmentID,
		Reason:          domain.ReasonWorkingHoursChanged,
		Timestamp:       time.Now().UTC(),
	})
	return nil
}

// normalizeHours rewrites the times as HH:MM:SS, the form the store returns.
func normalizeHours(h *domain.WorkingHours, w availability.WorkingWindow) {
	h.OpensAt = w.OpensAt.String()
	h.ClosesAt = w.ClosesAt.String()
	if w.HasBreak() {
		bs, be := w.BreakStart.String(), w.BreakEnd.String()
		h.BreakStart, h.BreakEnd = &bs, &be
	}
}
