package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"agenda/internal/availability"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/validator"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type AppointmentServiceImpl struct {
	repo      repository.AppointmentRepository
	services  repository.ServiceRepository
	employees repository.EmployeeRepository
	resolver  SlotResolver
	access    *accessChecker
	notifier  AvailabilityNotifier
	now       func() time.Time
	logger    *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	services repository.ServiceRepository,
	employees repository.EmployeeRepository,
	resolver SlotResolver,
	access *accessChecker,
	notifier AvailabilityNotifier,
	now func() time.Time,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:      repo,
		services:  services,
		employees: employees,
		resolver:  resolver,
		access:    access,
		notifier:  notifier,
		now:       now,
		logger:    logger,
	}
}

// Create books dto.Time on dto.Date. The start must be one of the slots
// the resolver offers for that day, so working hours, breaks, blocks and
// recurring blocks are honoured the same way the availability route
// shows them.
func (s *AppointmentServiceImpl) Create(ctx context.Context, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	if dto.EstablishmentID == uuid.Nil || dto.EmployeeID == uuid.Nil || dto.ServiceID == uuid.Nil {
		return nil, validationError("не указаны заведение, сотрудник или услуга")
	}
	day, err := availability.ParseDate(dto.Date)
	if err != nil {
		return nil, validationError("неверный формат даты, ожидается YYYY-MM-DD")
	}
	startOfDay, err := availability.ParseTimeOfDay(dto.Time)
	if err != nil || startOfDay >= availability.EndOfDay {
		return nil, validationError("неверный формат времени, ожидается HH:MM")
	}
	customerName := validator.FormatName(validator.SanitizeString(dto.CustomerName))
	if customerName == "" {
		return nil, validationError("имя клиента не может быть пустым")
	}
	customerPhone := validator.FormatPhone(dto.CustomerPhone)
	if customerPhone != "" && !validator.ValidatePhone(customerPhone) {
		return nil, validationError("неверный формат телефона")
	}

	svc, err := s.services.GetByID(ctx, dto.ServiceID)
	if err != nil {
		s.logger.Error("ошибка получения услуги", zap.Error(err))
		return nil, err
	}
	if svc == nil || svc.EstablishmentID != dto.EstablishmentID || !svc.IsActive {
		return nil, fmt.Errorf("%w: услуга %s", domain.ErrNotFound, dto.ServiceID)
	}

	emp, err := s.employees.GetByID(ctx, dto.EmployeeID)
	if err != nil {
		s.logger.Error("ошибка получения сотрудника", zap.Error(err))
		return nil, err
	}
	if emp == nil || emp.EstablishmentID != dto.EstablishmentID || !emp.IsActive {
		return nil, fmt.Errorf("%w: сотрудник %s", domain.ErrNotFound, dto.EmployeeID)
	}

	startsAt := startOfDay.On(day)
	slots, err := s.resolver.Resolve(ctx, availability.Query{
		Date:            dto.Date,
		EmployeeID:      dto.EmployeeID,
		ServiceID:       dto.ServiceID,
		EstablishmentID: dto.EstablishmentID,
	})
	if err != nil {
		s.logger.Error("ошибка расчета свободного времени", zap.Error(err))
		return nil, err
	}
	if !containsInstant(slots, startsAt) {
		trace.SpanFromContext(ctx).AddEvent("slot_unavailable")
		return nil, domain.ErrSlotUnavailable
	}

	now := s.now().UTC()
	appointment := domain.Appointment{
		ID:              uuid.New(),
		EstablishmentID: dto.EstablishmentID,
		EmployeeID:      dto.EmployeeID,
		ServiceID:       dto.ServiceID,
		CustomerName:    customerName,
		CustomerPhone:   customerPhone,
		Notes:           validator.SanitizeString(dto.Notes),
		StartsAt:        startsAt,
		EndsAt:          startsAt.Add(svc.Duration()),
		Status:          domain.AppointmentStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateIfFree(ctx, appointment); err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			trace.SpanFromContext(ctx).AddEvent("slot_taken_concurrently")
			s.logger.Info("слот занят при создании записи",
				zap.String("employee_id", dto.EmployeeID.String()),
				zap.Time("starts_at", startsAt))
			return nil, err
		}
		s.logger.Error("ошибка создания записи", zap.Error(err))
		return nil, err
	}

	s.logger.Info("создана запись",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("employee_id", appointment.EmployeeID.String()),
		zap.Time("starts_at", appointment.StartsAt))
	s.publish(appointment, domain.ReasonAppointmentCreated)

	return &appointment, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения записи", zap.Error(err))
		return nil, err
	}
	if appointment == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := s.access.establishment(ctx, p, appointment.EstablishmentID); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, p domain.Principal, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	if filter.EstablishmentID == uuid.Nil {
		return nil, 0, validationError("не указано заведение")
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, validationError("неизвестный статус записи")
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if _, err := s.access.establishment(ctx, p, filter.EstablishmentID); err != nil {
		return nil, 0, err
	}

	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка записей", zap.Error(err))
		return nil, 0, err
	}
	return appointments, total, nil
}

func (s *AppointmentServiceImpl) Complete(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Appointment, error) {
	return s.transition(ctx, p, id, domain.AppointmentStatusCompleted, domain.ReasonAppointmentCompleted)
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Appointment, error) {
	return s.transition(ctx, p, id, domain.AppointmentStatusCanceled, domain.ReasonAppointmentCanceled)
}

// transition moves a scheduled appointment to a final status.
func (s *AppointmentServiceImpl) transition(ctx context.Context, p domain.Principal, id uuid.UUID, status domain.AppointmentStatus, reason string) (*domain.Appointment, error) {
	appointment, err := s.GetByID(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != domain.AppointmentStatusScheduled {
		return nil, validationError("запись в статусе %s нельзя изменить", appointment.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("ошибка обновления статуса записи", zap.Error(err))
		return nil, err
	}

	appointment.Status = status
	appointment.UpdatedAt = s.now().UTC()
	s.publish(*appointment, reason)

	return appointment, nil
}

func (s *AppointmentServiceImpl) publish(a domain.Appointment, reason string) {
	s.notifier.Publish(domain.AvailabilityChanged{
		EstablishmentID: a.EstablishmentID,
		EmployeeID:      a.EmployeeID,
		Date:            a.StartsAt.UTC().Format(validator.DateLayout),
		Reason:          reason,
		Timestamp:       s.now().UTC(),
	})
}

func containsInstant(slots []time.Time, t time.Time) bool {
	for _, slot := range slots {
		if slot.Equal(t) {
			return true
		}
	}
	return false
}
