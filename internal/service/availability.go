package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"agenda/internal/availability"
	"agenda/internal/domain"
	"agenda/pkg/validator"
)

type AvailabilityServiceImpl struct {
	resolver SlotResolver
	logger   *zap.Logger
}

func NewAvailabilityService(resolver SlotResolver, logger *zap.Logger) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		resolver: resolver,
		logger:   logger,
	}
}

func (s *AvailabilityServiceImpl) GetAvailability(ctx context.Context, req domain.AvailabilityRequest) ([]time.Time, error) {
	q, err := parseAvailabilityRequest(req)
	if err != nil {
		return nil, err
	}

	slots, err := s.resolver.Resolve(ctx, q)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDate) {
			return nil, validationError("неверный формат даты, ожидается YYYY-MM-DD")
		}
		s.logger.Error("ошибка расчета свободного времени",
			zap.String("date", req.Date),
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Debug("рассчитано свободное время",
		zap.String("date", req.Date),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("slots", len(slots)))
	return slots, nil
}

func parseAvailabilityRequest(req domain.AvailabilityRequest) (availability.Query, error) {
	if !validator.ValidateDate(req.Date) {
		return availability.Query{}, validationError("неверный формат даты, ожидается YYYY-MM-DD")
	}
	employeeID, ok := validator.ParseUUID(req.EmployeeID)
	if !ok {
		return availability.Query{}, validationError("неверный идентификатор сотрудника")
	}
	serviceID, ok := validator.ParseUUID(req.ServiceID)
	if !ok {
		return availability.Query{}, validationError("неверный идентификатор услуги")
	}
	establishmentID, ok := validator.ParseUUID(req.EstablishmentID)
	if !ok {
		return availability.Query{}, validationError("неверный идентификатор заведения")
	}

	return availability.Query{
		Date:            req.Date,
		EmployeeID:      employeeID,
		ServiceID:       serviceID,
		EstablishmentID: establishmentID,
	}, nil
}
