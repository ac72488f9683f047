package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agenda/internal/domain"
)

const tracerName = "agenda/internal/availability"

// WorkingHoursStore returns nil, nil when the establishment is closed on weekday.
type WorkingHoursStore interface {
	GetByEstablishmentAndWeekday(ctx context.Context, establishmentID uuid.UUID, weekday int) (*domain.WorkingHours, error)
}

// ServiceStore returns nil, nil for an unknown service.
type ServiceStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

type Query struct {
	Date            string
	EmployeeID      uuid.UUID
	ServiceID       uuid.UUID
	EstablishmentID uuid.UUID
}

type Resolver struct {
	hours        WorkingHoursStore
	services     ServiceStore
	obstructions ObstructionStore
	now          func() time.Time
	logger       *zap.Logger
}

type Option func(*Resolver)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

func NewResolver(hours WorkingHoursStore, services ServiceStore, obstructions ObstructionStore, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		hours:        hours,
		services:     services,
		obstructions: obstructions,
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the ascending start instants at which the service can
// be booked with the employee on q.Date. A closed day, an unknown service
// and a fully booked day all yield an empty result without error.
func (r *Resolver) Resolve(ctx context.Context, q Query) ([]time.Time, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "availability.Resolve", trace.WithAttributes(
		attribute.String("availability.date", q.Date),
		attribute.String("availability.employee_id", q.EmployeeID.String()),
		attribute.String("availability.service_id", q.ServiceID.String()),
		attribute.String("availability.establishment_id", q.EstablishmentID.String()),
	))
	defer span.End()

	slots, err := r.resolve(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("availability.slots", len(slots)))
	return slots, nil
}

func (r *Resolver) resolve(ctx context.Context, q Query) ([]time.Time, error) {
	day, err := ParseDate(q.Date)
	if err != nil {
		return nil, err
	}
	weekday := int(day.Weekday())

	var (
		hours   *domain.WorkingHours
		service *domain.Service
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hours, err = r.hours.GetByEstablishmentAndWeekday(gctx, q.EstablishmentID, weekday)
		if err != nil {
			return fmt.Errorf("%w: working hours: %w", ErrFetch, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		service, err = r.services.GetByID(gctx, q.ServiceID)
		if err != nil {
			return fmt.Errorf("%w: service: %w", ErrFetch, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if hours == nil {
		r.logger.Debug("нет рабочего окна на этот день",
			zap.String("establishment_id", q.EstablishmentID.String()),
			zap.Int("weekday", weekday))
		return []time.Time{}, nil
	}
	if service == nil {
		r.logger.Debug("услуга не найдена", zap.String("service_id", q.ServiceID.String()))
		return []time.Time{}, nil
	}
	if !service.IsActive || service.EstablishmentID != q.EstablishmentID {
		r.logger.Debug("услуга недоступна для записи",
			zap.String("service_id", q.ServiceID.String()),
			zap.String("establishment_id", q.EstablishmentID.String()),
			zap.Bool("active", service.IsActive))
		return []time.Time{}, nil
	}

	window, err := WindowFromHours(*hours)
	if err != nil {
		return nil, fmt.Errorf("working hours %s: %w", hours.ID, err)
	}
	duration := service.Duration()

	candidates := GenerateSlots(day, &window, duration)
	if len(candidates) == 0 {
		return []time.Time{}, nil
	}

	obstructions, err := CollectObstructions(ctx, r.obstructions, CollectQuery{
		EmployeeID:      q.EmployeeID,
		EstablishmentID: q.EstablishmentID,
		Day:             day,
	})
	if err != nil {
		return nil, err
	}

	now := r.now()
	today := sameDay(day, now)

	slots := make([]time.Time, 0, len(candidates))
	for _, c := range candidates {
		if overlapsAny(Interval{Start: c, End: c.Add(duration)}, obstructions) {
			continue
		}
		if today && !c.After(now) {
			continue
		}
		slots = append(slots, c)
	}

	return slots, nil
}
