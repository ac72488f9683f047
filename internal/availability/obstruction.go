package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"agenda/internal/domain"
)

// ErrFetch wraps every failure of an underlying store.
var ErrFetch = errors.New("availability: fetch failed")

type ObstructionKind string

const (
	KindAppointment    ObstructionKind = "appointment"
	KindManualBlock    ObstructionKind = "manual-block"
	KindRecurringBlock ObstructionKind = "recurring-block"
)

// Obstruction is an interval during which the employee cannot take a
// booking. It is built per request and never stored.
type Obstruction struct {
	Interval
	Kind ObstructionKind
}

type AppointmentRangeQuery struct {
	EmployeeID      uuid.UUID
	EstablishmentID uuid.UUID
	From            time.Time
	To              time.Time
	Statuses        []domain.AppointmentStatus
}

// ObstructionStore exposes the three independent reads the collector needs.
type ObstructionStore interface {
	ListAppointmentsInRange(ctx context.Context, q AppointmentRangeQuery) ([]domain.Appointment, error)
	ListBlocksInRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]domain.Block, error)
	ListRecurringBlocksByWeekday(ctx context.Context, employeeID uuid.UUID, weekday int) ([]domain.RecurringBlock, error)
}

type CollectQuery struct {
	EmployeeID      uuid.UUID
	EstablishmentID uuid.UUID
	Day             time.Time
}

// DayBounds returns the [00:00:00, 23:59:59] UTC wall-clock bounds of day.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.UTC().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return from, from.Add(24*time.Hour - time.Second)
}

// CollectObstructions reads appointments, manual blocks and recurring
// blocks for one employee and day concurrently and normalizes them.
func CollectObstructions(ctx context.Context, store ObstructionStore, q CollectQuery) ([]Obstruction, error) {
	from, to := DayBounds(q.Day)
	weekday := int(q.Day.Weekday())

	var (
		appointments []domain.Appointment
		blocks       []domain.Block
		recurring    []domain.RecurringBlock
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appointments, err = store.ListAppointmentsInRange(gctx, AppointmentRangeQuery{
			EmployeeID:      q.EmployeeID,
			EstablishmentID: q.EstablishmentID,
			From:            from,
			To:              to,
			Statuses:        domain.BlockingStatuses(),
		})
		if err != nil {
			return fmt.Errorf("%w: appointments: %w", ErrFetch, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		blocks, err = store.ListBlocksInRange(gctx, q.EmployeeID, from, to)
		if err != nil {
			return fmt.Errorf("%w: blocks: %w", ErrFetch, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recurring, err = store.ListRecurringBlocksByWeekday(gctx, q.EmployeeID, weekday)
		if err != nil {
			return fmt.Errorf("%w: recurring blocks: %w", ErrFetch, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	obstructions := make([]Obstruction, 0, len(appointments)+len(blocks)+len(recurring))
	for _, a := range appointments {
		obstructions = append(obstructions, Obstruction{
			Interval: Interval{Start: a.StartsAt, End: a.EndsAt},
			Kind:     KindAppointment,
		})
	}
	for _, b := range blocks {
		obstructions = append(obstructions, Obstruction{
			Interval: Interval{Start: b.StartsAt, End: b.EndsAt},
			Kind:     KindManualBlock,
		})
	}
	for _, rb := range recurring {
		start, err := ParseTimeOfDay(rb.StartTime)
		if err != nil {
			return nil, fmt.Errorf("recurring block %s: %w", rb.ID, err)
		}
		end, err := ParseTimeOfDay(rb.EndTime)
		if err != nil {
			return nil, fmt.Errorf("recurring block %s: %w", rb.ID, err)
		}
		obstructions = append(obstructions, Obstruction{
			Interval: Interval{Start: start.On(q.Day), End: end.On(q.Day)},
			Kind:     KindRecurringBlock,
		})
	}

	return obstructions, nil
}
