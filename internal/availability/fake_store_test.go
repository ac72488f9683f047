package availability

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"agenda/internal/domain"
)

type fakeStore struct {
	mu sync.Mutex

	hours    map[int]*domain.WorkingHours
	services map[uuid.UUID]*domain.Service

	appointments []domain.Appointment
	blocks       []domain.Block
	recurring    []domain.RecurringBlock

	hoursErr        error
	serviceErr      error
	appointmentsErr error
	blocksErr       error
	recurringErr    error

	lastAppointmentQuery AppointmentRangeQuery
	obstructionCalls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hours:    map[int]*domain.WorkingHours{},
		services: map[uuid.UUID]*domain.Service{},
	}
}

func (f *fakeStore) GetByEstablishmentAndWeekday(_ context.Context, establishmentID uuid.UUID, weekday int) (*domain.WorkingHours, error) {
	if f.hoursErr != nil {
		return nil, f.hoursErr
	}
	h, ok := f.hours[weekday]
	if !ok || h.EstablishmentID != establishmentID {
		return nil, nil
	}
	return h, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.services[id], nil
}

func (f *fakeStore) ListAppointmentsInRange(_ context.Context, q AppointmentRangeQuery) ([]domain.Appointment, error) {
	f.mu.Lock()
	f.lastAppointmentQuery = q
	f.obstructionCalls++
	f.mu.Unlock()

	if f.appointmentsErr != nil {
		return nil, f.appointmentsErr
	}
	var out []domain.Appointment
	for _, a := range f.appointments {
		if a.EmployeeID != q.EmployeeID || a.EstablishmentID != q.EstablishmentID {
			continue
		}
		if !slices.Contains(q.Statuses, a.Status) {
			continue
		}
		if a.StartsAt.After(q.To) || a.EndsAt.Before(q.From) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) ListBlocksInRange(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]domain.Block, error) {
	if f.blocksErr != nil {
		return nil, f.blocksErr
	}
	var out []domain.Block
	for _, b := range f.blocks {
		if b.EmployeeID == employeeID && !b.StartsAt.After(to) && !b.EndsAt.Before(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecurringBlocksByWeekday(_ context.Context, employeeID uuid.UUID, weekday int) ([]domain.RecurringBlock, error) {
	if f.recurringErr != nil {
		return nil, f.recurringErr
	}
	var out []domain.RecurringBlock
	for _, rb := range f.recurring {
		if rb.EmployeeID == employeeID && rb.Weekday == weekday {
			out = append(out, rb)
		}
	}
	return out, nil
}

func at(date, clock string) time.Time {
	day, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return MustTimeOfDay(clock).On(day)
}

func strPtr(s string) *string {
	return &s
}
