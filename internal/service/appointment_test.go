package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"agenda/internal/domain"
)

func TestAppointmentCreate_BooksOfferedSlot(t *testing.T) {
	w := newWorld()
	w.resolver.slots = []time.Time{utc("2026-10-19", "09:00"), utc("2026-10-19", "09:30")}

	a, err := w.appointmentService().Create(context.Background(), w.booking("2026-10-19", "09:30"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !a.StartsAt.Equal(utc("2026-10-19", "09:30")) || !a.EndsAt.Equal(utc("2026-10-19", "10:00")) {
		t.Fatalf("unexpected interval %s - %s", a.StartsAt, a.EndsAt)
	}
	if a.Status != domain.AppointmentStatusScheduled {
		t.Fatalf("status = %s, want scheduled", a.Status)
	}
	if a.CustomerName != "João Silva" || a.CustomerPhone != "+5511999990000" {
		t.Fatalf("customer not normalized: %q %q", a.CustomerName, a.CustomerPhone)
	}
	if w.resolver.last.Date != "2026-10-19" || w.resolver.last.EmployeeID != w.employeeID {
		t.Fatalf("resolver queried with %+v", w.resolver.last)
	}

	ev := w.notifier.last()
	if ev.Reason != domain.ReasonAppointmentCreated || ev.Date != "2026-10-19" || ev.EmployeeID != w.employeeID {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestAppointmentCreate_AcceptsSecondsInTime(t *testing.T) {
	w := newWorld()
	w.resolver.slots = []time.Time{utc("2026-10-19", "09:00")}

	if _, err := w.appointmentService().Create(context.Background(), w.booking("2026-10-19", "09:00:00")); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestAppointmentCreate_RejectsSlotNotOffered(t *testing.T) {
	w := newWorld()
	w.resolver.slots = []time.Time{utc("2026-10-19", "09:00")}

	_, err := w.appointmentService().Create(context.Background(), w.booking("2026-10-19", "09:15"))
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("want ErrSlotUnavailable, got %v", err)
	}
	if len(w.appointments.items) != 0 {
		t.Fatal("nothing must be stored")
	}
	if len(w.notifier.events) != 0 {
		t.Fatal("no event for a rejected booking")
	}
}

func TestAppointmentCreate_LosesRaceToConcurrentBooking(t *testing.T) {
	w := newWorld()
	w.resolver.slots = []time.Time{utc("2026-10-19", "09:00")}
	svc := w.appointmentService()

	if _, err := svc.Create(context.Background(), w.booking("2026-10-19", "09:00")); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// The stub still offers 09:00, as a resolver read taken before the
	// first commit would.
	if _, err := svc.Create(context.Background(), w.booking("2026-10-19", "09:00")); !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Fatalf("want ErrSlotUnavailable, got %v", err)
	}
}

func TestAppointmentCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(w *world, dto *domain.CreateAppointmentDTO)
		want   error
	}{
		{"bad date", func(_ *world, d *domain.CreateAppointmentDTO) { d.Date = "19/10/2026" }, domain.ErrValidation},
		{"bad time", func(_ *world, d *domain.CreateAppointmentDTO) { d.Time = "9h" }, domain.ErrValidation},
		{"end of day as start", func(_ *world, d *domain.CreateAppointmentDTO) { d.Time = "24:00" }, domain.ErrValidation},
		{"empty name", func(_ *world, d *domain.CreateAppointmentDTO) { d.CustomerName = "  " }, domain.ErrValidation},
		{"bad phone", func(_ *world, d *domain.CreateAppointmentDTO) { d.CustomerPhone = "12" }, domain.ErrValidation},
		{"nil employee", func(_ *world, d *domain.CreateAppointmentDTO) { d.EmployeeID = uuid.Nil }, domain.ErrValidation},
		{"unknown service", func(_ *world, d *domain.CreateAppointmentDTO) { d.ServiceID = uuid.New() }, domain.ErrNotFound},
		{"service of another establishment", func(w *world, _ *domain.CreateAppointmentDTO) {
			s := w.services.items[w.serviceID]
			s.EstablishmentID = uuid.New()
			w.services.items[w.serviceID] = s
		}, domain.ErrNotFound},
		{"inactive employee", func(w *world, _ *domain.CreateAppointmentDTO) {
			e := w.employees.items[w.employeeID]
			e.IsActive = false
			w.employees.items[w.employeeID] = e
		}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			w.resolver.slots = []time.Time{utc("2026-10-19", "09:00")}
			dto := w.booking("2026-10-19", "09:00")
			tt.mutate(w, &dto)

			_, err := w.appointmentService().Create(context.Background(), dto)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAppointmentCreate_ResolverFailure(t *testing.T) {
	w := newWorld()
	boom := errors.New("db down")
	w.resolver.err = boom

	_, err := w.appointmentService().Create(context.Background(), w.booking("2026-10-19", "09:00"))
	if !errors.Is(err, boom) {
		t.Fatalf("want resolver error, got %v", err)
	}
}

func seedAppointment(w *world, status domain.AppointmentStatus) uuid.UUID {
	id := uuid.New()
	w.appointments.items[id] = domain.Appointment{
		ID:              id,
		EstablishmentID: w.establishmentID,
		EmployeeID:      w.employeeID,
		ServiceID:       w.serviceID,
		StartsAt:        utc("2026-10-20", "10:00"),
		EndsAt:          utc("2026-10-20", "10:30"),
		Status:          status,
	}
	return id
}

func TestAppointmentTransitions(t *testing.T) {
	w := newWorld()
	svc := w.appointmentService()
	ctx := context.Background()

	id := seedAppointment(w, domain.AppointmentStatusScheduled)
	a, err := svc.Cancel(ctx, w.owner, id)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if a.Status != domain.AppointmentStatusCanceled || w.appointments.items[id].Status != domain.AppointmentStatusCanceled {
		t.Fatal("appointment not canceled")
	}
	if ev := w.notifier.last(); ev.Reason != domain.ReasonAppointmentCanceled || ev.Date != "2026-10-20" {
		t.Fatalf("unexpected event %+v", ev)
	}

	if _, err := svc.Complete(ctx, w.owner, id); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("completing a canceled appointment: want ErrValidation, got %v", err)
	}

	other := seedAppointment(w, domain.AppointmentStatusScheduled)
	if _, err := svc.Complete(ctx, w.admin, other); err != nil {
		t.Fatalf("admin complete: %v", err)
	}
	if w.appointments.items[other].Status != domain.AppointmentStatusCompleted {
		t.Fatal("appointment not completed")
	}
}

func TestAppointmentAccess(t *testing.T) {
	w := newWorld()
	svc := w.appointmentService()
	ctx := context.Background()
	id := seedAppointment(w, domain.AppointmentStatusScheduled)

	if _, err := svc.GetByID(ctx, w.stranger, id); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("get: want ErrForbidden, got %v", err)
	}
	if _, err := svc.Cancel(ctx, w.stranger, id); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("cancel: want ErrForbidden, got %v", err)
	}
	if _, _, err := svc.List(ctx, w.stranger, domain.AppointmentFilter{EstablishmentID: w.establishmentID}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("list: want ErrForbidden, got %v", err)
	}
	if _, err := svc.GetByID(ctx, w.owner, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get unknown: want ErrNotFound, got %v", err)
	}
	if w.appointments.items[id].Status != domain.AppointmentStatusScheduled {
		t.Fatal("forbidden cancel must not change the appointment")
	}
}

func TestAppointmentList(t *testing.T) {
	w := newWorld()
	seedAppointment(w, domain.AppointmentStatusScheduled)
	seedAppointment(w, domain.AppointmentStatusCanceled)

	items, total, err := w.appointmentService().List(context.Background(), w.owner, domain.AppointmentFilter{EstablishmentID: w.establishmentID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("got %d items, total %d", len(items), total)
	}

	bad := domain.AppointmentStatus("pending")
	if _, _, err := w.appointmentService().List(context.Background(), w.owner, domain.AppointmentFilter{EstablishmentID: w.establishmentID, Status: &bad}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation for unknown status, got %v", err)
	}
}
