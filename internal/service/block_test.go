package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

func TestBlockCreate(t *testing.T) {
	w := newWorld()
	svc := NewBlockService(w.blocks, w.access, w.notifier, zap.NewNop())

	b, err := svc.Create(context.Background(), w.owner, w.employeeID, domain.CreateBlockDTO{
		StartsAt: utc("2026-10-19", "13:00"),
		EndsAt:   utc("2026-10-19", "15:00"),
		Reason:   "médico",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.EmployeeID != w.employeeID {
		t.Fatalf("unexpected employee %s", b.EmployeeID)
	}

	ev := w.notifier.last()
	if ev.Reason != domain.ReasonBlockCreated || ev.Date != "2026-10-19" || ev.EstablishmentID != w.establishmentID {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestBlockCreate_MultiDayEventHasNoDate(t *testing.T) {
	w := newWorld()
	svc := NewBlockService(w.blocks, w.access, w.notifier, zap.NewNop())

	_, err := svc.Create(context.Background(), w.owner, w.employeeID, domain.CreateBlockDTO{
		StartsAt: utc("2026-10-19", "00:00"),
		EndsAt:   utc("2026-10-22", "00:00"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev := w.notifier.last(); ev.Date != "" {
		t.Fatalf("want empty date, got %q", ev.Date)
	}
}

func TestBlockCreate_Rejects(t *testing.T) {
	w := newWorld()
	svc := NewBlockService(w.blocks, w.access, w.notifier, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, w.owner, w.employeeID, domain.CreateBlockDTO{
		StartsAt: utc("2026-10-19", "15:00"),
		EndsAt:   utc("2026-10-19", "15:00"),
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty block: want ErrValidation, got %v", err)
	}

	valid := domain.CreateBlockDTO{StartsAt: utc("2026-10-19", "13:00"), EndsAt: utc("2026-10-19", "14:00")}
	if _, err := svc.Create(ctx, w.stranger, w.employeeID, valid); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger: want ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, w.owner, uuid.New(), valid); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown employee: want ErrNotFound, got %v", err)
	}
	if len(w.blocks.items) != 0 {
		t.Fatal("nothing must be stored")
	}
}

func TestBlockDelete(t *testing.T) {
	w := newWorld()
	svc := NewBlockService(w.blocks, w.access, w.notifier, zap.NewNop())
	ctx := context.Background()

	b, err := svc.Create(ctx, w.owner, w.employeeID, domain.CreateBlockDTO{StartsAt: utc("2026-10-19", "13:00"), EndsAt: utc("2026-10-19", "14:00")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, w.stranger, b.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, w.owner, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ev := w.notifier.last(); ev.Reason != domain.ReasonBlockDeleted {
		t.Fatalf("unexpected event %+v", ev)
	}
	if err := svc.Delete(ctx, w.owner, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRecurringBlockCreate(t *testing.T) {
	w := newWorld()
	svc := NewRecurringBlockService(w.recurring, w.access, w.notifier, zap.NewNop())
	monday := 1

	b, err := svc.Create(context.Background(), w.owner, w.employeeID, domain.CreateRecurringBlockDTO{
		Weekday:   &monday,
		StartTime: "12:00",
		EndTime:   "13:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.StartTime != "12:00:00" || b.EndTime != "13:00:00" || b.Weekday != 1 {
		t.Fatalf("unexpected block %+v", b)
	}
	if ev := w.notifier.last(); ev.Reason != domain.ReasonRecurringBlockCreated || ev.Date != "" {
		t.Fatalf("unexpected event %+v", ev)
	}

	list, err := svc.List(context.Background(), w.owner, w.employeeID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v, %d items", err, len(list))
	}
}

func TestRecurringBlockCreate_UntilMidnight(t *testing.T) {
	w := newWorld()
	svc := NewRecurringBlockService(w.recurring, w.access, w.notifier, zap.NewNop())
	friday := 5

	b, err := svc.Create(context.Background(), w.owner, w.employeeID, domain.CreateRecurringBlockDTO{
		Weekday:   &friday,
		StartTime: "20:00",
		EndTime:   "24:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.EndTime != "24:00:00" {
		t.Fatalf("end time = %q, want 24:00:00", b.EndTime)
	}
}

func TestRecurringBlockCreate_Rejects(t *testing.T) {
	sunday, bad := 0, 9
	tests := []struct {
		name string
		dto  domain.CreateRecurringBlockDTO
	}{
		{"no weekday", domain.CreateRecurringBlockDTO{StartTime: "12:00", EndTime: "13:00"}},
		{"weekday out of range", domain.CreateRecurringBlockDTO{Weekday: &bad, StartTime: "12:00", EndTime: "13:00"}},
		{"reversed", domain.CreateRecurringBlockDTO{Weekday: &sunday, StartTime: "13:00", EndTime: "12:00"}},
		{"malformed", domain.CreateRecurringBlockDTO{Weekday: &sunday, StartTime: "noon", EndTime: "13:00"}},
		{"starts at end of day", domain.CreateRecurringBlockDTO{Weekday: &sunday, StartTime: "24:00", EndTime: "24:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			svc := NewRecurringBlockService(w.recurring, w.access, w.notifier, zap.NewNop())
			if _, err := svc.Create(context.Background(), w.owner, w.employeeID, tt.dto); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}
