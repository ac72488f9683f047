package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"agenda/internal/domain"
)

func TestWorkingHoursUpsert(t *testing.T) {
	w := newWorld()
	svc := NewWorkingHoursService(w.hours, w.access, w.notifier, zap.NewNop())
	brkStart, brkEnd := "12:00", "13:00"

	saved, err := svc.Upsert(context.Background(), w.owner, w.establishmentID, 1, domain.UpsertWorkingHoursDTO{
		OpensAt:    "09:00",
		ClosesAt:   "18:00",
		BreakStart: &brkStart,
		BreakEnd:   &brkEnd,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved.OpensAt != "09:00:00" || saved.ClosesAt != "18:00:00" || *saved.BreakStart != "12:00:00" || *saved.BreakEnd != "13:00:00" {
		t.Fatalf("times not normalized: %+v", saved)
	}
	if ev := w.notifier.last(); ev.Reason != domain.ReasonWorkingHoursChanged || ev.EstablishmentID != w.establishmentID {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestWorkingHoursUpsert_ClosesAtMidnight(t *testing.T) {
	w := newWorld()
	svc := NewWorkingHoursService(w.hours, w.access, w.notifier, zap.NewNop())

	saved, err := svc.Upsert(context.Background(), w.owner, w.establishmentID, 5, domain.UpsertWorkingHoursDTO{
		OpensAt:  "18:00",
		ClosesAt: "24:00",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved.ClosesAt != "24:00:00" {
		t.Fatalf("closes_at = %q, want 24:00:00", saved.ClosesAt)
	}
}

func TestWorkingHoursUpsert_Rejects(t *testing.T) {
	outside, inside := "19:00", "12:00"
	tests := []struct {
		name    string
		weekday int
		dto     domain.UpsertWorkingHoursDTO
	}{
		{"weekday out of range", 7, domain.UpsertWorkingHoursDTO{OpensAt: "09:00", ClosesAt: "18:00"}},
		{"closes before opens", 1, domain.UpsertWorkingHoursDTO{OpensAt: "18:00", ClosesAt: "09:00"}},
		{"equal bounds", 1, domain.UpsertWorkingHoursDTO{OpensAt: "09:00", ClosesAt: "09:00"}},
		{"malformed time", 1, domain.UpsertWorkingHoursDTO{OpensAt: "9", ClosesAt: "18:00"}},
		{"opens at end of day", 1, domain.UpsertWorkingHoursDTO{OpensAt: "24:00", ClosesAt: "24:00"}},
		{"half a break", 1, domain.UpsertWorkingHoursDTO{OpensAt: "09:00", ClosesAt: "18:00", BreakStart: &inside}},
		{"break outside window", 1, domain.UpsertWorkingHoursDTO{OpensAt: "09:00", ClosesAt: "18:00", BreakStart: &inside, BreakEnd: &outside}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			svc := NewWorkingHoursService(w.hours, w.access, w.notifier, zap.NewNop())

			_, err := svc.Upsert(context.Background(), w.owner, w.establishmentID, tt.weekday, tt.dto)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
			if len(w.notifier.events) != 0 {
				t.Fatal("no event for rejected hours")
			}
		})
	}
}

func TestWorkingHours_Ownership(t *testing.T) {
	w := newWorld()
	svc := NewWorkingHoursService(w.hours, w.access, w.notifier, zap.NewNop())
	dto := domain.UpsertWorkingHoursDTO{OpensAt: "09:00", ClosesAt: "18:00"}

	if _, err := svc.Upsert(context.Background(), w.stranger, w.establishmentID, 1, dto); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if _, err := svc.Upsert(context.Background(), w.admin, w.establishmentID, 1, dto); err != nil {
		t.Fatalf("admin upsert: %v", err)
	}
	if err := svc.Delete(context.Background(), w.stranger, w.establishmentID, 1); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), w.owner, w.establishmentID, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), w.owner, w.establishmentID, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
