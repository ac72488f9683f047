package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"agenda/internal/availability"
	"agenda/internal/domain"
)

// ObstructionRepo serves the resolver's three range reads from the
// appointment, block and recurring block tables.
type ObstructionRepo struct {
	appointments AppointmentRepository
	blocks       BlockRepository
	recurring    RecurringBlockRepository
}

func NewObstructionRepo(appointments AppointmentRepository, blocks BlockRepository, recurring RecurringBlockRepository) *ObstructionRepo {
	return &ObstructionRepo{
		appointments: appointments,
		blocks:       blocks,
		recurring:    recurring,
	}
}

func (r *ObstructionRepo) ListAppointmentsInRange(ctx context.Context, q availability.AppointmentRangeQuery) ([]domain.Appointment, error) {
	return r.appointments.ListAppointmentsInRange(ctx, q)
}

func (r *ObstructionRepo) ListBlocksInRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]domain.Block, error) {
	return r.blocks.ListBlocksInRange(ctx, employeeID, from, to)
}

func (r *ObstructionRepo) ListRecurringBlocksByWeekday(ctx context.Context, employeeID uuid.UUID, weekday int) ([]domain.RecurringBlock, error) {
	return r.recurring.ListRecurringBlocksByWeekday(ctx, employeeID, weekday)
}
