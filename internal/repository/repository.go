package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/availability"
	"agenda/internal/domain"
)

type Repositories struct {
	User           UserRepository
	Auth           AuthRepository
	Establishment  EstablishmentRepository
	WorkingHours   WorkingHoursRepository
	Service        ServiceRepository
	Employee       EmployeeRepository
	Appointment    AppointmentRepository
	Block          BlockRepository
	RecurringBlock RecurringBlockRepository
	Obstructions   availability.ObstructionStore
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	appointments := NewAppointmentRepository(db)
	blocks := NewBlockRepository(db)
	recurring := NewRecurringBlockRepository(db)

	return &Repositories{
		User:           NewUserRepository(db),
		Auth:           NewAuthRepository(db),
		Establishment:  NewEstablishmentRepository(db),
		WorkingHours:   NewWorkingHoursRepository(db),
		Service:        NewServiceRepository(db),
		Employee:       NewEmployeeRepository(db),
		Appointment:    appointments,
		Block:          blocks,
		RecurringBlock: recurring,
		Obstructions:   NewObstructionRepo(appointments, blocks, recurring),
	}
}

// Lookups return nil, nil when the row does not exist.

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	ConsumeSession(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSessionsByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type EstablishmentRepository interface {
	Create(ctx context.Context, establishment domain.Establishment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Establishment, error)
	Update(ctx context.Context, establishment domain.Establishment) error
	UpdateLogo(ctx context.Context, id uuid.UUID, logoURL *string) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Establishment, error)
}

type WorkingHoursRepository interface {
	Upsert(ctx context.Context, hours domain.WorkingHours) (*domain.WorkingHours, error)
	GetByEstablishmentAndWeekday(ctx context.Context, establishmentID uuid.UUID, weekday int) (*domain.WorkingHours, error)
	List(ctx context.Context, establishmentID uuid.UUID) ([]domain.WorkingHours, error)
	Delete(ctx context.Context, establishmentID uuid.UUID, weekday int) error
}

type ServiceRepository interface {
	Create(ctx context.Context, service domain.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	Update(ctx context.Context, service domain.Service) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, establishmentID uuid.UUID, onlyActive bool) ([]domain.Service, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee domain.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	Update(ctx context.Context, employee domain.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, establishmentID uuid.UUID) ([]domain.Employee, error)
}

type AppointmentRepository interface {
	// CreateIfFree inserts the appointment unless a non-canceled appointment
	// or a manual block of the same employee overlaps it, in which case it
	// returns domain.ErrSlotUnavailable.
	CreateIfFree(ctx context.Context, appointment domain.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error
	ListAppointmentsInRange(ctx context.Context, q availability.AppointmentRangeQuery) ([]domain.Appointment, error)
}

type BlockRepository interface {
	Create(ctx context.Context, block domain.Block) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Block, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, from time.Time) ([]domain.Block, error)
	ListBlocksInRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]domain.Block, error)
}

type RecurringBlockRepository interface {
	Create(ctx context.Context, block domain.RecurringBlock) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringBlock, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.RecurringBlock, error)
	ListRecurringBlocksByWeekday(ctx context.Context, employeeID uuid.UUID, weekday int) ([]domain.RecurringBlock, error)
}

var (
	_ availability.WorkingHoursStore = (*WorkingHoursRepo)(nil)
	_ availability.ServiceStore      = (*ServiceRepo)(nil)
	_ availability.ObstructionStore  = (*ObstructionRepo)(nil)
)
