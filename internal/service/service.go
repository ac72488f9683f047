package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/availability"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Notifier    AvailabilityNotifier
	Clock       func() time.Time
}

type Services struct {
	Auth           AuthService
	Establishment  EstablishmentService
	WorkingHours   WorkingHoursService
	Catalog        CatalogService
	Employee       EmployeeService
	Availability   AvailabilityService
	Appointment    AppointmentService
	Block          BlockService
	RecurringBlock RecurringBlockService
}

func NewServices(deps Deps) *Services {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	repos := deps.Repos
	access := newAccessChecker(repos.Establishment, repos.Employee)
	resolver := availability.NewResolver(repos.WorkingHours, repos.Service, repos.Obstructions, deps.Logger, availability.WithClock(clock))

	return &Services{
		Auth:           NewAuthService(repos.Auth, repos.User, deps.Config.JWT, deps.Logger),
		Establishment:  NewEstablishmentService(repos.Establishment, access, deps.FileStorage, deps.Logger),
		WorkingHours:   NewWorkingHoursService(repos.WorkingHours, access, notifier, deps.Logger),
		Catalog:        NewCatalogService(repos.Service, access, deps.Logger),
		Employee:       NewEmployeeService(repos.Employee, access, deps.Logger),
		Availability:   NewAvailabilityService(resolver, deps.Logger),
		Appointment:    NewAppointmentService(repos.Appointment, repos.Service, repos.Employee, resolver, access, notifier, clock, deps.Logger),
		Block:          NewBlockService(repos.Block, access, notifier, deps.Logger),
		RecurringBlock: NewRecurringBlockService(repos.RecurringBlock, access, notifier, deps.Logger),
	}
}

// AvailabilityNotifier is told whenever free slots may have changed.
type AvailabilityNotifier interface {
	Publish(event domain.AvailabilityChanged)
}

// NotifierFunc adapts a function to AvailabilityNotifier.
type NotifierFunc func(event domain.AvailabilityChanged)

func (f NotifierFunc) Publish(event domain.AvailabilityChanged) {
	f(event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(domain.AvailabilityChanged) {}

// SlotResolver computes bookable start instants.
type SlotResolver interface {
	Resolve(ctx context.Context, q availability.Query) ([]time.Time, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (uuid.UUID, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, p domain.Principal) (int64, error)
	ParseToken(ctx context.Context, token string) (domain.Principal, error)
}

type EstablishmentService interface {
	Create(ctx context.Context, p domain.Principal, dto domain.CreateEstablishmentDTO) (*domain.Establishment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Establishment, error)
	Update(ctx context.Context, p domain.Principal, id uuid.UUID, dto domain.UpdateEstablishmentDTO) (*domain.Establishment, error)
	ListMine(ctx context.Context, p domain.Principal) ([]domain.Establishment, error)
	Authorize(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Establishment, error)

	UploadLogo(ctx context.Context, p domain.Principal, id uuid.UUID, data []byte, filename string) (*domain.Establishment, error)
	GetLogoURL(ctx context.Context, id uuid.UUID) (string, error)
}

type WorkingHoursService interface {
	Upsert(ctx context.Context, p domain.Principal, establishmentID uuid.UUID, weekday int, dto domain.UpsertWorkingHoursDTO) (*domain.WorkingHours, error)
	List(ctx context.Context, establishmentID uuid.UUID) ([]domain.WorkingHours, error)
	Delete(ctx context.Context, p domain.Principal, establishmentID uuid.UUID, weekday int) error
}

type CatalogService interface {
	Create(ctx context.Context, p domain.Principal, establishmentID uuid.UUID, dto domain.CreateServiceDTO) (*domain.Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	Update(ctx context.Context, p domain.Principal, id uuid.UUID, dto domain.UpdateServiceDTO) (*domain.Service, error)
	Deactivate(ctx context.Context, p domain.Principal, id uuid.UUID) error
	List(ctx context.Context, establishmentID uuid.UUID, onlyActive bool) ([]domain.Service, error)
}

type EmployeeService interface {
	Create(ctx context.Context, p domain.Principal, establishmentID uuid.UUID, dto domain.CreateEmployeeDTO) (*domain.Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	Update(ctx context.Context, p domain.Principal, id uuid.UUID, dto domain.UpdateEmployeeDTO) (*domain.Employee, error)
	Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error
	List(ctx context.Context, establishmentID uuid.UUID) ([]domain.Employee, error)
}

type AvailabilityService interface {
	GetAvailability(ctx context.Context, req domain.AvailabilityRequest) ([]time.Time, error)
}

type AppointmentService interface {
	Create(ctx context.Context, dto domain.CreateAppointmentDTO) (*domain.Appointment, error)
	GetByID(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context, p domain.Principal, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
	Complete(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Appointment, error)
	Cancel(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Appointment, error)
}

type BlockService interface {
	Create(ctx context.Context, p domain.Principal, employeeID uuid.UUID, dto domain.CreateBlockDTO) (*domain.Block, error)
	Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error
	List(ctx context.Context, p domain.Principal, employeeID uuid.UUID) ([]domain.Block, error)
}

type RecurringBlockService interface {
	Create(ctx context.Context, p domain.Principal, employeeID uuid.UUID, dto domain.CreateRecurringBlockDTO) (*domain.RecurringBlock, error)
	Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error
	List(ctx context.Context, p domain.Principal, employeeID uuid.UUID) ([]domain.RecurringBlock, error)
}
