package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/availability"
	"agenda/internal/domain"
)

type fakeEstablishments struct {
	items map[uuid.UUID]domain.Establishment
}

func (f *fakeEstablishments) Create(_ context.Context, e domain.Establishment) error {
	f.items[e.ID] = e
	return nil
}

func (f *fakeEstablishments) GetByID(_ context.Context, id uuid.UUID) (*domain.Establishment, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeEstablishments) Update(_ context.Context, e domain.Establishment) error {
	if _, ok := f.items[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.items[e.ID] = e
	return nil
}

func (f *fakeEstablishments) UpdateLogo(_ context.Context, id uuid.UUID, logoURL *string) error {
	e, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.LogoURL = logoURL
	f.items[id] = e
	return nil
}

func (f *fakeEstablishments) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Establishment, error) {
	out := []domain.Establishment{}
	for _, e := range f.items {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeEmployees struct {
	items map[uuid.UUID]domain.Employee
}

func (f *fakeEmployees) Create(_ context.Context, e domain.Employee) error {
	f.items[e.ID] = e
	return nil
}

func (f *fakeEmployees) GetByID(_ context.Context, id uuid.UUID) (*domain.Employee, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeEmployees) Update(_ context.Context, e domain.Employee) error {
	f.items[e.ID] = e
	return nil
}

func (f *fakeEmployees) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeEmployees) List(_ context.Context, establishmentID uuid.UUID) ([]domain.Employee, error) {
	out := []domain.Employee{}
	for _, e := range f.items {
		if e.EstablishmentID == establishmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeServices struct {
	items map[uuid.UUID]domain.Service
}

func (f *fakeServices) Create(_ context.Context, s domain.Service) error {
	f.items[s.ID] = s
	return nil
}

func (f *fakeServices) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeServices) Update(_ context.Context, s domain.Service) error {
	f.items[s.ID] = s
	return nil
}

func (f *fakeServices) Deactivate(_ context.Context, id uuid.UUID) error {
	s := f.items[id]
	s.IsActive = false
	f.items[id] = s
	return nil
}

func (f *fakeServices) List(_ context.Context, establishmentID uuid.UUID, onlyActive bool) ([]domain.Service, error) {
	out := []domain.Service{}
	for _, s := range f.items {
		if s.EstablishmentID == establishmentID && (!onlyActive || s.IsActive) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeHours struct {
	items map[uuid.UUID]map[int]domain.WorkingHours
}

func (f *fakeHours) Upsert(_ context.Context, h domain.WorkingHours) (*domain.WorkingHours, error) {
	if f.items[h.EstablishmentID] == nil {
		f.items[h.EstablishmentID] = map[int]domain.WorkingHours{}
	}
	f.items[h.EstablishmentID][h.Weekday] = h
	return &h, nil
}

func (f *fakeHours) GetByEstablishmentAndWeekday(_ context.Context, establishmentID uuid.UUID, weekday int) (*domain.WorkingHours, error) {
	h, ok := f.items[establishmentID][weekday]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (f *fakeHours) List(_ context.Context, establishmentID uuid.UUID) ([]domain.WorkingHours, error) {
	out := []domain.WorkingHours{}
	for _, h := range f.items[establishmentID] {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHours) Delete(_ context.Context, establishmentID uuid.UUID, weekday int) error {
	if _, ok := f.items[establishmentID][weekday]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items[establishmentID], weekday)
	return nil
}

type fakeAppointments struct {
	items     map[uuid.UUID]domain.Appointment
	createErr error
}

func (f *fakeAppointments) CreateIfFree(_ context.Context, a domain.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, other := range f.items {
		if other.EmployeeID == a.EmployeeID && other.Status != domain.AppointmentStatusCanceled &&
			other.StartsAt.Before(a.EndsAt) && other.EndsAt.After(a.StartsAt) {
			return domain.ErrSlotUnavailable
		}
	}
	f.items[a.ID] = a
	return nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeAppointments) List(_ context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	out := []domain.Appointment{}
	for _, a := range f.items {
		if a.EstablishmentID == filter.EstablishmentID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	a, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	f.items[id] = a
	return nil
}

func (f *fakeAppointments) ListAppointmentsInRange(context.Context, availability.AppointmentRangeQuery) ([]domain.Appointment, error) {
	return nil, nil
}

type fakeBlocks struct {
	items map[uuid.UUID]domain.Block
}

func (f *fakeBlocks) Create(_ context.Context, b domain.Block) error {
	f.items[b.ID] = b
	return nil
}

func (f *fakeBlocks) GetByID(_ context.Context, id uuid.UUID) (*domain.Block, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBlocks) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeBlocks) ListByEmployee(_ context.Context, employeeID uuid.UUID, from time.Time) ([]domain.Block, error) {
	out := []domain.Block{}
	for _, b := range f.items {
		if b.EmployeeID == employeeID && b.EndsAt.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBlocks) ListBlocksInRange(context.Context, uuid.UUID, time.Time, time.Time) ([]domain.Block, error) {
	return nil, nil
}

type fakeRecurringBlocks struct {
	items map[uuid.UUID]domain.RecurringBlock
}

func (f *fakeRecurringBlocks) Create(_ context.Context, b domain.RecurringBlock) error {
	f.items[b.ID] = b
	return nil
}

func (f *fakeRecurringBlocks) GetByID(_ context.Context, id uuid.UUID) (*domain.RecurringBlock, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeRecurringBlocks) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeRecurringBlocks) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]domain.RecurringBlock, error) {
	out := []domain.RecurringBlock{}
	for _, b := range f.items {
		if b.EmployeeID == employeeID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRecurringBlocks) ListRecurringBlocksByWeekday(context.Context, uuid.UUID, int) ([]domain.RecurringBlock, error) {
	return nil, nil
}

type fakeUsers struct {
	items map[uuid.UUID]domain.User
}

func (f *fakeUsers) Create(_ context.Context, u domain.User) error {
	f.items[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

type fakeSessions struct {
	items map[uuid.UUID]domain.Session
}

func (f *fakeSessions) CreateSession(_ context.Context, s domain.Session) error {
	f.items[s.ID] = s
	return nil
}

func (f *fakeSessions) ConsumeSession(_ context.Context, token string) (*domain.Session, error) {
	for id, s := range f.items {
		if s.RefreshToken == token {
			delete(f.items, id)
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessions) DeleteSessionsByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for id, s := range f.items {
		if s.UserID == userID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.AvailabilityChanged
}

func (n *recordingNotifier) Publish(event domain.AvailabilityChanged) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) last() domain.AvailabilityChanged {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return domain.AvailabilityChanged{}
	}
	return n.events[len(n.events)-1]
}

type stubResolver struct {
	slots []time.Time
	err   error
	last  availability.Query
	calls int
}

func (r *stubResolver) Resolve(_ context.Context, q availability.Query) ([]time.Time, error) {
	r.last = q
	r.calls++
	return r.slots, r.err
}

// world is a small establishment with one owner, one employee and one
// thirty-minute service.
type world struct {
	establishments *fakeEstablishments
	employees      *fakeEmployees
	services       *fakeServices
	hours          *fakeHours
	appointments   *fakeAppointments
	blocks         *fakeBlocks
	recurring      *fakeRecurringBlocks
	notifier       *recordingNotifier
	resolver       *stubResolver
	access         *accessChecker

	owner           domain.Principal
	stranger        domain.Principal
	admin           domain.Principal
	establishmentID uuid.UUID
	employeeID      uuid.UUID
	serviceID       uuid.UUID
	now             time.Time
}

func newWorld() *world {
	w := &world{
		establishments: &fakeEstablishments{items: map[uuid.UUID]domain.Establishment{}},
		employees:      &fakeEmployees{items: map[uuid.UUID]domain.Employee{}},
		services:       &fakeServices{items: map[uuid.UUID]domain.Service{}},
		hours:          &fakeHours{items: map[uuid.UUID]map[int]domain.WorkingHours{}},
		appointments:   &fakeAppointments{items: map[uuid.UUID]domain.Appointment{}},
		blocks:         &fakeBlocks{items: map[uuid.UUID]domain.Block{}},
		recurring:      &fakeRecurringBlocks{items: map[uuid.UUID]domain.RecurringBlock{}},
		notifier:       &recordingNotifier{},
		resolver:       &stubResolver{},

		owner:           domain.Principal{UserID: uuid.New(), Role: domain.UserRoleOwner},
		stranger:        domain.Principal{UserID: uuid.New(), Role: domain.UserRoleOwner},
		admin:           domain.Principal{UserID: uuid.New(), Role: domain.UserRoleAdmin},
		establishmentID: uuid.New(),
		employeeID:      uuid.New(),
		serviceID:       uuid.New(),
		now:             time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC),
	}
	w.access = newAccessChecker(w.establishments, w.employees)

	w.establishments.items[w.establishmentID] = domain.Establishment{ID: w.establishmentID, OwnerID: w.owner.UserID, Name: "Barbearia"}
	w.employees.items[w.employeeID] = domain.Employee{ID: w.employeeID, EstablishmentID: w.establishmentID, Name: "Ana", IsActive: true}
	w.services.items[w.serviceID] = domain.Service{ID: w.serviceID, EstablishmentID: w.establishmentID, Name: "Corte", DurationMinutes: 30, IsActive: true}
	return w
}

func (w *world) appointmentService() *AppointmentServiceImpl {
	return NewAppointmentService(w.appointments, w.services, w.employees, w.resolver, w.access, w.notifier,
		func() time.Time { return w.now }, zap.NewNop())
}

func (w *world) booking(date, clock string) domain.CreateAppointmentDTO {
	return domain.CreateAppointmentDTO{
		EstablishmentID: w.establishmentID,
		EmployeeID:      w.employeeID,
		ServiceID:       w.serviceID,
		Date:            date,
		Time:            clock,
		CustomerName:    "joão silva",
		CustomerPhone:   "+55 11 99999-0000",
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SigningKey:      "test-signing-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func utc(date, clock string) time.Time {
	day, err := availability.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return availability.MustTimeOfDay(clock).On(day)
}
