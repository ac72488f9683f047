package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"agenda/internal/domain"
	"agenda/internal/repository"
)

// accessChecker resolves the establishment a write touches and checks
// that the caller owns it. Admins pass every check.
type accessChecker struct {
	establishments repository.EstablishmentRepository
	employees      repository.EmployeeRepository
}

func newAccessChecker(establishments repository.EstablishmentRepository, employees repository.EmployeeRepository) *accessChecker {
	return &accessChecker{
		establishments: establishments,
		employees:      employees,
	}
}

func (a *accessChecker) establishment(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Establishment, error) {
	e, err := a.establishments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: заведение %s", domain.ErrNotFound, id)
	}
	if !p.IsAdmin() && e.OwnerID != p.UserID {
		return nil, domain.ErrForbidden
	}
	return e, nil
}

func (a *accessChecker) employee(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Employee, error) {
	emp, err := a.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: сотрудник %s", domain.ErrNotFound, id)
	}
	if _, err := a.establishment(ctx, p, emp.EstablishmentID); err != nil {
		return nil, err
	}
	return emp, nil
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
