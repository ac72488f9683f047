package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type EmployeeRepo struct {
	db *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

const employeeColumns = `id, establishment_id, name, email, phone, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.ID,
		&e.EstablishmentID,
		&e.Name,
		&e.Email,
		&e.Phone,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) Create(ctx context.Context, e domain.Employee) error {
	query := `
		INSERT INTO employees (id, establishment_id, name, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query, e.ID, e.EstablishmentID, e.Name, e.Email, e.Phone, e.IsActive, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания сотрудника: %w", err)
	}

	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения сотрудника: %w", err)
	}

	return e, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, e domain.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, email = $2, phone = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`

	tag, err := r.db.Exec(ctx, query, e.Name, e.Email, e.Phone, e.IsActive, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления сотрудника: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM employees WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления сотрудника: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *EmployeeRepo) List(ctx context.Context, establishmentID uuid.UUID) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE establishment_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка сотрудников: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка получения списка сотрудников: %w", err)
	}

	return employees, nil
}
