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

type RecurringBlockRepo struct {
	db *pgxpool.Pool
}

func NewRecurringBlockRepository(db *pgxpool.Pool) *RecurringBlockRepo {
	return &RecurringBlockRepo{db: db}
}

const recurringBlockColumns = `id, employee_id, weekday, start_time::text, end_time::text, reason, created_at`

func scanRecurringBlock(row pgx.Row) (*domain.RecurringBlock, error) {
	var b domain.RecurringBlock
	if err := row.Scan(&b.ID, &b.EmployeeID, &b.Weekday, &b.StartTime, &b.EndTime, &b.Reason, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *RecurringBlockRepo) Create(ctx context.Context, b domain.RecurringBlock) error {
	query := `
		INSERT INTO recurring_blocks (id, employee_id, weekday, start_time, end_time, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query, b.ID, b.EmployeeID, b.Weekday, b.StartTime, b.EndTime, b.Reason, b.CreatedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: некорректная повторяющаяся блокировка", domain.ErrValidation)
		}
		return fmt.Errorf("ошибка создания повторяющейся блокировки: %w", err)
	}

	return nil
}

func (r *RecurringBlockRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringBlock, error) {
	query := `SELECT ` + recurringBlockColumns + ` FROM recurring_blocks WHERE id = $1`

	b, err := scanRecurringBlock(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения повторяющейся блокировки: %w", err)
	}

	return b, nil
}

func (r *RecurringBlockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM recurring_blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления повторяющейся блокировки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *RecurringBlockRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.RecurringBlock, error) {
	query := `SELECT ` + recurringBlockColumns + ` FROM recurring_blocks WHERE employee_id = $1 ORDER BY weekday, start_time`
	return r.list(ctx, query, employeeID)
}

func (r *RecurringBlockRepo) ListRecurringBlocksByWeekday(ctx context.Context, employeeID uuid.UUID, weekday int) ([]domain.RecurringBlock, error) {
	query := `SELECT ` + recurringBlockColumns + ` FROM recurring_blocks WHERE employee_id = $1 AND weekday = $2 ORDER BY start_time`
	return r.list(ctx, query, employeeID, weekday)
}

func (r *RecurringBlockRepo) list(ctx context.Context, query string, args ...any) ([]domain.RecurringBlock, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения повторяющихся блокировок: %w", err)
	}
	defer rows.Close()

	blocks := []domain.RecurringBlock{}
	for rows.Next() {
		b, err := scanRecurringBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования повторяющейся блокировки: %w", err)
		}
		blocks = append(blocks, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения повторяющихся блокировок: %w", err)
	}

	return blocks, nil
}
