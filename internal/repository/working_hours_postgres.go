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

type WorkingHoursRepo struct {
	db *pgxpool.Pool
}

func NewWorkingHoursRepository(db *pgxpool.Pool) *WorkingHoursRepo {
	return &WorkingHoursRepo{db: db}
}

// TIME columns are read back as text so that they arrive as "HH:MM:SS".
const workingHoursColumns = `id, establishment_id, weekday, opens_at::text, closes_at::text, break_start::text, break_end::text, updated_at`

func scanWorkingHours(row pgx.Row) (*domain.WorkingHours, error) {
	var h domain.WorkingHours
	err := row.Scan(
		&h.ID,
		&h.EstablishmentID,
		&h.Weekday,
		&h.OpensAt,
		&h.ClosesAt,
		&h.BreakStart,
		&h.BreakEnd,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *WorkingHoursRepo) Upsert(ctx context.Context, h domain.WorkingHours) (*domain.WorkingHours, error) {
	query := `
		INSERT INTO working_hours (id, establishment_id, weekday, opens_at, closes_at, break_start, break_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (establishment_id, weekday) DO UPDATE
		SET opens_at = EXCLUDED.opens_at,
			closes_at = EXCLUDED.closes_at,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + workingHoursColumns

	saved, err := scanWorkingHours(r.db.QueryRow(ctx, query,
		h.ID,
		h.EstablishmentID,
		h.Weekday,
		h.OpensAt,
		h.ClosesAt,
		h.BreakStart,
		h.BreakEnd,
		h.UpdatedAt,
	))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: некорректное рабочее время", domain.ErrValidation)
		}
		return nil, fmt.Errorf("ошибка сохранения рабочего времени: %w", err)
	}

	return saved, nil
}

func (r *WorkingHoursRepo) GetByEstablishmentAndWeekday(ctx context.Context, establishmentID uuid.UUID, weekday int) (*domain.WorkingHours, error) {
	query := `SELECT ` + workingHoursColumns + ` FROM working_hours WHERE establishment_id = $1 AND weekday = $2`

	h, err := scanWorkingHours(r.db.QueryRow(ctx, query, establishmentID, weekday))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения рабочего времени: %w", err)
	}

	return h, nil
}

func (r *WorkingHoursRepo) List(ctx context.Context, establishmentID uuid.UUID) ([]domain.WorkingHours, error) {
	query := `SELECT ` + workingHoursColumns + ` FROM working_hours WHERE establishment_id = $1 ORDER BY weekday`

	rows, err := r.db.Query(ctx, query, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения рабочего времени: %w", err)
	}
	defer rows.Close()

	hours := []domain.WorkingHours{}
	for rows.Next() {
		h, err := scanWorkingHours(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования рабочего времени: %w", err)
		}
		hours = append(hours, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка получения рабочего времени: %w", err)
	}

	return hours, nil
}

func (r *WorkingHoursRepo) Delete(ctx context.Context, establishmentID uuid.UUID, weekday int) error {
	query := `DELETE FROM working_hours WHERE establishment_id = $1 AND weekday = $2`

	tag, err := r.db.Exec(ctx, query, establishmentID, weekday)
	if err != nil {
		return fmt.Errorf("ошибка удаления рабочего времени: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
