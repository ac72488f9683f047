package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/availability"
	"agenda/internal/domain"
)

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

const appointmentColumns = `id, establishment_id, employee_id, service_id, customer_name, customer_phone, notes, starts_at, ends_at, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID,
		&a.EstablishmentID,
		&a.EmployeeID,
		&a.ServiceID,
		&a.CustomerName,
		&a.CustomerPhone,
		&a.Notes,
		&a.StartsAt,
		&a.EndsAt,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) CreateIfFree(ctx context.Context, a domain.Appointment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serializes bookings per employee until commit.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, a.EmployeeID.String()); err != nil {
		return fmt.Errorf("ошибка блокировки сотрудника: %w", err)
	}

	checkQuery := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE employee_id = $1 AND status <> 'canceled'
			AND starts_at < $3 AND ends_at > $2
		) OR EXISTS (
			SELECT 1 FROM blocks
			WHERE employee_id = $1
			AND starts_at < $3 AND ends_at > $2
		)
	`

	var busy bool
	if err := tx.QueryRow(ctx, checkQuery, a.EmployeeID, a.StartsAt, a.EndsAt).Scan(&busy); err != nil {
		return fmt.Errorf("ошибка проверки доступности слота: %w", err)
	}
	if busy {
		return domain.ErrSlotUnavailable
	}

	insertQuery := `
		INSERT INTO appointments (
			id, establishment_id, employee_id, service_id, customer_name, customer_phone, notes,
			starts_at, ends_at, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = tx.Exec(ctx, insertQuery,
		a.ID,
		a.EstablishmentID,
		a.EmployeeID,
		a.ServiceID,
		a.CustomerName,
		a.CustomerPhone,
		a.Notes,
		a.StartsAt,
		a.EndsAt,
		a.Status,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return domain.ErrSlotUnavailable
		}
		return fmt.Errorf("ошибка создания записи: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isExclusionViolation(err) {
			return domain.ErrSlotUnavailable
		}
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}

	return a, nil
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	conditions := []string{"establishment_id = $1"}
	args := []interface{}{filter.EstablishmentID}
	argCount := 2

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argCount))
		args = append(args, *filter.EmployeeID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at >= $%d", argCount))
		args = append(args, *filter.From)
		argCount++
	}

	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at < $%d", argCount))
		args = append(args, *filter.To)
		argCount++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM appointments ` + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		%s
		ORDER BY starts_at
		LIMIT $%d OFFSET $%d
	`, appointmentColumns, whereClause, argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки записи: %w", err)
		}
		appointments = append(appointments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка чтения записей: %w", err)
	}

	return appointments, total, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		if isExclusionViolation(err) {
			return domain.ErrSlotUnavailable
		}
		return fmt.Errorf("ошибка обновления статуса записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ListAppointmentsInRange returns appointments of q.EmployeeID at
// q.EstablishmentID that touch [q.From, q.To] and have one of q.Statuses.
func (r *AppointmentRepo) ListAppointmentsInRange(ctx context.Context, q availability.AppointmentRangeQuery) ([]domain.Appointment, error) {
	statuses := make([]string, 0, len(q.Statuses))
	for _, s := range q.Statuses {
		statuses = append(statuses, string(s))
	}

	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE employee_id = $1
		AND establishment_id = $2
		AND starts_at <= $4 AND ends_at >= $3
		AND status = ANY($5)
		ORDER BY starts_at
	`

	rows, err := r.db.Query(ctx, query, q.EmployeeID, q.EstablishmentID, q.From, q.To, statuses)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей за период: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки записи: %w", err)
		}
		appointments = append(appointments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения записей: %w", err)
	}

	return appointments, nil
}
