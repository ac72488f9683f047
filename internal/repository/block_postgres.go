package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type BlockRepo struct {
	db *pgxpool.Pool
}

func NewBlockRepository(db *pgxpool.Pool) *BlockRepo {
	return &BlockRepo{db: db}
}

const blockColumns = `id, employee_id, starts_at, ends_at, reason, created_at`

func scanBlock(row pgx.Row) (*domain.Block, error) {
	var b domain.Block
	if err := row.Scan(&b.ID, &b.EmployeeID, &b.StartsAt, &b.EndsAt, &b.Reason, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BlockRepo) Create(ctx context.Context, b domain.Block) error {
	query := `
		INSERT INTO blocks (id, employee_id, starts_at, ends_at, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, b.ID, b.EmployeeID, b.StartsAt, b.EndsAt, b.Reason, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания блокировки: %w", err)
	}

	return nil
}

func (r *BlockRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE id = $1`

	b, err := scanBlock(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения блокировки: %w", err)
	}

	return b, nil
}

func (r *BlockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления блокировки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ListByEmployee returns blocks that have not ended before from.
func (r *BlockRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID, from time.Time) ([]domain.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE employee_id = $1 AND ends_at > $2 ORDER BY starts_at`
	return r.list(ctx, query, employeeID, from)
}

func (r *BlockRepo) ListBlocksInRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]domain.Block, error) {
	query := `
		SELECT ` + blockColumns + `
		FROM blocks
		WHERE employee_id = $1
		AND starts_at <= $3 AND ends_at >= $2
		ORDER BY starts_at
	`
	return r.list(ctx, query, employeeID, from, to)
}

func (r *BlockRepo) list(ctx context.Context, query string, args ...any) ([]domain.Block, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения блокировок: %w", err)
	}
	defer rows.Close()

	blocks := []domain.Block{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования блокировки: %w", err)
		}
		blocks = append(blocks, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения блокировок: %w", err)
	}

	return blocks, nil
}
