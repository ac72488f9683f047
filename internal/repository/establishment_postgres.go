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

type EstablishmentRepo struct {
	db *pgxpool.Pool
}

func NewEstablishmentRepository(db *pgxpool.Pool) *EstablishmentRepo {
	return &EstablishmentRepo{db: db}
}

const establishmentColumns = `id, owner_id, name, phone, address, logo_url, created_at, updated_at`

func scanEstablishment(row pgx.Row) (*domain.Establishment, error) {
	var e domain.Establishment
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Name,
		&e.Phone,
		&e.Address,
		&e.LogoURL,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EstablishmentRepo) Create(ctx context.Context, e domain.Establishment) error {
	query := `
		INSERT INTO establishments (id, owner_id, name, phone, address, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query, e.ID, e.OwnerID, e.Name, e.Phone, e.Address, e.LogoURL, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания заведения: %w", err)
	}

	return nil
}

func (r *EstablishmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Establishment, error) {
	query := `SELECT ` + establishmentColumns + ` FROM establishments WHERE id = $1`

	e, err := scanEstablishment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения заведения: %w", err)
	}

	return e, nil
}

func (r *EstablishmentRepo) Update(ctx context.Context, e domain.Establishment) error {
	query := `
		UPDATE establishments
		SET name = $1, phone = $2, address = $3, updated_at = $4
		WHERE id = $5
	`

	tag, err := r.db.Exec(ctx, query, e.Name, e.Phone, e.Address, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления заведения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *EstablishmentRepo) UpdateLogo(ctx context.Context, id uuid.UUID, logoURL *string) error {
	query := `UPDATE establishments SET logo_url = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, logoURL, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления логотипа заведения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *EstablishmentRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Establishment, error) {
	query := `SELECT ` + establishmentColumns + ` FROM establishments WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заведений: %w", err)
	}
	defer rows.Close()

	establishments := []domain.Establishment{}
	for rows.Next() {
		e, err := scanEstablishment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заведения: %w", err)
		}
		establishments = append(establishments, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка получения списка заведений: %w", err)
	}

	return establishments, nil
}
