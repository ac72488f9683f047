package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/internal/storage"
	"agenda/pkg/validator"
)

const logoURLExpiry = 15 * time.Minute

// ErrStorageUnavailable is returned by logo operations when no object
// storage is configured.
var ErrStorageUnavailable = errors.New("файловое хранилище не настроено")

type EstablishmentServiceImpl struct {
	repo    repository.EstablishmentRepository
	access  *accessChecker
	storage storage.FileStorage
	logger  *zap.Logger
}

func NewEstablishmentService(repo repository.EstablishmentRepository, access *accessChecker, fileStorage storage.FileStorage, logger *zap.Logger) *EstablishmentServiceImpl {
	return &EstablishmentServiceImpl{
		repo:    repo,
		access:  access,
		storage: fileStorage,
		logger:  logger,
	}
}

func (s *EstablishmentServiceImpl) Create(ctx context.Context, p domain.Principal, dto domain.CreateEstablishmentDTO) (*domain.Establishment, error) {
	name := validator.SanitizeString(dto.Name)
	if name == "" {
		return nil, validationError("название заведения не может быть пустым")
	}
	phone := validator.FormatPhone(dto.Phone)
	if phone != "" && !validator.ValidatePhone(phone) {
		return nil, validationError("неверный формат телефона")
	}

	now := time.Now().UTC()
	e := domain.Establishment{
		ID:        uuid.New(),
		OwnerID:   p.UserID,
		Name:      name,
		Phone:     phone,
		Address:   validator.SanitizeString(dto.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("ошибка создания заведения", zap.Error(err))
		return nil, err
	}

	s.logger.Info("создано заведение",
		zap.String("establishment_id", e.ID.String()),
		zap.String("owner_id", p.UserID.String()))
	return &e, nil
}

func (s *EstablishmentServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Establishment, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения заведения", zap.Error(err))
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (s *EstablishmentServiceImpl) Authorize(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Establishment, error) {
	return s.access.establishment(ctx, p, id)
}

func (s *EstablishmentServiceImpl) Update(ctx context.Context, p domain.Principal, id uuid.UUID, dto domain.UpdateEstablishmentDTO) (*domain.Establishment, error) {
	e, err := s.access.establishment(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := validator.SanitizeString(*dto.Name)
		if name == "" {
			return nil, validationError("название заведения не может быть пустым")
		}
		e.Name = name
	}
	if dto.Phone != nil {
		phone := validator.FormatPhone(*dto.Phone)
		if phone != "" && !validator.ValidatePhone(phone) {
			return nil, validationError("неверный формат телефона")
		}
		e.Phone = phone
	}
	if dto.Address != nil {
		e.Address = validator.SanitizeString(*dto.Address)
	}
	e.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *e); err != nil {
		s.logger.Error("ошибка обновления заведения", zap.Error(err))
		return nil, err
	}

	return e, nil
}

func (s *EstablishmentServiceImpl) ListMine(ctx context.Context, p domain.Principal) ([]domain.Establishment, error) {
	establishments, err := s.repo.ListByOwner(ctx, p.UserID)
	if err != nil {
		s.logger.Error("ошибка получения списка заведений", zap.Error(err))
		return nil, err
	}
	return establishments, nil
}

func (s *EstablishmentServiceImpl) UploadLogo(ctx context.Context, p domain.Principal, id uuid.UUID, data []byte, filename string) (*domain.Establishment, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	e, err := s.access.establishment(ctx, p, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.UploadFile(ctx, fmt.Sprintf("establishments/%s", id), data, filename)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFile) {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		s.logger.Error("ошибка загрузки логотипа", zap.Error(err))
		return nil, err
	}

	if err := s.repo.UpdateLogo(ctx, id, &url); err != nil {
		s.logger.Error("ошибка сохранения логотипа", zap.Error(err))
		if delErr := s.storage.DeleteFile(ctx, url); delErr != nil {
			s.logger.Warn("не удалось удалить загруженный файл", zap.String("url", url), zap.Error(delErr))
		}
		return nil, err
	}

	if e.LogoURL != nil {
		if err := s.storage.DeleteFile(ctx, *e.LogoURL); err != nil {
			s.logger.Warn("не удалось удалить старый логотип", zap.String("url", *e.LogoURL), zap.Error(err))
		}
	}

	e.LogoURL = &url
	return e, nil
}

func (s *EstablishmentServiceImpl) GetLogoURL(ctx context.Context, id uuid.UUID) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}

	e, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if e.LogoURL == nil {
		return "", fmt.Errorf("%w: у заведения нет логотипа", domain.ErrNotFound)
	}

	url, err := s.storage.GetPresignedURL(ctx, *e.LogoURL, logoURLExpiry)
	if err != nil {
		s.logger.Error("ошибка получения ссылки на логотип", zap.Error(err))
		return "", err
	}
	return url, nil
}
