package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/auth"
)

const refreshTokenBytes = 32

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID       `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

type AuthServiceImpl struct {
	authRepo  repository.AuthRepository
	userRepo  repository.UserRepository
	jwtConfig config.JWTConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(authRepo repository.AuthRepository, userRepo repository.UserRepository, jwtConfig config.JWTConfig, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		authRepo:  authRepo,
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, dto domain.RegisterRequest) (uuid.UUID, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("ошибка при проверке email", zap.Error(err))
		return uuid.Nil, err
	}
	if existingUser != nil {
		return uuid.Nil, validationError("пользователь с таким email уже существует")
	}

	hashedPassword, err := auth.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("ошибка при хешировании пароля", zap.Error(err))
		return uuid.Nil, errors.New("ошибка при регистрации пользователя")
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(dto.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.UserRoleOwner,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("ошибка при создании пользователя", zap.Error(err))
		return uuid.Nil, err
	}

	s.logger.Info("зарегистрирован пользователь", zap.String("user_id", user.ID.String()))
	return user.ID, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: неверный логин или пароль", domain.ErrUnauthorized)
	}

	if err := auth.VerifyPassword(dto.Password, user.PasswordHash); err != nil {
		s.logger.Warn("неверный пароль", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("%w: неверный логин или пароль", domain.ErrUnauthorized)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: аккаунт деактивирован", domain.ErrForbidden)
	}

	return s.startSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error) {
	session, err := s.authRepo.ConsumeSession(ctx, refreshToken)
	if err != nil {
		s.logger.Error("ошибка получения сессии", zap.Error(err))
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: недействительный refresh token", domain.ErrUnauthorized)
	}

	if session.ExpiresAt.Before(s.now()) {
		return nil, fmt.Errorf("%w: refresh token истек", domain.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.String("user_id", session.UserID.String()), zap.Error(err))
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("%w: аккаунт недоступен", domain.ErrUnauthorized)
	}

	return s.startSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.authRepo.ConsumeSession(ctx, refreshToken)
	if err != nil {
		s.logger.Error("ошибка удаления сессии", zap.Error(err))
		return errors.New("ошибка при выходе")
	}
	if session == nil {
		s.logger.Debug("сессия не найдена при выходе")
	}
	return nil
}

// LogoutAll ends every session of the caller, e.g. after a leaked token.
func (s *AuthServiceImpl) LogoutAll(ctx context.Context, p domain.Principal) (int64, error) {
	n, err := s.authRepo.DeleteSessionsByUserID(ctx, p.UserID)
	if err != nil {
		s.logger.Error("ошибка завершения сессий", zap.String("user_id", p.UserID.String()), zap.Error(err))
		return 0, errors.New("ошибка при выходе")
	}
	s.logger.Info("завершены все сессии пользователя", zap.String("user_id", p.UserID.String()), zap.Int64("sessions", n))
	return n, nil
}

func (s *AuthServiceImpl) ParseToken(_ context.Context, tokenString string) (domain.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SigningKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return domain.Principal{}, fmt.Errorf("%w: недействительный токен", domain.ErrUnauthorized)
	}

	return domain.Principal{UserID: claims.UserID, Role: claims.Role}, nil
}

func (s *AuthServiceImpl) startSession(ctx context.Context, user *domain.User, userAgent, ip string) (*domain.Tokens, error) {
	tokens, err := s.generateTokens(user.ID, user.Role)
	if err != nil {
		s.logger.Error("ошибка генерации токенов", zap.Error(err))
		return nil, errors.New("ошибка при аутентификации")
	}

	now := s.now().UTC()
	session := domain.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: tokens.RefreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    now.Add(s.jwtConfig.RefreshTokenTTL),
		CreatedAt:    now,
	}

	if err := s.authRepo.CreateSession(ctx, session); err != nil {
		s.logger.Error("ошибка сохранения сессии", zap.Error(err))
		return nil, errors.New("ошибка при аутентификации")
	}

	return tokens, nil
}

// generateTokens signs a short-lived access JWT and pairs it with an
// opaque refresh token that is only valid while its session row exists.
func (s *AuthServiceImpl) generateTokens(userID uuid.UUID, role domain.UserRole) (*domain.Tokens, error) {
	now := s.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Role:   role,
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи access token: %w", err)
	}

	refreshToken, err := auth.GenerateRandomToken(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации refresh token: %w", err)
	}

	return &domain.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
