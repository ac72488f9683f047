package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Регистрация владельца
// @Description Создает учетную запись владельца заведения
// @Tags Аутентификация
// @Accept json
// @Produce json
// @Param input body domain.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} map[string]interface{} "ID созданного пользователя"
// @Failure 400 {object} errorResponseBody "Ошибка валидации или email уже занят"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Auth.Register(c.Request.Context(), req)
	if err != nil {
		serviceErrorResponse(c, err, "пользователь не найден")
		return
	}

	createdResponse(c, gin.H{"id": id})
}

// @Summary Вход в систему
// @Description Возвращает пару access/refresh токенов
// @Tags Аутентификация
// @Accept json
// @Produce json
// @Param input body domain.LoginRequest true "Учетные данные"
// @Success 200 {object} domain.Tokens "Токены"
// @Failure 400 {object} errorResponseBody "Неверный формат данных"
// @Failure 401 {object} errorResponseBody "Неверный email или пароль"
// @Failure 403 {object} errorResponseBody "Учетная запись отключена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	tokens, err := h.services.Auth.Login(c.Request.Context(), req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		serviceErrorResponse(c, err, "пользователь не найден")
		return
	}

	successResponse(c, http.StatusOK, tokens)
}

// @Summary Обновление токенов
// @Description Выдает новую пару токенов по refresh токену; старый refresh токен становится недействительным
// @Tags Аутентификация
// @Accept json
// @Produce json
// @Param input body domain.RefreshTokenRequest true "Refresh токен"
// @Success 200 {object} domain.Tokens "Токены"
// @Failure 400 {object} errorResponseBody "Неверный формат данных"
// @Failure 401 {object} errorResponseBody "Недействительный refresh токен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /auth/refresh [post]
func (h *Handler) refreshTokens(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	tokens, err := h.services.Auth.RefreshTokens(c.Request.Context(), req.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		serviceErrorResponse(c, err, "сессия не найдена")
		return
	}

	successResponse(c, http.StatusOK, tokens)
}

// @Summary Выход из системы
// @Description Завершает сессию, связанную с refresh токеном
// @Tags Аутентификация
// @Accept json
// @Produce json
// @Param input body domain.RefreshTokenRequest true "Refresh токен"
// @Success 200 {object} messageResponseType "Сессия завершена"
// @Failure 400 {object} errorResponseBody "Неверный формат данных"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		serviceErrorResponse(c, err, "сессия не найдена")
		return
	}

	messageResponse(c, http.StatusOK, "выход выполнен успешно")
}

// @Summary Выход на всех устройствах
// @Description Завершает все сессии текущего пользователя
// @Tags Аутентификация
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{} "Количество завершенных сессий"
// @Failure 401 {object} errorResponseBody "Пользователь не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /auth/logout-all [post]
func (h *Handler) logoutAll(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	n, err := h.services.Auth.LogoutAll(c.Request.Context(), p)
	if err != nil {
		serviceErrorResponse(c, err, "сессии не найдены")
		return
	}

	successResponse(c, http.StatusOK, gin.H{"sessions": n})
}
