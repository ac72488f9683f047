package rest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

const maxLogoBytes = 5 << 20

// @Summary Создать заведение
// @Description Создает заведение, владельцем которого становится текущий пользователь
// @Tags Заведения
// @Accept json
// @Produce json
// @Param input body domain.CreateEstablishmentDTO true "Данные заведения"
// @Success 201 {object} domain.Establishment "Созданное заведение"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /establishments [post]
func (h *Handler) createEstablishment(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var req domain.CreateEstablishmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	establishment, err := h.services.Establishment.Create(c.Request.Context(), p, req)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}

	createdResponse(c, establishment)
}

// @Summary Получить заведение по ID
// @Tags Заведения
// @Produce json
// @Param id path string true "ID заведения"
// @Success 200 {object} domain.Establishment "Данные заведения"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Заведение не найдено"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /establishments/{id} [get]
func (h *Handler) getEstablishmentByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	establishment, err := h.services.Establishment.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}

	successResponse(c, http.StatusOK, establishment)
}

// @Summary Мои заведения
// @Description Возвращает заведения текущего пользователя
// @Tags Заведения
// @Produce json
// @Success 200 {array} domain.Establishment "Список заведений"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /establishments/mine [get]
func (h *Handler) getMyEstablishments(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	establishments, err := h.services.Establishment.ListMine(c.Request.Context(), p)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}
	if establishments == nil {
		establishments = []domain.Establishment{}
	}

	successResponse(c, http.StatusOK, establishments)
}

// @Summary Обновить заведение
// @Tags Заведения
// @Accept json
// @Produce json
// @Param id path string true "ID заведения"
// @Param input body domain.UpdateEstablishmentDTO true "Изменяемые поля"
// @Success 200 {object} domain.Establishment "Обновленное заведение"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Заведение не найдено"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /establishments/{id} [put]
func (h *Handler) updateEstablishment(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateEstablishmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	establishment, err := h.services.Establishment.Update(c.Request.Context(), p, id, req)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}

	successResponse(c, http.StatusOK, establishment)
}

// @Summary Загрузить логотип
// @Description Загружает изображение (до 5 МБ) и заменяет текущий логотип
// @Tags Заведения
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID заведения"
// @Param logo formData file true "Изображение"
// @Success 200 {object} domain.Establishment "Заведение с новым логотипом"
// @Failure 400 {object} errorResponseBody "Файл не является изображением или слишком большой"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Заведение не найдено"
// @Failure 503 {object} errorResponseBody "Файловое хранилище не настроено"
// @Security ApiKeyAuth
// @Router /establishments/{id}/logo [post]
func (h *Handler) uploadEstablishmentLogo(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		badRequestResponse(c, "файл logo обязателен")
		return
	}
	if fileHeader.Size > maxLogoBytes {
		badRequestResponse(c, "размер файла превышает 5 МБ")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("ошибка открытия загруженного файла", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
	if err != nil {
		h.logger.Error("ошибка чтения загруженного файла", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	establishment, err := h.services.Establishment.UploadLogo(c.Request.Context(), p, id, data, fileHeader.Filename)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}

	successResponse(c, http.StatusOK, establishment)
}

// @Summary Логотип заведения
// @Description Перенаправляет на временную ссылку на логотип
// @Tags Заведения
// @Param id path string true "ID заведения"
// @Success 307 "Перенаправление на файл"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Логотип не найден"
// @Failure 503 {object} errorResponseBody "Файловое хранилище не настроено"
// @Router /establishments/{id}/logo [get]
func (h *Handler) getEstablishmentLogo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	url, err := h.services.Establishment.GetLogoURL(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err, "логотип не найден")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}
