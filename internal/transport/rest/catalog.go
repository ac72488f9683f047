package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Услуги заведения
// @Description Возвращает услуги заведения; отключенные услуги только при include_inactive=true
// @Tags Услуги
// @Produce json
// @Param id path string true "ID заведения"
// @Param include_inactive query bool false "Включить отключенные услуги"
// @Success 200 {array} domain.Service "Список услуг"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /establishments/{id}/services [get]
func (h *Handler) getServices(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	onlyActive := c.Query("include_inactive") != "true"
	services, err := h.services.Catalog.List(c.Request.Context(), id, onlyActive)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}
	if services == nil {
		services = []domain.Service{}
	}

	successResponse(c, http.StatusOK, services)
}

// @Summary Создать услугу
// @Description Продолжительность услуги от 5 до 480 минут
// @Tags Услуги
// @Accept json
// @Produce json
// @Param id path string true "ID заведения"
// @Param input body domain.CreateServiceDTO true "Данные услуги"
// @Success 201 {object} domain.Service "Созданная услуга"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Заведение не найдено"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /establishments/{id}/services [post]
func (h *Handler) createService(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.CreateServiceDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	svc, err := h.services.Catalog.Create(c.Request.Context(), p, id, req)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}

	createdResponse(c, svc)
}

// @Summary Получить услугу по ID
// @Tags Услуги
// @Produce json
// @Param id path string true "ID услуги"
// @Success 200 {object} domain.Service "Данные услуги"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /services/{id} [get]
func (h *Handler) getServiceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.services.Catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err, "услуга не найдена")
		return
	}

	successResponse(c, http.StatusOK, svc)
}

// @Summary Обновить услугу
// @Tags Услуги
// @Accept json
// @Produce json
// @Param id path string true "ID услуги"
// @Param input body domain.UpdateServiceDTO true "Изменяемые поля"
// @Success 200 {object} domain.Service "Обновленная услуга"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /services/{id} [put]
func (h *Handler) updateService(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateServiceDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	svc, err := h.services.Catalog.Update(c.Request.Context(), p, id, req)
	if err != nil {
		serviceErrorResponse(c, err, "услуга не найдена")
		return
	}

	successResponse(c, http.StatusOK, svc)
}

// @Summary Отключить услугу
// @Description Услуга перестает предлагаться, существующие записи сохраняются
// @Tags Услуги
// @Param id path string true "ID услуги"
// @Success 204 "Услуга отключена"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /services/{id} [delete]
func (h *Handler) deactivateService(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Catalog.Deactivate(c.Request.Context(), p, id); err != nil {
		serviceErrorResponse(c, err, "услуга не найдена")
		return
	}

	noContentResponse(c)
}
