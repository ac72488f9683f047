package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Часы работы заведения
// @Description Возвращает часы работы по дням недели (0 - воскресенье)
// @Tags Часы работы
// @Produce json
// @Param id path string true "ID заведения"
// @Success 200 {array} domain.WorkingHours "Часы работы"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /establishments/{id}/working-hours [get]
func (h *Handler) getWorkingHours(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	hours, err := h.services.WorkingHours.List(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}
	if hours == nil {
		hours = []domain.WorkingHours{}
	}

	successResponse(c, http.StatusOK, hours)
}

// @Summary Задать часы работы на день недели
// @Description Создает или заменяет часы работы и перерыв на указанный день недели
// @Tags Часы работы
// @Accept json
// @Produce json
// @Param id path string true "ID заведения"
// @Param weekday path int true "День недели (0 - воскресенье)"
// @Param input body domain.UpsertWorkingHoursDTO true "Часы работы"
// @Success 200 {object} domain.WorkingHours "Сохраненные часы работы"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Заведение не найдено"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /establishments/{id}/working-hours/{weekday} [put]
func (h *Handler) upsertWorkingHours(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	weekday, ok := parseWeekdayParam(c)
	if !ok {
		return
	}

	var req domain.UpsertWorkingHoursDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	hours, err := h.services.WorkingHours.Upsert(c.Request.Context(), p, id, weekday, req)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}

	successResponse(c, http.StatusOK, hours)
}

// @Summary Сделать день выходным
// @Description Удаляет часы работы на указанный день недели
// @Tags Часы работы
// @Param id path string true "ID заведения"
// @Param weekday path int true "День недели (0 - воскресенье)"
// @Success 204 "Часы работы удалены"
// @Failure 400 {object} errorResponseBody "Неверный формат параметров"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Часы работы не найдены"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /establishments/{id}/working-hours/{weekday} [delete]
func (h *Handler) deleteWorkingHours(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	weekday, ok := parseWeekdayParam(c)
	if !ok {
		return
	}

	if err := h.services.WorkingHours.Delete(c.Request.Context(), p, id, weekday); err != nil {
		serviceErrorResponse(c, err, "часы работы не найдены")
		return
	}

	noContentResponse(c)
}
