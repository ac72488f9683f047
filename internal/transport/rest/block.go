package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Блокировки сотрудника
// @Description Возвращает разовые блокировки, которые еще не закончились
// @Tags Блокировки
// @Produce json
// @Param id path string true "ID сотрудника"
// @Success 200 {array} domain.Block "Список блокировок"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Сотрудник не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /employees/{id}/blocks [get]
func (h *Handler) getBlocks(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	blocks, err := h.services.Block.List(c.Request.Context(), p, id)
	if err != nil {
		serviceErrorResponse(c, err, "сотрудник не найден")
		return
	}
	if blocks == nil {
		blocks = []domain.Block{}
	}

	successResponse(c, http.StatusOK, blocks)
}

// @Summary Заблокировать время сотрудника
// @Description Создает разовую блокировку, в том числе на несколько дней
// @Tags Блокировки
// @Accept json
// @Produce json
// @Param id path string true "ID сотрудника"
// @Param input body domain.CreateBlockDTO true "Период блокировки"
// @Success 201 {object} domain.Block "Созданная блокировка"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Сотрудник не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /employees/{id}/blocks [post]
func (h *Handler) createBlock(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.CreateBlockDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	block, err := h.services.Block.Create(c.Request.Context(), p, id, req)
	if err != nil {
		serviceErrorResponse(c, err, "сотрудник не найден")
		return
	}

	createdResponse(c, block)
}

// @Summary Удалить блокировку
// @Tags Блокировки
// @Param id path string true "ID блокировки"
// @Success 204 "Блокировка удалена"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Блокировка не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /blocks/{id} [delete]
func (h *Handler) deleteBlock(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Block.Delete(c.Request.Context(), p, id); err != nil {
		serviceErrorResponse(c, err, "блокировка не найдена")
		return
	}

	noContentResponse(c)
}

// @Summary Еженедельные блокировки сотрудника
// @Tags Блокировки
// @Produce json
// @Param id path string true "ID сотрудника"
// @Success 200 {array} domain.RecurringBlock "Список еженедельных блокировок"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Сотрудник не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /employees/{id}/recurring-blocks [get]
func (h *Handler) getRecurringBlocks(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	blocks, err := h.services.RecurringBlock.List(c.Request.Context(), p, id)
	if err != nil {
		serviceErrorResponse(c, err, "сотрудник не найден")
		return
	}
	if blocks == nil {
		blocks = []domain.RecurringBlock{}
	}

	successResponse(c, http.StatusOK, blocks)
}

// @Summary Создать еженедельную блокировку
// @Description Блокирует интервал времени в указанный день каждой недели (0 - воскресенье)
// @Tags Блокировки
// @Accept json
// @Produce json
// @Param id path string true "ID сотрудника"
// @Param input body domain.CreateRecurringBlockDTO true "День недели и интервал"
// @Success 201 {object} domain.RecurringBlock "Созданная блокировка"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Сотрудник не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /employees/{id}/recurring-blocks [post]
func (h *Handler) createRecurringBlock(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.CreateRecurringBlockDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	block, err := h.services.RecurringBlock.Create(c.Request.Context(), p, id, req)
	if err != nil {
		serviceErrorResponse(c, err, "сотрудник не найден")
		return
	}

	createdResponse(c, block)
}

// @Summary Удалить еженедельную блокировку
// @Tags Блокировки
// @Param id path string true "ID блокировки"
// @Success 204 "Блокировка удалена"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Блокировка не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /recurring-blocks/{id} [delete]
func (h *Handler) deleteRecurringBlock(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.RecurringBlock.Delete(c.Request.Context(), p, id); err != nil {
		serviceErrorResponse(c, err, "блокировка не найдена")
		return
	}

	noContentResponse(c)
}
