package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Сотрудники заведения
// @Tags Сотрудники
// @Produce json
// @Param id path string true "ID заведения"
// @Success 200 {array} domain.Employee "Список сотрудников"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /establishments/{id}/employees [get]
func (h *Handler) getEmployees(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	employees, err := h.services.Employee.List(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}
	if employees == nil {
		employees = []domain.Employee{}
	}

	successResponse(c, http.StatusOK, employees)
}

// @Summary Добавить сотрудника
// @Tags Сотрудники
// @Accept json
// @Produce json
// @Param id path string true "ID заведения"
// @Param input body domain.CreateEmployeeDTO true "Данные сотрудника"
// @Success 201 {object} domain.Employee "Созданный сотрудник"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Заведение не найдено"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /establishments/{id}/employees [post]
func (h *Handler) createEmployee(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.CreateEmployeeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	emp, err := h.services.Employee.Create(c.Request.Context(), p, id, req)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}

	createdResponse(c, emp)
}

// @Summary Получить сотрудника по ID
// @Tags Сотрудники
// @Produce json
// @Param id path string true "ID сотрудника"
// @Success 200 {object} domain.Employee "Данные сотрудника"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Сотрудник не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /employees/{id} [get]
func (h *Handler) getEmployeeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	emp, err := h.services.Employee.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err, "сотрудник не найден")
		return
	}

	successResponse(c, http.StatusOK, emp)
}

// @Summary Обновить сотрудника
// @Tags Сотрудники
// @Accept json
// @Produce json
// @Param id path string true "ID сотрудника"
// @Param input body domain.UpdateEmployeeDTO true "Изменяемые поля"
// @Success 200 {object} domain.Employee "Обновленный сотрудник"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Сотрудник не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /employees/{id} [put]
func (h *Handler) updateEmployee(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateEmployeeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	emp, err := h.services.Employee.Update(c.Request.Context(), p, id, req)
	if err != nil {
		serviceErrorResponse(c, err, "сотрудник не найден")
		return
	}

	successResponse(c, http.StatusOK, emp)
}

// @Summary Удалить сотрудника
// @Tags Сотрудники
// @Param id path string true "ID сотрудника"
// @Success 204 "Сотрудник удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Сотрудник не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /employees/{id} [delete]
func (h *Handler) deleteEmployee(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Employee.Delete(c.Request.Context(), p, id); err != nil {
		serviceErrorResponse(c, err, "сотрудник не найден")
		return
	}

	noContentResponse(c)
}
