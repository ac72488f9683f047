package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/pkg/validator"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// @Summary Записаться на услугу
// @Description Создает запись клиента к сотруднику. Время должно совпадать с одним из слотов, которые возвращает /availability
// @Tags Записи
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Данные записи"
// @Success 201 {object} domain.Appointment "Созданная запись"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Услуга или сотрудник не найдены"
// @Failure 409 {object} errorResponseBody "Выбранное время недоступно"
// @Failure 429 {object} errorResponseBody "Слишком много запросов"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	var req domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	appointment, err := h.services.Appointment.Create(c.Request.Context(), req)
	if err != nil {
		serviceErrorResponse(c, err, "услуга или сотрудник не найдены")
		return
	}

	createdResponse(c, appointment)
}

// @Summary Получить запись по ID
// @Tags Записи
// @Produce json
// @Param id path string true "ID записи"
// @Success 200 {object} domain.Appointment "Данные записи"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), p, id)
	if err != nil {
		serviceErrorResponse(c, err, "запись не найдена")
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Список записей заведения
// @Description Возвращает записи заведения с фильтрацией и пагинацией; from и to включительно
// @Tags Записи
// @Produce json
// @Param establishment_id query string true "ID заведения"
// @Param employee_id query string false "ID сотрудника"
// @Param status query string false "Статус (scheduled, completed, canceled)"
// @Param from query string false "С даты (YYYY-MM-DD)"
// @Param to query string false "По дату (YYYY-MM-DD)"
// @Param limit query int false "Размер страницы" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} paginatedResponse "Список записей"
// @Failure 400 {object} errorResponseBody "Неверные параметры запроса"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Заведение не найдено"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	filter, ok := h.parseAppointmentFilter(c)
	if !ok {
		return
	}

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), p, filter)
	if err != nil {
		serviceErrorResponse(c, err, "заведение не найдено")
		return
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}

	page := filter.Offset/filter.Limit + 1
	paginatedSuccessResponse(c, appointments, total, page, filter.Limit)
}

func (h *Handler) parseAppointmentFilter(c *gin.Context) (domain.AppointmentFilter, bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	filter := domain.AppointmentFilter{
		Limit:  limit,
		Offset: offset,
	}

	establishmentID, err := uuid.Parse(c.Query("establishment_id"))
	if err != nil {
		badRequestResponse(c, "параметр establishment_id обязателен")
		return filter, false
	}
	filter.EstablishmentID = establishmentID

	if employeeIDStr := c.Query("employee_id"); employeeIDStr != "" {
		employeeID, err := uuid.Parse(employeeIDStr)
		if err != nil {
			badRequestResponse(c, "неверный формат employee_id")
			return filter, false
		}
		filter.EmployeeID = &employeeID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.AppointmentStatus(statusStr)
		filter.Status = &status
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(validator.DateLayout, fromStr)
		if err != nil {
			badRequestResponse(c, "неверный формат from, ожидается YYYY-MM-DD")
			return filter, false
		}
		filter.From = &from
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(validator.DateLayout, toStr)
		if err != nil {
			badRequestResponse(c, "неверный формат to, ожидается YYYY-MM-DD")
			return filter, false
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}

	return filter, true
}

// @Summary Изменить статус записи
// @Description Запись можно завершить (completed) или отменить (canceled), только пока она запланирована
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path string true "ID записи"
// @Param input body domain.UpdateAppointmentStatusDTO true "Новый статус"
// @Success 200 {object} domain.Appointment "Обновленная запись"
// @Failure 400 {object} errorResponseBody "Недопустимый переход статуса"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointments/{id}/status [patch]
func (h *Handler) updateAppointmentStatus(c *gin.Context) {
	p, err := getPrincipal(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateAppointmentStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "статус должен быть completed или canceled")
		return
	}

	var appointment *domain.Appointment
	switch req.Status {
	case domain.AppointmentStatusCompleted:
		appointment, err = h.services.Appointment.Complete(c.Request.Context(), p, id)
	case domain.AppointmentStatusCanceled:
		appointment, err = h.services.Appointment.Cancel(c.Request.Context(), p, id)
	default:
		badRequestResponse(c, "статус должен быть completed или canceled")
		return
	}
	if err != nil {
		serviceErrorResponse(c, err, "запись не найдена")
		return
	}

	successResponse(c, http.StatusOK, appointment)
}
