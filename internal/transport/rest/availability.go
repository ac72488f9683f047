package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Свободное время сотрудника
// @Description Возвращает моменты начала, на которые можно записаться к сотруднику на услугу в указанный день (UTC, RFC3339)
// @Tags Доступность
// @Produce json
// @Param date query string true "Дата в формате YYYY-MM-DD"
// @Param employeeId query string true "ID сотрудника"
// @Param serviceId query string true "ID услуги"
// @Param establishmentId query string true "ID заведения"
// @Success 200 {object} domain.AvailabilityResponse "Свободные слоты"
// @Failure 400 {object} errorResponseBody "Неверные параметры запроса"
// @Failure 429 {object} errorResponseBody "Слишком много запросов"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /availability [get]
func (h *Handler) getAvailability(c *gin.Context) {
	var req domain.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("неверные параметры запроса", zap.Error(err))
		badRequestResponse(c, "параметры date, employeeId, serviceId и establishmentId обязательны")
		return
	}

	slots, err := h.services.Availability.GetAvailability(c.Request.Context(), req)
	if err != nil {
		serviceErrorResponse(c, err, "не найдено")
		return
	}

	if slots == nil {
		slots = []time.Time{}
	}
	c.JSON(http.StatusOK, domain.AvailabilityResponse{Items: slots})
}
