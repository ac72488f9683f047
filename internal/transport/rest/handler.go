package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/service"
	"agenda/internal/transport/websocket"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
	hub      *websocket.Hub
	limiter  RateLimiter
}

// NewHandler wires the HTTP API. hub and limiter may be nil: the live
// feed is then not served and requests are not rate limited.
func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config, hub *websocket.Hub, limiter RateLimiter) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
		hub:      hub,
		limiter:  limiter,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.config.Version})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/availability", h.rateLimitMiddleware("availability"), h.getAvailability)

		auth := api.Group("/auth")
		auth.Use(h.rateLimitMiddleware("auth"))
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
			auth.POST("/logout-all", h.authMiddleware(), h.logoutAll)
		}

		establishments := api.Group("/establishments")
		{
			establishments.GET("/:id", h.getEstablishmentByID)
			establishments.GET("/:id/logo", h.getEstablishmentLogo)
			establishments.GET("/:id/working-hours", h.getWorkingHours)
			establishments.GET("/:id/services", h.getServices)
			establishments.GET("/:id/employees", h.getEmployees)

			owner := establishments.Group("", h.authMiddleware())
			{
				owner.POST("", h.createEstablishment)
				owner.GET("/mine", h.getMyEstablishments)
				owner.PUT("/:id", h.updateEstablishment)
				owner.POST("/:id/logo", h.uploadEstablishmentLogo)
				owner.PUT("/:id/working-hours/:weekday", h.upsertWorkingHours)
				owner.DELETE("/:id/working-hours/:weekday", h.deleteWorkingHours)
				owner.POST("/:id/services", h.createService)
				owner.POST("/:id/employees", h.createEmployee)
			}
		}

		services := api.Group("/services")
		{
			services.GET("/:id", h.getServiceByID)
			services.PUT("/:id", h.authMiddleware(), h.updateService)
			services.DELETE("/:id", h.authMiddleware(), h.deactivateService)
		}

		employees := api.Group("/employees")
		{
			employees.GET("/:id", h.getEmployeeByID)

			owner := employees.Group("", h.authMiddleware())
			{
				owner.PUT("/:id", h.updateEmployee)
				owner.DELETE("/:id", h.deleteEmployee)
				owner.GET("/:id/blocks", h.getBlocks)
				owner.POST("/:id/blocks", h.createBlock)
				owner.GET("/:id/recurring-blocks", h.getRecurringBlocks)
				owner.POST("/:id/recurring-blocks", h.createRecurringBlock)
			}
		}

		api.DELETE("/blocks/:id", h.authMiddleware(), h.deleteBlock)
		api.DELETE("/recurring-blocks/:id", h.authMiddleware(), h.deleteRecurringBlock)

		appointments := api.Group("/appointments")
		{
			appointments.POST("", h.rateLimitMiddleware("booking"), h.createAppointment)

			owner := appointments.Group("", h.authMiddleware())
			{
				owner.GET("", h.getAppointments)
				owner.GET("/:id", h.getAppointmentByID)
				owner.PATCH("/:id/status", h.updateAppointmentStatus)
			}
		}

		if h.hub != nil {
			api.GET("/ws/establishments/:id", h.hub.HandleWebSocket)

			admin := api.Group("/admin", h.authMiddleware(), h.adminMiddleware())
			{
				admin.GET("/ws/stats", h.getLiveFeedStats)
			}
		}
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return uuid.Nil, false
	}
	return id, true
}

func parseWeekdayParam(c *gin.Context) (int, bool) {
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		badRequestResponse(c, "день недели должен быть числом от 0 до 6")
		return 0, false
	}
	return weekday, true
}

// @Summary Статистика живых подписок
// @Description Возвращает число открытых websocket соединений
// @Tags Администрирование
// @Produce json
// @Success 200 {object} websocket.Stats "Статистика"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Security ApiKeyAuth
// @Router /admin/ws/stats [get]
func (h *Handler) getLiveFeedStats(c *gin.Context) {
	successResponse(c, http.StatusOK, h.hub.Stats())
}
