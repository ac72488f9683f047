package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

const (
	authorizationHeader = "Authorization"
	principalCtx        = "principal"
)

func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := h.logger.With(
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		)

		if status >= 500 {
			logger.Error("server error")
		} else if status >= 400 {
			logger.Warn("client error")
		} else {
			logger.Info("request processed")
		}
	}
}

func (h *Handler) errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			h.logger.Error("request error", zap.Error(err))
		}
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Authorization", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:   []string{"Content-Length", "Retry-After"},
		AllowWebSockets: true,
		MaxAge:          24 * time.Hour,
	})
}

func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeader)
		if header == "" {
			errorResponse(c, http.StatusUnauthorized, "пустой заголовок авторизации")
			return
		}

		headerParts := strings.Split(header, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" || headerParts[1] == "" {
			errorResponse(c, http.StatusUnauthorized, "неверный формат заголовка авторизации")
			return
		}

		principal, err := h.services.Auth.ParseToken(c.Request.Context(), headerParts[1])
		if err != nil {
			h.logger.Debug("токен отклонен", zap.Error(err))
			errorResponse(c, http.StatusUnauthorized, "недействительный токен")
			return
		}

		c.Set(principalCtx, principal)
		c.Next()
	}
}

func (h *Handler) adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := getPrincipal(c)
		if err != nil {
			errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
			return
		}

		if !p.IsAdmin() {
			forbiddenResponse(c)
			return
		}

		c.Next()
	}
}

// rateLimitMiddleware limits requests per client IP. When the limiter
// backend fails, the request passes if failOpen is set and gets 503
// otherwise.
func (h *Handler) rateLimitMiddleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.limiter == nil {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		allowed, err := h.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			h.logger.Warn("ошибка ограничителя запросов", zap.String("key", key), zap.Error(err))
			if h.config.RateLimit.FailOpen {
				c.Next()
				return
			}
			errorResponse(c, http.StatusServiceUnavailable, "сервис временно недоступен")
			return
		}

		if !allowed {
			h.logger.Warn("превышен лимит запросов", zap.String("key", key))
			c.Header("Retry-After", retryAfterSeconds(h.config.RateLimit.Window))
			errorResponse(c, http.StatusTooManyRequests, "слишком много запросов, попробуйте позже")
			return
		}

		c.Next()
	}
}

func getPrincipal(c *gin.Context) (domain.Principal, error) {
	value, exists := c.Get(principalCtx)
	if !exists {
		return domain.Principal{}, errors.New("пользователь не авторизован")
	}

	p, ok := value.(domain.Principal)
	if !ok {
		return domain.Principal{}, errors.New("некорректные данные пользователя")
	}

	return p, nil
}
