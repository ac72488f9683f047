package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/docs"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/internal/service"
	"agenda/internal/storage"
	"agenda/internal/transport/rest"
	"agenda/internal/transport/websocket"
	"agenda/pkg/database"
	"agenda/pkg/logger"
	"agenda/pkg/tracing"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Agenda API
// @version 1.0
// @description API для онлайн-записи в заведения: расписание, сотрудники, услуги и свободное время

// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(logger.Options{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Service:     cfg.Name,
		Version:     cfg.Version,
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, cfg.Name, cfg.Version)
	if err != nil {
		log.Fatal("Не удалось настроить трассировку", zap.Error(err))
	}

	db, err := database.NewPostgresDB(ctx, cfg.Postgres, log)
	if err != nil {
		log.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer db.Close()

	log.Info("Запуск миграций базы данных")
	if err := database.RunMigrations(ctx, db, cfg.Postgres.MigrationsDir, log); err != nil {
		log.Fatal("Ошибка при выполнении миграций", zap.Error(err))
	}
	log.Info("Миграции успешно выполнены")

	var fileStorage storage.FileStorage
	if cfg.S3.Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			log.Fatal("Не удалось инициализировать S3 хранилище", zap.Error(err))
		}
		fileStorage = s3Storage
		log.Info("S3 хранилище успешно инициализировано", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		log.Warn("S3 хранилище не настроено, загрузка логотипов недоступна")
	}

	limiter, closeLimiter := newRateLimiter(ctx, cfg, log)
	defer closeLimiter()

	repos := repository.NewRepositories(db)

	var hub *websocket.Hub
	services := service.NewServices(service.Deps{
		Repos:       repos,
		Logger:      log,
		Config:      cfg,
		FileStorage: fileStorage,
		Notifier: service.NotifierFunc(func(event domain.AvailabilityChanged) {
			hub.Publish(event)
		}),
	})

	hub = websocket.NewHub(services.Auth, services.Establishment, log)
	go hub.Run(ctx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	rest.NewHandler(services, log, cfg, hub, limiter).InitRoutes(router)

	docs.SwaggerInfo.Version = cfg.Version
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        otelhttp.NewHandler(router, cfg.Name),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	log.Info("Сервер запущен", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))

	<-ctx.Done()
	log.Info("Выключение сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Ошибка при остановке сервера", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Ошибка при остановке трассировки", zap.Error(err))
	}

	log.Info("Сервер успешно остановлен")
}

// newRateLimiter picks the shared Redis limiter when REDIS_ADDR is set and
// reachable, the in-process one otherwise.
func newRateLimiter(ctx context.Context, cfg *config.Config, log *zap.Logger) (rest.RateLimiter, func()) {
	if !cfg.RateLimit.Enabled {
		log.Info("Ограничение частоты запросов отключено")
		return nil, func() {}
	}

	if cfg.Redis.Addr == "" {
		return rest.NewLocalRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis недоступен, используется локальный ограничитель запросов", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		rdb.Close()
		return rest.NewLocalRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), func() {}
	}

	log.Info("Используется общий ограничитель запросов в Redis", zap.String("addr", cfg.Redis.Addr))
	return rest.NewRedisRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.Name+":rl"), func() {
		if err := rdb.Close(); err != nil {
			log.Warn("Ошибка при закрытии соединения с Redis", zap.Error(err))
		}
	}
}
