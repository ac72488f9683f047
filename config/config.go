package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Name        string
	Version     string
	LogLevel    string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	JWT         JWTConfig
	S3          S3Config
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Tracing     TracingConfig
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxHeaderMB  int
}

type PostgresConfig struct {
	Host               string
	Port               string
	Username           string
	Password           string
	DBName             string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxLifetime        time.Duration
	SlowQuery          time.Duration
	MigrationsDir      string
}

type JWTConfig struct {
	SigningKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// RedisConfig is optional: an empty Addr keeps rate limiting in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
	FailOpen bool
}

type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRatio  float64
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "agenda")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("HTTP_READ_TIMEOUT", "10s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "10s")
	v.SetDefault("HTTP_MAX_HEADER_MB", 1)

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "agenda")
	v.SetDefault("POSTGRES_SSL_MODE", "disable")
	v.SetDefault("POSTGRES_MAX_CONNECTIONS", 10)
	v.SetDefault("POSTGRES_MAX_IDLE_CONNECTIONS", 5)
	v.SetDefault("POSTGRES_MAX_LIFETIME", "5m")
	v.SetDefault("POSTGRES_SLOW_QUERY", "200ms")
	v.SetDefault("POSTGRES_MIGRATIONS_DIR", "./migrations")

	v.SetDefault("JWT_SIGNING_KEY", "your_secret_key")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TOKEN_TTL", "720h")

	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "agenda")
	v.SetDefault("S3_USE_SSL", true)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS", 120)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("RATE_LIMIT_FAIL_OPEN", true)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SAMPLING_RATIO", 1.0)
}

func fromViper(v *viper.Viper) (*Config, error) {
	durations := map[string]time.Duration{}
	for _, key := range []string{
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"POSTGRES_MAX_LIFETIME",
		"POSTGRES_SLOW_QUERY",
		"JWT_ACCESS_TOKEN_TTL",
		"JWT_REFRESH_TOKEN_TTL",
		"RATE_LIMIT_WINDOW",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("неверное значение %s: %w", key, err)
		}
		durations[key] = d
	}

	sampleRatio := v.GetFloat64("OTEL_SAMPLING_RATIO")
	if sampleRatio < 0 || sampleRatio > 1 {
		return nil, fmt.Errorf("OTEL_SAMPLING_RATIO должен быть в диапазоне [0, 1]: %v", sampleRatio)
	}

	return &Config{
		Environment: v.GetString("APP_ENV"),
		Name:        v.GetString("APP_NAME"),
		Version:     v.GetString("APP_VERSION"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Port:         v.GetString("HTTP_PORT"),
			ReadTimeout:  durations["HTTP_READ_TIMEOUT"],
			WriteTimeout: durations["HTTP_WRITE_TIMEOUT"],
			MaxHeaderMB:  v.GetInt("HTTP_MAX_HEADER_MB"),
		},
		Postgres: PostgresConfig{
			Host:               v.GetString("POSTGRES_HOST"),
			Port:               v.GetString("POSTGRES_PORT"),
			Username:           v.GetString("POSTGRES_USER"),
			Password:           v.GetString("POSTGRES_PASSWORD"),
			DBName:             v.GetString("POSTGRES_DB"),
			SSLMode:            v.GetString("POSTGRES_SSL_MODE"),
			MaxConnections:     v.GetInt("POSTGRES_MAX_CONNECTIONS"),
			MaxIdleConnections: v.GetInt("POSTGRES_MAX_IDLE_CONNECTIONS"),
			MaxLifetime:        durations["POSTGRES_MAX_LIFETIME"],
			SlowQuery:          durations["POSTGRES_SLOW_QUERY"],
			MigrationsDir:      v.GetString("POSTGRES_MIGRATIONS_DIR"),
		},
		JWT: JWTConfig{
			SigningKey:      v.GetString("JWT_SIGNING_KEY"),
			AccessTokenTTL:  durations["JWT_ACCESS_TOKEN_TTL"],
			RefreshTokenTTL: durations["JWT_REFRESH_TOKEN_TTL"],
		},
		S3: S3Config{
			Endpoint:        v.GetString("S3_ENDPOINT"),
			Region:          v.GetString("S3_REGION"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("S3_BUCKET"),
			UseSSL:          v.GetBool("S3_USE_SSL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   durations["RATE_LIMIT_WINDOW"],
			FailOpen: v.GetBool("RATE_LIMIT_FAIL_OPEN"),
		},
		Tracing: TracingConfig{
			Enabled:      v.GetBool("OTEL_ENABLED"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SampleRatio:  sampleRatio,
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
