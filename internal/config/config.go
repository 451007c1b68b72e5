// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTP struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Postgres struct {
	DSN      string
	MaxConns int32
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type RateLimit struct {
	Limit  int
	Window time.Duration
}

type Config struct {
	Env            string
	HTTP           HTTP
	Postgres       Postgres
	Redis          Redis
	Auth           Auth
	RateLimit      RateLimit
	IdempotencyTTL time.Duration
}

// Load reads the environment. A missing .env file is not an error;
// missing required variables are.
func Load() (*Config, error) {
	const op = "config.Load"

	_ = godotenv.Load()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("%s: POSTGRES_DSN is required", op)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("%s: JWT_SECRET is required", op)
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		HTTP: HTTP{
			Host:            getEnv("HTTP_HOST", "0.0.0.0"),
			Port:            getEnv("HTTP_PORT", "8080"),
			ReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: Postgres{
			DSN:      dsn,
			MaxConns: int32(getInt("POSTGRES_MAX_CONNS", 10)),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Auth: Auth{
			JWTSecret: secret,
			TokenTTL:  getDuration("JWT_TTL", 12*time.Hour),
		},
		RateLimit: RateLimit{
			Limit:  getInt("RATE_LIMIT_BOOKINGS", 10),
			Window: getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		IdempotencyTTL: getDuration("IDEMPOTENCY_TTL", 24*time.Hour),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
