package config

import (
	"os"
	"strconv"
	"time"

	"battle_arena/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string // empty runs the arena memory-only
	JWTSecret   string

	AllowedOrigin string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Matchmaking and combat pacing
	QueueTick time.Duration
	TurnTime  time.Duration

	APIRateLimit  int
	APIRateWindow time.Duration
}

// Load reads configuration from the environment, .env included.
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	queueTick := 2000 * time.Millisecond
	if v := os.Getenv("QUEUE_TICK_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			queueTick = time.Duration(n) * time.Millisecond
		}
	}

	turnTime := 15 * time.Second
	if v := os.Getenv("TURN_TIME_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			turnTime = time.Duration(n) * time.Second
		}
	}

	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	return &Config{
		AppPort:       port,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     jwtSecret,
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		QueueTick:     queueTick,
		TurnTime:      turnTime,
		APIRateLimit:  apiRateLimit,
		APIRateWindow: apiRateWindow,
	}
}
