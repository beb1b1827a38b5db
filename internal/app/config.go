package app

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/reviewloop-backend/internal/data/db"
	"github.com/yungbote/reviewloop-backend/internal/observability"
	"github.com/yungbote/reviewloop-backend/internal/platform/envutil"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
	"github.com/yungbote/reviewloop-backend/internal/platform/sendgrid"
)

const (
	QueueMemory = "memory"
	QueueRedis  = "redis"
)

type Config struct {
	Port           string
	DBDriver       string
	Postgres       db.PostgresConfig
	SQLitePath     string
	PlansFile      string
	AppBaseURL     string
	AllowedOrigins []string
	SessionHashKey string

	NotifyQueue    string
	RedisAddr      string
	NotifyQueueKey string
	NotifyWorkers  int
	NotifyBuffer   int
	SendTimeout    time.Duration

	SendGrid sendgrid.Config
	Otel     observability.OtelConfig
	Metrics  observability.MetricsConfig
}

// LoadDotEnv loads .env into the process environment when present.
func LoadDotEnv(log *logger.Logger) {
	if err := godotenv.Load(); err != nil && log != nil {
		log.Debug("No .env file loaded", "error", err)
	}
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:           envutil.String("PORT", "8080", log),
		DBDriver:       strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres, log)),
		Postgres:       db.PostgresConfigFromEnv(log),
		SQLitePath:     envutil.String("SQLITE_PATH", "reviewloop.db", log),
		PlansFile:      envutil.String("PLANS_FILE", "", log),
		AppBaseURL:     envutil.String("APP_BASE_URL", "http://localhost:3000", log),
		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		SessionHashKey: envutil.String("SESSION_HASH_KEY", "", nil),

		NotifyQueue:    strings.ToLower(envutil.String("NOTIFY_QUEUE", QueueMemory, log)),
		RedisAddr:      envutil.String("REDIS_ADDR", "localhost:6379", log),
		NotifyQueueKey: envutil.String("NOTIFY_QUEUE_KEY", "", log),
		NotifyWorkers:  envutil.Int("NOTIFY_WORKERS", 2),
		NotifyBuffer:   envutil.Int("NOTIFY_BUFFER", 1024),
		SendTimeout:    envutil.Duration("NOTIFY_SEND_TIMEOUT", 60*time.Second),

		SendGrid: sendgrid.ConfigFromEnv(),
		Otel:     observability.OtelConfigFromEnv(log),
		Metrics:  observability.MetricsConfigFromEnv(log),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
