package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	StripeKey   string
	Currency    string
	ExpoBase    string
	PushWorkers int
	NotifyBatch int
	NotifyEvery time.Duration
	CacheTTL    time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/portal?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		StripeKey:   env("STRIPE_SECRET_KEY", ""),
		Currency:    env("PAYMENT_CURRENCY", "usd"),
		ExpoBase:    env("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		PushWorkers: atoi("PUSH_WORKERS", 4),
		NotifyBatch: atoi("NOTIFY_BATCH", 50),
		NotifyEvery: time.Duration(atoi("NOTIFY_INTERVAL_SECONDS", 15)) * time.Second,
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.StripeKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
