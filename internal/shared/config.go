package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
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

	JWTSecret string
	JWTTTL    time.Duration

	CacheTTL time.Duration

	RateLimitRPS   int
	RateLimitBurst int

	ResizeWorkers int
	ResizeTimeout time.Duration
	ResizeWidths  []int
	MediaDir      string
}

func Load() Config {
	// .env is optional; real env vars win either way.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/staybook?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		JWTSecret:      env("JWT_SECRET", ""),
		JWTTTL:         time.Duration(atoi("JWT_TTL_MINUTES", 60*24)) * time.Minute,
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		RateLimitRPS:   atoi("RATE_LIMIT_RPS", 20),
		RateLimitBurst: atoi("RATE_LIMIT_BURST", 40),
		ResizeWorkers:  atoi("RESIZE_WORKERS", 4),
		ResizeTimeout:  time.Duration(atoi("RESIZE_TIMEOUT_SECONDS", 20)) * time.Second,
		ResizeWidths:   []int{200, 500, 1000},
		MediaDir:       env("MEDIA_DIR", "media"),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
