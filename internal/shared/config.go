package shared

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	StoreBackend  string // memory|sqlite|mysql|redis
	SQLitePath    string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	KVPrefix      string
	StrictRooms   bool
	SeedDemo      bool
	DefaultCity   string
	RateLimitRPS  int
	QueryPageSize int
	AdminPageSize int
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
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		StoreBackend:  strings.ToLower(env("STORE_BACKEND", "sqlite")),
		SQLitePath:    env("SQLITE_PATH", "data/easystay.db"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/easystay?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		KVPrefix:      env("KV_PREFIX", "HOTEL_APP_"),
		StrictRooms:   boolean("STRICT_ROOMS", true),
		SeedDemo:      boolean("SEED_DEMO", false),
		DefaultCity:   env("DEFAULT_CITY", "上海"),
		RateLimitRPS:  atoi("RATE_LIMIT_RPS", 20),
		QueryPageSize: atoi("QUERY_PAGE_SIZE", 5),
		AdminPageSize: atoi("ADMIN_PAGE_SIZE", 10),
	}
	switch c.StoreBackend {
	case "memory", "sqlite", "mysql", "redis":
	default:
		log.Warn().Str("backend", c.StoreBackend).Msg("unknown STORE_BACKEND, using sqlite")
		c.StoreBackend = "sqlite"
	}
	if c.StoreBackend == "memory" {
		log.Warn().Msg("STORE_BACKEND=memory: listings are lost on restart")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
