package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	MetricsPort string

	PostgresConnStr string
	MongoURI        string
	MongoDatabase   string

	JWTSecret string
	TokenTTL  time.Duration

	// PostTTL is how long a post lives before the store purges it.
	PostTTL time.Duration
	// NotifyTimeout bounds the best-effort notification writes of one request.
	NotifyTimeout time.Duration

	Redis struct {
		Addr      string
		Password  string
		DB        int
		UnreadTTL time.Duration
	}

	Log struct {
		Level     string
		Format    string
		Component string
	}
}

// Load reads configuration from the environment, loading a .env file first if present.
func Load() *Config {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "pulse"),
		JWTSecret:       getEnv("JWT_SECRET", "supersecretjwtkey"),
		TokenTTL:        getDuration("TOKEN_TTL", 7*24*time.Hour),
		PostTTL:         getDuration("POST_TTL", 24*time.Hour),
		NotifyTimeout:   getDuration("NOTIFY_TIMEOUT", 5*time.Second),
	}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	if n, err := strconv.Atoi(getEnv("REDIS_DB", "0")); err == nil {
		cfg.Redis.DB = n
	}
	cfg.Redis.UnreadTTL = getDuration("UNREAD_CACHE_TTL", time.Hour)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "text")
	cfg.Log.Component = getEnv("LOG_COMPONENT", "api")

	return cfg
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
