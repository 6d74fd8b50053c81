package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Search   SearchConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	HubLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type CacheConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

type SearchConfig struct {
	MeiliURL    string
	MeiliAPIKey string
	IndexName   string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			HubLogFilePath:     getEnv("HUB_LOG_FILE_PATH", "logs/hub.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", "memory"),
			TTL:     getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		Search: SearchConfig{
			MeiliURL:    getEnv("MEILI_URL", ""),
			MeiliAPIKey: getEnv("MEILI_API_KEY", ""),
			IndexName:   getEnv("MEILI_BOOKMARK_INDEX", "bookmarks"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds := getEnvAsInt(key, -1); seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
