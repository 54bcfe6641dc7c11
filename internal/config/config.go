package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	Upstream struct {
		URL        string
		Timeout    time.Duration
		Retries    int
		RetryDelay time.Duration
	}
	JWST struct {
		Host      string
		APIKey    string
		Email     string
		ProgramID string
	}
	Astro struct {
		AppID   string
		Secret  string
		BaseURL string
	}
	Legacy struct {
		Dir string
	}
	Workers struct {
		ISSEnabled   bool
		OSDREnabled  bool
		ISSInterval  time.Duration
		OSDRInterval time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8080")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "lyra")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// Вычислительный API
	cfg.Upstream.URL = getEnv("UPSTREAM_URL", "http://localhost:9000/api")
	cfg.Upstream.Timeout = getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	cfg.Upstream.Retries = getEnvAsInt("UPSTREAM_RETRIES", 3)
	cfg.Upstream.RetryDelay = getEnvAsDuration("UPSTREAM_RETRY_DELAY", 500*time.Millisecond)

	// JWST
	cfg.JWST.Host = getEnv("JWST_HOST", "https://api.jwstapi.com")
	cfg.JWST.APIKey = getEnv("JWST_API_KEY", "")
	cfg.JWST.Email = getEnv("JWST_EMAIL", "")
	cfg.JWST.ProgramID = getEnv("JWST_PROGRAM_ID", "2734")

	// Astro
	cfg.Astro.AppID = getEnv("ASTRO_APP_ID", "")
	cfg.Astro.Secret = getEnv("ASTRO_APP_SECRET", "")
	cfg.Astro.BaseURL = getEnv("ASTRO_BASE_URL", "https://api.astronomyapi.com/api/v2")

	// Legacy-каталог
	cfg.Legacy.Dir = getEnv("LEGACY_DIR", "./data/legacy")

	// Workers
	cfg.Workers.ISSEnabled = getEnvAsBool("ISS_ENABLED", true)
	cfg.Workers.OSDREnabled = getEnvAsBool("OSDR_ENABLED", true)
	cfg.Workers.ISSInterval = getEnvAsDuration("WORKER_ISS_INTERVAL", 120*time.Second)
	cfg.Workers.OSDRInterval = getEnvAsDuration("WORKER_OSDR_INTERVAL", 3600*time.Second)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
