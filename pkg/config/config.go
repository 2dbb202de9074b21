package config

import (
	"os"
	"strings"
	"time"

	"github.com/grandplaza/roomvoice/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds the full runtime configuration. Every field has a default so
// the server starts without a .env file.
type Config struct {
	Addr     string `env:"ADDR"`
	Mode     string `env:"MODE"`
	DBDriver string `env:"DB_DRIVER"`
	DSN      string `env:"DSN"`

	APIPrefix string `env:"API_PREFIX"`

	Log logger.LogConfig

	// Collaborator endpoint (the guest/menu/order REST backend).
	BackendBaseURL string `env:"BACKEND_BASE_URL"`

	// Per-collaborator timeouts. Each external call carries one of these.
	MenuTimeout    time.Duration `env:"MENU_TIMEOUT"`
	GuestTimeout   time.Duration `env:"GUEST_TIMEOUT"`
	OrderTimeout   time.Duration `env:"ORDER_TIMEOUT"`
	PersistTimeout time.Duration `env:"PERSIST_TIMEOUT"`

	// MenuCacheTTL controls how long the shared catalog snapshot is reused
	// across calls before it is refetched.
	MenuCacheTTL time.Duration `env:"MENU_CACHE_TTL"`

	// RoomRetryLimit bounds the invalid-room reprompt loop.
	RoomRetryLimit int `env:"ROOM_RETRY_LIMIT"`

	// Reasoning provider settings. Providers lists the fallback order;
	// construction walks it until one succeeds.
	Providers  []string `env:"SPEECH_PROVIDERS"`
	LLMApiKey  string   `env:"LLM_API_KEY"`
	LLMBaseURL string   `env:"LLM_BASE_URL"`
	LLMModel   string   `env:"LLM_MODEL"`
}

var GlobalConfig *Config

// Load reads the optional .env file and builds the global configuration.
func Load() error {
	env := os.Getenv("APP_ENV")
	if err := loadEnvFile(env); err != nil {
		// Missing .env is fine, defaults cover everything.
		logger.Debug(".env file not loaded, using defaults")
	}

	GlobalConfig = &Config{
		Addr:      getStringOrDefault("ADDR", ":7080"),
		Mode:      getStringOrDefault("MODE", "development"),
		DBDriver:  getStringOrDefault("DB_DRIVER", "sqlite"),
		DSN:       getStringOrDefault("DSN", "./roomvoice.db"),
		APIPrefix: getStringOrDefault("API_PREFIX", "/api/v1"),
		Log: logger.LogConfig{
			Level:      getStringOrDefault("LOG_LEVEL", "info"),
			Filename:   getStringOrDefault("LOG_FILENAME", "./logs/roomvoice.log"),
			MaxSize:    getIntOrDefault("LOG_MAX_SIZE", 100),
			MaxAge:     getIntOrDefault("LOG_MAX_AGE", 30),
			MaxBackups: getIntOrDefault("LOG_MAX_BACKUPS", 5),
			Daily:      getBoolOrDefault("LOG_DAILY", true),
		},
		BackendBaseURL: getStringOrDefault("BACKEND_BASE_URL", "http://localhost:8000"),
		MenuTimeout:    getDurationOrDefault("MENU_TIMEOUT", 5*time.Second),
		GuestTimeout:   getDurationOrDefault("GUEST_TIMEOUT", 5*time.Second),
		OrderTimeout:   getDurationOrDefault("ORDER_TIMEOUT", 10*time.Second),
		PersistTimeout: getDurationOrDefault("PERSIST_TIMEOUT", 5*time.Second),
		MenuCacheTTL:   getDurationOrDefault("MENU_CACHE_TTL", 5*time.Minute),
		RoomRetryLimit: getIntOrDefault("ROOM_RETRY_LIMIT", 3),
		Providers:      getListOrDefault("SPEECH_PROVIDERS", []string{"openai"}),
		LLMApiKey:      getStringOrDefault("LLM_API_KEY", ""),
		LLMBaseURL:     getStringOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:       getStringOrDefault("LLM_MODEL", "gpt-4o-mini"),
	}
	return nil
}

func loadEnvFile(env string) error {
	if env != "" {
		if err := godotenv.Load(".env." + env); err == nil {
			return nil
		}
	}
	return godotenv.Load()
}

func getStringOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return cast.ToBool(value)
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := cast.ToIntE(value); err == nil {
		return n
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
