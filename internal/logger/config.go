package logger

import (
	"os"
	"strconv"
)

// LoadFromEnv overlays LOG_* environment variables on base (or the defaults
// when base is nil). Environment values win over configuration file values.
func LoadFromEnv(base *Config) *Config {
	cfg := DefaultConfig()
	if base != nil {
		c := *base
		cfg = &c
	}

	cfg.Level = getEnv("LOG_LEVEL", cfg.Level)
	cfg.Format = getEnv("LOG_FORMAT", cfg.Format)
	cfg.File = getEnv("LOG_FILE", cfg.File)
	cfg.MaxSize = getEnvInt("LOG_MAX_SIZE", cfg.MaxSize)
	cfg.MaxBackups = getEnvInt("LOG_MAX_BACKUPS", cfg.MaxBackups)
	cfg.MaxAge = getEnvInt("LOG_MAX_AGE", cfg.MaxAge)
	cfg.Compress = getEnvBool("LOG_COMPRESS", cfg.Compress)
	return cfg
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvBool gets a boolean environment variable with a default value.
func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// NewFromEnv builds a logger from base overlaid with LOG_* environment variables.
func NewFromEnv(base *Config) *Logger {
	return New(LoadFromEnv(base))
}
