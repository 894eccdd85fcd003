package config

import (
	"fmt"
	"time"

	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	DatabaseURL     string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads an optional .env file and then the environment. An empty
// DATABASE_URL selects the in-memory store.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_TIME_FORMAT", time.RFC3339)
	v.SetDefault("LOG_OUTPUT", "stdout")

	v.AutomaticEnv()

	cfg := &Config{
		Port:            v.GetString("PORT"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		MaxUploadBytes:  v.GetInt64("MAX_UPLOAD_BYTES"),
		OpenAIAPIKey:    v.GetString("OPENAI_API_KEY"),
		OpenAIModel:     v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL:   v.GetString("OPENAI_BASE_URL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		LogTimeFormat:   v.GetString("LOG_TIME_FORMAT"),
		LogOutput:       v.GetString("LOG_OUTPUT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}
