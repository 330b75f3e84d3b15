package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// Provider selection
	Provider string
	Model    string

	// API keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string
	SerpAPIKey   string

	// Record store (in-memory when the token is unset)
	NotionToken    string
	NotionDatabase string

	// Workflow
	CommandsDir    string
	WebhookBaseURL string
	TaskTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Port:           getEnvOrDefault("AGENCY_PORT", "8000"),
		LogLevel:       getEnvOrDefault("AGENCY_LOG_LEVEL", "info"),
		Provider:       getEnvOrDefault("AGENCY_PROVIDER", "openai"),
		Model:          os.Getenv("AGENCY_MODEL"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		GoogleKey:      os.Getenv("GOOGLE_API_KEY"),
		SerpAPIKey:     os.Getenv("SERPAPI_KEY"),
		NotionToken:    os.Getenv("NOTION_TOKEN"),
		NotionDatabase: os.Getenv("NOTION_DATABASE_ID"),
		CommandsDir:    getEnvOrDefault("AGENCY_COMMANDS_DIR", "commands"),
		WebhookBaseURL: os.Getenv("AGENCY_WEBHOOK_BASE_URL"),
		TaskTimeout:    getEnvDurationOrDefault("AGENCY_TASK_TIMEOUT", 5*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case "google":
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic, openai, or google)", c.Provider)
	}

	if c.NotionToken != "" && c.NotionDatabase == "" {
		return fmt.Errorf("NOTION_DATABASE_ID is required when NOTION_TOKEN is set")
	}

	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
