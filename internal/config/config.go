package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Market   MarketConfig
	AI       AIConfig
	Widget   WidgetConfig
	Security SecurityConfig
	Log      LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port   string
	Host   string
	Addr   string // Combined host:port for convenience
	APIKey string // Optional; when set, mutating routes require X-API-Key
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketConfig configures the quote and news sources.
type MarketConfig struct {
	QuoteURL       string
	NewsURL        string // fmt template, %s is replaced with the symbol
	Timeout        time.Duration
	MaxConcurrency int
}

// AIConfig configures the insight generator.
type AIConfig struct {
	Model  string
	APIKey string // fallback when no key is stored in settings
}

// WidgetConfig holds the location of the shared snapshot file.
type WidgetConfig struct {
	SnapshotPath string
}

// SecurityConfig holds the fernet key used to encrypt secrets at rest.
type SecurityConfig struct {
	SecretKey string
}

// LogConfig selects the logger flavour: "development" or "production".
type LogConfig struct {
	Env string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("MARKET_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_TIMEOUT: %w", err)
	}

	concurrency, err := strconv.Atoi(getEnv("MARKET_MAX_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_MAX_CONCURRENCY: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:   getEnv("SERVER_PORT", "5001"),
			Host:   getEnv("SERVER_HOST", "localhost"),
			APIKey: os.Getenv("API_KEY"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/folio.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Market: MarketConfig{
			QuoteURL:       getEnv("QUOTE_URL", "https://query1.finance.yahoo.com/v8/finance/chart/"),
			NewsURL:        getEnv("NEWS_URL", "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"),
			Timeout:        timeout,
			MaxConcurrency: concurrency,
		},
		AI: AIConfig{
			Model:  getEnv("AI_MODEL", "gemini-2.5-flash"),
			APIKey: os.Getenv("AI_API_KEY"),
		},
		Widget: WidgetConfig{
			SnapshotPath: getEnv("WIDGET_SNAPSHOT_PATH", "./data/widget.json"),
		},
		Security: SecurityConfig{
			SecretKey: os.Getenv("SECRET_KEY"),
		},
		Log: LogConfig{
			Env: getEnv("LOG_ENV", "development"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Market.Timeout <= 0 {
		return fmt.Errorf("market timeout must be positive, got %s", c.Market.Timeout)
	}
	if c.Market.MaxConcurrency < 1 {
		return fmt.Errorf("market max concurrency must be at least 1, got %d", c.Market.MaxConcurrency)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	switch c.Log.Env {
	case "development", "production":
	default:
		return fmt.Errorf("unknown log env %q", c.Log.Env)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
