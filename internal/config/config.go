package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Operating modes. Development issues non-expiring auth tokens and relaxes
// the CORS allow-list; production enforces both.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `json:"server"`
	Auth      AuthConfig      `json:"auth"`
	Ethereum  ProviderConfig  `json:"ethereum"`
	Rates     ProviderConfig  `json:"rates"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Cache     CacheConfig     `json:"cache"`
	Logging   LoggingConfig   `json:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string        `json:"port"`
	Host           string        `json:"host"`
	Mode           string        `json:"mode"`
	AllowedOrigins []string      `json:"allowed_origins"`
	ReadTimeout    time.Duration `json:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout"`
	IdleTimeout    time.Duration `json:"idle_timeout"`
}

// AuthConfig holds token issuance and verification configuration.
// SigningSecret signs credentials; ValidationSecret is the shared secret a
// client must present to obtain one, echoed back inside the token claim.
type AuthConfig struct {
	SigningSecret    string        `json:"-"`
	ValidationSecret string        `json:"-"`
	TokenTTL         time.Duration `json:"token_ttl"`
}

// ProviderConfig holds configuration for one upstream provider
type ProviderConfig struct {
	BaseURL string        `json:"base_url"`
	APIKey  string        `json:"-"`
	Timeout time.Duration `json:"timeout"`
}

// CategoryLimit holds the ceiling and window for one rate-limit category
type CategoryLimit struct {
	Requests int           `json:"requests"`
	Window   time.Duration `json:"window"`
}

// RateLimitConfig holds per-category rate limiting configuration
type RateLimitConfig struct {
	Auth            CategoryLimit `json:"auth"`
	Blockchain      CategoryLimit `json:"blockchain"`
	Rates           CategoryLimit `json:"rates"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// CacheConfig holds rate-sheet cache configuration
type CacheConfig struct {
	TTL             time.Duration `json:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string   `json:"level"`
	Environment string   `json:"environment"`
	OutputPaths []string `json:"output_paths"`
}

// LoadConfig loads configuration from a .env file (if present) and
// environment variables with defaults
func LoadConfig() *Config {
	// A missing .env file is fine; plain environment variables still apply.
	_ = godotenv.Load()

	mode := getEnv("GATEWAY_MODE", ModeDevelopment)

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Mode:           mode,
			AllowedOrigins: allowedOrigins(mode),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			SigningSecret:    getEnv("SECRET_KEY", ""),
			ValidationSecret: getEnv("VALIDATION_KEY", ""),
			TokenTTL:         getDurationEnv("AUTH_TOKEN_TTL", time.Hour),
		},
		Ethereum: ProviderConfig{
			BaseURL: getEnv("ETHEREUM_API_URL", "https://api.etherscan.io/api"),
			APIKey:  getEnv("ETHEREUM_API_KEY", ""),
			Timeout: getDurationEnv("ETHEREUM_API_TIMEOUT", 30*time.Second),
		},
		Rates: ProviderConfig{
			BaseURL: getEnv("RATES_API_URL", "https://openexchangerates.org/api"),
			APIKey:  getEnv("RATES_API_KEY", ""),
			Timeout: getDurationEnv("RATES_API_TIMEOUT", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			Auth: CategoryLimit{
				Requests: getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 15),
				Window:   getDurationEnv("RATE_LIMIT_AUTH_WINDOW", 15*time.Minute),
			},
			Blockchain: CategoryLimit{
				Requests: getIntEnv("RATE_LIMIT_BLOCKCHAIN_REQUESTS", 10),
				Window:   getDurationEnv("RATE_LIMIT_BLOCKCHAIN_WINDOW", 5*time.Minute),
			},
			Rates: CategoryLimit{
				Requests: getIntEnv("RATE_LIMIT_RATES_REQUESTS", 2),
				Window:   getDurationEnv("RATE_LIMIT_RATES_WINDOW", time.Hour),
			},
			CleanupInterval: getDurationEnv("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		},
		Cache: CacheConfig{
			TTL:             getDurationEnv("CACHE_TTL", 5*time.Minute),
			CleanupInterval: getDurationEnv("CACHE_CLEANUP_INTERVAL", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("LOG_ENVIRONMENT", mode),
			OutputPaths: getStringSliceEnv("LOG_OUTPUT_PATHS", []string{"stdout"}),
		},
	}
}

// IsDevelopment reports whether the gateway runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == ModeDevelopment
}

// allowedOrigins resolves the CORS allow-list for the given mode.
// Development serves the local client URL; production the deployed one.
func allowedOrigins(mode string) []string {
	var raw string
	if mode == ModeDevelopment {
		raw = getEnv("CLIENT_URL_LOCAL", "http://localhost:3000")
	} else {
		raw = getEnv("CLIENT_URL", "")
	}

	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
