package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	// Security configuration
	AllowedOrigins  string
	TrustedProxies  string
	EnableRateLimit bool
	RateLimitRPM    int
	MaxRequestSize  int64
	// Scoring configuration
	ScoringConfigPath string
	PhoneRegion       string
	ScoreWorkers      int
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", ""),
		TrustedProxies:    getEnv("TRUSTED_PROXIES", ""),
		EnableRateLimit:   getEnv("ENABLE_RATE_LIMIT", "true") == "true",
		RateLimitRPM:      getEnvAsInt("RATE_LIMIT_RPM", 120),
		MaxRequestSize:    getEnvAsInt64("MAX_REQUEST_SIZE", 10*1024*1024), // 10MB default
		ScoringConfigPath: getEnv("SCORING_CONFIG_PATH", ""),
		PhoneRegion:       strings.ToUpper(getEnv("PHONE_REGION", "US")),
		ScoreWorkers:      getEnvAsInt("SCORE_WORKERS", 8),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	return splitList(c.AllowedOrigins)
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	return splitList(c.TrustedProxies)
}

// IsSecurityEnabled returns true if security features should be enabled
func (c *Config) IsSecurityEnabled() bool {
	return c.IsProduction() || getEnv("ENABLE_SECURITY", "false") == "true"
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
