package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fieldforge/servicedesk/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Platform PlatformConfig
	Session  SessionConfig

	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes)
	HealthPort string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds redis configuration for the session store
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// PlatformConfig holds the tenant-resolution environment values. Both may
// be absent; resolution falls back to defaults rather than failing.
type PlatformConfig struct {
	// TLD is the platform top-level domain label.
	TLD string
	// AdminWorkspace is the reserved platform-admin workspace label.
	AdminWorkspace string
	// OperatorTenantID is the platform operator's own tenant id.
	OperatorTenantID int64
}

// SessionConfig holds session cookie settings
type SessionConfig struct {
	SigningKey string
	CookieName string
	TTL        time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVICEDESK_HOST", "0.0.0.0"),
			Port:            getEnv("SERVICEDESK_PORT", "8080"),
			ReadTimeout:     getEnvDuration("SERVICEDESK_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVICEDESK_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVICEDESK_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVICEDESK_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("SERVICEDESK_HEALTH_PORT", "9090"),
		},
		Database: DatabaseConfig{
			URL:          getEnv("SERVICEDESK_POSTGRES_URL", ""),
			MaxOpenConns: getEnvInt("SERVICEDESK_POSTGRES_MAX_CONNS", 25),
			MaxIdleConns: getEnvInt("SERVICEDESK_POSTGRES_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:      getEnv("SERVICEDESK_REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("SERVICEDESK_REDIS_PASSWORD", ""),
			DB:       getEnvInt("SERVICEDESK_REDIS_DB", 0),
		},
		Platform: PlatformConfig{
			TLD:              getEnv("SERVICEDESK_PLATFORM_TLD", ""),
			AdminWorkspace:   getEnv("SERVICEDESK_ADMIN_WORKSPACE", ""),
			OperatorTenantID: getEnvInt64("SERVICEDESK_OPERATOR_TENANT_ID", 1),
		},
		Session: SessionConfig{
			SigningKey: getEnv("SERVICEDESK_SESSION_KEY", ""),
			CookieName: getEnv("SERVICEDESK_SESSION_COOKIE", "sd_session"),
			TTL:        getEnvDuration("SERVICEDESK_SESSION_TTL", 24*time.Hour),
		},
		Observability: ObservabilityConfig{
			LogLevel:       parseLogLevel(getEnv("SERVICEDESK_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("SERVICEDESK_METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("postgres URL is required")
	}
	if c.Session.SigningKey == "" {
		return fmt.Errorf("session signing key is required")
	}
	return nil
}

func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable value or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable value or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable value or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
