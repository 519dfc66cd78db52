// Package config provides configuration for the application
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Demo      DemoConfig
	Scheduler SchedulerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string `env:"DB_HOST,required"`
	Port           int    `env:"DB_PORT,required"`
	User           string `env:"DB_USER,required"`
	Password       string `env:"DB_PASSWORD,required"`
	DBName         string `env:"DB_NAME,required"`
	MigrationsPath string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations"`
}

// RedisConfig holds Redis connection settings used by the task queue
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	// Enabled turns confirmation e-mails on; the API still works without Redis
	Enabled bool `env:"REDIS_ENABLED" envDefault:"false"`
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           int   `env:"SERVER_PORT" envDefault:"8080"`
	MaxRequestSize int64 `env:"SERVER_MAX_REQUEST_SIZE" envDefault:"10485760"`
	// PublicURL is used in e-mails to link back to the website
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:3000"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret            string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTokenExpiry time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"24h"`
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" envDefault:"localhost"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"noreply@assocosmetologie.fr"`
}

// DemoConfig controls seeding of sample data
type DemoConfig struct {
	// Enabled seeds sample events, articles and an admin account into empty tables
	Enabled       bool   `env:"DEMO_MODE" envDefault:"false"`
	AdminEmail    string `env:"DEMO_ADMIN_EMAIL" envDefault:"admin@assocosmetologie.fr"`
	AdminPassword string `env:"DEMO_ADMIN_PASSWORD"`
}

// SchedulerConfig holds the periodic job schedules, as standard five-field cron expressions
type SchedulerConfig struct {
	MarkPastCron string `env:"MARK_PAST_CRON" envDefault:"*/15 * * * *"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.CORS.AllowedOrigins = normalizeOrigins(cfg.CORS.AllowedOrigins)

	if cfg.Demo.Enabled && cfg.Demo.AdminPassword == "" {
		return nil, fmt.Errorf("DEMO_ADMIN_PASSWORD is required when DEMO_MODE is enabled")
	}

	return cfg, nil
}

// normalizeOrigins trims the configured origins and falls back to allowing all of them
func normalizeOrigins(origins []string) []string {
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			result = append(result, origin)
		}
	}
	// Default to allow all origins if not specified (for development)
	if len(result) == 0 {
		return []string{"*"}
	}
	return result
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	if c.Database.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&multiStatements=true&clientFoundRows=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the host:port address of Redis
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
