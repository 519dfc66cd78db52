package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// testDatabaseConfig mirrors DatabaseConfig with the TEST_ prefix and no required fields
type testDatabaseConfig struct {
	Host     string `env:"TEST_DB_HOST"`
	Port     int    `env:"TEST_DB_PORT" envDefault:"3306"`
	User     string `env:"TEST_DB_USER" envDefault:"root"`
	Password string `env:"TEST_DB_PASSWORD"`
	DBName   string `env:"TEST_DB_NAME" envDefault:"assocosmetologie_test"`
}

// LoadTestConfig loads the configuration for integration tests.
// When TEST_DB_HOST is not set the returned Config has an empty DSN,
// which integration tests treat as "no database available".
func LoadTestConfig() (*Config, error) {
	// .env is optional, try both the repository root and the test directory
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	var testDB testDatabaseConfig
	if err := env.Parse(&testDB); err != nil {
		return nil, fmt.Errorf("failed to parse test config: %w", err)
	}

	cfg := &Config{}
	if testDB.Host == "" {
		return cfg, nil
	}

	cfg.Database = DatabaseConfig{
		Host:           testDB.Host,
		Port:           testDB.Port,
		User:           testDB.User,
		Password:       testDB.Password,
		DBName:         testDB.DBName,
		MigrationsPath: "../../migrations",
	}
	return cfg, nil
}
