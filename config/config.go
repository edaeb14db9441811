package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting. Values come from the environment,
// optionally seeded from a local .env file.
type Config struct {
	Port        string   `envconfig:"PORT" default:"8080"`
	DatabaseURL string   `envconfig:"DATABASE_URL"`
	DBHost      string   `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string   `envconfig:"DB_PORT" default:"5432"`
	DBUser      string   `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string   `envconfig:"DB_PASSWORD"`
	DBName      string   `envconfig:"DB_NAME" default:"controle"`
	JWTSecret   string   `envconfig:"JWT_SECRET"`
	AdminAPIKey string   `envconfig:"ADMIN_API_KEY"`
	LogFile     string   `envconfig:"LOG_FILE" default:"./logs/app.log"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AdminAPIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY is required")
	}
	return nil
}

// DSN returns the Postgres connection string, preferring DATABASE_URL.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}
