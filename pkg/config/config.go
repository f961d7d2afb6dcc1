package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string `mapstructure:"PGSQL_URL"`
	Port          string `mapstructure:"PORT"`
	IsProduction  bool   `mapstructure:"IS_PRODUCTION"`
	RateLimit     string `mapstructure:"RATE_LIMIT"`
	CORSOrigins   []string
	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`
}

// LoadConfig loads configuration from environment variables, reading a .env file
// first if one is present.
func LoadConfig() (*Config, error) {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("MIGRATIONS_DIR", "file://migrations")
	v.SetDefault("CORS_ORIGINS", "*")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:   v.GetString("PGSQL_URL"),
		Port:          v.GetString("PORT"),
		IsProduction:  v.GetBool("IS_PRODUCTION"),
		RateLimit:     v.GetString("RATE_LIMIT"),
		CORSOrigins:   v.GetStringSlice("CORS_ORIGINS"),
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable is not set")
	}
	return cfg, nil
}
