package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	CatAPIKey      string        `mapstructure:"CAT_API_KEY"`
	CatAPIBaseURL  string        `mapstructure:"CAT_API_BASE_URL"`
	CatAPITimeout  time.Duration `mapstructure:"CAT_API_TIMEOUT"`
	HTTPAddr       string        `mapstructure:"HTTP_ADDR"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DatabaseDriver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.CatAPIBaseURL, validation.Required),
		validation.Field(&c.CatAPITimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
	)
}

// Load reads configuration from a .env file in dir and from environment
// variables. Environment variables win over the file. A missing .env
// file is not an error.
func Load(dir string) (*Config, bool, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("CAT_API_KEY", "")
	v.SetDefault("CAT_API_BASE_URL", "https://api.thecatapi.com/v1")
	v.SetDefault("CAT_API_TIMEOUT", "15s")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, false, fmt.Errorf("read .env: %w", err)
		}
		fileFound = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fileFound, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fileFound, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, fileFound, nil
}
