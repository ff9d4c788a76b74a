package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"finance-tracker/internal/money"
)

// Config holds the settings of the finance shell.
type Config struct {
	DBPath         string `mapstructure:"db_path"`
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Locale         string `mapstructure:"locale"`
	Timezone       string `mapstructure:"timezone"`
	BcryptCost     int    `mapstructure:"bcrypt_cost"`
}

// DefaultDBPath is used when nothing else names the store file.
const DefaultDBPath = "finance.db"

// LoadEnvFile loads a .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Load reads configuration from defaults, an optional YAML file and
// FINANCE_* environment variables, in increasing priority. When path is
// empty, ./finance.yaml is read if it exists.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("currency_symbol", money.DefaultSymbol)
	v.SetDefault("locale", money.DefaultLocale)
	v.SetDefault("timezone", "Local")
	v.SetDefault("bcrypt_cost", bcrypt.DefaultCost)

	v.SetEnvPrefix("FINANCE")
	v.AutomaticEnv()
	// DB_PATH is still honoured for compatibility with adduser.
	if err := v.BindEnv("db_path", "FINANCE_DB_PATH", "DB_PATH"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("finance")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate returns an error listing every invalid setting.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be one of [text json]", c.LogFormat))
	}

	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.BcryptCost != 0 && (c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost) {
		errs = append(errs, fmt.Sprintf("invalid bcrypt cost %d: must be between %d and %d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
