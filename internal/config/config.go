package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env          string   `mapstructure:"ENV"`
	APIURL       string   `mapstructure:"API_URL"`
	LoginAPIURL  string   `mapstructure:"LOGIN_API_URL"`
	BotAPIURL    string   `mapstructure:"BOT_API_URL"`
	HospitalID   string   `mapstructure:"HOSPITAL_ID"`
	SessionDir   string   `mapstructure:"SESSION_DIR"`
	HTTPTimeout  int      `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	LogLevel     string   `mapstructure:"LOG_LEVEL"`
	MaxFileSize  int64    `mapstructure:"UPLOAD_MAX_FILE_SIZE"`
	MaxFiles     int      `mapstructure:"UPLOAD_MAX_FILES"`
	AllowedTypes []string `mapstructure:"UPLOAD_ALLOWED_TYPES"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetEnvPrefix("MEDSYN")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("API_URL", "http://localhost:3000/medsyn-business/api")
	v.SetDefault("LOGIN_API_URL", "http://localhost:3000/medsyn-business/api")
	v.SetDefault("BOT_API_URL", "http://localhost:3001/api")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 10485760) // 10MB
	v.SetDefault("UPLOAD_MAX_FILES", 5)
	v.SetDefault("UPLOAD_ALLOWED_TYPES", "image/jpeg,image/png,application/pdf")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("API_URL")
	v.BindEnv("LOGIN_API_URL")
	v.BindEnv("BOT_API_URL")
	v.BindEnv("HOSPITAL_ID")
	v.BindEnv("SESSION_DIR")
	v.BindEnv("HTTP_TIMEOUT_SECONDS")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("UPLOAD_MAX_FILE_SIZE")
	v.BindEnv("UPLOAD_MAX_FILES")
	v.BindEnv("UPLOAD_ALLOWED_TYPES")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.AllowedTypes == nil {
		types := v.GetString("UPLOAD_ALLOWED_TYPES")
		if types != "" {
			cfg.AllowedTypes = strings.Split(types, ",")
		}
	}

	if cfg.SessionDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.SessionDir = filepath.Join(home, ".medsyn")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// StorageKeys holds the three persisted session key names.
type StorageKeys struct {
	Token        string
	RefreshToken string
	UserProfile  string
}

// StorageKeys returns the session key names, namespaced per deployment
// environment so side-by-side installs never share state.
func (c *Config) StorageKeys() StorageKeys {
	env := c.Env
	if env == "" {
		env = "development"
	}
	return StorageKeys{
		Token:        fmt.Sprintf("medsyn_%s_auth_token", env),
		RefreshToken: fmt.Sprintf("medsyn_%s_refresh_token", env),
		UserProfile:  fmt.Sprintf("medsyn_%s_user_profile", env),
	}
}

// Validate checks that the configuration is usable. The tenant header is
// required on every API call, so a missing HOSPITAL_ID is refused up front
// rather than surfacing as backend 403s later.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API_URL is required")
	}
	if c.HospitalID == "" {
		return fmt.Errorf("HOSPITAL_ID is required (tenant scoping header)")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTPTimeout)
	}
	return nil
}
