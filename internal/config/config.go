package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Holiday source types
const (
	HolidaysRemote    = "remote"
	HolidaysFile      = "file"
	HolidaysComposite = "composite"
)

// Config represents application configuration
type Config struct {
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// HolidaysConfig represents holiday data source configuration
type HolidaysConfig struct {
	Type         string  `mapstructure:"type"` // "remote", "file" or "composite"
	BaseURL      string  `mapstructure:"base_url"`
	FallbackFile string  `mapstructure:"fallback_file"` // For file and composite types
	Timeout      string  `mapstructure:"timeout"`
	RatePerSec   float64 `mapstructure:"rate_per_sec"` // 0 disables limiting
	PrefetchCron string  `mapstructure:"prefetch_cron"`
}

// ScheduleConfig represents candidate generation settings
type ScheduleConfig struct {
	Locale   string `mapstructure:"locale"` // "ja" or "en"
	Timezone string `mapstructure:"timezone"`
	MaxDays  int    `mapstructure:"max_days"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Listen          string `mapstructure:"listen"`
	MaxRequests     int    `mapstructure:"max_requests"` // per IP per minute
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("holidays.type", HolidaysRemote)
	v.SetDefault("holidays.base_url", "https://holidays-jp.shogo82148.com")
	v.SetDefault("holidays.timeout", "10s")
	v.SetDefault("holidays.rate_per_sec", 2.0)
	v.SetDefault("holidays.prefetch_cron", "0 3 * * *")
	// Empty defaults register the keys so AutomaticEnv can fill them
	v.SetDefault("holidays.fallback_file", "")

	v.SetDefault("schedule.locale", "ja")
	v.SetDefault("schedule.timezone", "Asia/Tokyo")
	v.SetDefault("schedule.max_days", 366)

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.max_requests", 120)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file, .env and CANDIDATES_* environment variables.
// A missing config file is not an error when configPath is empty.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.candidate-scheduler")
		v.AddConfigPath("/etc/candidate-scheduler")
	}

	// Read environment variables
	v.SetEnvPrefix("CANDIDATES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Holidays.Type {
	case HolidaysRemote:
		if c.Holidays.BaseURL == "" {
			return fmt.Errorf("holidays.base_url is required for remote type")
		}
	case HolidaysFile:
		if c.Holidays.FallbackFile == "" {
			return fmt.Errorf("holidays.fallback_file is required for file type")
		}
	case HolidaysComposite:
		if c.Holidays.BaseURL == "" {
			return fmt.Errorf("holidays.base_url is required for composite type")
		}
		if c.Holidays.FallbackFile == "" {
			return fmt.Errorf("holidays.fallback_file is required for composite type")
		}
	default:
		return fmt.Errorf("holidays.type must be 'remote', 'file' or 'composite', got '%s'", c.Holidays.Type)
	}
	if c.Holidays.RatePerSec < 0 {
		return fmt.Errorf("holidays.rate_per_sec must not be negative")
	}
	if c.Holidays.PrefetchCron != "" {
		if _, err := cron.ParseStandard(c.Holidays.PrefetchCron); err != nil {
			return fmt.Errorf("holidays.prefetch_cron is invalid: %w", err)
		}
	}

	if c.Schedule.Locale != "ja" && c.Schedule.Locale != "en" {
		return fmt.Errorf("schedule.locale must be 'ja' or 'en', got '%s'", c.Schedule.Locale)
	}
	if _, err := c.Schedule.GetLocation(); err != nil {
		return err
	}
	if c.Schedule.MaxDays < 0 {
		return fmt.Errorf("schedule.max_days must not be negative")
	}

	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Server.MaxRequests < 0 {
		return fmt.Errorf("server.max_requests must not be negative")
	}

	return nil
}

// GetTimeout returns the holiday fetch timeout
func (c *HolidaysConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// GetLocation returns the timezone that dates are interpreted in
func (c *ScheduleConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule.timezone is invalid: %w", err)
	}
	return loc, nil
}

// GetShutdownTimeout returns the graceful shutdown timeout
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	if c.ShutdownTimeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Holidays.BaseURL = os.ExpandEnv(c.Holidays.BaseURL)
	c.Holidays.FallbackFile = os.ExpandEnv(c.Holidays.FallbackFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
