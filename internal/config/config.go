package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/calendrier-api/internal/calendar"
	"github.com/username/calendrier-api/internal/holidays"
)

// Config represents application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig represents HTTP listener configuration
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
	Mode            string `mapstructure:"mode"` // gin mode: "release", "debug" or "test"
}

// CalendarConfig represents year resolution rules
type CalendarConfig struct {
	DefaultYear int    `mapstructure:"default_year"`
	ParsePolicy string `mapstructure:"parse_policy"` // "lenient-int-or-default" or "strict"
}

// ScraperConfig represents the holiday provider configuration
type ScraperConfig struct {
	BaseURL   string `mapstructure:"base_url"` // Must contain {year}
	UserAgent string `mapstructure:"user_agent"`
	Timeout   string `mapstructure:"timeout"` // Empty: no client timeout
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.mode", "release")
	v.SetDefault("calendar.default_year", calendar.DefaultYear)
	v.SetDefault("calendar.parse_policy", string(calendar.ParseLenient))
	v.SetDefault("scraper.base_url", holidays.DefaultBaseURL)
	v.SetDefault("scraper.user_agent", holidays.DefaultUserAgent)
	v.SetDefault("scraper.timeout", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file and environment. Without an explicit
// path a missing config file is not an error: defaults and environment apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.calendrier-api")
		v.AddConfigPath("/etc/calendrier-api")
	}

	// CALENDRIER_SERVER_PORT, CALENDRIER_SCRAPER_BASE_URL, ...
	v.SetEnvPrefix("calendrier")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Bare PORT, as set by most hosting platforms
	if err := v.BindEnv("server.port", "CALENDRIER_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind PORT: %w", err)
	}

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

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Server.Mode {
	case "", "release", "debug", "test":
	default:
		return fmt.Errorf("server.mode must be 'release', 'debug' or 'test', got '%s'", c.Server.Mode)
	}

	if _, err := calendar.ParsePolicyFromString(c.Calendar.ParsePolicy); err != nil {
		return fmt.Errorf("calendar.parse_policy: %w", err)
	}

	if !strings.Contains(c.Scraper.BaseURL, "{year}") {
		return fmt.Errorf("scraper.base_url must contain {year}")
	}

	if c.Scraper.Timeout != "" {
		if _, err := time.ParseDuration(c.Scraper.Timeout); err != nil {
			return fmt.Errorf("scraper.timeout: %w", err)
		}
	}

	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetShutdownTimeout returns graceful shutdown timeout duration
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

// YearPolicy returns the configured year resolution policy
func (c *CalendarConfig) YearPolicy() calendar.YearPolicy {
	policy, err := calendar.ParsePolicyFromString(c.ParsePolicy)
	if err != nil {
		policy = calendar.ParseLenient
	}
	defaultYear := c.DefaultYear
	if defaultYear == 0 {
		defaultYear = calendar.DefaultYear
	}
	return calendar.YearPolicy{DefaultYear: defaultYear, Parse: policy}
}

// GetTimeout returns the scraper client timeout; zero means none
func (c *ScraperConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return duration
}

// ClientConfig converts the section into the holidays client configuration
func (c *ScraperConfig) ClientConfig() holidays.ScraperConfig {
	return holidays.ScraperConfig{
		BaseURL:   c.BaseURL,
		UserAgent: c.UserAgent,
		Timeout:   c.GetTimeout(),
	}
}
