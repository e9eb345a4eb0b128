package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default values shared by LoadConfig and the zero-value normalization
const (
	DefaultServerAddress   = "127.0.0.1:8002"
	DefaultConnectTimeout  = 5 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultRefreshInterval = 5 * time.Second
	DefaultLogFile         = "/tmp/runtara-monitor.log"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddress        string
	SkipCertVerification bool
	ConnectTimeout       time.Duration
	RequestTimeout       time.Duration

	// Tenant whose metrics are shown, empty for none
	TenantID string

	// Refresh configuration
	RefreshInterval time.Duration

	// UI configuration
	Locale string

	// Logging configuration
	LogLevel string
	LogFile  string
}

// fileConfig mirrors the sections of config/default.yaml
type fileConfig struct {
	Server struct {
		Address              string        `mapstructure:"address"`
		SkipCertVerification bool          `mapstructure:"skip_cert_verification"`
		ConnectTimeout       time.Duration `mapstructure:"connect_timeout"`
		RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"server"`
	Tenant struct {
		ID string `mapstructure:"id"`
	} `mapstructure:"tenant"`
	Refresh struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"refresh"`
	UI struct {
		Locale string `mapstructure:"locale"`
	} `mapstructure:"ui"`
	Logging struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"logging"`
}

// LoadConfig loads configuration from file and environment.
// An empty configFile searches the default locations; a missing file there is not an error.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults – nested keys align with config/default.yaml
	v.SetDefault("server.address", DefaultServerAddress)
	v.SetDefault("server.skip_cert_verification", true)
	v.SetDefault("server.connect_timeout", DefaultConnectTimeout.String())
	v.SetDefault("server.request_timeout", DefaultRequestTimeout.String())

	v.SetDefault("tenant.id", "")

	v.SetDefault("refresh.interval", DefaultRefreshInterval.String())

	v.SetDefault("ui.locale", "en")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", DefaultLogFile)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.runtara-monitor")
		v.AddConfigPath("/etc/runtara-monitor")
	}

	// RUNTARA_SERVER_ADDRESS etc. via the prefix, plus the platform's own variable names
	v.SetEnvPrefix("RUNTARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.address", "RUNTARA_ENV_ADDR"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}
	if err := v.BindEnv("server.skip_cert_verification", "RUNTARA_SKIP_CERT_VERIFICATION"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}
	if err := v.BindEnv("tenant.id", "RUNTARA_TENANT_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg := &Config{
		ServerAddress:        fc.Server.Address,
		SkipCertVerification: fc.Server.SkipCertVerification,
		ConnectTimeout:       fc.Server.ConnectTimeout,
		RequestTimeout:       fc.Server.RequestTimeout,
		TenantID:             fc.Tenant.ID,
		RefreshInterval:      fc.Refresh.Interval,
		Locale:               fc.UI.Locale,
		LogLevel:             fc.Logging.Level,
		LogFile:              fc.Logging.File,
	}
	cfg.normalize()

	return cfg, nil
}

// normalize replaces zero values left by the config file or flags with defaults
func (c *Config) normalize() {
	if c.ServerAddress == "" {
		c.ServerAddress = DefaultServerAddress
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
}
