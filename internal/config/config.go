package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Backend    BackendConfig    `mapstructure:"backend"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Session    SessionConfig    `mapstructure:"session"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
}

// BackendConfig holds REST backend configuration
type BackendConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	Timeout              int      `mapstructure:"timeout"` // seconds
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	Proxies              []string `mapstructure:"proxies"`
}

// StorefrontConfig holds product list behaviour
type StorefrontConfig struct {
	SearchDebounce  time.Duration `mapstructure:"search_debounce"`
	NotificationTTL time.Duration `mapstructure:"notification_ttl"`
}

// SessionConfig selects where username and token are persisted
type SessionConfig struct {
	Driver string `mapstructure:"driver"` // file | redis
	File   string `mapstructure:"file"`
}

// RedisConfig holds Redis connection details for the redis session driver
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	Database  int    `mapstructure:"database"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logrus settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // used by the terminal UI
}

func (b BackendConfig) TimeoutDuration() time.Duration {
	return time.Duration(b.Timeout) * time.Second
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads config.yaml (or the given file) with environment variable overrides.
// A missing config file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must not be empty")
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")

	switch c.Session.Driver {
	case "file", "redis":
	default:
		return fmt.Errorf("unknown session driver %q", c.Session.Driver)
	}

	if c.Storefront.SearchDebounce <= 0 {
		return fmt.Errorf("storefront.search_debounce must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:8082/api/v1")
	v.SetDefault("backend.timeout", 30)
	v.SetDefault("backend.max_requests_per_second", 10)
	v.SetDefault("backend.proxies", []string{})

	v.SetDefault("storefront.search_debounce", 500*time.Millisecond)
	v.SetDefault("storefront.notification_ttl", 3*time.Second)

	v.SetDefault("session.driver", "file")
	v.SetDefault("session.file", "./session.yaml")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.key_prefix", "qkart:session:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "./qkart.log")
}
