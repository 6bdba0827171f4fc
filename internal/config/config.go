// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Backend  BackendConfig  `yaml:"backend" mapstructure:"backend"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	Refresh  RefreshConfig  `yaml:"refresh" mapstructure:"refresh"`
	Calendar CalendarConfig `yaml:"calendar" mapstructure:"calendar"`
	Session  SessionConfig  `yaml:"session" mapstructure:"session"`
}

type BackendConfig struct {
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RateLimit float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int           `yaml:"burst" mapstructure:"burst"`
}

type ServerConfig struct {
	Host        string   `yaml:"host" mapstructure:"host"`
	Port        string   `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst       int      `yaml:"burst" mapstructure:"burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

type LoggingConfig struct {
	Development bool `yaml:"development" mapstructure:"development"`
}

type RefreshConfig struct {
	NotificationsInterval time.Duration `yaml:"notifications_interval" mapstructure:"notifications_interval"`
	CommentWorkers        int           `yaml:"comment_workers" mapstructure:"comment_workers"`
}

type CalendarConfig struct {
	Location string `yaml:"location" mapstructure:"location"`
}

type SessionConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

const envPrefix = "TASKBOARD"

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:4567")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("backend.rate_limit", 0)
	v.SetDefault("backend.burst", 1)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.rate_limit", 10)
	v.SetDefault("server.burst", 20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("logging.development", false)
	v.SetDefault("refresh.notifications_interval", 30*time.Second)
	v.SetDefault("refresh.comment_workers", 8)
	v.SetDefault("calendar.location", "Local")
	v.SetDefault("session.path", defaultSessionPath())
}

// Load reads defaults, then the config file (explicit path or
// ~/.config/taskboard/config.yaml when present), then TASKBOARD_* env vars.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Refresh.CommentWorkers <= 0 {
		c.Refresh.CommentWorkers = 1
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// Location resolves calendar.location; "today" and the calendar grid use it.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Calendar.Location)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("calendar.location %q: %w", name, err)
	}
	return loc, nil
}

func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "taskboard")
	}
	return ".taskboard"
}

func defaultSessionPath() string {
	return filepath.Join(DefaultDir(), "session.json")
}
