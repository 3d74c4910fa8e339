/*
Package config loads server configuration.

SOURCES (highest precedence first):
  1. Command-line flags bound by cmd/server
  2. Environment variables prefixed DIMIGOMEAL_ (DIMIGOMEAL_PORT, DIMIGOMEAL_DB, ...)
  3. Optional config file (--config, any format viper understands)
  4. Defaults below

KEYS:
  port              HTTP port, bound on all interfaces (default 8080)
  db                SQLite database path (default ./db.db3)
  log-level         debug|info|warn|error (default info)
  init-schema       Create the meals table on startup (dev only)
  max-open-conns    Upper bound on pooled database connections
  rate-limit        Requests per second across all clients, 0 disables
  rate-burst        Rate limiter burst size
  shutdown-timeout  Grace period for in-flight requests on SIGINT/SIGTERM
  cors-origins      Allowed CORS origins
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DIMIGOMEAL"

// Config holds server configuration.
type Config struct {
	Port            int           `mapstructure:"port"`
	DBPath          string        `mapstructure:"db"`
	LogLevel        string        `mapstructure:"log-level"`
	InitSchema      bool          `mapstructure:"init-schema"`
	MaxOpenConns    int           `mapstructure:"max-open-conns"`
	RateLimit       float64       `mapstructure:"rate-limit"`
	RateBurst       int           `mapstructure:"rate-burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	CORSOrigins     []string      `mapstructure:"cors-origins"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db", "./db.db3")
	v.SetDefault("log-level", "info")
	v.SetDefault("init-schema", false)
	v.SetDefault("max-open-conns", 16)
	v.SetDefault("rate-limit", 100.0)
	v.SetDefault("rate-burst", 200)
	v.SetDefault("shutdown-timeout", 30*time.Second)
	v.SetDefault("cors-origins", []string{"*"})
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and unmarshals v into a Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("db path is required")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("rate burst must be positive when rate limiting, got %d", c.RateBurst)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %s", c.ShutdownTimeout)
	}
	return nil
}

// Addr returns the listen address, all interfaces.
func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
