// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Insights InsightsConfig `mapstructure:"insights"`
	RAWG     RAWGConfig     `mapstructure:"rawg"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// AuthToken is the bearer token the API expects. Empty disables auth
	// (public read-only deployments behind a proxy).
	AuthToken string `mapstructure:"auth_token"`
	// UserID is the backlog owner's id; this is a single-user deployment.
	UserID int64 `mapstructure:"user_id"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// InsightsConfig holds insights computation configuration.
type InsightsConfig struct {
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	MaxKeysPerUser   int           `mapstructure:"max_keys_per_user"`
	MaxWeeklyPace    int           `mapstructure:"max_weekly_pace"`
	PersistBatchSize int           `mapstructure:"persist_batch_size"`
	// HLTBPath points at the local reference dataset file; empty disables
	// the dataset step of hours resolution.
	HLTBPath string `mapstructure:"hltb_path"`
	// HLTBUnit is the unit the dataset values are stored in:
	// hours, minutes or seconds.
	HLTBUnit string `mapstructure:"hltb_unit"`
}

// RAWGConfig holds external metadata API configuration.
type RAWGConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. SERVER_ADDR, DATABASE_HOST, RAWG_API_KEY.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.user_id", 1)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "backlog")
	v.SetDefault("database.name", "backlog")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Insights defaults
	v.SetDefault("insights.cache_ttl", "60s")
	v.SetDefault("insights.max_keys_per_user", 20)
	v.SetDefault("insights.max_weekly_pace", 200)
	v.SetDefault("insights.persist_batch_size", 25)
	v.SetDefault("insights.hltb_unit", "hours")

	// RAWG defaults
	v.SetDefault("rawg.base_url", "https://api.rawg.io/api")
	v.SetDefault("rawg.timeout", "10s")
}
