// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	RabbitMQ RabbitMQConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Server   ServerConfig
	Catalog  CatalogConfig
	Bot      BotConfig
	Auth     AuthConfig
	Redis    RedisConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	Mode            string
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
	AutoMigrate    bool
}

// URL returns the plain connection URL used by migrations.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// DSN builds the pgx connection string including pool settings.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"%s&pool_max_conns=%d&pool_min_conns=%d&pool_max_conn_idle_time=%s&pool_max_conn_lifetime=%s",
		c.URL(), c.MaxConnections, c.MinConnections, c.MaxIdleTime, c.MaxLifetime,
	)
}

// RabbitMQConfig contains RabbitMQ connection and change-event configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Enabled    bool
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	BindingKey string
	Port       int
}

// URL returns the AMQP connection URL.
func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Password, c.Host, c.Port)
}

// CatalogConfig contains the in-memory channel catalog settings.
type CatalogConfig struct {
	InitialTotal int
	PageSize     int
	MaxPageSize  int
	Seed         int64
}

// RedisConfig contains the track metadata cache settings.
type RedisConfig struct {
	Enabled  bool
	URL      string
	TrackTTL time.Duration
}

// BotConfig contains the music bot settings.
type BotConfig struct {
	Prefix         string
	YouTubeAPIKey  string
	OEmbedURL      string
	ResolveTimeout time.Duration
}

// AuthConfig lists the accepted bearer tokens as "token:uid[:email]".
type AuthConfig struct {
	Tokens []string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("invalid catalog.pagesize: %d", c.Catalog.PageSize)
	}
	if c.Catalog.MaxPageSize < c.Catalog.PageSize {
		return fmt.Errorf("catalog.maxpagesize (%d) must be >= catalog.pagesize (%d)",
			c.Catalog.MaxPageSize, c.Catalog.PageSize)
	}
	if c.Catalog.InitialTotal < 0 {
		return fmt.Errorf("invalid catalog.initialtotal: %d", c.Catalog.InitialTotal)
	}
	if c.Bot.Prefix == "" {
		return fmt.Errorf("bot.prefix must not be empty")
	}
	return nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)
	viper.SetDefault("server.mode", "release")

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "corvid")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 2)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.automigrate", true)

	// RabbitMQ
	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "corvid.events")
	viper.SetDefault("rabbitmq.queue", "corvid.events.all")
	viper.SetDefault("rabbitmq.bindingkey", "#")

	// Redis
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.trackttl", 24*time.Hour)

	// Catalog
	viper.SetDefault("catalog.initialtotal", 50)
	viper.SetDefault("catalog.pagesize", 10)
	viper.SetDefault("catalog.maxpagesize", 100)
	viper.SetDefault("catalog.seed", 0)

	// Bot
	viper.SetDefault("bot.prefix", "!")
	viper.SetDefault("bot.youtubeapikey", "")
	viper.SetDefault("bot.oembedurl", "https://www.youtube.com/oembed")
	viper.SetDefault("bot.resolvetimeout", 10*time.Second)

	// Auth
	viper.SetDefault("auth.tokens", []string{})

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
