// Package config loads process configuration from the environment
// (and an optional .env file) using Viper, following the pack's
// convention of a typed Config struct populated by Unmarshal.
package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the wallet service.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`

	Server    ServerConfig
	Database  DatabaseConfig
	Kafka     KafkaConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Redis     RedisConfig
}

// RedisConfig holds the connection settings for the distributed rate
// limiter's backing store.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"REDIS_ENABLED"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
}

// RateLimitConfig bounds the request rate the API middleware admits.
type RateLimitConfig struct {
	RequestsPerMinute int           `mapstructure:"RATE_LIMIT_REQUESTS_PER_MINUTE"`
	Window            time.Duration `mapstructure:"-"`
}

// CORSConfig controls the CORS middleware's allowed origins/methods.
type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	AllowMethods     []string `mapstructure:"CORS_ALLOWED_METHODS"`
	AllowHeaders     []string `mapstructure:"CORS_ALLOWED_HEADERS"`
	AllowCredentials bool     `mapstructure:"CORS_ALLOW_CREDENTIALS"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string `mapstructure:"DB_HOST"`
	Port            int    `mapstructure:"DB_PORT"`
	Name            string `mapstructure:"DB_NAME"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime string `mapstructure:"DB_CONN_MAX_LIFETIME"`
	MigrationsPath  string `mapstructure:"DB_MIGRATIONS_PATH"`
}

// KafkaConfig holds event-publisher settings.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"KAFKA_ENABLED"`
	Brokers []string `mapstructure:"KAFKA_BROKERS"`
	GroupID string   `mapstructure:"KAFKA_GROUP_ID"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from the environment, falling back to a
// .env file in the working directory when present, and applies
// defaults for anything unset.
func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Println("config: no .env file found, using process environment only")
	}

	setDefaults(v)

	cfg := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Name:            v.GetString("DB_NAME"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
			MigrationsPath:  v.GetString("DB_MIGRATIONS_PATH"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("KAFKA_ENABLED"),
			Brokers: v.GetStringSlice("KAFKA_BROKERS"),
			GroupID: v.GetString("KAFKA_GROUP_ID"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: v.GetInt("RATE_LIMIT_REQUESTS_PER_MINUTE"),
			Window:            time.Minute,
		},
		CORS: CORSConfig{
			AllowOrigins:     v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowMethods:     v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowHeaders:     v.GetStringSlice("CORS_ALLOWED_HEADERS"),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "localhost")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "wallet")
	v.SetDefault("DB_USER", "wallet")
	v.SetDefault("DB_PASSWORD", "wallet")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_MIGRATIONS_PATH", "internal/store/postgres/migrations")

	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", []string{"localhost:9092"})
	v.SetDefault("KAFKA_GROUP_ID", "wallet-core")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", 100)

	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "Accept", "X-Requested-With"})
	v.SetDefault("CORS_ALLOW_CREDENTIALS", false)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
}

// ConnMaxLifetimeDuration parses DatabaseConfig.ConnMaxLifetime,
// falling back to 30 minutes on a malformed value.
func (d DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	if dur, err := time.ParseDuration(d.ConnMaxLifetime); err == nil {
		return dur
	}
	return 30 * time.Minute
}
