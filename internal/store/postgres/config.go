package postgres

import (
	"fmt"

	"wallet-core/internal/config"
)

// Config holds the PostgreSQL connection settings the Store needs,
// projected out of the application's DatabaseConfig so this package
// does not depend on internal/config's full shape.
type Config struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

// FromAppConfig builds a Config from the application's DatabaseConfig.
func FromAppConfig(c config.DatabaseConfig) *Config {
	return &Config{
		Host:            c.Host,
		Port:            c.Port,
		Database:        c.Name,
		User:            c.User,
		Password:        c.Password,
		SSLMode:         c.SSLMode,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

// ConnectionString builds a PostgreSQL connection DSN.
func (c *Config) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
