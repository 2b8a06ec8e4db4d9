package postgres

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"wallet-core/internal/logging"
)

// RunMigrations applies every pending migration under migrationsPath
// using the pgx stdlib adapter, so the migration runner shares the
// same driver as the pool instead of pulling in lib/pq.
func RunMigrations(cfg *Config, migrationsPath string) error {
	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("postgres: open migration connection: %w", err)
	}
	defer db.Close()

	return runMigrationsWithDB(db, migrationsPath)
}

func runMigrationsWithDB(db *sql.DB, migrationsPath string) error {
	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("postgres: create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("postgres: create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("postgres: run migrations: %w", err)
	}

	logging.Info("database migrations applied", map[string]interface{}{"path": migrationsPath})
	return nil
}
