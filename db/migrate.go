// Package db holds the database schema and applies it on startup.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// migration urls
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

// EmbeddedURL selects the migrations compiled into the binary.
const EmbeddedURL = "embed"

//go:embed migration/*.sql
var migrations embed.FS

// Migrate brings the schema up to date. url is either EmbeddedURL or a golang-migrate
// source url such as file://db/migration.
func Migrate(conn *sql.DB, url string, l *zerolog.Logger) error {
	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	var m *migrate.Migrate

	if url == "" || url == EmbeddedURL {
		src, err := iofs.New(migrations, "migration")
		if err != nil {
			return fmt.Errorf("open embedded migrations: %w", err)
		}

		m, err = migrate.NewWithInstance("iofs", src, "postgres", driver)
		if err != nil {
			return fmt.Errorf("create migration instance: %w", err)
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance(url, "postgres", driver)
		if err != nil {
			return fmt.Errorf("create migration instance: %w", err)
		}
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			l.Info().Msg("no new migrations")
			return nil
		}

		var dirtyErr migrate.ErrDirty
		if errors.As(err, &dirtyErr) {
			return fmt.Errorf("migration failed: dirty database version %d", dirtyErr.Version)
		}

		return fmt.Errorf("migration failed: %w", err)
	}

	l.Info().Msg("migrations applied")

	return nil
}
