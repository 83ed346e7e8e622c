// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"database/sql"
	"testing"

	"github.com/go-petr/pet-economy/db"
	"github.com/go-petr/pet-economy/pkg/dbpkg"
	"github.com/rs/zerolog"
)

// SetupDB connects to the test database, applies the schema and truncates every table
// once the test is done.
func SetupDB(t *testing.T, driver, source string) *sql.DB {
	t.Helper()

	conn, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	l := zerolog.Nop()
	if err := db.Migrate(conn, db.EmbeddedURL, &l); err != nil {
		t.Fatalf("db.Migrate() returned error: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, conn)

		if err := conn.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return conn
}

// Flush flushes all db tables without dropping them.
func Flush(t *testing.T, conn *sql.DB) {
	t.Helper()

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables
	WHERE table_schema = 'public' AND table_name <> 'schema_migrations';`

	var tables sql.NullString
	if err := conn.QueryRow(query).Scan(&tables); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	if !tables.Valid {
		return
	}

	if _, err := conn.Exec(`TRUNCATE TABLE ` + tables.String + " RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupTX sets up a database transaction to be used in tests.
//
// Once the test is done it rolls the transaction back.
func SetupTX(t *testing.T, driver, source string) *sql.Tx {
	t.Helper()

	conn, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		t.Fatalf("conn.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Fatalf("tx.Rollback() failed: %v", err)
		}

		if err := conn.Close(); err != nil {
			t.Fatalf("conn.Close() failed: %v", err)
		}
	})

	return tx
}
