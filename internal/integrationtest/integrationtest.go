// Package integrationtest provides db helpers used in integration tests.
//
// Tests that need postgres are skipped when the database from configs/app.env
// can't be reached.
package integrationtest

import (
	"database/sql"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// root returns the module root directory.
func root() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// LoadConfig loads the test configuration from configs/app.env.
func LoadConfig(t *testing.T) configpkg.Config {
	t.Helper()

	config, err := configpkg.Load(filepath.Join(root(), "configs"))
	if err != nil {
		t.Fatalf("configpkg.Load() returned error: %v", err)
	}

	return config
}

// SetupServer returns test server that cleans up database after each integration test.
func SetupServer(t *testing.T) *httpserver.Server {
	t.Helper()

	config := LoadConfig(t)

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	db := SetupDB(t)

	t.Cleanup(func() {
		Flush(t, db)
	})

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(db, logger, config) returned error: %v`, err)
	}

	return server
}

// Flush flushes all db tables without droping.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	var tables string

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables
	WHERE table_schema='public' AND table_name <> 'schema_migrations';`

	row := db.QueryRow(query)

	err := row.Scan(&tables)
	if err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	if _, err := db.Exec(`TRUNCATE TABLE ` + tables + " CASCADE"); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupDB sets up a migrated database connection for testing.
//
// The test is skipped when the database is unavailable.
func SetupDB(t *testing.T) *sql.DB {
	t.Helper()

	config := LoadConfig(t)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		t.Skipf("database is unavailable: %v", err)
	}

	migrateOnce.Do(func() {
		migrationURL := "file://" + filepath.ToSlash(filepath.Join(root(), "db", "migration"))
		migrateErr = dbpkg.Migrate(migrationURL, config.DBSource)
	})

	if migrateErr != nil {
		_ = db.Close()
		t.Fatalf("dbpkg.Migrate() returned error: %v", migrateErr)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db.Close() failed: %v", err)
		}
	})

	return db
}

// SetupTX sets up a database transaction to be used in tests.
//
// Once the tests are done it will rollback the transaction.
func SetupTX(t *testing.T) *sql.Tx {
	t.Helper()

	db := SetupDB(t)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("db.Begin() failed: %v", err)
	}

	// Registered after SetupDB, so it runs before the connection is closed.
	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("tx.Rollback() failed: %v", err)
		}
	})

	return tx
}
